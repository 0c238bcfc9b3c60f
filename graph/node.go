// Package graph is the scene graph store: nodes, relations, CRDT-lite
// patches, and an append-only event log. All operations are externally
// serialized by the orchestrator; the store itself holds no lock.
package graph

import "github.com/spacxt/spacxt/geom"

// Bbox is a node's bounding box shape tag and full extents.
type Bbox struct {
	Type string    `json:"type" yaml:"type"` // e.g. "OBB"
	XYZ  geom.Vec3 `json:"xyz" yaml:"xyz"`
}

// Mobility is a node's level of mobility.
type Mobility string

const (
	Fixed  Mobility = "fixed"
	Low    Mobility = "low"
	Medium Mobility = "medium"
	High   Mobility = "high"
)

// Node is an object in the scene.
type Node struct {
	ID    string         `json:"id" yaml:"id"`
	Name  string         `json:"name" yaml:"name"`
	Class string         `json:"cls" yaml:"cls"`
	Pos   geom.Vec3      `json:"pos" yaml:"pos"`
	Ori   [4]float64     `json:"ori" yaml:"ori"` // quaternion; only axis-aligned is interpreted
	Bbox  Bbox           `json:"bbox" yaml:"bbox"`
	Aff   []string       `json:"aff,omitempty" yaml:"aff,omitempty"`
	Lom   Mobility       `json:"lom" yaml:"lom"`
	Conf  float64        `json:"conf" yaml:"conf"`
	State map[string]any `json:"state,omitempty" yaml:"state,omitempty"`
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Clone returns a deep-enough copy of n suitable for copy-on-write patch
// application: the State/Meta maps and Aff slice get their own backing
// storage so mutating the clone never touches the original.
func (n Node) Clone() Node {
	c := n
	if n.Aff != nil {
		c.Aff = append([]string(nil), n.Aff...)
	}
	if n.State != nil {
		c.State = make(map[string]any, len(n.State))
		for k, v := range n.State {
			c.State[k] = v
		}
	}
	if n.Meta != nil {
		c.Meta = make(map[string]any, len(n.Meta))
		for k, v := range n.Meta {
			c.Meta[k] = v
		}
	}
	return c
}

// PhysicsOverride reports whether state.physics_override is set truthy,
// i.e. the node is pinned and exempt from grounding/validation/gravity.
func (n Node) PhysicsOverride() bool {
	v, ok := n.State["physics_override"]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Size returns the node's bbox extents.
func (n Node) Size() geom.Vec3 { return n.Bbox.XYZ }
