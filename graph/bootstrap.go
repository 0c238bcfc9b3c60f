package graph

import "github.com/spacxt/spacxt/geom"

// BootstrapScene is the neutral, decode-format-agnostic shape of a
// bootstrap payload (§6): the bootstrap/JSON/YAML decoders produce this,
// and the store only ever sees this Go value.
type BootstrapScene struct {
	ID        string
	Name      string
	Frame     string
	Rooms     []Room
	Objects   []Node
	Relations []Relation
}

// Room is a named rectangular region of the scene.
type Room struct {
	ID   string
	Name string
	Min  geom.Vec3
	Max  geom.Vec3
}

// LoadBootstrap creates nodes from scene, forces ground alignment on every
// non-pinned node (bootstrap physics is strictly stronger than the
// per-mutation validate(): there is no temporal order to infer a stack
// from at load time), copies relations verbatim, and appends
// BOOTSTRAP_LOADED. Rooms are retained for Rooms() and Export but are not
// otherwise interpreted by the store; the command layer's `in` relations
// name a room id without checking it against this list.
func (s *Store) LoadBootstrap(scene BootstrapScene) {
	nodes := make(map[string]Node, len(scene.Objects))
	for _, n := range scene.Objects {
		size := geom.ClampExtents(n.Bbox.XYZ, s.cfg.MinExtent)
		n.Bbox.XYZ = size
		if !n.PhysicsOverride() {
			n.Pos.Z = s.cfg.GroundZ + geom.GroundedZ(size)
		}
		nodes[n.ID] = n
	}

	relations := make(map[RelKey]Relation, len(scene.Relations))
	for _, r := range scene.Relations {
		relations[r.Key()] = r
	}

	s.nodes = nodes
	s.relations = relations
	s.rooms = scene.Rooms
	s.events = append(s.events, Event{Type: BootstrapLoaded, TS: s.now()})
}

// Rooms returns the rooms loaded by the last LoadBootstrap call.
func (s *Store) Rooms() []Room { return s.rooms }
