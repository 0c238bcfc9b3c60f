package graph

import (
	"fmt"
	"sort"

	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
	"github.com/spacxt/spacxt/relate"
	"github.com/spacxt/spacxt/serr"
)

// EventType enumerates the append-only event log entries.
type EventType string

const (
	BootstrapLoaded EventType = "BOOTSTRAP_LOADED"
	NodeAdded       EventType = "NODE_ADDED"
	NodeUpdated     EventType = "NODE_UPDATED"
	RelUpsert       EventType = "REL_UPSERT"
	RelRemoved      EventType = "REL_REMOVED"
)

// Event is one entry in the store's append-only log.
type Event struct {
	Type EventType
	TS   float64
	ID   string // node id, when applicable
	Key  *RelKey
}

// PhysicsValidator is the documented callback the store uses to keep a
// node's position physically valid after any mutation that changes it.
// It is supplied by the wiring layer through NewStore or SetValidator
// (nothing in this module installs one; every store here is built with a
// nil validator) rather than by the store itself, so the store never
// reaches back into the placement/support subsystems directly — this
// flattens what would otherwise be a store<->physics cycle. others is
// every other node in the post-mutation shadow state, for the supporter
// search validate() performs.
type PhysicsValidator func(n Node, others []Node) geom.Vec3

// Clock returns the current time as the monotonic timestamp unit used by
// relations and events. Supplied at construction so tests can inject a
// deterministic sequence.
type Clock func() float64

// Store is the scene graph: nodes, relations, and an event log.
type Store struct {
	cfg       config.Config
	nodes     map[string]Node
	relations map[RelKey]Relation
	rooms     []Room
	events    []Event
	clock     Clock
	validator PhysicsValidator
}

// NewStore builds an empty store. validator may be nil, in which case
// per-node physics validation is skipped (useful for tests that only
// exercise patch mechanics).
func NewStore(cfg config.Config, clock Clock, validator PhysicsValidator) *Store {
	return &Store{
		cfg:       cfg,
		nodes:     map[string]Node{},
		relations: map[RelKey]Relation{},
		clock:     clock,
		validator: validator,
	}
}

// SetValidator installs or replaces the physics validation callback.
func (s *Store) SetValidator(v PhysicsValidator) { s.validator = v }

// Get returns the node for id, or false if absent.
func (s *Store) Get(id string) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns a snapshot slice of all nodes, sorted by id for
// deterministic iteration.
func (s *Store) Nodes() []Node {
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.nodes[id])
	}
	return out
}

// Relations returns a snapshot slice of all relations.
func (s *Store) Relations() []Relation {
	out := make([]Relation, 0, len(s.relations))
	for _, r := range s.relations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].R != out[j].R {
			return out[i].R < out[j].R
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Relation looks up a relation by key.
func (s *Store) Relation(key RelKey) (Relation, bool) {
	r, ok := s.relations[key]
	return r, ok
}

// Events returns the full event log.
func (s *Store) Events() []Event { return s.events }

// Neighbors returns nodes within 3D distance <= radius of id, excluding
// id itself.
func (s *Store) Neighbors(id string, radius float64) []Node {
	me, ok := s.nodes[id]
	if !ok {
		return nil
	}
	var out []Node
	for _, other := range s.Nodes() {
		if other.ID == id {
			continue
		}
		if geom.Distance3D(me.Pos, other.Pos) <= radius {
			out = append(out, other)
		}
	}
	return out
}

func (s *Store) now() float64 {
	if s.clock != nil {
		return s.clock()
	}
	return 0
}

// ApplyPatch applies p atomically: add, update, remove relations, upsert
// relations, in that order. On InvalidPatch the store is left completely
// unmutated — the implementation builds the next state in a shadow copy
// and only swaps it in once every bucket has validated cleanly.
func (s *Store) ApplyPatch(p *Patch) error {
	if p == nil || p.Empty() {
		return nil
	}

	nodes := make(map[string]Node, len(s.nodes))
	for k, v := range s.nodes {
		nodes[k] = v
	}
	relations := make(map[RelKey]Relation, len(s.relations))
	for k, v := range s.relations {
		relations[k] = v
	}
	var events []Event
	touched := map[string]bool{}

	for _, n := range p.AddNodes {
		nodes[n.ID] = n
		events = append(events, Event{Type: NodeAdded, TS: s.now(), ID: n.ID})
		touched[n.ID] = true
	}

	for id, upd := range p.UpdateNodes {
		n, ok := nodes[id]
		if !ok {
			return serr.Wrap(serr.InvalidPatch, fmt.Sprintf("update_nodes references missing id %q", id), nil)
		}
		n = applyFieldUpdates(n, upd)
		nodes[id] = n
		events = append(events, Event{Type: NodeUpdated, TS: s.now(), ID: id})
		if _, posChanged := upd["pos"]; posChanged {
			touched[id] = true
		}
	}

	for _, key := range p.RemoveRelations {
		if _, ok := relations[key]; ok {
			delete(relations, key)
			k := key
			events = append(events, Event{Type: RelRemoved, TS: s.now(), Key: &k})
		}
	}

	for _, r := range p.AddRelations {
		if _, ok := nodes[r.A]; !ok {
			return serr.Wrap(serr.InvalidPatch, fmt.Sprintf("add_relations references missing endpoint %q", r.A), nil)
		}
		// An `in` relation's B is a room id, and rooms are not nodes.
		if _, ok := nodes[r.B]; !ok && r.R != relate.In {
			return serr.Wrap(serr.InvalidPatch, fmt.Sprintf("add_relations references missing endpoint %q", r.B), nil)
		}
		key := r.Key()
		old, exists := relations[key]
		if !exists || r.TS >= old.TS {
			relations[key] = r
			k := key
			events = append(events, Event{Type: RelUpsert, TS: r.TS, ID: "", Key: &k})
		}
	}

	// Per-node physics validation on every add/update that changed pos,
	// unless the node is pinned.
	if s.validator != nil {
		for id := range touched {
			n := nodes[id]
			if n.PhysicsOverride() {
				continue
			}
			others := make([]Node, 0, len(nodes)-1)
			for oid, on := range nodes {
				if oid != id {
					others = append(others, on)
				}
			}
			corrected := s.validator(n, others)
			if corrected != n.Pos {
				n.Pos = corrected
				nodes[id] = n
			}
		}
	}

	s.nodes = nodes
	s.relations = relations
	s.events = append(s.events, events...)
	return nil
}

// applyFieldUpdates returns a copy of n with each named field overridden.
// Only the fields recognized by the data model (§3) are settable; unknown
// field names are ignored (they would only arise from a buggy caller,
// since InvalidPatch already covers missing ids/endpoints).
func applyFieldUpdates(n Node, upd map[string]any) Node {
	c := n.Clone()
	for k, v := range upd {
		switch k {
		case "pos":
			if p, ok := v.(geom.Vec3); ok {
				c.Pos = p
			}
		case "name":
			if s, ok := v.(string); ok {
				c.Name = s
			}
		case "cls":
			if s, ok := v.(string); ok {
				c.Class = s
			}
		case "bbox":
			if b, ok := v.(Bbox); ok {
				c.Bbox = b
			}
		case "aff":
			if a, ok := v.([]string); ok {
				c.Aff = a
			}
		case "lom":
			if m, ok := v.(Mobility); ok {
				c.Lom = m
			}
		case "conf":
			if f, ok := v.(float64); ok {
				c.Conf = f
			}
		case "state":
			if m, ok := v.(map[string]any); ok {
				if c.State == nil {
					c.State = map[string]any{}
				}
				for sk, sv := range m {
					c.State[sk] = sv
				}
			}
		case "meta":
			if m, ok := v.(map[string]any); ok {
				if c.Meta == nil {
					c.Meta = map[string]any{}
				}
				for mk, mv := range m {
					c.Meta[mk] = mv
				}
			}
		}
	}
	return c
}

// PurgeNode removes a node and every relation referencing it. Used by
// the Remove command after cascade-remove has finished reparenting
// dependents.
func (s *Store) PurgeNode(id string) {
	delete(s.nodes, id)
	for key := range s.relations {
		if key.A == id || key.B == id {
			delete(s.relations, key)
			k := key
			s.events = append(s.events, Event{Type: RelRemoved, TS: s.now(), Key: &k})
		}
	}
}
