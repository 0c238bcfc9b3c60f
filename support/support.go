// Package support tracks the supporter/dependent DAG that InferAll
// derives from object geometry and drives cascade behavior when a supporter
// moves or is removed: dependents move with it, or fall toward the
// ground avoiding collisions, in that order.
package support

import (
	"sort"

	"github.com/spacxt/spacxt/geom"
)

// Object is the minimal shape the tracker needs. Callers adapt their own
// node types into this.
type Object struct {
	ID     string
	Pos    geom.Vec3
	Size   geom.Vec3
	Pinned bool // state.physics_override: exempt from inference
}

// Edge is one supporter->dependent link.
type Edge struct {
	Supporter string
	Dependent string
}

// Tracker maintains the current supports edge set and answers
// dependent-closure queries over it. It holds no object state of its
// own — queries that need geometry take the current object snapshot as
// an argument, so the tracker never drifts out of sync with the scene
// graph.
type Tracker struct {
	bySupporter map[string]map[string]bool
}

// NewTracker builds an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{bySupporter: map[string]map[string]bool{}}
}

// SetEdges replaces the tracker's edge set wholesale — the command layer
// calls this after every Add/Move/Remove, and the orchestrator at
// bootstrap, with the edges InferAll derives from current geometry.
func (t *Tracker) SetEdges(edges []Edge) {
	t.bySupporter = map[string]map[string]bool{}
	for _, e := range edges {
		set, ok := t.bySupporter[e.Supporter]
		if !ok {
			set = map[string]bool{}
			t.bySupporter[e.Supporter] = set
		}
		set[e.Dependent] = true
	}
}

// DirectDependents returns the ids directly supported by id, sorted for
// determinism.
func (t *Tracker) DirectDependents(id string) []string {
	set, ok := t.bySupporter[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for dep := range set {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

// AllDependents returns the full recursive dependent closure of id (a
// depth-first walk of the supports DAG), sorted and deduplicated. A
// cycle (InferAll never produces one, since a dependent must sit higher
// than its supporter, but SetEdges accepts any edge list) is broken by
// never revisiting an id already visited.
func (t *Tracker) AllDependents(id string) []string {
	seen := map[string]bool{}
	var walk func(string)
	walk = func(cur string) {
		for _, dep := range t.DirectDependents(cur) {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			walk(dep)
		}
	}
	walk(id)
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SupporterOf returns the id of whatever id directly rests on, and
// whether one exists. When more than one relation names id as dependent
// (malformed input — supports is meant to be single-parent), the tie is
// broken toward the candidate with the larger horizontal footprint
// (surface area), then the taller one, then lexical id order — the same
// "bigger, taller, then deterministic" order InferAll applies within its
// tie band.
func (t *Tracker) SupporterOf(id string, objects map[string]Object) (string, bool) {
	var candidates []string
	for supporter, deps := range t.bySupporter {
		if deps[id] {
			candidates = append(candidates, supporter)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Slice(candidates, func(i, j int) bool {
		ri, rj := rankSupporter(candidates[i], objects), rankSupporter(candidates[j], objects)
		if ri[0] != rj[0] {
			return ri[0] > rj[0]
		}
		if ri[1] != rj[1] {
			return ri[1] > rj[1]
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0], true
}

func rankSupporter(id string, objects map[string]Object) [2]float64 {
	o := objects[id]
	return [2]float64{o.Size.X * o.Size.Y, o.Size.Z}
}

// CascadeMove translates id and its full dependent closure by delta,
// preserving every dependent's offset from its current position. It
// returns the new position for every moved id (including id itself).
func (t *Tracker) CascadeMove(id string, delta geom.Vec3, objects map[string]Object) map[string]geom.Vec3 {
	moved := map[string]geom.Vec3{id: objects[id].Pos.Add(delta)}
	for _, dep := range t.AllDependents(id) {
		moved[dep] = objects[dep].Pos.Add(delta)
	}
	return moved
}

// Resting is one entry of Status: the supporter the tracker records for
// ID, if any. HasSupport is false whenever the tracker has no supports
// edge for ID, whether the object is grounded, pinned or unsupported.
type Resting struct {
	ID         string
	Supporter  string
	HasSupport bool
}

// Status returns a diagnostic snapshot of every tracked object's
// resting surface — a supplemented read-only report, the support
// tracker's analogue of collide.Index.Report.
func (t *Tracker) Status(objects map[string]Object) []Resting {
	ids := make([]string, 0, len(objects))
	for id := range objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Resting, 0, len(ids))
	for _, id := range ids {
		supporter, ok := t.SupporterOf(id, objects)
		out = append(out, Resting{ID: id, Supporter: supporter, HasSupport: ok})
	}
	return out
}
