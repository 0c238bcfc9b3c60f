package support

import (
	"github.com/spacxt/spacxt/collide"
	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
)

// Drop is one object's resolved post-removal position.
type Drop struct {
	ID  string
	Pos geom.Vec3
}

// CascadeRemove computes where every node in id's full recursive
// dependent closure lands once id is deleted: the whole closure falls in
// one pass — each dependent's target is its OWN grounded height at its
// current x/y, not a search for some intermediate surface still beneath
// it, so a two-level stack (cup on plate on table) drops both cup and
// plate to the floor when table is removed, not cup resting on plate's
// new position. idx is rebuilt from objects, excluding id and the whole
// falling closure, before the first drop is resolved, and each dropped
// node is re-inserted before the next is computed so later nodes in the
// closure avoid colliding with earlier ones.
func (t *Tracker) CascadeRemove(cfg config.Config, idx *collide.Index, id string, objects map[string]Object) []Drop {
	deps := t.AllDependents(id)
	falling := make(map[string]bool, len(deps))
	for _, d := range deps {
		falling[d] = true
	}

	idx.Clear()
	for oid, o := range objects {
		if oid == id || falling[oid] {
			continue
		}
		idx.Upsert(oid, o.Pos, o.Size)
	}

	drops := make([]Drop, 0, len(deps))
	for _, dep := range deps {
		o, ok := objects[dep]
		if !ok {
			continue
		}
		groundZ := cfg.GroundZ + geom.GroundedZ(o.Size)
		target := geom.Vec3{X: o.Pos.X, Y: o.Pos.Y, Z: groundZ}

		pos, ok := idx.FindSafePosition(o.Size, target, 0.5, 10)
		if !ok {
			pos = target
		}
		idx.Upsert(dep, pos, o.Size)
		drops = append(drops, Drop{ID: dep, Pos: pos})
	}
	return drops
}
