package support

import (
	"sort"

	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
)

// InferAll recomputes the supporter-of edge set from geometry alone: for
// every non-grounded, non-pinned node N, it searches every other node S
// for the on_top_of(N,S) predicate at the support tolerance (distinct
// from, and tighter than, the relation kernel's own on_top_of tolerance
// — the kernel is a classifier for external relations, this is the
// physical dependency the gravity cascade walks) and keeps the best
// candidate. Ids are walked in sorted order so a tie between otherwise
// equal candidates resolves deterministically.
func InferAll(cfg config.Config, objects map[string]Object) []Edge {
	ids := make([]string, 0, len(objects))
	for id := range objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var edges []Edge
	for _, id := range ids {
		n := objects[id]
		if n.Pinned {
			continue
		}
		if !isAirborne(cfg, n) {
			continue
		}
		if s, ok := bestSupporter(cfg, n, ids, objects); ok {
			edges = append(edges, Edge{Supporter: s, Dependent: id})
		}
	}
	return edges
}

// isAirborne reports whether n's center sits further than 0.05m from
// grounded_z(n.size) — the same distance that ApplyPatch/validate treat
// as "grounded".
func isAirborne(cfg config.Config, n Object) bool {
	gz := cfg.GroundZ + geom.GroundedZ(n.Size)
	d := n.Pos.Z - gz
	if d < 0 {
		d = -d
	}
	return d > 0.05
}

// bestSupporter finds the on_top_of(n, s) candidate maximizing
// "goodness": among candidates within SupportZTol of the expected resting
// height, ties under 0.05m apart prefer the larger horizontal footprint,
// then the taller supporter, then lexical id order.
func bestSupporter(cfg config.Config, n Object, ids []string, objects map[string]Object) (string, bool) {
	var (
		best     string
		bestDiff float64
		bestArea float64
		bestZ    float64
		found    bool
	)
	for _, id := range ids {
		if id == n.ID {
			continue
		}
		s := objects[id]
		if !geom.HorizontalOverlap(n.Pos, n.Size.X/4, n.Size.Y/4, s.Pos, s.Size) {
			continue
		}
		if n.Pos.Z <= s.Pos.Z {
			continue
		}
		expected := geom.TopOf(s.Pos, s.Size) + n.Size.Z/2
		diff := n.Pos.Z - expected
		if diff < 0 {
			diff = -diff
		}
		if diff > cfg.SupportZTol {
			continue
		}
		area := s.Size.X * s.Size.Y
		switch {
		case !found:
			best, bestDiff, bestArea, bestZ, found = id, diff, area, s.Size.Z, true
		case bestDiff < 0.05 && diff < 0.05:
			// Both within the tie band: larger footprint wins, then height.
			if area > bestArea || (area == bestArea && s.Size.Z > bestZ) {
				best, bestDiff, bestArea, bestZ = id, diff, area, s.Size.Z
			}
		case diff < bestDiff:
			best, bestDiff, bestArea, bestZ = id, diff, area, s.Size.Z
		}
	}
	return best, found
}
