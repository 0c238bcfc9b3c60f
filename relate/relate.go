// Package relate is the pure geometric classifier: given two objects'
// position and size, it names the single best-fitting spatial relation
// between them plus a confidence. Classify depends only on its inputs —
// no scene, no clock, no randomness.
package relate

import (
	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
)

// Kind enumerates the relation types the kernel can produce. `in` is not
// produced here — it is carried through from bootstrap/the add command.
type Kind string

const (
	Near     Kind = "near"
	Far      Kind = "far"
	Beside   Kind = "beside"
	Above    Kind = "above"
	Below    Kind = "below"
	OnTopOf  Kind = "on_top_of"
	Supports Kind = "supports"
	In       Kind = "in"
)

// Object is the minimal shape the kernel needs: a position and a full
// extent. Callers adapt their own node types into this.
type Object struct {
	ID   string
	Pos  geom.Vec3
	Size geom.Vec3
}

// Relation is a classified, directed pair with supporting properties.
type Relation struct {
	Kind  Kind
	A, B  string
	Props map[string]float64
	Conf  float64
}

// Classify names the single best relation between ordered pair (a, b)
// under first-rule-wins priority: on_top_of, supports, beside,
// above/below, then a distance fallback of near/far. Always returns a
// relation — the distance fallback is total.
func Classify(cfg config.Config, a, b Object) Relation {
	if r, ok := onTopOf(cfg, a, b); ok {
		return r
	}
	if r, ok := onTopOf(cfg, b, a); ok {
		// b is on top of a: a supports b.
		return Relation{
			Kind: Supports,
			A:    a.ID, B: b.ID,
			Props: map[string]float64{
				"height_diff": b.Pos.Z - a.Pos.Z,
				"x_offset":    b.Pos.X - a.Pos.X,
				"y_offset":    b.Pos.Y - a.Pos.Y,
			},
			Conf: r.Conf,
		}
	}
	if r, ok := beside(cfg, a, b); ok {
		return r
	}
	if r, ok := aboveBelow(cfg, a, b); ok {
		return r
	}
	return distance(cfg, a, b)
}

// onTopOf tests whether a sits on top of b: a strictly higher, a's center
// within b's horizontal footprint (inflated by a quarter of a's own
// extent), and a's height within OnTopZTol of b's expected support
// surface.
func onTopOf(cfg config.Config, a, b Object) (Relation, bool) {
	if a.Pos.Z <= b.Pos.Z {
		return Relation{}, false
	}
	if !geom.HorizontalOverlap(a.Pos, a.Size.X/4, a.Size.Y/4, b.Pos, b.Size) {
		return Relation{}, false
	}
	expected := geom.TopOf(b.Pos, b.Size) + a.Size.Z/2
	delta := a.Pos.Z - expected
	if abs(delta) > cfg.OnTopZTol {
		return Relation{}, false
	}
	conf := clamp(0.95-abs(delta)/cfg.OnTopZTol*0.2, 0.7, 1.0)
	return Relation{
		Kind: OnTopOf,
		A:    a.ID, B: b.ID,
		Props: map[string]float64{
			"height_diff": a.Pos.Z - b.Pos.Z,
			"x_offset":    a.Pos.X - b.Pos.X,
			"y_offset":    a.Pos.Y - b.Pos.Y,
		},
		Conf: conf,
	}, true
}

func beside(cfg config.Config, a, b Object) (Relation, bool) {
	dz := abs(a.Pos.Z - b.Pos.Z)
	if dz > cfg.BesideZTol {
		return Relation{}, false
	}
	d2d := geom.Distance2DXY(a.Pos, b.Pos)
	maxD := (maxf(a.Size.X, a.Size.Y)+maxf(b.Size.X, b.Size.Y))/2 + 0.4
	if d2d > maxD {
		return Relation{}, false
	}
	conf := clamp(0.85-dz/cfg.BesideZTol*0.15, 0.7, 0.85)
	return Relation{
		Kind: Beside,
		A:    a.ID, B: b.ID,
		Props: map[string]float64{"distance_2d": d2d, "height_diff": dz},
		Conf:  conf,
	}, true
}

func aboveBelow(cfg config.Config, a, b Object) (Relation, bool) {
	dz := a.Pos.Z - b.Pos.Z
	if abs(dz) < cfg.AboveBelowZMin {
		return Relation{}, false
	}
	d2d := geom.Distance2DXY(a.Pos, b.Pos)
	if d2d > cfg.AboveBelowXYMax {
		return Relation{}, false
	}
	kind := Below
	if dz > 0 {
		kind = Above
	}
	conf := minf(0.8, 0.6+(abs(dz)-cfg.AboveBelowZMin)*0.2)
	return Relation{
		Kind: kind,
		A:    a.ID, B: b.ID,
		Props: map[string]float64{"height_diff": abs(dz), "distance_2d": d2d},
		Conf:  conf,
	}, true
}

func distance(cfg config.Config, a, b Object) Relation {
	d := geom.Distance3D(a.Pos, b.Pos)
	if d <= cfg.Near {
		conf := 0.7
		if d <= cfg.Near/2 {
			conf = 0.9
		}
		return Relation{Kind: Near, A: a.ID, B: b.ID, Props: map[string]float64{"dist": d}, Conf: conf}
	}
	conf := minf(0.8, 0.3+(d/cfg.Near-1.0)*0.2)
	return Relation{Kind: Far, A: a.ID, B: b.ID, Props: map[string]float64{"dist": d}, Conf: conf}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
