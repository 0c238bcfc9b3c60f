// Package place is the placement engine: given a placement intent it
// returns a physically valid position. It knows nothing about the scene
// graph's Node type — callers adapt their objects into place.Object —
// which keeps this package import-cycle-free from graph.
package place

import (
	"math"
	"math/rand"

	"github.com/spacxt/spacxt/collide"
	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
)

// Intent is the semantic input to the placement engine.
type Intent string

const (
	OnTopOf Intent = "on_top_of"
	Near    Intent = "near"
	Ground  Intent = "ground"
	Custom  Intent = "custom"
)

// defaultRandomness is used whenever a Request leaves Randomness at its
// zero value, landing inside the documented 0.15-0.3 range.
const defaultRandomness = 0.2

// Object is the minimal placed-object shape the engine needs.
type Object struct {
	ID   string
	Pos  geom.Vec3
	Size geom.Vec3
}

// Request describes one placement.
type Request struct {
	Size       geom.Vec3
	Intent     Intent
	Target     *Object   // required for OnTopOf/Near
	Proposed   geom.Vec3 // required for Custom
	Others     []Object  // scene snapshot, excluding the object being placed
	Randomness float64   // in [0,1]; zero means defaultRandomness
}

// Engine computes positions for placement intents against a snapshot of
// the scene plus the transient collision index the caller keeps
// synchronized.
type Engine struct {
	cfg config.Config
	idx *collide.Index
	rng *rand.Rand
}

// NewEngine builds a placement engine. rng may be nil for a default
// deterministic source; pass an explicit one for reproducible tests.
func NewEngine(cfg config.Config, idx *collide.Index, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Engine{cfg: cfg, idx: idx, rng: rng}
}

// Place resolves req into a position, syncing the collision index from
// req.Others first.
func (e *Engine) Place(req Request) geom.Vec3 {
	size := geom.ClampExtents(req.Size, e.cfg.MinExtent)
	randomness := req.Randomness
	if randomness == 0 {
		randomness = defaultRandomness
	}
	e.Sync(req.Others)

	switch req.Intent {
	case OnTopOf:
		if req.Target == nil {
			return e.ground(size)
		}
		return e.onTopOf(size, *req.Target, randomness)
	case Near:
		if req.Target == nil {
			return e.ground(size)
		}
		return e.near(size, *req.Target, randomness)
	case Custom:
		return e.custom(size, req.Proposed, req.Others)
	default:
		return e.ground(size)
	}
}

// Sync replaces the engine's collision index contents with others.
func (e *Engine) Sync(others []Object) {
	e.idx.Clear()
	for _, o := range others {
		e.idx.Upsert(o.ID, o.Pos, o.Size)
	}
}

// onTopOf samples up to 10 candidate offsets within +/-30% of the
// target's smaller x/y extent, scaled by randomness, at the target's
// surface height plus PlacementEps. The first candidate that collides
// with nothing but the target wins; otherwise it places exactly at the
// target's surface center.
func (e *Engine) onTopOf(size geom.Vec3, target Object, randomness float64) geom.Vec3 {
	z := geom.TopOf(target.Pos, target.Size) + size.Z/2 + e.cfg.PlacementEps
	maxOffset := minf(target.Size.X, target.Size.Y) * 0.3 * randomness

	for attempt := 0; attempt < 10; attempt++ {
		ox := (e.rng.Float64()*2 - 1) * maxOffset
		oy := (e.rng.Float64()*2 - 1) * maxOffset
		candidate := geom.Vec3{X: target.Pos.X + ox, Y: target.Pos.Y + oy, Z: z}
		if onlyCollidesWith(e.idx.CollidesAt("", candidate, size), target.ID) {
			return candidate
		}
	}
	return geom.Vec3{X: target.Pos.X, Y: target.Pos.Y, Z: z}
}

func onlyCollidesWith(hits []string, allowed string) bool {
	for _, h := range hits {
		if h != allowed {
			return false
		}
	}
	return true
}

// near computes a clearance min_d = 0.3+max(size)/2, capped at 0.8, picks
// a random bearing off target, and hands the preferred point to the
// collision index's radial search. When randomness > 0 the returned
// point is nudged by a small angle/distance jitter, provided the jittered
// point is itself still collision-free. Falls back to ground placement
// if no safe point is found nearby at all.
func (e *Engine) near(size geom.Vec3, target Object, randomness float64) geom.Vec3 {
	minD := minf(0.3+maxf(size.X, maxf(size.Y, size.Z))/2, 0.8)
	theta := e.rng.Float64() * 2 * math.Pi
	z := e.cfg.GroundZ + geom.GroundedZ(size)

	preferred := geom.Vec3{
		X: target.Pos.X + minD*math.Cos(theta),
		Y: target.Pos.Y + minD*math.Sin(theta),
		Z: z,
	}

	pos, ok := e.idx.FindSafePosition(size, preferred, 0.8, 20)
	if !ok {
		return e.ground(size)
	}

	if randomness > 0 {
		angleJitter := (e.rng.Float64()*2 - 1) * (math.Pi / 4) * randomness
		distJitter := (e.rng.Float64()*2 - 1) * 0.1 * randomness
		curAngle := math.Atan2(pos.Y-target.Pos.Y, pos.X-target.Pos.X)
		curDist := maxf(minD, geom.Distance2DXY(pos, target.Pos)+distJitter)
		jittered := geom.Vec3{
			X: target.Pos.X + curDist*math.Cos(curAngle+angleJitter),
			Y: target.Pos.Y + curDist*math.Sin(curAngle+angleJitter),
			Z: z,
		}
		if len(e.idx.CollidesAt("", jittered, size)) == 0 {
			return jittered
		}
	}
	return pos
}

// ground samples up to 25 uniform points within the configured scene
// bounds at ground height; the first collision-free point wins, else it
// places at the bounds' min corner, grounded.
func (e *Engine) ground(size geom.Vec3) geom.Vec3 {
	b := e.cfg.Bounds
	for attempt := 0; attempt < 25; attempt++ {
		x := b.XMin + e.rng.Float64()*(b.XMax-b.XMin)
		y := b.YMin + e.rng.Float64()*(b.YMax-b.YMin)
		candidate := geom.Vec3{X: x, Y: y, Z: e.cfg.GroundZ + geom.GroundedZ(size)}
		if len(e.idx.CollidesAt("", candidate, size)) == 0 {
			return candidate
		}
	}
	return geom.Vec3{X: b.XMin + 0.5, Y: b.YMin + 0.5, Z: e.cfg.GroundZ + geom.GroundedZ(size)}
}

// custom validates a caller-proposed position, then searches for a safe
// spot nearby, falling back to ground.
func (e *Engine) custom(size geom.Vec3, proposed geom.Vec3, others []Object) geom.Vec3 {
	validated := e.Validate(proposed, size, others)
	pos, ok := e.idx.FindSafePosition(size, validated, 0.8, 15)
	if !ok {
		return e.ground(size)
	}
	return pos
}

// Validate is the single-node physics rule: clamp extents, then floor or
// accept pos.z depending on how far it sits from grounded_z(size) —
// below ground or implausibly high (>2m above ground) snaps to ground;
// within 0.05m of ground is accepted as grounded; anything else must
// find a supporter (horizontal containment within 0.1m of some other
// node, whose top sits within 0.1m of the object's bottom face) or it
// snaps to ground. This
// is the function that satisfies graph.PhysicsValidator once adapted to
// Node, and it performs no collision resolution of its own — callers
// that need a collision-free result chain FindSafePosition afterward
// (see custom()).
func (e *Engine) Validate(pos geom.Vec3, size geom.Vec3, others []Object) geom.Vec3 {
	size = geom.ClampExtents(size, e.cfg.MinExtent)
	gz := e.cfg.GroundZ + geom.GroundedZ(size)
	z := pos.Z

	switch {
	case z < gz:
		z = gz
	case z > gz+2.0:
		z = gz
	case absf(z-gz) <= 0.05:
		// already grounded within tolerance; accept as-is.
	default:
		if !e.hasSupporter(pos, size, others) {
			z = gz
		}
	}
	return geom.Vec3{X: pos.X, Y: pos.Y, Z: z}
}

// hasSupporter reports whether some node in others both horizontally
// contains pos (within 0.1m of its own half-extent) and has a top face
// within 0.1m of pos.z − size.z/2's expected resting height.
func (e *Engine) hasSupporter(pos geom.Vec3, size geom.Vec3, others []Object) bool {
	for _, o := range others {
		if !geom.HorizontalOverlap(pos, 0.1, 0.1, o.Pos, o.Size) {
			continue
		}
		expected := geom.TopOf(o.Pos, o.Size) + size.Z/2
		if absf(pos.Z-expected) <= 0.1 {
			return true
		}
	}
	return false
}

// GroundClearance reports the vertical gap between obj's bottom face and
// whatever lies directly beneath it (another object's top face, or the
// ground). A supplemented diagnostic query: the same "is this object
// floating" check the support tracker performs internally, exposed here
// for callers that just want a number.
func GroundClearance(cfg config.Config, obj Object, others []Object) float64 {
	bottom := obj.Pos.Z - obj.Size.Z/2
	best := bottom - cfg.GroundZ

	for _, o := range others {
		if o.ID == obj.ID {
			continue
		}
		if !geom.HorizontalOverlap(obj.Pos, obj.Size.X/2, obj.Size.Y/2, o.Pos, o.Size) {
			continue
		}
		top := geom.TopOf(o.Pos, o.Size)
		if top > bottom {
			continue
		}
		if gap := bottom - top; gap < best {
			best = gap
		}
	}
	return best
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
