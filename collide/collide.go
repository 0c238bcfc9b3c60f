// Package collide maintains the transient collision registry the
// placement engine and gravity cascade synchronize immediately before
// each query window. It is a cache, never authoritative for position —
// the scene graph store owns positions.
package collide

import (
	"math"
	"math/rand"

	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
)

// box is a registered collision candidate.
type box struct {
	center geom.Vec3
	size   geom.Vec3
}

// Index is a spatial registry of boxes keyed by node id.
type Index struct {
	cfg    config.Config
	boxes  map[string]box
	rng    *rand.Rand
}

// NewIndex builds an empty index. rng may be nil, in which case the index
// uses its own source with the fixed seed 1; pass an explicit *rand.Rand
// to choose the sampling sequence.
func NewIndex(cfg config.Config, rng *rand.Rand) *Index {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Index{cfg: cfg, boxes: map[string]box{}, rng: rng}
}

// Upsert registers or replaces the box for id.
func (idx *Index) Upsert(id string, center, size geom.Vec3) {
	idx.boxes[id] = box{center: center, size: size}
}

// Remove drops id from the index. A no-op if id is not registered.
func (idx *Index) Remove(id string) {
	delete(idx.boxes, id)
}

// Clear empties the index.
func (idx *Index) Clear() {
	idx.boxes = map[string]box{}
}

// CollidesAt reports the ids of every registered box (other than
// excludeID) that overlaps a candidate box at center/size, inflated by
// the configured collision margin in each half-extent.
func (idx *Index) CollidesAt(excludeID string, center, size geom.Vec3) []string {
	margin := idx.cfg.CollisionMargin
	inflated := geom.Vec3{X: size.X + 2*margin, Y: size.Y + 2*margin, Z: size.Z + 2*margin}

	var hits []string
	for id, b := range idx.boxes {
		if id == excludeID {
			continue
		}
		if geom.BoxesOverlap3D(center, inflated, b.center, b.size) {
			hits = append(hits, id)
		}
	}
	return hits
}

// FindSafePosition returns a collision-free center at ground height for
// an object of the given size, preferring preferredCenter. If the
// preferred center (forced to ground height) is collision-free it is
// returned unchanged; otherwise up to maxAttempts polar offsets are
// sampled — angle uniform in [0,2π), radius uniform in
// [0, searchRadius*(1+k/maxAttempts)) for attempt k — each tried at
// ground height, and the first collision-free candidate wins. Returns
// ok=false if every attempt collides.
func (idx *Index) FindSafePosition(size, preferredCenter geom.Vec3, searchRadius float64, maxAttempts int) (geom.Vec3, bool) {
	groundZ := idx.cfg.GroundZ + geom.GroundedZ(size)

	grounded := geom.Vec3{X: preferredCenter.X, Y: preferredCenter.Y, Z: groundZ}
	if len(idx.CollidesAt("", grounded, size)) == 0 {
		return grounded, true
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		angle := idx.rng.Float64() * 2 * math.Pi
		radius := idx.rng.Float64() * searchRadius * (1 + float64(attempt)/float64(maxAttempts))
		candidate := geom.Vec3{
			X: preferredCenter.X + radius*math.Cos(angle),
			Y: preferredCenter.Y + radius*math.Sin(angle),
			Z: groundZ,
		}
		if len(idx.CollidesAt("", candidate, size)) == 0 {
			return candidate, true
		}
	}
	return geom.Vec3{}, false
}

// Report summarizes current collision state for diagnostics: the
// excluded visualizer/QA layers consume this read-only.
type Report struct {
	TotalObjects   int
	CollidingPairs [][2]string
}

// Report scans all registered pairs (hard overlap, no margin) and
// returns a diagnostic summary.
func (idx *Index) Report() Report {
	ids := make([]string, 0, len(idx.boxes))
	for id := range idx.boxes {
		ids = append(ids, id)
	}
	var pairs [][2]string
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			bi, bj := idx.boxes[ids[i]], idx.boxes[ids[j]]
			if geom.BoxesOverlap3D(bi.center, bi.size, bj.center, bj.size) {
				pairs = append(pairs, [2]string{ids[i], ids[j]})
			}
		}
	}
	return Report{TotalObjects: len(idx.boxes), CollidingPairs: pairs}
}
