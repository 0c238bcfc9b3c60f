// Package geom is pure axis-aligned box math: no state, no allocation
// beyond the returned values, nothing that depends on a scene or a clock.
package geom

import "math"

// Vec3 is a 3-tuple of reals: a world position or a box extent.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// ClampExtents enforces the minimum full-extent floor on every axis.
// size is a full extent (width, depth, height), not a half-extent.
func ClampExtents(size Vec3, min float64) Vec3 {
	return Vec3{max(size.X, min), max(size.Y, min), max(size.Z, min)}
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// BoxMin returns the minimum corner of a box centered at center with the
// given full extents.
func BoxMin(center, size Vec3) Vec3 {
	return Vec3{center.X - size.X/2, center.Y - size.Y/2, center.Z - size.Z/2}
}

// BoxMax returns the maximum corner of a box centered at center with the
// given full extents.
func BoxMax(center, size Vec3) Vec3 {
	return Vec3{center.X + size.X/2, center.Y + size.Y/2, center.Z + size.Z/2}
}

// BoxesOverlap3D reports strict 3D overlap between two axis-aligned boxes.
// Touching (shared boundary, zero-width intersection) does not count as
// overlap.
func BoxesOverlap3D(c1, s1, c2, s2 Vec3) bool {
	min1, max1 := BoxMin(c1, s1), BoxMax(c1, s1)
	min2, max2 := BoxMin(c2, s2), BoxMax(c2, s2)
	return max1.X > min2.X && min1.X < max2.X &&
		max1.Y > min2.Y && min1.Y < max2.Y &&
		max1.Z > min2.Z && min1.Z < max2.Z
}

// GroundedZ returns the center-z of a box of the given size resting on
// GroundZ = 0.
func GroundedZ(size Vec3) float64 {
	return size.Z / 2
}

// TopOf returns the z coordinate of the top face of a box.
func TopOf(center, size Vec3) float64 {
	return center.Z + size.Z/2
}

// Distance3D is the Euclidean distance between two points.
func Distance3D(a, b Vec3) float64 {
	d := a.Sub(b)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// Distance2DXY is the Euclidean distance between two points' x/y
// components, ignoring height.
func Distance2DXY(a, b Vec3) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// HorizontalOverlap reports whether two boxes' footprints overlap by the
// given per-axis half-extent tolerances added to b's half-extent — the
// asymmetric containment test used by the on_top_of/supports predicate
// and by support inference (a's tolerance need not equal b's).
func HorizontalOverlap(aCenter Vec3, aTolX, aTolY float64, bCenter, bSize Vec3) bool {
	xOK := math.Abs(aCenter.X-bCenter.X) <= bSize.X/2+aTolX
	yOK := math.Abs(aCenter.Y-bCenter.Y) <= bSize.Y/2+aTolY
	return xOK && yOK
}
