package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spacxt/spacxt/geom"
)

func TestClampExtents(t *testing.T) {
	got := geom.ClampExtents(geom.Vec3{X: 0.5, Y: 0.0, Z: 0.3}, 0.01)
	assert.Equal(t, geom.Vec3{X: 0.5, Y: 0.01, Z: 0.3}, got)
}

func TestBoxesOverlap3DTouchingIsNotOverlap(t *testing.T) {
	// Two 1x1x1 boxes sharing a face at x=0.5 should not be reported as overlapping.
	a := geom.Vec3{X: 0, Y: 0, Z: 0}
	b := geom.Vec3{X: 1, Y: 0, Z: 0}
	size := geom.Vec3{X: 1, Y: 1, Z: 1}
	assert.False(t, geom.BoxesOverlap3D(a, size, b, size))
}

func TestBoxesOverlap3DOverlapping(t *testing.T) {
	a := geom.Vec3{X: 0, Y: 0, Z: 0}
	b := geom.Vec3{X: 0.9, Y: 0, Z: 0}
	size := geom.Vec3{X: 1, Y: 1, Z: 1}
	assert.True(t, geom.BoxesOverlap3D(a, size, b, size))
}

func TestGroundedZAndTopOf(t *testing.T) {
	size := geom.Vec3{X: 0.5, Y: 0.5, Z: 0.9}
	assert.InDelta(t, 0.45, geom.GroundedZ(size), 1e-9)

	top := geom.TopOf(geom.Vec3{X: 1, Y: 1, Z: 0.45}, size)
	assert.InDelta(t, 0.9, top, 1e-9)
}

func TestDistance(t *testing.T) {
	a := geom.Vec3{X: 0, Y: 0, Z: 0}
	b := geom.Vec3{X: 3, Y: 4, Z: 0}
	assert.InDelta(t, 5.0, geom.Distance3D(a, b), 1e-9)
	assert.InDelta(t, 5.0, geom.Distance2DXY(a, b), 1e-9)
	assert.InDelta(t, 13.0, geom.Distance3D(a, geom.Vec3{X: 5, Y: 0, Z: 12}), 1e-9)
}
