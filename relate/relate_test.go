package relate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
	"github.com/spacxt/spacxt/relate"
)

func TestClassifyOnTopOfAndDualSupports(t *testing.T) {
	cfg := config.Default()
	table := relate.Object{ID: "table", Pos: geom.Vec3{X: 2, Y: 1.5, Z: 0.375}, Size: geom.Vec3{X: 1.2, Y: 0.8, Z: 0.75}}
	cup := relate.Object{ID: "cup", Pos: geom.Vec3{X: 2, Y: 1.5, Z: 0.801}, Size: geom.Vec3{X: 0.08, Y: 0.08, Z: 0.10}}

	r := relate.Classify(cfg, cup, table)
	assert.Equal(t, relate.OnTopOf, r.Kind)
	assert.Equal(t, "cup", r.A)
	assert.Equal(t, "table", r.B)

	dual := relate.Classify(cfg, table, cup)
	assert.Equal(t, relate.Supports, dual.Kind)
	assert.Equal(t, "table", dual.A)
	assert.Equal(t, "cup", dual.B)
}

// A and B are 0.6m apart: outside the beside window (0.5m for these
// sizes), so the distance fallback classifies them near, in the
// NEAR/2 < d <= NEAR band. At 0.3m apart beside would fire first.
func TestClassifyNear(t *testing.T) {
	cfg := config.Default()
	a := relate.Object{ID: "A", Pos: geom.Vec3{X: 0, Y: 0, Z: 0.05}, Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}
	b := relate.Object{ID: "B", Pos: geom.Vec3{X: 0.6, Y: 0, Z: 0.05}, Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}

	r := relate.Classify(cfg, a, b)
	assert.Equal(t, relate.Near, r.Kind)
	assert.InDelta(t, 0.7, r.Conf, 1e-9)

	r2 := relate.Classify(cfg, b, a)
	assert.Equal(t, relate.Near, r2.Kind)
	assert.InDelta(t, 0.7, r2.Conf, 1e-9)
}

func TestClassifyFar(t *testing.T) {
	cfg := config.Default()
	a := relate.Object{ID: "A", Pos: geom.Vec3{X: 0, Y: 0, Z: 0.05}, Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}
	b := relate.Object{ID: "B", Pos: geom.Vec3{X: 5, Y: 0, Z: 0.05}, Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}

	r := relate.Classify(cfg, a, b)
	assert.Equal(t, relate.Far, r.Kind)
}

func TestClassifyBeside(t *testing.T) {
	cfg := config.Default()
	a := relate.Object{ID: "chair1", Pos: geom.Vec3{X: 0, Y: 0, Z: 0.45}, Size: geom.Vec3{X: 0.5, Y: 0.5, Z: 0.9}}
	b := relate.Object{ID: "chair2", Pos: geom.Vec3{X: 0.9, Y: 0, Z: 0.45}, Size: geom.Vec3{X: 0.5, Y: 0.5, Z: 0.9}}

	r := relate.Classify(cfg, a, b)
	assert.Equal(t, relate.Beside, r.Kind)
}

func TestClassifyAboveBelow(t *testing.T) {
	cfg := config.Default()
	lamp := relate.Object{ID: "lamp", Pos: geom.Vec3{X: 0, Y: 0, Z: 2.0}, Size: geom.Vec3{X: 0.2, Y: 0.2, Z: 0.2}}
	floorItem := relate.Object{ID: "rug", Pos: geom.Vec3{X: 0.3, Y: 0, Z: 0.01}, Size: geom.Vec3{X: 1, Y: 1, Z: 0.02}}

	r := relate.Classify(cfg, lamp, floorItem)
	assert.Equal(t, relate.Above, r.Kind)

	r2 := relate.Classify(cfg, floorItem, lamp)
	assert.Equal(t, relate.Below, r2.Kind)
}

func TestClassifyPurity(t *testing.T) {
	cfg := config.Default()
	a := relate.Object{ID: "A", Pos: geom.Vec3{X: 1, Y: 2, Z: 3}, Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}
	b := relate.Object{ID: "B", Pos: geom.Vec3{X: 1.5, Y: 2, Z: 3}, Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}

	r1 := relate.Classify(cfg, a, b)
	r2 := relate.Classify(cfg, a, b)
	assert.Equal(t, r1, r2)
}
