package support_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacxt/spacxt/collide"
	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
	"github.com/spacxt/spacxt/support"
)

func TestInferAllFindsOnTopOfSupporter(t *testing.T) {
	cfg := config.Default()
	table := support.Object{ID: "table", Pos: geom.Vec3{X: 1, Y: 1, Z: 0.4}, Size: geom.Vec3{X: 1.2, Y: 0.8, Z: 0.8}}
	cup := support.Object{ID: "cup", Pos: geom.Vec3{X: 1, Y: 1, Z: geom.TopOf(table.Pos, table.Size) + 0.05}, Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}

	edges := support.InferAll(cfg, map[string]support.Object{"table": table, "cup": cup})
	require.Len(t, edges, 1)
	assert.Equal(t, support.Edge{Supporter: "table", Dependent: "cup"}, edges[0])
}

func TestInferAllSkipsGroundedAndPinnedNodes(t *testing.T) {
	cfg := config.Default()
	floor := support.Object{ID: "floor", Pos: geom.Vec3{Z: geom.GroundedZ(geom.Vec3{X: 5, Y: 5, Z: 0.1})}, Size: geom.Vec3{X: 5, Y: 5, Z: 0.1}}
	lamp := support.Object{ID: "lamp", Pos: geom.Vec3{X: 0, Y: 0, Z: 2.0}, Size: geom.Vec3{X: 0.2, Y: 0.2, Z: 0.3}, Pinned: true}

	edges := support.InferAll(cfg, map[string]support.Object{"floor": floor, "lamp": lamp})
	assert.Empty(t, edges)
}

func TestInferAllTieBreaksByFootprintThenHeight(t *testing.T) {
	cfg := config.Default()
	smallTable := support.Object{ID: "small_table", Pos: geom.Vec3{X: 1, Y: 1, Z: 0.4}, Size: geom.Vec3{X: 0.5, Y: 0.5, Z: 0.8}}
	bigTable := support.Object{ID: "big_table", Pos: geom.Vec3{X: 1, Y: 1, Z: 0.4}, Size: geom.Vec3{X: 1.5, Y: 1.0, Z: 0.8}}
	cup := support.Object{ID: "cup", Pos: geom.Vec3{X: 1, Y: 1, Z: geom.TopOf(smallTable.Pos, smallTable.Size) + 0.02}, Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}

	edges := support.InferAll(cfg, map[string]support.Object{"small_table": smallTable, "big_table": bigTable, "cup": cup})
	require.Len(t, edges, 1)
	assert.Equal(t, "big_table", edges[0].Supporter)
}

func TestDirectAndAllDependents(t *testing.T) {
	tr := support.NewTracker()
	tr.SetEdges([]support.Edge{
		{Supporter: "table", Dependent: "plate"},
		{Supporter: "plate", Dependent: "cup"},
	})

	assert.Equal(t, []string{"plate"}, tr.DirectDependents("table"))
	assert.Equal(t, []string{"cup", "plate"}, tr.AllDependents("table"))
	assert.Equal(t, []string{"cup"}, tr.AllDependents("plate"))
	assert.Empty(t, tr.AllDependents("cup"))
}

func TestSupporterOfBreaksTiesByFootprintThenHeight(t *testing.T) {
	tr := support.NewTracker()
	tr.SetEdges([]support.Edge{
		{Supporter: "small_table", Dependent: "cup"},
		{Supporter: "big_table", Dependent: "cup"},
	})
	objects := map[string]support.Object{
		"small_table": {ID: "small_table", Size: geom.Vec3{X: 0.5, Y: 0.5, Z: 0.8}},
		"big_table":   {ID: "big_table", Size: geom.Vec3{X: 1.5, Y: 1.0, Z: 0.8}},
		"cup":         {ID: "cup", Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}},
	}

	supporter, ok := tr.SupporterOf("cup", objects)
	require.True(t, ok)
	assert.Equal(t, "big_table", supporter)
}

func TestCascadeMovePreservesOffsets(t *testing.T) {
	tr := support.NewTracker()
	tr.SetEdges([]support.Edge{{Supporter: "table", Dependent: "cup"}})
	objects := map[string]support.Object{
		"table": {ID: "table", Pos: geom.Vec3{X: 1, Y: 1, Z: 0.4}},
		"cup":   {ID: "cup", Pos: geom.Vec3{X: 1, Y: 1, Z: 0.85}},
	}

	moved := tr.CascadeMove("table", geom.Vec3{X: 0.5, Y: 0, Z: 0}, objects)
	assert.Equal(t, geom.Vec3{X: 1.5, Y: 1, Z: 0.4}, moved["table"])
	assert.Equal(t, geom.Vec3{X: 1.5, Y: 1, Z: 0.85}, moved["cup"])
}

func TestCascadeRemoveDropsDependentToGroundWhenNothingBeneath(t *testing.T) {
	cfg := config.Default()
	idx := collide.NewIndex(cfg, nil)
	cup := support.Object{ID: "cup", Pos: geom.Vec3{X: 1, Y: 1, Z: 0.85}, Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}
	idx.Upsert("cup", cup.Pos, cup.Size)

	tr := support.NewTracker()
	tr.SetEdges([]support.Edge{{Supporter: "table", Dependent: "cup"}})

	drops := tr.CascadeRemove(cfg, idx, "table", map[string]support.Object{"cup": cup})
	require.Len(t, drops, 1)
	assert.Equal(t, "cup", drops[0].ID)
	assert.InDelta(t, cfg.GroundZ+geom.GroundedZ(cup.Size), drops[0].Pos.Z, 1e-9)
}

func TestCascadeRemoveDropsFullRecursiveClosureStraightToGround(t *testing.T) {
	// plate on table, cup on plate; removing table must settle BOTH
	// plate and cup at their own grounded height in one pass, not have
	// cup come to rest on plate's post-fall position.
	cfg := config.Default()
	idx := collide.NewIndex(cfg, nil)
	plate := support.Object{ID: "plate", Pos: geom.Vec3{X: 1, Y: 1, Z: 0.45}, Size: geom.Vec3{X: 0.25, Y: 0.25, Z: 0.03}}
	cup := support.Object{ID: "cup", Pos: geom.Vec3{X: 1, Y: 1, Z: geom.TopOf(plate.Pos, plate.Size) + 0.05}, Size: geom.Vec3{X: 0.08, Y: 0.08, Z: 0.10}}
	idx.Upsert("plate", plate.Pos, plate.Size)
	idx.Upsert("cup", cup.Pos, cup.Size)

	tr := support.NewTracker()
	tr.SetEdges([]support.Edge{
		{Supporter: "table", Dependent: "plate"},
		{Supporter: "plate", Dependent: "cup"},
	})

	drops := tr.CascadeRemove(cfg, idx, "table", map[string]support.Object{"plate": plate, "cup": cup})
	require.Len(t, drops, 2)
	byID := map[string]support.Drop{}
	for _, d := range drops {
		byID[d.ID] = d
	}
	assert.InDelta(t, cfg.GroundZ+geom.GroundedZ(plate.Size), byID["plate"].Pos.Z, 1e-9)
	assert.InDelta(t, cfg.GroundZ+geom.GroundedZ(cup.Size), byID["cup"].Pos.Z, 1e-9)
}

func TestStatusReportsUnsupportedObjects(t *testing.T) {
	tr := support.NewTracker()
	tr.SetEdges([]support.Edge{{Supporter: "table", Dependent: "cup"}})
	objects := map[string]support.Object{
		"table":  {ID: "table"},
		"cup":    {ID: "cup"},
		"orphan": {ID: "orphan"},
	}

	status := tr.Status(objects)
	require.Len(t, status, 3)
	byID := map[string]support.Resting{}
	for _, r := range status {
		byID[r.ID] = r
	}
	assert.True(t, byID["cup"].HasSupport)
	assert.Equal(t, "table", byID["cup"].Supporter)
	assert.False(t, byID["orphan"].HasSupport)
}
