package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
	"github.com/spacxt/spacxt/graph"
	"github.com/spacxt/spacxt/relate"
)

func ticker() graph.Clock {
	t := 0.0
	return func() float64 {
		t++
		return t
	}
}

func chairNode(id string) graph.Node {
	return graph.Node{
		ID:    id,
		Class: "chair",
		Pos:   geom.Vec3{X: 1.0, Y: 1.5, Z: 1.2},
		Bbox:  graph.Bbox{Type: "OBB", XYZ: geom.Vec3{X: 0.5, Y: 0.5, Z: 0.9}},
		Lom:   graph.Medium,
		Conf:  1.0,
	}
}

func TestLoadBootstrapSnapsToGround(t *testing.T) {
	cfg := config.Default()
	s := graph.NewStore(cfg, ticker(), nil)

	s.LoadBootstrap(graph.BootstrapScene{
		Objects: []graph.Node{chairNode("chair_1")},
	})

	n, ok := s.Get("chair_1")
	require.True(t, ok)
	assert.InDelta(t, 0.45, n.Pos.Z, 1e-9)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, graph.BootstrapLoaded, events[0].Type)
}

func TestApplyPatchAddUpdateRemove(t *testing.T) {
	cfg := config.Default()
	s := graph.NewStore(cfg, ticker(), nil)

	p := graph.NewPatch()
	p.AddNode(graph.Node{ID: "a", Class: "cup", Pos: geom.Vec3{Z: 0.05}, Bbox: graph.Bbox{XYZ: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}})
	p.AddNode(graph.Node{ID: "b", Class: "cup", Pos: geom.Vec3{Z: 0.05}, Bbox: graph.Bbox{XYZ: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}})
	require.NoError(t, s.ApplyPatch(p))

	p2 := graph.NewPatch()
	p2.UpsertRelation(graph.Relation{R: relate.Near, A: "a", B: "b", TS: 1, Conf: 0.9})
	require.NoError(t, s.ApplyPatch(p2))

	r, ok := s.Relation(graph.RelKey{R: relate.Near, A: "a", B: "b"})
	require.True(t, ok)
	assert.Equal(t, 0.9, r.Conf)

	p3 := graph.NewPatch()
	p3.RemoveRelation(graph.RelKey{R: relate.Near, A: "a", B: "b"})
	require.NoError(t, s.ApplyPatch(p3))
	_, ok = s.Relation(graph.RelKey{R: relate.Near, A: "a", B: "b"})
	assert.False(t, ok)
}

func TestApplyPatchInvalidPatchLeavesStoreUnmutated(t *testing.T) {
	cfg := config.Default()
	s := graph.NewStore(cfg, ticker(), nil)
	p := graph.NewPatch()
	p.AddNode(chairNode("chair_1"))
	require.NoError(t, s.ApplyPatch(p))

	bad := graph.NewPatch()
	bad.UpdateNode("missing", map[string]any{"pos": geom.Vec3{}})
	err := s.ApplyPatch(bad)
	assert.Error(t, err)

	// Original node must be untouched.
	n, ok := s.Get("chair_1")
	require.True(t, ok)
	assert.Equal(t, chairNode("chair_1").Pos, n.Pos)
}

func TestLWWIdempotence(t *testing.T) {
	cfg := config.Default()
	s := graph.NewStore(cfg, ticker(), nil)
	p := graph.NewPatch()
	p.AddNode(graph.Node{ID: "a", Pos: geom.Vec3{}, Bbox: graph.Bbox{XYZ: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}})
	p.AddNode(graph.Node{ID: "b", Pos: geom.Vec3{}, Bbox: graph.Bbox{XYZ: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}})
	require.NoError(t, s.ApplyPatch(p))

	rel := graph.NewPatch()
	rel.UpsertRelation(graph.Relation{R: relate.Near, A: "a", B: "b", TS: 5, Conf: 0.8})
	require.NoError(t, s.ApplyPatch(rel))
	require.NoError(t, s.ApplyPatch(rel))

	r, ok := s.Relation(graph.RelKey{R: relate.Near, A: "a", B: "b"})
	require.True(t, ok)
	assert.Equal(t, 0.8, r.Conf)
}

func TestLWWIncomingOlderTimestampDoesNotReplaceExisting(t *testing.T) {
	cfg := config.Default()
	s := graph.NewStore(cfg, ticker(), nil)
	p := graph.NewPatch()
	p.AddNode(graph.Node{ID: "A", Bbox: graph.Bbox{XYZ: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}})
	p.AddNode(graph.Node{ID: "B", Bbox: graph.Bbox{XYZ: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}})
	require.NoError(t, s.ApplyPatch(p))

	first := graph.NewPatch()
	first.UpsertRelation(graph.Relation{R: relate.Near, A: "A", B: "B", TS: 10, Conf: 0.7})
	require.NoError(t, s.ApplyPatch(first))

	second := graph.NewPatch()
	second.UpsertRelation(graph.Relation{R: relate.Near, A: "A", B: "B", TS: 9, Conf: 0.9})
	require.NoError(t, s.ApplyPatch(second))

	r, ok := s.Relation(graph.RelKey{R: relate.Near, A: "A", B: "B"})
	require.True(t, ok)
	assert.Equal(t, 0.7, r.Conf, "incoming ts=9 < existing ts=10 must not replace it")
}

func TestPurgeNodeRemovesAllReferencingRelations(t *testing.T) {
	cfg := config.Default()
	s := graph.NewStore(cfg, ticker(), nil)
	p := graph.NewPatch()
	p.AddNode(graph.Node{ID: "table", Bbox: graph.Bbox{XYZ: geom.Vec3{X: 1, Y: 1, Z: 1}}})
	p.AddNode(graph.Node{ID: "cup", Bbox: graph.Bbox{XYZ: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}})
	require.NoError(t, s.ApplyPatch(p))

	rel := graph.NewPatch()
	rel.UpsertRelation(graph.Relation{R: relate.Supports, A: "table", B: "cup", TS: 1})
	rel.UpsertRelation(graph.Relation{R: relate.OnTopOf, A: "cup", B: "table", TS: 1})
	require.NoError(t, s.ApplyPatch(rel))

	s.PurgeNode("table")
	assert.Len(t, s.Relations(), 0)
	_, ok := s.Get("table")
	assert.False(t, ok)
}

func TestNeighborsExcludesSelfAndRespectsRadius(t *testing.T) {
	cfg := config.Default()
	s := graph.NewStore(cfg, ticker(), nil)
	p := graph.NewPatch()
	p.AddNode(graph.Node{ID: "a", Pos: geom.Vec3{X: 0, Y: 0, Z: 0}, Bbox: graph.Bbox{XYZ: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}})
	p.AddNode(graph.Node{ID: "b", Pos: geom.Vec3{X: 1, Y: 0, Z: 0}, Bbox: graph.Bbox{XYZ: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}})
	p.AddNode(graph.Node{ID: "c", Pos: geom.Vec3{X: 10, Y: 0, Z: 0}, Bbox: graph.Bbox{XYZ: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}})
	require.NoError(t, s.ApplyPatch(p))

	nb := s.Neighbors("a", 1.5)
	require.Len(t, nb, 1)
	assert.Equal(t, "b", nb[0].ID)
}
