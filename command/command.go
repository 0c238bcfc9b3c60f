// Package command is the external-interface adapter the excluded NLP
// layer drives (spec §4.I): Add/Move/Remove as tagged-union command
// values, executed against a scene graph store, placement engine, and
// support tracker that are otherwise unaware of each other.
package command

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/spacxt/spacxt/collide"
	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
	"github.com/spacxt/spacxt/graph"
	"github.com/spacxt/spacxt/place"
	"github.com/spacxt/spacxt/relate"
	"github.com/spacxt/spacxt/serr"
	"github.com/spacxt/spacxt/support"
)

// SpatialRelation is the placement hint a command carries. It is its own
// type rather than place.Intent because the command surface admits
// "none" (no placement preference at all), which the placement engine
// itself has no notion of.
type SpatialRelation string

const (
	OnTopOf SpatialRelation = "on_top_of"
	Near    SpatialRelation = "near"
	Custom  SpatialRelation = "custom"
	None    SpatialRelation = "none"
)

func (r SpatialRelation) intent() place.Intent {
	switch r {
	case OnTopOf:
		return place.OnTopOf
	case Near:
		return place.Near
	case Custom:
		return place.Custom
	default:
		return place.Ground
	}
}

// defaultSize is the fallback extent for an Add whose Properties.Bbox is
// left zero — the same role the excluded NLP layer's per-class object
// templates play, collapsed to one generic box since class templates
// themselves are outside this module's scope.
var defaultSize = geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1}

// Properties carries the optional per-object fields an Add command may
// set explicitly. Anything left at its zero value falls back to a
// generic default.
type Properties struct {
	Name  string
	Class string
	Bbox  geom.Vec3
	Aff   []string
	Lom   graph.Mobility
	Conf  float64
	State map[string]any
	Meta  map[string]any
}

// Add creates Quantity copies of ObjectType (1 if Quantity <= 0),
// numbered ObjectType_N when ObjectID is empty or Quantity > 1, places
// each with the placement engine per SpatialRelation/TargetObject, and
// attaches every created object to Room via an `in` relation when Room
// is non-empty.
type Add struct {
	ObjectType      string
	ObjectID        string // only honored when Quantity <= 1
	TargetObject    string // required for OnTopOf/Near
	SpatialRelation SpatialRelation
	Position        *geom.Vec3 // required for Custom
	Properties      Properties
	Room            string
	Quantity        int
}

// Move repositions an existing object, or the first Quantity nodes of
// ObjectType in deterministic id order, translating the full recursive
// dependent closure of each by the same delta.
type Move struct {
	ObjectID        string
	ObjectType      string
	Quantity        int
	TargetObject    string
	SpatialRelation SpatialRelation
	Position        *geom.Vec3 // required for Custom
}

// Remove deletes ObjectID (or the first node of ObjectType), cascading
// its full recursive dependent closure straight to ground and purging
// every relation that touched it.
type Remove struct {
	ObjectID   string
	ObjectType string
}

// Executor wires a scene graph store to the placement engine and support
// tracker, executing Add/Move/Remove against all three in the order
// spec §4.I describes. It owns no state the store/tracker don't already
// hold, besides the per-type counter used to mint ids for un-named adds.
type Executor struct {
	cfg     config.Config
	store   *graph.Store
	placer  *place.Engine
	idx     *collide.Index
	tracker *support.Tracker
	clock   graph.Clock
	log     *zap.Logger
	counter map[string]int
}

// NewExecutor builds an executor. log may be nil for a no-op logger.
func NewExecutor(cfg config.Config, store *graph.Store, placer *place.Engine, idx *collide.Index, tracker *support.Tracker, clock graph.Clock, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		cfg:     cfg,
		store:   store,
		placer:  placer,
		idx:     idx,
		tracker: tracker,
		clock:   clock,
		log:     log,
		counter: map[string]int{},
	}
}

// Add executes an Add command, returning the ids of every object
// actually created. Per-copy failures (an explicit ObjectID that already
// exists, a Custom placement without Position) are aggregated with
// multierr; copies that succeed are still created and returned.
func (e *Executor) Add(cmd Add) ([]string, error) {
	quantity := cmd.Quantity
	if quantity < 1 {
		quantity = 1
	}

	var target *place.Object
	if cmd.SpatialRelation == OnTopOf || cmd.SpatialRelation == Near {
		if cmd.TargetObject == "" {
			return nil, serr.New(serr.AmbiguousTarget, fmt.Sprintf("%s placement requires target_object", cmd.SpatialRelation))
		}
		t, ok := e.store.Get(cmd.TargetObject)
		if !ok {
			return nil, serr.New(serr.UnknownObject, fmt.Sprintf("target object %q not found", cmd.TargetObject))
		}
		target = &place.Object{ID: t.ID, Pos: t.Pos, Size: t.Size()}
	}

	size := cmd.Properties.Bbox
	if size == (geom.Vec3{}) {
		size = defaultSize
	}

	pending := adaptNodes(e.store.Nodes())
	patch := graph.NewPatch()
	ts := e.now()
	var ids []string
	var errs error

	for i := 0; i < quantity; i++ {
		id := cmd.ObjectID
		if id == "" || quantity > 1 {
			id = e.nextID(cmd.ObjectType)
			e.bumpCounter(cmd.ObjectType, 1)
		}
		if _, exists := e.store.Get(id); exists {
			errs = multierr.Append(errs, serr.New(serr.InvalidPatch, fmt.Sprintf("object id %q already exists", id)))
			continue
		}

		req := place.Request{Size: size, Intent: cmd.SpatialRelation.intent(), Target: target, Others: pending}
		if cmd.SpatialRelation == Custom {
			if cmd.Position == nil {
				errs = multierr.Append(errs, serr.New(serr.PlacementFailed, "custom placement requires position"))
				continue
			}
			req.Proposed = *cmd.Position
		}
		pos := e.placer.Place(req)

		node := graph.Node{
			ID:    id,
			Name:  firstNonEmpty(cmd.Properties.Name, defaultObjectName(cmd.ObjectType, id)),
			Class: firstNonEmpty(cmd.Properties.Class, cmd.ObjectType),
			Pos:   pos,
			Ori:   [4]float64{0, 0, 0, 1},
			Bbox:  graph.Bbox{Type: "OBB", XYZ: size},
			Aff:   cmd.Properties.Aff,
			Lom:   firstLom(cmd.Properties.Lom),
			Conf:  firstConf(cmd.Properties.Conf),
			State: cmd.Properties.State,
			Meta:  cmd.Properties.Meta,
		}
		patch.AddNode(node)
		pending = append(pending, place.Object{ID: id, Pos: pos, Size: size})
		ids = append(ids, id)

		if cmd.Room != "" {
			patch.UpsertRelation(graph.Relation{R: relate.In, A: id, B: cmd.Room, Conf: 1.0, TS: ts})
		}
	}

	if patch.Empty() {
		return nil, errs
	}
	if err := e.store.ApplyPatch(patch); err != nil {
		return nil, multierr.Append(errs, err)
	}
	e.reinferSupport()
	e.log.Info("add executed", zap.Strings("ids", ids), zap.String("object_type", cmd.ObjectType))
	return ids, errs
}

// Move executes a Move command, returning the ids of the objects it
// actually moved (the primary object of every resolved target, not its
// dependents).
func (e *Executor) Move(cmd Move) ([]string, error) {
	targets, err := e.resolveMoveTargets(cmd)
	if err != nil {
		return nil, err
	}

	var target *place.Object
	if cmd.TargetObject != "" {
		t, ok := e.store.Get(cmd.TargetObject)
		if !ok {
			return nil, serr.New(serr.UnknownObject, fmt.Sprintf("target object %q not found", cmd.TargetObject))
		}
		target = &place.Object{ID: t.ID, Pos: t.Pos, Size: t.Size()}
	}

	patch := graph.NewPatch()
	var moved []string
	var errs error

	for _, id := range targets {
		n, ok := e.store.Get(id)
		if !ok {
			errs = multierr.Append(errs, serr.New(serr.UnknownObject, fmt.Sprintf("object %q not found", id)))
			continue
		}

		req := place.Request{Size: n.Size(), Intent: cmd.SpatialRelation.intent(), Target: target, Others: adaptNodes(excludeID(e.store.Nodes(), id))}
		if cmd.SpatialRelation == Custom {
			if cmd.Position == nil {
				errs = multierr.Append(errs, serr.New(serr.PlacementFailed, "custom move requires position"))
				continue
			}
			req.Proposed = *cmd.Position
		}
		newPos := e.placer.Place(req)
		delta := newPos.Sub(n.Pos)

		for depID, depPos := range e.tracker.CascadeMove(id, delta, e.sceneObjects()) {
			patch.UpdateNode(depID, map[string]any{"pos": depPos})
		}
		moved = append(moved, id)
	}

	if patch.Empty() {
		return moved, errs
	}
	if err := e.store.ApplyPatch(patch); err != nil {
		return moved, multierr.Append(errs, err)
	}
	e.reinferSupport()
	e.log.Info("move executed", zap.Strings("ids", moved))
	return moved, errs
}

// Remove executes a Remove command: it drops the target's full
// recursive dependent closure to ground in one pass, then purges the
// target node and every relation touching it.
func (e *Executor) Remove(cmd Remove) error {
	id, err := e.resolveRemoveTarget(cmd)
	if err != nil {
		return err
	}

	drops := e.tracker.CascadeRemove(e.cfg, e.idx, id, e.sceneObjects())
	if len(drops) > 0 {
		patch := graph.NewPatch()
		for _, d := range drops {
			patch.UpdateNode(d.ID, map[string]any{"pos": d.Pos})
		}
		if err := e.store.ApplyPatch(patch); err != nil {
			return err
		}
	}

	e.store.PurgeNode(id)
	e.reinferSupport()
	e.log.Info("remove executed", zap.String("id", id), zap.Int("dropped", len(drops)))
	return nil
}

func (e *Executor) resolveMoveTargets(cmd Move) ([]string, error) {
	if cmd.ObjectID != "" {
		if _, ok := e.store.Get(cmd.ObjectID); !ok {
			return nil, serr.New(serr.UnknownObject, fmt.Sprintf("object %q not found", cmd.ObjectID))
		}
		return []string{cmd.ObjectID}, nil
	}
	if cmd.ObjectType == "" {
		return nil, serr.New(serr.UnknownObject, "move requires object_id or object_type")
	}

	quantity := cmd.Quantity
	if quantity < 1 {
		quantity = 1
	}
	matches := matchClass(e.store.Nodes(), cmd.ObjectType)
	if len(matches) < quantity {
		return nil, serr.New(serr.UnknownObject, fmt.Sprintf("only %d %q object(s) found, need %d", len(matches), cmd.ObjectType, quantity))
	}
	return matches[:quantity], nil
}

func (e *Executor) resolveRemoveTarget(cmd Remove) (string, error) {
	if cmd.ObjectID != "" {
		if _, ok := e.store.Get(cmd.ObjectID); !ok {
			return "", serr.New(serr.UnknownObject, fmt.Sprintf("object %q not found", cmd.ObjectID))
		}
		return cmd.ObjectID, nil
	}
	if cmd.ObjectType == "" {
		return "", serr.New(serr.UnknownObject, "remove requires object_id or object_type")
	}
	matches := matchClass(e.store.Nodes(), cmd.ObjectType)
	if len(matches) == 0 {
		return "", serr.New(serr.UnknownObject, fmt.Sprintf("no %q object found", cmd.ObjectType))
	}
	return matches[0], nil
}

// matchClass returns the ids of every node of the given class, in the
// deterministic id order graph.Store.Nodes() already guarantees.
func matchClass(nodes []graph.Node, class string) []string {
	var out []string
	for _, n := range nodes {
		if n.Class == class {
			out = append(out, n.ID)
		}
	}
	return out
}

func (e *Executor) reinferSupport() {
	objects := e.sceneObjects()
	edges := support.InferAll(e.cfg, objects)
	e.tracker.SetEdges(edges)
	e.log.Debug("support re-inferred", zap.Int("edges", len(edges)))
}

// RefreshSupport re-infers the supporter-of edge set from the store's
// current geometry. Add/Move/Remove already call this after every
// mutation; callers that populate the store directly (bootstrap, tests)
// use it to prime the tracker before their first Move/Remove.
func (e *Executor) RefreshSupport() {
	e.reinferSupport()
}

func (e *Executor) sceneObjects() map[string]support.Object {
	nodes := e.store.Nodes()
	out := make(map[string]support.Object, len(nodes))
	for _, n := range nodes {
		out[n.ID] = support.Object{ID: n.ID, Pos: n.Pos, Size: n.Size(), Pinned: n.PhysicsOverride()}
	}
	return out
}

func (e *Executor) now() float64 {
	if e.clock != nil {
		return e.clock()
	}
	return 0
}

// nextID mints a unique, deterministic id for a newly added object of
// class typ. Callers must bumpCounter right after each mint, before
// minting the next one in the same batch — otherwise every copy in a
// multi-quantity Add would mint the same id, since none of them reach
// the store (nextID's only other collision check) until the whole
// batch's patch is applied at the end.
func (e *Executor) nextID(typ string) string {
	n := e.counter[typ] + 1
	id := fmt.Sprintf("%s_%d", typ, n)
	for {
		if _, exists := e.store.Get(id); !exists {
			return id
		}
		n++
		id = fmt.Sprintf("%s_%d", typ, n)
	}
}

func (e *Executor) bumpCounter(typ string, n int) {
	e.counter[typ] += n
}

func defaultObjectName(typ, id string) string {
	if typ != "" {
		return typ
	}
	return id
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstLom(l graph.Mobility) graph.Mobility {
	if l == "" {
		return graph.Medium
	}
	return l
}

func firstConf(c float64) float64 {
	if c == 0 {
		return 0.9
	}
	return c
}

func adaptNodes(nodes []graph.Node) []place.Object {
	out := make([]place.Object, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, place.Object{ID: n.ID, Pos: n.Pos, Size: n.Size()})
	}
	return out
}

func excludeID(nodes []graph.Node, id string) []graph.Node {
	out := make([]graph.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}
