// Package orchestrate drives the synchronous tick loop that turns
// per-node agents, the relation kernel, and the scene graph store into a
// converging negotiation: deliver mail, let every agent perceive and
// propose, then let every agent answer its inbox and fold the result
// into one patch.
package orchestrate

import (
	"go.uber.org/zap"

	"github.com/spacxt/spacxt/agent"
	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/graph"
	"github.com/spacxt/spacxt/relate"
	"github.com/spacxt/spacxt/support"
)

// Clock returns the current time in the monotonic unit relations and
// messages share. Matches graph.Clock's shape so callers can inject the
// same function into both.
type Clock func() float64

// Orchestrator owns the tick loop's moving parts: the store it reads and
// patches, the bus agents exchange messages over, and the agent registry
// it keeps in sync with the store's current node set.
type Orchestrator struct {
	cfg    config.Config
	store  *graph.Store
	bus    *agent.Bus
	clock  Clock
	log    *zap.Logger
	agents map[string]*agent.Agent
}

// New builds an orchestrator. log may be nil, in which case a no-op
// logger is used.
func New(cfg config.Config, store *graph.Store, bus *agent.Bus, clock Clock, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		cfg:    cfg,
		store:  store,
		bus:    bus,
		clock:  clock,
		log:    log,
		agents: map[string]*agent.Agent{},
	}
}

// Bootstrap runs the load-time physics pass: the store has already
// forced every non-pinned node to ground height (graph.Store.LoadBootstrap
// does this itself), so this step is support_tracker.infer_all — cheap
// bookkeeping that finds nothing for a freshly grounded scene but keeps
// the tracker consistent if the payload described already-elevated
// pinned fixtures. Callers typically follow this with 3-5 initial Tick
// calls to seed near/far/beside.
func (o *Orchestrator) Bootstrap(tracker *support.Tracker) {
	objects := sceneObjects(o.store)
	tracker.SetEdges(support.InferAll(o.cfg, objects))
	o.log.Info("bootstrap physics settled", zap.Int("objects", len(objects)))
}

// Tick runs one full orchestrator round in the exact order the
// negotiation protocol requires: deliver mail addressed in the previous
// tick, let every agent perceive its neighbors and propose relations
// (visible to recipients only on the NEXT tick), then let every agent
// answer whatever is now in its inbox and fold every acceptance into a
// single patch applied at the end of the round.
func (o *Orchestrator) Tick() error {
	nodes := o.store.Nodes()
	o.syncAgents(nodes)

	o.bus.Deliver()

	ts := o.clock()
	for _, n := range nodes {
		self := agentObject(n)
		neighbors := adaptNodes(o.store.Neighbors(n.ID, o.cfg.NeighborRadius))
		o.agents[n.ID].PerceiveAndPropose(o.cfg, self, neighbors, ts, o.bus)
	}

	patch := graph.NewPatch()
	accepted := 0
	for _, n := range nodes {
		inbox := o.agents[n.ID].HandleInbox(o.cfg, o.bus)
		for _, r := range inbox.Accepted {
			patch.UpsertRelation(graph.Relation{
				R: relate.Kind(r.Kind), A: r.A, B: r.B,
				Props: r.Props, TS: r.TS, Conf: r.Conf,
			})
			accepted++
		}
	}
	if patch.Empty() {
		return nil
	}
	o.log.Debug("tick folded relations", zap.Int("accepted", accepted))
	return o.store.ApplyPatch(patch)
}

// syncAgents creates an agent for every node id that doesn't have one
// yet and drops agents for ids no longer present, so the registry never
// drifts from the store's actual node set.
func (o *Orchestrator) syncAgents(nodes []graph.Node) {
	live := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		live[n.ID] = true
		if _, ok := o.agents[n.ID]; !ok {
			o.agents[n.ID] = agent.NewAgent(n.ID)
		}
	}
	for id := range o.agents {
		if !live[id] {
			delete(o.agents, id)
		}
	}
}

func agentObject(n graph.Node) agent.Object {
	return agent.Object{ID: n.ID, Pos: n.Pos, Size: n.Size()}
}

func adaptNodes(nodes []graph.Node) []agent.Object {
	out := make([]agent.Object, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, agentObject(n))
	}
	return out
}

func sceneObjects(store *graph.Store) map[string]support.Object {
	nodes := store.Nodes()
	out := make(map[string]support.Object, len(nodes))
	for _, n := range nodes {
		out[n.ID] = support.Object{ID: n.ID, Pos: n.Pos, Size: n.Size(), Pinned: n.PhysicsOverride()}
	}
	return out
}
