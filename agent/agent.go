package agent

import (
	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
	"github.com/spacxt/spacxt/relate"
)

// Object is the minimal shape an agent perceives about itself or a
// neighbor. Callers adapt graph.Node into this.
type Object struct {
	ID   string
	Pos  geom.Vec3
	Size geom.Vec3
}

// Agent is the per-node negotiation participant. It holds no scene
// state between ticks — every call is handed a fresh snapshot — so
// agents are cheap to create and discard each tick if a caller prefers
// that over keeping them alive for the scene's lifetime.
type Agent struct {
	NodeID string
}

// NewAgent returns an agent bound to nodeID.
func NewAgent(nodeID string) *Agent {
	return &Agent{NodeID: nodeID}
}

// Inbox is what handle_inbox produced this tick: relations the agent
// accepted from a peer's proposal (to be folded into the next patch)
// and the raw state-update messages it received (the caller decides
// whether/how to act on these; the protocol itself only routes them).
type Inbox struct {
	Accepted []Relation
	States   []Message
}

// PerceiveAndPropose classifies self against every neighbor and sends a
// RELATION_PROPOSE to each neighbor whose relation clears AcceptConf.
// The classification is directional (Classify(self, neighbor)) — the
// neighbor's own perceive_and_propose call computes its own direction
// independently, which is why on_top_of and supports don't need special
// casing here: each side proposes the relation from its own vantage.
func (a *Agent) PerceiveAndPropose(cfg config.Config, self Object, neighbors []Object, ts float64, bus *Bus) {
	for _, n := range neighbors {
		r := relate.Classify(cfg, relate.Object{ID: self.ID, Pos: self.Pos, Size: self.Size}, relate.Object{ID: n.ID, Pos: n.Pos, Size: n.Size})
		if r.Conf < cfg.AcceptConf {
			continue
		}
		bus.Send(Message{
			Type: RelationPropose,
			From: a.NodeID,
			To:   n.ID,
			Relation: &Relation{
				Kind: string(r.Kind), A: r.A, B: r.B,
				Props: r.Props, TS: ts, Conf: r.Conf,
			},
			TS: ts,
		})
	}
}

// HandleInbox drains the agent's mailbox and answers every
// RELATION_PROPOSE that clears AcceptConf with a RELATION_ACK,
// returning every relation it accepted (for the caller to fold into the
// next patch) and every raw STATE_UPDATE it received.
func (a *Agent) HandleInbox(cfg config.Config, bus *Bus) Inbox {
	var out Inbox
	for _, m := range bus.Drain(a.NodeID) {
		switch m.Type {
		case RelationPropose:
			if m.Relation == nil || m.Relation.Conf < cfg.AcceptConf {
				continue
			}
			out.Accepted = append(out.Accepted, *m.Relation)
			bus.Send(Message{Type: RelationAck, From: a.NodeID, To: m.From, Relation: m.Relation, TS: m.TS})
		case RelationAck:
			// Informational: the proposer already knows its own relation.
			// Kept as a distinct message so a caller can audit round-trips.
		case StateUpdate:
			out.States = append(out.States, m)
		}
	}
	return out
}
