// Package agent implements the per-node negotiation protocol: each
// scene object runs a tiny agent that perceives its neighbors, proposes
// relations it believes hold, and acknowledges proposals it receives
// from others. Agents never touch the store directly — they read a
// snapshot and hand back the relations they accepted, which the
// orchestrator folds into a graph.Patch and applies.
package agent

import "github.com/google/uuid"

// MsgType enumerates the three negotiation message kinds.
type MsgType string

const (
	RelationPropose MsgType = "RELATION_PROPOSE"
	RelationAck     MsgType = "RELATION_ACK"
	StateUpdate     MsgType = "STATE_UPDATE"
)

// Relation is the neutral, graph-independent shape a negotiation message
// carries: agent doesn't import graph's Relation type directly so it can
// be tested without a store.
type Relation struct {
	Kind  string
	A, B  string
	Props map[string]float64
	TS    float64
	Conf  float64
}

// Message is one mailbox entry. MID is a fresh uuid per message so
// duplicate delivery (this protocol does not guarantee exactly-once) is
// detectable by the receiver if it chooses to dedupe.
type Message struct {
	MID      string
	Type     MsgType
	From     string
	To       string
	Relation *Relation
	State    map[string]any
	TS       float64
}

// newMessage stamps a fresh uuid onto msg and returns it.
func newMessage(msg Message) Message {
	msg.MID = uuid.NewString()
	return msg
}

// Bus is the synchronous mailbox: messages sent during a tick are only
// visible to their recipient's handle_inbox call on the NEXT tick,
// matching the deliver-then-propose-then-handle ordering the
// orchestrator enforces.
type Bus struct {
	pending map[string][]Message
	ready   map[string][]Message
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{pending: map[string][]Message{}, ready: map[string][]Message{}}
}

// Send enqueues msg for delivery on the next Deliver call.
func (b *Bus) Send(msg Message) {
	msg = newMessage(msg)
	b.pending[msg.To] = append(b.pending[msg.To], msg)
}

// Deliver moves every pending message into the ready queue, making it
// visible to Drain. Call this once per tick before any agent runs.
func (b *Bus) Deliver() {
	for to, msgs := range b.pending {
		b.ready[to] = append(b.ready[to], msgs...)
	}
	b.pending = map[string][]Message{}
}

// Drain returns and clears every ready message addressed to id.
func (b *Bus) Drain(id string) []Message {
	msgs := b.ready[id]
	delete(b.ready, id)
	return msgs
}
