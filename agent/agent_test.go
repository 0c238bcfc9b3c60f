package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacxt/spacxt/agent"
	"github.com/spacxt/spacxt/config"
	"github.com/spacxt/spacxt/geom"
)

func TestPerceiveAndProposeSendsOnlyConfidentRelations(t *testing.T) {
	cfg := config.Default()
	bus := agent.NewBus()
	table := agent.NewAgent("table")

	self := agent.Object{ID: "table", Pos: geom.Vec3{X: 1, Y: 1, Z: 0.4}, Size: geom.Vec3{X: 1, Y: 1, Z: 0.8}}
	cup := agent.Object{ID: "cup", Pos: geom.Vec3{X: 1, Y: 1, Z: 0.86}, Size: geom.Vec3{X: 0.1, Y: 0.1, Z: 0.12}}
	far := agent.Object{ID: "far_lamp", Pos: geom.Vec3{X: 50, Y: 50, Z: 0.25}, Size: geom.Vec3{X: 0.3, Y: 0.3, Z: 0.5}}

	table.PerceiveAndPropose(cfg, self, []agent.Object{cup, far}, 1.0, bus)
	bus.Deliver()

	cupInbox := bus.Drain("cup")
	require.Len(t, cupInbox, 1)
	assert.Equal(t, agent.RelationPropose, cupInbox[0].Type)

	lampInbox := bus.Drain("far_lamp")
	assert.NotEmpty(t, lampInbox, "a distant object classifies as far with confidence capped at 0.8, which clears AcceptConf, so it is proposed too")
}

func TestHandleInboxAcknowledgesAcceptedProposal(t *testing.T) {
	cfg := config.Default()
	bus := agent.NewBus()
	cup := agent.NewAgent("cup")

	bus.Send(agent.Message{
		Type: agent.RelationPropose,
		From: "table",
		To:   "cup",
		Relation: &agent.Relation{
			Kind: "on_top_of", A: "cup", B: "table", Conf: 0.9, TS: 1,
		},
		TS: 1,
	})
	bus.Deliver()

	inbox := cup.HandleInbox(cfg, bus)
	require.Len(t, inbox.Accepted, 1)
	assert.Equal(t, "on_top_of", inbox.Accepted[0].Kind)

	bus.Deliver()
	tableInbox := bus.Drain("table")
	require.Len(t, tableInbox, 1)
	assert.Equal(t, agent.RelationAck, tableInbox[0].Type)
}

func TestHandleInboxRejectsLowConfidenceProposal(t *testing.T) {
	cfg := config.Default()
	bus := agent.NewBus()
	cup := agent.NewAgent("cup")

	bus.Send(agent.Message{
		Type:     agent.RelationPropose,
		From:     "table",
		To:       "cup",
		Relation: &agent.Relation{Kind: "near", A: "cup", B: "table", Conf: cfg.AcceptConf - 0.1, TS: 1},
		TS:       1,
	})
	bus.Deliver()

	inbox := cup.HandleInbox(cfg, bus)
	assert.Empty(t, inbox.Accepted)
}

func TestHandleInboxCollectsStateUpdates(t *testing.T) {
	cfg := config.Default()
	bus := agent.NewBus()
	stove := agent.NewAgent("stove")

	bus.Send(agent.Message{Type: agent.StateUpdate, From: "thermostat", To: "stove", State: map[string]any{"power": "on"}})
	bus.Deliver()

	inbox := stove.HandleInbox(cfg, bus)
	require.Len(t, inbox.States, 1)
	assert.Equal(t, "on", inbox.States[0].State["power"])
}

func TestBusDeliveryIsOneTickDeferred(t *testing.T) {
	bus := agent.NewBus()
	bus.Send(agent.Message{Type: agent.StateUpdate, From: "a", To: "b"})

	assert.Empty(t, bus.Drain("b"), "message must not be visible before Deliver")
	bus.Deliver()
	assert.Len(t, bus.Drain("b"), 1)
}
