package graph

import (
	"sort"
	"strconv"

	"github.com/spacxt/spacxt/geom"
)

// LLMContext is the read-only, structured summary exported for the
// excluded NLP/QA front-ends (§4.D). It selects the K nearest nodes to
// agentPose, filters relations whose endpoints intersect that selection,
// and synthesizes a handful of notices.
type LLMContext struct {
	Frame     string
	AgentPose geom.Vec3
	ROI       string
	Summary   string
	Objects   []Node
	Relations []Relation
	Notices   []string
}

// LLMContext builds the nearest-K summary for agentPose. K <= 0 means
// "all nodes".
func (s *Store) LLMContext(agentPose geom.Vec3, roi string, k int) LLMContext {
	all := s.Nodes()
	sort.Slice(all, func(i, j int) bool {
		return geom.Distance3D(agentPose, all[i].Pos) < geom.Distance3D(agentPose, all[j].Pos)
	})
	if k > 0 && k < len(all) {
		all = all[:k]
	}

	selected := map[string]bool{}
	for _, n := range all {
		selected[n.ID] = true
	}

	var rels []Relation
	for _, r := range s.Relations() {
		if selected[r.A] || selected[r.B] {
			rels = append(rels, r)
		}
	}

	var notices []string
	for _, n := range all {
		if n.Class == "stove" {
			if power, ok := n.State["power"]; ok {
				if p, ok := power.(string); ok && p == "on" {
					notices = append(notices, n.Name+" is on nearby.")
				}
			}
		}
	}

	return LLMContext{
		Frame:     "map",
		AgentPose: agentPose,
		ROI:       roi,
		Summary:   summarize(roi, len(all)),
		Objects:   all,
		Relations: rels,
		Notices:   notices,
	}
}

func summarize(roi string, n int) string {
	if n == 1 {
		return "You are in " + roi + ". 1 object nearby."
	}
	return "You are in " + roi + ". " + strconv.Itoa(n) + " objects nearby."
}

// ExportMetadata summarizes the current export for callers (§6).
type ExportMetadata struct {
	TotalObjects       int
	TotalRelationships int
	NegotiationEvents  int
}

// Export is the full bootstrap-shaped state export (§6): the BootstrapScene
// payload plus ExportMetadata and the trailing window of the event log.
type Export struct {
	Scene      BootstrapScene
	Metadata   ExportMetadata
	RecentLog  []Event
}

// Export returns the current scene in bootstrap-payload shape, metadata
// counters, and the last tailLen events (clamped to however many exist).
func (s *Store) Export(tailLen int) Export {
	negotiationEvents := 0
	for _, e := range s.events {
		if e.Type == RelUpsert || e.Type == RelRemoved {
			negotiationEvents++
		}
	}

	events := s.events
	if tailLen > 0 && len(events) > tailLen {
		events = events[len(events)-tailLen:]
	}

	return Export{
		Scene: BootstrapScene{
			Objects:   s.Nodes(),
			Relations: s.Relations(),
			Rooms:     s.rooms,
		},
		Metadata: ExportMetadata{
			TotalObjects:       len(s.nodes),
			TotalRelationships: len(s.relations),
			NegotiationEvents:  negotiationEvents,
		},
		RecentLog: append([]Event(nil), events...),
	}
}
