// Package bootstrap decodes and encodes the wire-shaped scene payload
// (spec §6): the JSON or YAML literal an external loader hands the core
// at startup, and the same shape the store's Export produces for
// read-only consumers. Both formats decode into the same intermediate
// wire struct — json and yaml struct tags share one type, the way
// gazed/vu's load package tags a single config struct for its own
// yaml-shaped asset descriptions — which is then converted into
// graph.BootstrapScene, the neutral shape the store itself accepts.
package bootstrap

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/spacxt/spacxt/geom"
	"github.com/spacxt/spacxt/graph"
	"github.com/spacxt/spacxt/relate"
	"github.com/spacxt/spacxt/serr"
)

type payload struct {
	Scene wireScene `json:"scene" yaml:"scene"`
}

type wireScene struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Frame     string         `json:"frame" yaml:"frame"`
	Rooms     []wireRoom     `json:"rooms,omitempty" yaml:"rooms,omitempty"`
	Objects   []wireObject   `json:"objects" yaml:"objects"`
	Relations []wireRelation `json:"relations,omitempty" yaml:"relations,omitempty"`
}

type wireBounds struct {
	Min [3]float64 `json:"min" yaml:"min"`
	Max [3]float64 `json:"max" yaml:"max"`
}

type wireRoom struct {
	ID   string     `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`
	Bbox wireBounds `json:"bbox" yaml:"bbox"`
}

type wireBbox struct {
	Type string     `json:"type" yaml:"type"`
	XYZ  [3]float64 `json:"xyz" yaml:"xyz"`
}

type wireObject struct {
	ID    string         `json:"id" yaml:"id"`
	Name  string         `json:"name" yaml:"name"`
	Class string         `json:"cls" yaml:"cls"`
	Pos   [3]float64     `json:"pos" yaml:"pos"`
	Ori   [4]float64     `json:"ori" yaml:"ori"`
	Bbox  wireBbox       `json:"bbox" yaml:"bbox"`
	Aff   []string       `json:"aff,omitempty" yaml:"aff,omitempty"`
	Lom   string         `json:"lom" yaml:"lom"`
	Conf  float64        `json:"conf" yaml:"conf"`
	State map[string]any `json:"state,omitempty" yaml:"state,omitempty"`
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

type wireRelation struct {
	R     string             `json:"r" yaml:"r"`
	A     string             `json:"a" yaml:"a"`
	B     string             `json:"b" yaml:"b"`
	Conf  float64            `json:"conf" yaml:"conf"`
	Props map[string]float64 `json:"props,omitempty" yaml:"props,omitempty"`
	TS    float64            `json:"ts,omitempty" yaml:"ts,omitempty"`
}

// DecodeJSON parses a §6 bootstrap/export payload from JSON.
func DecodeJSON(data []byte) (graph.BootstrapScene, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return graph.BootstrapScene{}, serr.Wrap(serr.InvalidPatch, "bootstrap: json decode", err)
	}
	return toScene(p.Scene), nil
}

// DecodeYAML parses a §6 bootstrap/export payload from YAML — a natural
// authoring format for hand-written scene fixtures and demo scenes.
func DecodeYAML(data []byte) (graph.BootstrapScene, error) {
	var p payload
	if err := yaml.Unmarshal(data, &p); err != nil {
		return graph.BootstrapScene{}, serr.Wrap(serr.InvalidPatch, "bootstrap: yaml decode", err)
	}
	return toScene(p.Scene), nil
}

func toScene(w wireScene) graph.BootstrapScene {
	rooms := make([]graph.Room, 0, len(w.Rooms))
	for _, r := range w.Rooms {
		rooms = append(rooms, graph.Room{
			ID:   r.ID,
			Name: r.Name,
			Min:  geom.Vec3{X: r.Bbox.Min[0], Y: r.Bbox.Min[1], Z: r.Bbox.Min[2]},
			Max:  geom.Vec3{X: r.Bbox.Max[0], Y: r.Bbox.Max[1], Z: r.Bbox.Max[2]},
		})
	}

	objects := make([]graph.Node, 0, len(w.Objects))
	for _, o := range w.Objects {
		objects = append(objects, graph.Node{
			ID:    o.ID,
			Name:  o.Name,
			Class: o.Class,
			Pos:   geom.Vec3{X: o.Pos[0], Y: o.Pos[1], Z: o.Pos[2]},
			Ori:   o.Ori,
			Bbox:  graph.Bbox{Type: o.Bbox.Type, XYZ: geom.Vec3{X: o.Bbox.XYZ[0], Y: o.Bbox.XYZ[1], Z: o.Bbox.XYZ[2]}},
			Aff:   o.Aff,
			Lom:   graph.Mobility(o.Lom),
			Conf:  o.Conf,
			State: o.State,
			Meta:  o.Meta,
		})
	}

	relations := make([]graph.Relation, 0, len(w.Relations))
	for _, r := range w.Relations {
		relations = append(relations, graph.Relation{
			R: relate.Kind(r.R), A: r.A, B: r.B,
			Props: r.Props, Conf: r.Conf, TS: r.TS,
		})
	}

	return graph.BootstrapScene{ID: w.ID, Name: w.Name, Frame: w.Frame, Rooms: rooms, Objects: objects, Relations: relations}
}

// wireExportMetadata and wireEvent mirror graph.ExportMetadata/graph.Event
// for the export payload's extra fields (§6: "export of current state
// additionally carries export_metadata ... and the last 10 event-log
// entries").
type wireExportMetadata struct {
	TotalObjects       int `json:"total_objects" yaml:"total_objects"`
	TotalRelationships int `json:"total_relationships" yaml:"total_relationships"`
	NegotiationEvents  int `json:"negotiation_events" yaml:"negotiation_events"`
}

type wireEvent struct {
	Type string  `json:"type" yaml:"type"`
	TS   float64 `json:"ts" yaml:"ts"`
	ID   string  `json:"id,omitempty" yaml:"id,omitempty"`
	R    string  `json:"r,omitempty" yaml:"r,omitempty"`
	A    string  `json:"a,omitempty" yaml:"a,omitempty"`
	B    string  `json:"b,omitempty" yaml:"b,omitempty"`
}

type exportPayload struct {
	Scene          wireScene          `json:"scene" yaml:"scene"`
	ExportMetadata wireExportMetadata `json:"export_metadata" yaml:"export_metadata"`
	RecentLog      []wireEvent        `json:"recent_log" yaml:"recent_log"`
}

// EncodeExportJSON renders a full store Export (scene + metadata +
// trailing event log) as the §6 JSON payload shape.
func EncodeExportJSON(export graph.Export) ([]byte, error) {
	data, err := json.Marshal(fromExport(export))
	if err != nil {
		return nil, serr.Wrap(serr.InvariantViolation, "bootstrap: json encode", err)
	}
	return data, nil
}

// EncodeExportYAML renders a full store Export as the §6 YAML payload
// shape.
func EncodeExportYAML(export graph.Export) ([]byte, error) {
	data, err := yaml.Marshal(fromExport(export))
	if err != nil {
		return nil, serr.Wrap(serr.InvariantViolation, "bootstrap: yaml encode", err)
	}
	return data, nil
}

func fromExport(export graph.Export) exportPayload {
	return exportPayload{
		Scene:          fromScene(export.Scene),
		ExportMetadata: wireExportMetadata(export.Metadata),
		RecentLog:      fromEvents(export.RecentLog),
	}
}

func fromScene(s graph.BootstrapScene) wireScene {
	rooms := make([]wireRoom, 0, len(s.Rooms))
	for _, r := range s.Rooms {
		rooms = append(rooms, wireRoom{
			ID: r.ID, Name: r.Name,
			Bbox: wireBounds{Min: [3]float64{r.Min.X, r.Min.Y, r.Min.Z}, Max: [3]float64{r.Max.X, r.Max.Y, r.Max.Z}},
		})
	}

	objects := make([]wireObject, 0, len(s.Objects))
	for _, n := range s.Objects {
		objects = append(objects, wireObject{
			ID: n.ID, Name: n.Name, Class: n.Class,
			Pos: [3]float64{n.Pos.X, n.Pos.Y, n.Pos.Z}, Ori: n.Ori,
			Bbox:  wireBbox{Type: n.Bbox.Type, XYZ: [3]float64{n.Bbox.XYZ.X, n.Bbox.XYZ.Y, n.Bbox.XYZ.Z}},
			Aff:   n.Aff, Lom: string(n.Lom), Conf: n.Conf, State: n.State, Meta: n.Meta,
		})
	}

	relations := make([]wireRelation, 0, len(s.Relations))
	for _, r := range s.Relations {
		relations = append(relations, wireRelation{R: string(r.R), A: r.A, B: r.B, Conf: r.Conf, Props: r.Props, TS: r.TS})
	}

	return wireScene{ID: s.ID, Name: s.Name, Frame: s.Frame, Rooms: rooms, Objects: objects, Relations: relations}
}

func fromEvents(events []graph.Event) []wireEvent {
	out := make([]wireEvent, 0, len(events))
	for _, e := range events {
		w := wireEvent{Type: string(e.Type), TS: e.TS, ID: e.ID}
		if e.Key != nil {
			w.R, w.A, w.B = string(e.Key.R), e.Key.A, e.Key.B
		}
		out = append(out, w)
	}
	return out
}
