package graph

import "github.com/spacxt/spacxt/relate"

// RelKey identifies a relation: (kind, a, b).
type RelKey struct {
	R    relate.Kind
	A, B string
}

// Relation is a directed, typed edge between two node ids.
type Relation struct {
	R     relate.Kind        `json:"r" yaml:"r"`
	A     string             `json:"a" yaml:"a"`
	B     string             `json:"b" yaml:"b"`
	Props map[string]float64 `json:"props,omitempty" yaml:"props,omitempty"`
	TS    float64            `json:"ts" yaml:"ts"`
	Conf  float64            `json:"conf" yaml:"conf"`
}

// Key returns the relation's identity key.
func (r Relation) Key() RelKey { return RelKey{R: r.R, A: r.A, B: r.B} }
