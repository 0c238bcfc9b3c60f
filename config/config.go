// Package config holds the immutable physics/placement/relation constants
// shared by the store, collision index, and placement engine. A single
// Config value is built once at wiring time and passed down by reference;
// nothing in this module reads package-level state.
package config

// Config is the normative constant set from the specification. Every
// tunable a caller might reasonably want to vary per scene (e.g. a
// dollhouse-scale NEAR threshold) lives here instead of as a literal
// scattered through geom/collide/relate/place/support.
type Config struct {
	MinExtent float64 // smallest permitted bbox full extent on any axis (clamp floor)

	GroundZ      float64 // world-frame ground plane
	PlacementEps float64 // clearance added above a support surface on placement

	CollisionMargin float64 // half-extent inflation applied during collision queries

	Near float64 // distance threshold separating near/far classification

	SupportZTol   float64 // vertical tolerance for "resting on" during support inference
	OnTopZTol     float64 // vertical tolerance for the on_top_of/supports predicate
	BesideZTol    float64 // vertical tolerance for the beside predicate
	AboveBelowZMin float64 // minimum height delta for above/below
	AboveBelowXYMax float64 // maximum 2D distance for above/below

	NeighborRadius float64 // radius an agent perceives neighbors within
	AcceptConf     float64 // minimum confidence an agent accepts a proposal at

	Bounds SceneBounds // default scene bounds used by ground placement
}

// SceneBounds is the rectangular region ground placement samples within.
type SceneBounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Attr is a functional option for overriding a Default Config field,
// following the same override-a-struct-of-tunables pattern used to
// configure engine construction in this codebase's lineage.
type Attr func(*Config)

// Default returns the normative constants from the specification.
func Default() Config {
	return Config{
		MinExtent:       0.01,
		GroundZ:         0.0,
		PlacementEps:    0.001,
		CollisionMargin: 0.05,
		Near:            0.8,
		SupportZTol:     0.10,
		OnTopZTol:       0.15,
		BesideZTol:      0.30,
		AboveBelowZMin:  0.50,
		AboveBelowXYMax: 1.5,
		NeighborRadius:  1.5,
		AcceptConf:      0.60,
		Bounds: SceneBounds{
			XMin: 0.5, XMax: 4.5,
			YMin: 0.5, YMax: 2.5,
		},
	}
}

// New builds a Config starting from Default and applying the given
// overrides in order.
func New(attrs ...Attr) Config {
	c := Default()
	for _, a := range attrs {
		a(&c)
	}
	return c
}

// WithNear overrides the near/far distance threshold.
func WithNear(d float64) Attr {
	return func(c *Config) { c.Near = d }
}

// WithBounds overrides the ground-placement scene bounds.
func WithBounds(b SceneBounds) Attr {
	return func(c *Config) { c.Bounds = b }
}

// WithNeighborRadius overrides the agent perception radius.
func WithNeighborRadius(r float64) Attr {
	return func(c *Config) { c.NeighborRadius = r }
}
