package graph

// Patch is the CRDT-lite delta: four buckets applied in a fixed order —
// adds, then updates, then relation removals, then relation upserts.
// Relation upsert is last-write-wins by Relation.TS: the incoming
// relation is kept iff incoming.TS >= existing.TS.
type Patch struct {
	AddNodes      []Node
	UpdateNodes   map[string]map[string]any // id -> field overrides
	AddRelations  []Relation
	RemoveRelations []RelKey
}

// NewPatch returns an empty patch ready for incremental building.
func NewPatch() *Patch {
	return &Patch{UpdateNodes: map[string]map[string]any{}}
}

// Empty reports whether the patch has no buckets populated.
func (p *Patch) Empty() bool {
	return len(p.AddNodes) == 0 && len(p.UpdateNodes) == 0 &&
		len(p.AddRelations) == 0 && len(p.RemoveRelations) == 0
}

// AddNode appends a node creation to the patch.
func (p *Patch) AddNode(n Node) { p.AddNodes = append(p.AddNodes, n) }

// UpdateNode merges field overrides for id into the patch.
func (p *Patch) UpdateNode(id string, fields map[string]any) {
	if p.UpdateNodes == nil {
		p.UpdateNodes = map[string]map[string]any{}
	}
	existing, ok := p.UpdateNodes[id]
	if !ok {
		existing = map[string]any{}
		p.UpdateNodes[id] = existing
	}
	for k, v := range fields {
		existing[k] = v
	}
}

// UpsertRelation appends a relation upsert to the patch.
func (p *Patch) UpsertRelation(r Relation) { p.AddRelations = append(p.AddRelations, r) }

// RemoveRelation appends a relation removal to the patch.
func (p *Patch) RemoveRelation(key RelKey) {
	p.RemoveRelations = append(p.RemoveRelations, key)
}
