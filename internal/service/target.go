package service

import "sort"

// ResolvedTarget is a deduplicated set of concrete entity ids produced by
// target resolution. It has no identity beyond its membership; it belongs
// to the invocation that created it and is discarded after dispatch.
type ResolvedTarget struct {
	Entities map[string]struct{}

	// Warnings records ids that were skipped during best-effort (non-strict)
	// resolution, plus diagnostic notes from area/label expansion.
	Warnings []Warning
}

// Warning is a non-fatal diagnostic attached during resolution.
type Warning struct {
	Kind   string // "entity", "device", "area" or "label"
	ID     string
	Reason string
}

// NewResolvedTarget returns an empty target set.
func NewResolvedTarget() *ResolvedTarget {
	return &ResolvedTarget{Entities: make(map[string]struct{})}
}

// Add inserts an entity id into the set.
func (t *ResolvedTarget) Add(entityID string) {
	t.Entities[entityID] = struct{}{}
}

// Contains reports set membership.
func (t *ResolvedTarget) Contains(entityID string) bool {
	_, ok := t.Entities[entityID]
	return ok
}

// Len returns the number of distinct entities.
func (t *ResolvedTarget) Len() int {
	return len(t.Entities)
}

// EntityList returns the members in sorted order. Membership is a set;
// sorting exists only so that logs and tests are stable.
func (t *ResolvedTarget) EntityList() []string {
	ids := make([]string, 0, len(t.Entities))
	for id := range t.Entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Warn appends a resolution warning.
func (t *ResolvedTarget) Warn(kind, id, reason string) {
	t.Warnings = append(t.Warnings, Warning{Kind: kind, ID: id, Reason: reason})
}
