package domain

import "sort"

// ChangeTracker tracks which fields of an aggregate have been
// modified so repositories persist only what changed. Fields come in
// two tiers: business changes, which bump updated_at, and housekeeping
// changes (checker timestamps), which must not.
type ChangeTracker struct {
	business     map[string]bool
	housekeeping map[string]bool
}

// NewChangeTracker creates an empty ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{
		business:     make(map[string]bool),
		housekeeping: make(map[string]bool),
	}
}

// MarkDirty marks a field as modified by an edit.
func (ct *ChangeTracker) MarkDirty(field string) {
	ct.business[field] = true
}

// MarkHousekeeping marks a field as modified by maintenance.
func (ct *ChangeTracker) MarkHousekeeping(field string) {
	ct.housekeeping[field] = true
}

// Dirty checks if a field has been modified in either tier.
func (ct *ChangeTracker) Dirty(field string) bool {
	return ct.business[field] || ct.housekeeping[field]
}

// HasChanges returns true if any field has been modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.business) > 0 || len(ct.housekeeping) > 0
}

// HasBusinessChanges returns true if any edit happened; repositories
// use it to decide whether updated_at moves.
func (ct *ChangeTracker) HasBusinessChanges() bool {
	return len(ct.business) > 0
}

// DirtyFields returns all modified field names, sorted for stable
// UPDATE statements.
func (ct *ChangeTracker) DirtyFields() []string {
	fields := make([]string, 0, len(ct.business)+len(ct.housekeeping))
	for field := range ct.business {
		fields = append(fields, field)
	}
	for field := range ct.housekeeping {
		if !ct.business[field] {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// Clear clears both tiers.
func (ct *ChangeTracker) Clear() {
	ct.business = make(map[string]bool)
	ct.housekeeping = make(map[string]bool)
}
