package domain

import "time"

// Timestamps carries the created/updated pair shared by every catalog
// entity. Maintenance writes deliberately skip Touch so bookkeeping
// never masquerades as an edit.
type Timestamps struct {
	createdAt time.Time
	updatedAt time.Time
}

// NewTimestamps starts both stamps at now.
func NewTimestamps(now time.Time) Timestamps {
	return Timestamps{createdAt: now, updatedAt: now}
}

// ReconstructTimestamps restores stamps loaded from the database.
func ReconstructTimestamps(createdAt, updatedAt time.Time) Timestamps {
	return Timestamps{createdAt: createdAt, updatedAt: updatedAt}
}

func (t Timestamps) CreatedAt() time.Time { return t.createdAt }
func (t Timestamps) UpdatedAt() time.Time { return t.updatedAt }

// Touch records an edit.
func (t *Timestamps) Touch(now time.Time) {
	t.updatedAt = now
}

// SoftDelete marks an entity as removed without destroying the row.
type SoftDelete struct {
	deletedAt *time.Time
}

// ReconstructSoftDelete restores a marker loaded from the database.
func ReconstructSoftDelete(deletedAt *time.Time) SoftDelete {
	return SoftDelete{deletedAt: deletedAt}
}

// Deleted reports whether the marker is set.
func (s SoftDelete) Deleted() bool { return s.deletedAt != nil }

// DeletedAt returns when the entity was removed, or nil.
func (s SoftDelete) DeletedAt() *time.Time { return s.deletedAt }

// MarkDeleted sets the marker. Repeated calls keep the original time.
func (s *SoftDelete) MarkDeleted(now time.Time) {
	if s.deletedAt != nil {
		return
	}
	s.deletedAt = &now
}

// Clear removes the marker, restoring the entity.
func (s *SoftDelete) Clear() {
	s.deletedAt = nil
}
