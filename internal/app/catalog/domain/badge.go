package domain

import "time"

// Badge is an editorial label pinned to products ("Editor's pick",
// "Price drop"). Badges are assigned in the admin panel and rendered
// on the storefront.
type Badge struct {
	id    string
	name  string
	slug  string
	color string

	stamps  Timestamps
	deleted SoftDelete
}

// NewBadge creates a new Badge. Color is a hex value for the
// storefront chip, defaulting to a neutral grey when empty.
func NewBadge(id, name, slug, color string, now time.Time) (*Badge, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if slug == "" {
		return nil, ErrEmptySlug
	}
	if color == "" {
		color = "#9e9e9e"
	}
	return &Badge{
		id:     id,
		name:   name,
		slug:   slug,
		color:  color,
		stamps: NewTimestamps(now),
	}, nil
}

// ReconstructBadge reconstitutes a Badge from the database.
func ReconstructBadge(id, name, slug, color string, createdAt, updatedAt time.Time, deletedAt *time.Time) *Badge {
	return &Badge{
		id:      id,
		name:    name,
		slug:    slug,
		color:   color,
		stamps:  ReconstructTimestamps(createdAt, updatedAt),
		deleted: ReconstructSoftDelete(deletedAt),
	}
}

// Getters
func (b *Badge) ID() string            { return b.id }
func (b *Badge) Name() string          { return b.name }
func (b *Badge) Slug() string          { return b.slug }
func (b *Badge) Color() string         { return b.color }
func (b *Badge) CreatedAt() time.Time  { return b.stamps.CreatedAt() }
func (b *Badge) UpdatedAt() time.Time  { return b.stamps.UpdatedAt() }
func (b *Badge) DeletedAt() *time.Time { return b.deleted.DeletedAt() }
func (b *Badge) IsDeleted() bool       { return b.deleted.Deleted() }

// Rename changes the badge label.
func (b *Badge) Rename(name string, now time.Time) error {
	if name == "" {
		return ErrEmptyName
	}
	b.name = name
	b.stamps.Touch(now)
	return nil
}

// SetColor changes the storefront chip color.
func (b *Badge) SetColor(color string, now time.Time) {
	b.color = color
	b.stamps.Touch(now)
}

// Delete soft-deletes the badge.
func (b *Badge) Delete(now time.Time) {
	b.deleted.MarkDeleted(now)
	b.stamps.Touch(now)
}

// Restore brings a soft-deleted badge back.
func (b *Badge) Restore(now time.Time) {
	b.deleted.Clear()
	b.stamps.Touch(now)
}
