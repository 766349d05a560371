package domain

import "time"

// Category groups products on the storefront. Categories are plain
// CRUD entities: no workflow, full-row persistence.
type Category struct {
	id          string
	name        string
	slug        string
	description string
	position    int

	stamps  Timestamps
	deleted SoftDelete
}

// NewCategory creates a new Category.
func NewCategory(id, name, slug, description string, position int, now time.Time) (*Category, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if slug == "" {
		return nil, ErrEmptySlug
	}
	return &Category{
		id:          id,
		name:        name,
		slug:        slug,
		description: description,
		position:    position,
		stamps:      NewTimestamps(now),
	}, nil
}

// ReconstructCategory reconstitutes a Category from the database.
func ReconstructCategory(id, name, slug, description string, position int, createdAt, updatedAt time.Time, deletedAt *time.Time) *Category {
	return &Category{
		id:          id,
		name:        name,
		slug:        slug,
		description: description,
		position:    position,
		stamps:      ReconstructTimestamps(createdAt, updatedAt),
		deleted:     ReconstructSoftDelete(deletedAt),
	}
}

// Getters
func (c *Category) ID() string            { return c.id }
func (c *Category) Name() string          { return c.name }
func (c *Category) Slug() string          { return c.slug }
func (c *Category) Description() string   { return c.description }
func (c *Category) Position() int         { return c.position }
func (c *Category) CreatedAt() time.Time  { return c.stamps.CreatedAt() }
func (c *Category) UpdatedAt() time.Time  { return c.stamps.UpdatedAt() }
func (c *Category) DeletedAt() *time.Time { return c.deleted.DeletedAt() }
func (c *Category) IsDeleted() bool       { return c.deleted.Deleted() }

// Rename changes the display name.
func (c *Category) Rename(name string, now time.Time) error {
	if c.deleted.Deleted() {
		return ErrCategoryDeleted
	}
	if name == "" {
		return ErrEmptyName
	}
	c.name = name
	c.stamps.Touch(now)
	return nil
}

// SetDescription updates the description.
func (c *Category) SetDescription(description string, now time.Time) error {
	if c.deleted.Deleted() {
		return ErrCategoryDeleted
	}
	c.description = description
	c.stamps.Touch(now)
	return nil
}

// SetPosition moves the category in the storefront ordering.
func (c *Category) SetPosition(position int, now time.Time) error {
	if c.deleted.Deleted() {
		return ErrCategoryDeleted
	}
	c.position = position
	c.stamps.Touch(now)
	return nil
}

// Delete soft-deletes the category. Its products keep their category
// id; the storefront just stops listing the group.
func (c *Category) Delete(now time.Time) error {
	if c.deleted.Deleted() {
		return ErrCategoryDeleted
	}
	c.deleted.MarkDeleted(now)
	c.stamps.Touch(now)
	return nil
}

// Restore brings a soft-deleted category back.
func (c *Category) Restore(now time.Time) {
	c.deleted.Clear()
	c.stamps.Touch(now)
}
