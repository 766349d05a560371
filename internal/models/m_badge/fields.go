package m_badge

// Field name constants for the badges table.
const (
	TableName = "badges"

	ID        = "id"
	Name      = "name"
	Slug      = "slug"
	Color     = "color"
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
	DeletedAt = "deleted_at"
)
