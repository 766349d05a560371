package m_category

// Field name constants for the categories table.
const (
	TableName = "categories"

	ID          = "id"
	Name        = "name"
	Slug        = "slug"
	Description = "description"
	Position    = "position"
	CreatedAt   = "created_at"
	UpdatedAt   = "updated_at"
	DeletedAt   = "deleted_at"
)
