package m_admin

// Field name constants for the admin_users table.
const (
	TableName = "admin_users"

	ID           = "id"
	Email        = "email"
	Name         = "name"
	PasswordHash = "password_hash"
	Role         = "role"
	Active       = "active"
	CreatedAt    = "created_at"
	UpdatedAt    = "updated_at"
	DeletedAt    = "deleted_at"
)
