package m_admin

import (
	"database/sql"
	"time"
)

// Data represents the database model for the admin_users table.
type Data struct {
	ID           string       `db:"id"`
	Email        string       `db:"email"`
	Name         string       `db:"name"`
	PasswordHash string       `db:"password_hash"`
	Role         string       `db:"role"`
	Active       bool         `db:"active"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	DeletedAt    sql.NullTime `db:"deleted_at"`
}
