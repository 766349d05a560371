package m_category

import (
	"database/sql"
	"time"
)

// Data represents the database model for the categories table.
type Data struct {
	ID          string       `db:"id"`
	Name        string       `db:"name"`
	Slug        string       `db:"slug"`
	Description string       `db:"description"`
	Position    int64        `db:"position"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
	DeletedAt   sql.NullTime `db:"deleted_at"`
}
