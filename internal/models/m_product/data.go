package m_product

import (
	"database/sql"
	"time"
)

// Data represents the database model for the products table.
type Data struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Slug           string         `db:"slug"`
	Description    string         `db:"description"`
	CategoryID     string         `db:"category_id"`
	PriceAmount    int64          `db:"price_amount"`
	PriceCurrency  string         `db:"price_currency"`
	Status         string         `db:"status"`
	VerifiedAt     sql.NullTime   `db:"verified_at"`
	VerifiedBy     sql.NullString `db:"verified_by"`
	PublishedAt    sql.NullTime   `db:"published_at"`
	LastPriceCheck sql.NullTime   `db:"last_price_check"`
	LastLinkCheck  sql.NullTime   `db:"last_link_check"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	ArchivedAt     sql.NullTime   `db:"archived_at"`
}
