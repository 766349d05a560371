package m_marketplace

import (
	"database/sql"
	"time"
)

// Data represents the database model for the marketplaces table.
type Data struct {
	ID            string       `db:"id"`
	Name          string       `db:"name"`
	Slug          string       `db:"slug"`
	SiteURL       string       `db:"site_url"`
	AffiliateTag  string       `db:"affiliate_tag"`
	PriceSelector string       `db:"price_selector"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
	DeletedAt     sql.NullTime `db:"deleted_at"`
}
