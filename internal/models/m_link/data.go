package m_link

import (
	"database/sql"
	"time"
)

// Data represents the database model for the affiliate_links table.
type Data struct {
	ID            string       `db:"id"`
	ProductID     string       `db:"product_id"`
	MarketplaceID string       `db:"marketplace_id"`
	URL           string       `db:"url"`
	PriceAmount   int64        `db:"price_amount"`
	PriceCurrency string       `db:"price_currency"`
	Healthy       bool         `db:"healthy"`
	LastCheckedAt sql.NullTime `db:"last_checked_at"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}
