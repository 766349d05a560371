package m_price_history

import "time"

// Data represents a price history record in the database. Each row is
// one observed price point for an affiliate link.
type Data struct {
	ID            int64     `db:"id"`
	LinkID        string    `db:"link_id"`
	ProductID     string    `db:"product_id"`
	MarketplaceID string    `db:"marketplace_id"`
	PriceAmount   int64     `db:"price_amount"`
	PriceCurrency string    `db:"price_currency"`
	RecordedAt    time.Time `db:"recorded_at"`
}
