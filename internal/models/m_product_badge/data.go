package m_product_badge

import "time"

// Data represents one product-to-badge assignment row.
type Data struct {
	ProductID string    `db:"product_id"`
	BadgeID   string    `db:"badge_id"`
	CreatedAt time.Time `db:"created_at"`
}
