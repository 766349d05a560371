package m_product_badge

// Field name constants for the product_badges assignment table.
const (
	TableName = "product_badges"

	ProductID = "product_id"
	BadgeID   = "badge_id"
	CreatedAt = "created_at"
)
