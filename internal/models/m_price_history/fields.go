package m_price_history

// Table name constant
const TableName = "price_history"

// Field name constants for type-safe database access
const (
	ID            = "id"
	LinkID        = "link_id"
	ProductID     = "product_id"
	MarketplaceID = "marketplace_id"
	PriceAmount   = "price_amount"
	PriceCurrency = "price_currency"
	RecordedAt    = "recorded_at"
)
