package m_link

// Field name constants for the affiliate_links table.
const (
	TableName = "affiliate_links"

	ID            = "id"
	ProductID     = "product_id"
	MarketplaceID = "marketplace_id"
	URL           = "url"
	PriceAmount   = "price_amount"
	PriceCurrency = "price_currency"
	Healthy       = "healthy"
	LastCheckedAt = "last_checked_at"
	CreatedAt     = "created_at"
	UpdatedAt     = "updated_at"
)
