package m_product

// Field name constants for the products table.
// These provide type-safe column references and prevent typos.
const (
	TableName = "products"

	ID             = "id"
	Name           = "name"
	Slug           = "slug"
	Description    = "description"
	CategoryID     = "category_id"
	PriceAmount    = "price_amount"
	PriceCurrency  = "price_currency"
	Status         = "status"
	VerifiedAt     = "verified_at"
	VerifiedBy     = "verified_by"
	PublishedAt    = "published_at"
	LastPriceCheck = "last_price_check"
	LastLinkCheck  = "last_link_check"
	CreatedAt      = "created_at"
	UpdatedAt      = "updated_at"
	ArchivedAt     = "archived_at"
)
