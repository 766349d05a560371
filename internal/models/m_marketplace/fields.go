package m_marketplace

// Field name constants for the marketplaces table.
const (
	TableName = "marketplaces"

	ID            = "id"
	Name          = "name"
	Slug          = "slug"
	SiteURL       = "site_url"
	AffiliateTag  = "affiliate_tag"
	PriceSelector = "price_selector"
	CreatedAt     = "created_at"
	UpdatedAt     = "updated_at"
	DeletedAt     = "deleted_at"
)
