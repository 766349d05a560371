package contracts

import (
	"context"
	"time"
)

// ProductDTO is a data transfer object for storefront product queries.
type ProductDTO struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Slug          string    `db:"slug" json:"slug"`
	Description   string    `db:"description" json:"description"`
	CategoryID    string    `db:"category_id" json:"category_id"`
	PriceAmount   int64     `db:"price_amount" json:"price_amount"`
	PriceCurrency string    `db:"price_currency" json:"price_currency"`
	PublishedAt   time.Time `db:"published_at" json:"published_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// LinkDTO is one live affiliate offer on a product page.
type LinkDTO struct {
	ID              string `db:"id" json:"id"`
	MarketplaceID   string `db:"marketplace_id" json:"marketplace_id"`
	MarketplaceName string `db:"marketplace_name" json:"marketplace_name"`
	URL             string `db:"url" json:"url"`
	PriceAmount     int64  `db:"price_amount" json:"price_amount"`
	PriceCurrency   string `db:"price_currency" json:"price_currency"`
}

// PricePointDTO is one historical price observation for the price chart.
type PricePointDTO struct {
	PriceAmount   int64     `db:"price_amount" json:"price_amount"`
	PriceCurrency string    `db:"price_currency" json:"price_currency"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at"`
}

// BadgeDTO is one curation label shown on a product page.
type BadgeDTO struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Slug  string `db:"slug" json:"slug"`
	Color string `db:"color" json:"color"`
}

// ProductPageDTO is everything the storefront product page shows, in
// one cacheable unit.
type ProductPageDTO struct {
	Product ProductDTO       `json:"product"`
	Badges  []*BadgeDTO      `json:"badges"`
	Links   []*LinkDTO       `json:"links"`
	Prices  []*PricePointDTO `json:"prices"`
}

// ListFilter defines filtering options for listing published products.
type ListFilter struct {
	CategoryID    string
	BadgeID       string
	MarketplaceID string
	Search        string
	Limit         int
	Offset        int
}

// ListResult contains paginated product list results.
type ListResult struct {
	Products   []*ProductDTO `json:"products"`
	TotalCount int64         `json:"total_count"`
}

// ReadModel defines the interface for storefront queries. It serves
// published products only and bypasses the domain layer.
type ReadModel interface {
	// GetProductPage retrieves the full page for a published product:
	// the product itself, its badges, its healthy offers, and recent
	// price points.
	GetProductPage(ctx context.Context, slug string) (*ProductPageDTO, error)

	// ListPublished retrieves a paginated list of published products
	ListPublished(ctx context.Context, filter *ListFilter) (*ListResult, error)
}
