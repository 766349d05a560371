package list_products

import (
	"context"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
)

// Request narrows and pages the storefront listing. Zero values mean
// no filter.
type Request struct {
	CategoryID    string
	BadgeID       string
	MarketplaceID string
	Search        string
	Limit         int
	Offset        int
}

// Query serves the storefront product listing. Only published products
// are ever returned.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates the listing query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves a paginated list of published products.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ListResult, error) {
	filter := &contracts.ListFilter{
		CategoryID:    req.CategoryID,
		BadgeID:       req.BadgeID,
		MarketplaceID: req.MarketplaceID,
		Search:        req.Search,
		Limit:         req.Limit,
		Offset:        req.Offset,
	}

	return q.readModel.ListPublished(ctx, filter)
}
