package get_product

import (
	"context"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
)

// Request contains the storefront slug to retrieve.
type Request struct {
	Slug string
}

// Query serves the public product page, addressed by slug.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates the product page query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves the product page for a published product.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ProductPageDTO, error) {
	return q.readModel.GetProductPage(ctx, req.Slug)
}
