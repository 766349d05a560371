package contracts

import (
	"context"

	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
)

// CacheInvalidator drops storefront cache entries affected by domain
// events. Usecases call it after commit; failures are logged, never
// surfaced, because the write already happened.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, events []domain.DomainEvent)

	// InvalidateProduct drops the cached page for one product slug plus
	// the list pages. Link and badge writes use it; they change what a
	// product page shows without going through the product aggregate.
	InvalidateProduct(ctx context.Context, slug string)
}
