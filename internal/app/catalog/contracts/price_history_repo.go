package contracts

import (
	"context"
	"time"

	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// PriceHistoryRepository defines the interface for price history persistence.
type PriceHistoryRepository interface {
	// Record appends one observed price point for an affiliate link.
	Record(ctx context.Context, q txn.Querier, point PricePoint) error

	// ListForProduct retrieves price points for a product, most recent first.
	ListForProduct(ctx context.Context, q txn.Querier, productID string, limit int) ([]PricePoint, error)

	// Prune deletes points recorded before the cutoff and returns the
	// number of rows removed.
	Prune(ctx context.Context, q txn.Querier, before time.Time) (int64, error)
}

// PricePoint represents one observed price for a link at a moment in time.
type PricePoint struct {
	LinkID        string
	ProductID     string
	MarketplaceID string
	Price         domain.Price
	RecordedAt    time.Time
}
