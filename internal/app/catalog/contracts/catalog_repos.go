package contracts

import (
	"context"

	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	Insert(ctx context.Context, q txn.Querier, category *domain.Category) error
	Update(ctx context.Context, q txn.Querier, category *domain.Category) error
	GetByID(ctx context.Context, q txn.Querier, categoryID string) (*domain.Category, error)

	// Exists reports whether a live (not soft-deleted) category exists.
	// Product writes use it to validate category references.
	Exists(ctx context.Context, q txn.Querier, categoryID string) (bool, error)
}

// MarketplaceRepository defines the interface for marketplace persistence.
type MarketplaceRepository interface {
	Insert(ctx context.Context, q txn.Querier, marketplace *domain.Marketplace) error
	Update(ctx context.Context, q txn.Querier, marketplace *domain.Marketplace) error
	GetByID(ctx context.Context, q txn.Querier, marketplaceID string) (*domain.Marketplace, error)
}

// BadgeRepository defines the interface for badge persistence and
// product-badge assignment.
type BadgeRepository interface {
	Insert(ctx context.Context, q txn.Querier, badge *domain.Badge) error
	Update(ctx context.Context, q txn.Querier, badge *domain.Badge) error
	GetByID(ctx context.Context, q txn.Querier, badgeID string) (*domain.Badge, error)

	// Assign attaches a badge to a product; re-assigning is a no-op.
	Assign(ctx context.Context, q txn.Querier, productID, badgeID string) error

	// Unassign detaches a badge from a product.
	Unassign(ctx context.Context, q txn.Querier, productID, badgeID string) error

	// ListForProduct returns the badges assigned to a product.
	ListForProduct(ctx context.Context, q txn.Querier, productID string) ([]*domain.Badge, error)
}

// LinkRepository defines the interface for affiliate link persistence.
type LinkRepository interface {
	Insert(ctx context.Context, q txn.Querier, link *domain.AffiliateLink) error
	Update(ctx context.Context, q txn.Querier, link *domain.AffiliateLink) error
	Delete(ctx context.Context, q txn.Querier, linkID string) error
	GetByID(ctx context.Context, q txn.Querier, linkID string) (*domain.AffiliateLink, error)
	ListForProduct(ctx context.Context, q txn.Querier, productID string) ([]*domain.AffiliateLink, error)

	// ListAll returns every link, oldest check first. The maintenance
	// jobs feed these through the batch runner.
	ListAll(ctx context.Context, q txn.Querier) ([]*domain.AffiliateLink, error)
}
