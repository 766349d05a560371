package contracts

import (
	"context"

	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// ProductRepository defines the interface for product persistence.
// Every method takes the querier of the enclosing unit of work, so
// repository calls compose into whatever transaction the caller runs.
type ProductRepository interface {
	// Insert persists a new product aggregate
	Insert(ctx context.Context, q txn.Querier, product *domain.Product) error

	// Update persists the dirty fields of a product. Business changes
	// bump updated_at; housekeeping stamps do not.
	Update(ctx context.Context, q txn.Querier, product *domain.Product) error

	// GetByID retrieves a product by ID, reconstructing the domain aggregate
	GetByID(ctx context.Context, q txn.Querier, productID string) (*domain.Product, error)

	// GetByIDForUpdate retrieves a product and row-locks it for the
	// rest of the transaction. Workflow transitions use this.
	GetByIDForUpdate(ctx context.Context, q txn.Querier, productID string) (*domain.Product, error)

	// GetBySlug retrieves a product by slug
	GetBySlug(ctx context.Context, q txn.Querier, slug string) (*domain.Product, error)

	// Exists checks if a product exists
	Exists(ctx context.Context, q txn.Querier, productID string) (bool, error)

	// List retrieves products for the admin views, most recently
	// touched first.
	List(ctx context.Context, q txn.Querier, filter ProductListFilter) ([]*domain.Product, error)
}

// ProductListFilter narrows the admin product listing. A nil Status
// means every lifecycle stage.
type ProductListFilter struct {
	Status *domain.ProductStatus
	Limit  int
	Offset int
}
