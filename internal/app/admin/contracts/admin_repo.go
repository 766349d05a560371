package contracts

import (
	"context"

	"github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// AdminRepository defines the interface for admin user persistence.
type AdminRepository interface {
	Insert(ctx context.Context, q txn.Querier, user *domain.AdminUser) error
	Update(ctx context.Context, q txn.Querier, user *domain.AdminUser) error
	GetByID(ctx context.Context, q txn.Querier, id string) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, q txn.Querier, email string) (*domain.AdminUser, error)
	List(ctx context.Context, q txn.Querier) ([]*domain.AdminUser, error)
}
