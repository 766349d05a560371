package unpublish_product

import (
	"context"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "product.unpublish"

// Request identifies the live product to pull back for rework.
type Request struct {
	ActorID   string
	ProductID string
}

// Interactor handles the unpublish product use case.
type Interactor struct {
	txns        *txn.Factory
	products    contracts.ProductRepository
	admins      admincontracts.AdminRepository
	recorder    audit.Recorder
	invalidator contracts.CacheInvalidator
	clock       clock.Clock
}

// NewInteractor creates a new unpublish product interactor.
func NewInteractor(
	txns *txn.Factory,
	products contracts.ProductRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	invalidator contracts.CacheInvalidator,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:        txns,
		products:    products,
		admins:      admins,
		recorder:    recorder,
		invalidator: invalidator,
		clock:       clk,
	}
}

// Execute pulls a live product back to verified. The published_at
// stamp stays where it is; only the first publish ever sets it.
// Unpublishing a product already back in verified succeeds without
// writing anything.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	now := i.clock.Now()

	var product *domain.Product

	r := i.txns.Runner()
	defer r.Close()

	err := txn.Run(ctx, r, txn.ExecOptions{}, func(ctx context.Context, q txn.Querier) error {
		actor, err := i.admins.GetByID(ctx, q, req.ActorID)
		if err != nil {
			return err
		}
		if err := actor.Authorize(admindomain.ActionProductPublish); err != nil {
			return err
		}

		product, err = i.products.GetByIDForUpdate(ctx, q, req.ProductID)
		if err != nil {
			return err
		}

		oldStatus := product.Status()
		if err := product.Unpublish(now); err != nil {
			return err
		}
		if !product.Changes().HasChanges() {
			return nil
		}

		if err := i.products.Update(ctx, q, product); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityProduct,
			EntityID:   product.ID(),
			OldValues:  map[string]any{"status": string(oldStatus)},
			NewValues:  map[string]any{"status": string(product.Status())},
			CreatedAt:  now,
		})
	})
	if err != nil {
		return err
	}

	if product != nil && len(product.DomainEvents()) > 0 {
		i.invalidator.Invalidate(ctx, product.DomainEvents())
		product.ClearEvents()
	}
	return nil
}
