package archive_product

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

const auditAction = "product.archive"

// Request identifies the product to take off the books.
type Request struct {
	ActorID   string
	ProductID string
}

// Interactor handles the archive product use case.
type Interactor struct {
	txns        *txn.Factory
	products    contracts.ProductRepository
	admins      admincontracts.AdminRepository
	recorder    audit.Recorder
	invalidator contracts.CacheInvalidator
	clock       clock.Clock
}

// NewInteractor creates a new archive product interactor.
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

// Execute archives the product from whatever status it is in. The
// verification and publication stamps survive so a restore can pick up
// where the product left off. Archiving an archived product succeeds
// without writing anything.
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
		if err := actor.Authorize(admindomain.ActionProductArchive); err != nil {
			return err
		}

		product, err = i.products.GetByIDForUpdate(ctx, q, req.ProductID)
		if err != nil {
			return err
		}

		oldStatus := product.Status()
		if err := product.Archive(now); err != nil {
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
			NewValues: map[string]any{
				"status":      string(product.Status()),
				"archived_at": now,
			},
			CreatedAt: now,
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
