package restore_to_published

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

const auditAction = "product.restore_to_published"

// Request identifies the archived product to put straight back live.
type Request struct {
	ActorID   string
	ProductID string
}

// Interactor handles the restore to published use case.
type Interactor struct {
	txns        *txn.Factory
	products    contracts.ProductRepository
	admins      admincontracts.AdminRepository
	recorder    audit.Recorder
	invalidator contracts.CacheInvalidator
	clock       clock.Clock
}

// NewInteractor creates a new restore to published interactor.
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

// Execute puts an archived product straight back on the storefront,
// skipping re-verification. A product archived before it ever went
// live gets its published_at stamped now; otherwise the original date
// survives the round trip.
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
		firstPublish := product.PublishedAt() == nil
		if err := product.RestoreToPublished(now); err != nil {
			return err
		}

		if err := i.products.Update(ctx, q, product); err != nil {
			return err
		}

		newValues := map[string]any{"status": string(product.Status())}
		if firstPublish {
			newValues["published_at"] = now
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityProduct,
			EntityID:   product.ID(),
			OldValues:  map[string]any{"status": string(oldStatus)},
			NewValues:  newValues,
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
