package publish_product

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

const auditAction = "product.publish"

// Request identifies the verified product to put live.
type Request struct {
	ActorID   string
	ProductID string
}

// Interactor handles the publish product use case.
type Interactor struct {
	txns        *txn.Factory
	products    contracts.ProductRepository
	admins      admincontracts.AdminRepository
	recorder    audit.Recorder
	invalidator contracts.CacheInvalidator
	clock       clock.Clock
}

// NewInteractor creates a new publish product interactor.
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

// Execute puts a verified product live on the storefront. The
// published_at stamp is written only the first time the product ever
// goes live; republishing after an unpublish keeps the original date.
// Publishing an already published product succeeds without writing
// anything.
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
		firstPublish := product.PublishedAt() == nil
		if err := product.Publish(now); err != nil {
			return err
		}
		if !product.Changes().HasChanges() {
			return nil
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
