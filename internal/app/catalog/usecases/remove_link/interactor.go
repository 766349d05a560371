package remove_link

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

const auditAction = "product.remove_link"

// Request identifies the affiliate link to remove.
type Request struct {
	ActorID string
	LinkID  string
}

// Interactor handles the remove link use case.
type Interactor struct {
	txns        *txn.Factory
	products    contracts.ProductRepository
	links       contracts.LinkRepository
	admins      admincontracts.AdminRepository
	recorder    audit.Recorder
	invalidator contracts.CacheInvalidator
	clock       clock.Clock
}

// NewInteractor creates a new remove link interactor.
func NewInteractor(
	txns *txn.Factory,
	products contracts.ProductRepository,
	links contracts.LinkRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	invalidator contracts.CacheInvalidator,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:        txns,
		products:    products,
		links:       links,
		admins:      admins,
		recorder:    recorder,
		invalidator: invalidator,
		clock:       clk,
	}
}

// Execute removes the affiliate link. Links are the one catalog record
// that hard-deletes; the audit entry preserves what was removed. The
// link's price history stays for the product's price chart.
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
		if err := actor.Authorize(admindomain.ActionProductEdit); err != nil {
			return err
		}

		link, err := i.links.GetByID(ctx, q, req.LinkID)
		if err != nil {
			return err
		}

		product, err = i.products.GetByID(ctx, q, link.ProductID())
		if err != nil {
			return err
		}

		if err := i.links.Delete(ctx, q, link.ID()); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityLink,
			EntityID:   link.ID(),
			OldValues: map[string]any{
				"product_id":     link.ProductID(),
				"marketplace_id": link.MarketplaceID(),
				"url":            link.URL(),
				"price":          link.Price().String(),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	if product.IsPublished() {
		i.invalidator.InvalidateProduct(ctx, product.Slug())
	}
	return nil
}
