package update_link

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

const auditAction = "product.update_link"

// PricePatch carries a new link price. Both parts travel together so a
// currency can never change without its amount.
type PricePatch struct {
	Amount   int64
	Currency string
}

// Request contains the fields to change. Nil fields are left alone.
type Request struct {
	ActorID string
	LinkID  string
	URL     *string
	Price   *PricePatch
}

// Interactor handles the update link use case.
type Interactor struct {
	txns        *txn.Factory
	products    contracts.ProductRepository
	links       contracts.LinkRepository
	admins      admincontracts.AdminRepository
	recorder    audit.Recorder
	invalidator contracts.CacheInvalidator
	clock       clock.Clock
}

// NewInteractor creates a new update link interactor.
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

// Execute applies the requested edits in one unit of work with the
// audit entry. Edits that change nothing write nothing. An edited URL
// resets the healthy flag judgement at the next link check; the flag
// itself only moves through the checker.
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

		oldValues := map[string]any{}
		newValues := map[string]any{}

		if req.URL != nil && *req.URL != link.URL() {
			oldValues["url"] = link.URL()
			if err := link.SetURL(*req.URL, now); err != nil {
				return err
			}
			newValues["url"] = link.URL()
		}

		if req.Price != nil {
			price, err := domain.NewPrice(req.Price.Amount, req.Price.Currency)
			if err != nil {
				return err
			}
			if !price.Equal(link.Price()) {
				oldValues["price"] = link.Price().String()
				link.SetPrice(price, now)
				newValues["price"] = link.Price().String()
			}
		}

		if len(newValues) == 0 {
			return nil
		}

		if err := i.links.Update(ctx, q, link); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityLink,
			EntityID:   link.ID(),
			OldValues:  oldValues,
			NewValues:  newValues,
			CreatedAt:  now,
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
