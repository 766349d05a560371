package unassign_badge

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

const auditAction = "product.unassign_badge"

// Request identifies the product and the badge to detach from it.
type Request struct {
	ActorID   string
	ProductID string
	BadgeID   string
}

// Interactor handles the unassign badge use case.
type Interactor struct {
	txns        *txn.Factory
	products    contracts.ProductRepository
	badges      contracts.BadgeRepository
	admins      admincontracts.AdminRepository
	recorder    audit.Recorder
	invalidator contracts.CacheInvalidator
	clock       clock.Clock
}

// NewInteractor creates a new unassign badge interactor.
func NewInteractor(
	txns *txn.Factory,
	products contracts.ProductRepository,
	badges contracts.BadgeRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	invalidator contracts.CacheInvalidator,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:        txns,
		products:    products,
		badges:      badges,
		admins:      admins,
		recorder:    recorder,
		invalidator: invalidator,
		clock:       clk,
	}
}

// Execute detaches the badge from the product. Unassigning a badge the
// product does not have succeeds; the assignment set does not change.
// The badge may already be soft-deleted; stale assignments must stay
// removable.
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

		product, err = i.products.GetByID(ctx, q, req.ProductID)
		if err != nil {
			return err
		}

		if err := i.badges.Unassign(ctx, q, product.ID(), req.BadgeID); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityProduct,
			EntityID:   product.ID(),
			OldValues:  map[string]any{"badge_id": req.BadgeID},
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
