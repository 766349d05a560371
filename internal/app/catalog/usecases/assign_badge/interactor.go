package assign_badge

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

const auditAction = "product.assign_badge"

// Request identifies the product and the badge to attach to it.
type Request struct {
	ActorID   string
	ProductID string
	BadgeID   string
}

// Interactor handles the assign badge use case.
type Interactor struct {
	txns        *txn.Factory
	products    contracts.ProductRepository
	badges      contracts.BadgeRepository
	admins      admincontracts.AdminRepository
	recorder    audit.Recorder
	invalidator contracts.CacheInvalidator
	clock       clock.Clock
}

// NewInteractor creates a new assign badge interactor.
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

// Execute attaches the badge to the product. Assigning a badge the
// product already has succeeds; the assignment set does not change.
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

		badge, err := i.badges.GetByID(ctx, q, req.BadgeID)
		if err != nil {
			return err
		}
		if badge.IsDeleted() {
			return domain.ErrBadgeNotFound
		}

		if err := i.badges.Assign(ctx, q, product.ID(), badge.ID()); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityProduct,
			EntityID:   product.ID(),
			NewValues: map[string]any{
				"badge_id": badge.ID(),
				"badge":    badge.Name(),
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
