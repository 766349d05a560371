package delete_marketplace

import (
	"context"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "marketplace.delete"

// Request identifies the marketplace to soft-delete.
type Request struct {
	ActorID       string
	MarketplaceID string
}

// Interactor handles the delete marketplace use case.
type Interactor struct {
	txns         *txn.Factory
	marketplaces contracts.MarketplaceRepository
	admins       admincontracts.AdminRepository
	recorder     audit.Recorder
	clock        clock.Clock
}

// NewInteractor creates a new delete marketplace interactor.
func NewInteractor(
	txns *txn.Factory,
	marketplaces contracts.MarketplaceRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:         txns,
		marketplaces: marketplaces,
		admins:       admins,
		recorder:     recorder,
		clock:        clk,
	}
}

// Execute soft-deletes the marketplace. Existing affiliate links keep
// their reference but the storefront stops offering them, and the
// maintenance jobs skip them. Deleting a deleted marketplace succeeds
// without writing anything.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	now := i.clock.Now()

	r := i.txns.Runner()
	defer r.Close()

	return txn.Run(ctx, r, txn.ExecOptions{}, func(ctx context.Context, q txn.Querier) error {
		actor, err := i.admins.GetByID(ctx, q, req.ActorID)
		if err != nil {
			return err
		}
		if err := actor.Authorize(admindomain.ActionCatalogManage); err != nil {
			return err
		}

		marketplace, err := i.marketplaces.GetByID(ctx, q, req.MarketplaceID)
		if err != nil {
			return err
		}
		if marketplace.IsDeleted() {
			return nil
		}

		marketplace.Delete(now)

		if err := i.marketplaces.Update(ctx, q, marketplace); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityMarketplace,
			EntityID:   marketplace.ID(),
			OldValues:  map[string]any{"deleted": false},
			NewValues:  map[string]any{"deleted": true, "deleted_at": now},
			CreatedAt:  now,
		})
	})
}
