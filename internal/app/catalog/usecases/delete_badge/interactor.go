package delete_badge

import (
	"context"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "badge.delete"

// Request identifies the badge to soft-delete.
type Request struct {
	ActorID string
	BadgeID string
}

// Interactor handles the delete badge use case.
type Interactor struct {
	txns     *txn.Factory
	badges   contracts.BadgeRepository
	admins   admincontracts.AdminRepository
	recorder audit.Recorder
	clock    clock.Clock
}

// NewInteractor creates a new delete badge interactor.
func NewInteractor(
	txns *txn.Factory,
	badges contracts.BadgeRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:     txns,
		badges:   badges,
		admins:   admins,
		recorder: recorder,
		clock:    clk,
	}
}

// Execute soft-deletes the badge. Assignments stay in place; the
// storefront and badge listings just stop showing it. Deleting a
// deleted badge succeeds without writing anything.
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

		badge, err := i.badges.GetByID(ctx, q, req.BadgeID)
		if err != nil {
			return err
		}
		if badge.IsDeleted() {
			return nil
		}

		badge.Delete(now)

		if err := i.badges.Update(ctx, q, badge); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityBadge,
			EntityID:   badge.ID(),
			OldValues:  map[string]any{"deleted": false},
			NewValues:  map[string]any{"deleted": true, "deleted_at": now},
			CreatedAt:  now,
		})
	})
}
