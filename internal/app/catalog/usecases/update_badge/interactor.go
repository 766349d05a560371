package update_badge

import (
	"context"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "badge.update"

// Request contains the fields to change. Nil fields are left alone.
// Restore brings a soft-deleted badge back alongside any edits.
type Request struct {
	ActorID string
	BadgeID string
	Name    *string
	Color   *string
	Restore bool
}

// Interactor handles the update badge use case.
type Interactor struct {
	txns     *txn.Factory
	badges   contracts.BadgeRepository
	admins   admincontracts.AdminRepository
	recorder audit.Recorder
	clock    clock.Clock
}

// NewInteractor creates a new update badge interactor.
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

// Execute applies the requested edits in one unit of work with the
// audit entry. Edits that change nothing write nothing.
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

		oldValues := map[string]any{}
		newValues := map[string]any{}

		if req.Restore && badge.IsDeleted() {
			oldValues["deleted"] = true
			badge.Restore(now)
			newValues["deleted"] = false
		}

		if req.Name != nil && *req.Name != badge.Name() {
			oldValues["name"] = badge.Name()
			if err := badge.Rename(*req.Name, now); err != nil {
				return err
			}
			newValues["name"] = badge.Name()
		}

		if req.Color != nil && *req.Color != badge.Color() {
			oldValues["color"] = badge.Color()
			badge.SetColor(*req.Color, now)
			newValues["color"] = badge.Color()
		}

		if len(newValues) == 0 {
			return nil
		}

		if err := i.badges.Update(ctx, q, badge); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityBadge,
			EntityID:   badge.ID(),
			OldValues:  oldValues,
			NewValues:  newValues,
			CreatedAt:  now,
		})
	})
}
