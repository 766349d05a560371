package update_category

import (
	"context"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "category.update"

// Request contains the fields to change. Nil fields are left alone.
// Restore brings a soft-deleted category back alongside any edits.
type Request struct {
	ActorID     string
	CategoryID  string
	Name        *string
	Description *string
	Position    *int
	Restore     bool
}

// Interactor handles the update category use case.
type Interactor struct {
	txns       *txn.Factory
	categories contracts.CategoryRepository
	admins     admincontracts.AdminRepository
	recorder   audit.Recorder
	clock      clock.Clock
}

// NewInteractor creates a new update category interactor.
func NewInteractor(
	txns *txn.Factory,
	categories contracts.CategoryRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:       txns,
		categories: categories,
		admins:     admins,
		recorder:   recorder,
		clock:      clk,
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

		category, err := i.categories.GetByID(ctx, q, req.CategoryID)
		if err != nil {
			return err
		}

		oldValues := map[string]any{}
		newValues := map[string]any{}

		if req.Restore && category.IsDeleted() {
			oldValues["deleted"] = true
			category.Restore(now)
			newValues["deleted"] = false
		}

		if req.Name != nil && *req.Name != category.Name() {
			oldValues["name"] = category.Name()
			if err := category.Rename(*req.Name, now); err != nil {
				return err
			}
			newValues["name"] = category.Name()
		}

		if req.Description != nil && *req.Description != category.Description() {
			oldValues["description"] = category.Description()
			if err := category.SetDescription(*req.Description, now); err != nil {
				return err
			}
			newValues["description"] = category.Description()
		}

		if req.Position != nil && *req.Position != category.Position() {
			oldValues["position"] = category.Position()
			if err := category.SetPosition(*req.Position, now); err != nil {
				return err
			}
			newValues["position"] = category.Position()
		}

		if len(newValues) == 0 {
			return nil
		}

		if err := i.categories.Update(ctx, q, category); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityCategory,
			EntityID:   category.ID(),
			OldValues:  oldValues,
			NewValues:  newValues,
			CreatedAt:  now,
		})
	})
}
