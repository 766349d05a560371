package delete_category

import (
	"context"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "category.delete"

// Request identifies the category to soft-delete.
type Request struct {
	ActorID    string
	CategoryID string
}

// Interactor handles the delete category use case.
type Interactor struct {
	txns       *txn.Factory
	categories contracts.CategoryRepository
	admins     admincontracts.AdminRepository
	recorder   audit.Recorder
	clock      clock.Clock
}

// NewInteractor creates a new delete category interactor.
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

// Execute soft-deletes the category. Products keep their reference;
// only new product writes are blocked from using a deleted category.
// Deleting a deleted category succeeds without writing anything.
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
		if category.IsDeleted() {
			return nil
		}

		if err := category.Delete(now); err != nil {
			return err
		}

		if err := i.categories.Update(ctx, q, category); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityCategory,
			EntityID:   category.ID(),
			OldValues:  map[string]any{"deleted": false},
			NewValues:  map[string]any{"deleted": true, "deleted_at": now},
			CreatedAt:  now,
		})
	})
}
