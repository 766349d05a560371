package reject_product

import (
	"context"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "product.reject"

// Request identifies the pending product to send back to draft. The
// reason lands in the audit trail, not on the product itself.
type Request struct {
	ActorID   string
	ProductID string
	Reason    string
}

// Interactor handles the reject product use case.
type Interactor struct {
	txns     *txn.Factory
	products contracts.ProductRepository
	admins   admincontracts.AdminRepository
	recorder audit.Recorder
	clock    clock.Clock
}

// NewInteractor creates a new reject product interactor.
func NewInteractor(
	txns *txn.Factory,
	products contracts.ProductRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:     txns,
		products: products,
		admins:   admins,
		recorder: recorder,
		clock:    clk,
	}
}

// Execute sends a pending product back to draft. Rejecting a product
// already in draft succeeds without writing anything.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	now := i.clock.Now()

	r := i.txns.Runner()
	defer r.Close()

	return txn.Run(ctx, r, txn.ExecOptions{}, func(ctx context.Context, q txn.Querier) error {
		actor, err := i.admins.GetByID(ctx, q, req.ActorID)
		if err != nil {
			return err
		}
		if err := actor.Authorize(admindomain.ActionProductVerify); err != nil {
			return err
		}

		product, err := i.products.GetByIDForUpdate(ctx, q, req.ProductID)
		if err != nil {
			return err
		}

		oldStatus := product.Status()
		if err := product.Reject(req.Reason, now); err != nil {
			return err
		}
		if !product.Changes().HasChanges() {
			return nil
		}

		if err := i.products.Update(ctx, q, product); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityProduct,
			EntityID:   product.ID(),
			OldValues:  map[string]any{"status": string(oldStatus)},
			NewValues: map[string]any{
				"status": string(product.Status()),
				"reason": req.Reason,
			},
			CreatedAt: now,
		})
	})
}
