package update_product

import (
	"context"
	"errors"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "product.update"

// PricePatch carries a new display price. Both parts travel together
// so a currency can never change without its amount.
type PricePatch struct {
	Amount   int64
	Currency string
}

// Request contains the fields to change. Nil fields are left alone, so
// the admin form can submit only what the editor touched.
type Request struct {
	ActorID     string
	ProductID   string
	Name        *string
	Slug        *string
	Description *string
	CategoryID  *string
	Price       *PricePatch
}

// Interactor handles the update product use case.
type Interactor struct {
	txns        *txn.Factory
	products    contracts.ProductRepository
	categories  contracts.CategoryRepository
	admins      admincontracts.AdminRepository
	recorder    audit.Recorder
	invalidator contracts.CacheInvalidator
}

// NewInteractor creates a new update product interactor.
func NewInteractor(
	txns *txn.Factory,
	products contracts.ProductRepository,
	categories contracts.CategoryRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	invalidator contracts.CacheInvalidator,
) *Interactor {
	return &Interactor{
		txns:        txns,
		products:    products,
		categories:  categories,
		admins:      admins,
		recorder:    recorder,
		invalidator: invalidator,
	}
}

// Execute applies the requested edits in one unit of work with the
// audit entry. Edits that change nothing write nothing: no row update,
// no audit entry, no cache invalidation.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
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

		product, err = i.products.GetByIDForUpdate(ctx, q, req.ProductID)
		if err != nil {
			return err
		}

		oldValues := map[string]any{}
		newValues := map[string]any{}

		if req.Name != nil && *req.Name != product.Name() {
			oldValues["name"] = product.Name()
			if err := product.SetName(*req.Name); err != nil {
				return err
			}
			newValues["name"] = product.Name()
		}

		if req.Slug != nil && *req.Slug != product.Slug() {
			if _, err := i.products.GetBySlug(ctx, q, *req.Slug); err == nil {
				return domain.ErrSlugTaken
			} else if !errors.Is(err, domain.ErrProductNotFound) {
				return err
			}
			oldValues["slug"] = product.Slug()
			if err := product.SetSlug(*req.Slug); err != nil {
				return err
			}
			newValues["slug"] = product.Slug()
		}

		if req.Description != nil && *req.Description != product.Description() {
			oldValues["description"] = product.Description()
			if err := product.SetDescription(*req.Description); err != nil {
				return err
			}
			newValues["description"] = product.Description()
		}

		if req.CategoryID != nil && *req.CategoryID != product.CategoryID() {
			ok, err := i.categories.Exists(ctx, q, *req.CategoryID)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrInvalidCategory
			}
			oldValues["category_id"] = product.CategoryID()
			if err := product.SetCategory(*req.CategoryID); err != nil {
				return err
			}
			newValues["category_id"] = product.CategoryID()
		}

		if req.Price != nil {
			price, err := domain.NewPrice(req.Price.Amount, req.Price.Currency)
			if err != nil {
				return err
			}
			if !price.Equal(product.Price()) {
				oldValues["price"] = product.Price().String()
				if err := product.SetPrice(price); err != nil {
					return err
				}
				newValues["price"] = product.Price().String()
			}
		}

		if len(newValues) == 0 {
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
			OldValues:  oldValues,
			NewValues:  newValues,
			CreatedAt:  product.UpdatedAt(),
		})
	})
	if err != nil {
		return err
	}

	if product != nil && len(product.DomainEvents()) > 0 {
		if product.IsPublished() {
			i.invalidator.Invalidate(ctx, product.DomainEvents())
		}
		product.ClearEvents()
	}
	return nil
}
