package create_product

import (
	"context"
	"errors"

	"github.com/google/uuid"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/slug"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "product.create"

// Request contains the data needed to create a product. Slug is
// derived from Name when empty. A zero price is allowed; the price
// checker fills it in later.
type Request struct {
	ActorID       string
	Name          string
	Slug          string
	Description   string
	CategoryID    string
	PriceAmount   int64
	PriceCurrency string
}

// Interactor handles the create product use case.
type Interactor struct {
	txns       *txn.Factory
	products   contracts.ProductRepository
	categories contracts.CategoryRepository
	admins     admincontracts.AdminRepository
	recorder   audit.Recorder
	clock      clock.Clock
}

// NewInteractor creates a new create product interactor.
func NewInteractor(
	txns *txn.Factory,
	products contracts.ProductRepository,
	categories contracts.CategoryRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:       txns,
		products:   products,
		categories: categories,
		admins:     admins,
		recorder:   recorder,
		clock:      clk,
	}
}

// Execute creates a draft product in one unit of work with its audit
// entry.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	now := i.clock.Now()

	var price domain.Price
	if req.PriceAmount != 0 || req.PriceCurrency != "" {
		var err error
		price, err = domain.NewPrice(req.PriceAmount, req.PriceCurrency)
		if err != nil {
			return "", err
		}
	}

	productSlug := req.Slug
	if productSlug == "" {
		productSlug = slug.Make(req.Name)
	}

	product, err := domain.NewProduct(
		uuid.New().String(),
		req.Name,
		productSlug,
		req.Description,
		req.CategoryID,
		price,
		now,
		i.clock,
	)
	if err != nil {
		return "", err
	}

	r := i.txns.Runner()
	defer r.Close()

	err = txn.Run(ctx, r, txn.ExecOptions{}, func(ctx context.Context, q txn.Querier) error {
		actor, err := i.admins.GetByID(ctx, q, req.ActorID)
		if err != nil {
			return err
		}
		if err := actor.Authorize(admindomain.ActionProductEdit); err != nil {
			return err
		}

		ok, err := i.categories.Exists(ctx, q, product.CategoryID())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidCategory
		}

		if _, err := i.products.GetBySlug(ctx, q, product.Slug()); err == nil {
			return domain.ErrSlugTaken
		} else if !errors.Is(err, domain.ErrProductNotFound) {
			return err
		}

		if err := i.products.Insert(ctx, q, product); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityProduct,
			EntityID:   product.ID(),
			NewValues: map[string]any{
				"name":        product.Name(),
				"slug":        product.Slug(),
				"category_id": product.CategoryID(),
				"price":       product.Price().String(),
				"status":      string(product.Status()),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", err
	}

	product.ClearEvents()
	return product.ID(), nil
}
