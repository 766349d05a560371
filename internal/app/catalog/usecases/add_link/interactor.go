package add_link

import (
	"context"

	"github.com/google/uuid"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "product.add_link"

// Request contains the data needed to attach an affiliate link to a
// product. A zero price is allowed; the price checker fills it in.
type Request struct {
	ActorID       string
	ProductID     string
	MarketplaceID string
	URL           string
	PriceAmount   int64
	PriceCurrency string
}

// Interactor handles the add link use case.
type Interactor struct {
	txns         *txn.Factory
	products     contracts.ProductRepository
	marketplaces contracts.MarketplaceRepository
	links        contracts.LinkRepository
	admins       admincontracts.AdminRepository
	recorder     audit.Recorder
	invalidator  contracts.CacheInvalidator
	clock        clock.Clock
}

// NewInteractor creates a new add link interactor.
func NewInteractor(
	txns *txn.Factory,
	products contracts.ProductRepository,
	marketplaces contracts.MarketplaceRepository,
	links contracts.LinkRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	invalidator contracts.CacheInvalidator,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:         txns,
		products:     products,
		marketplaces: marketplaces,
		links:        links,
		admins:       admins,
		recorder:     recorder,
		invalidator:  invalidator,
		clock:        clk,
	}
}

// Execute attaches an affiliate link in one unit of work with its
// audit entry. A product carries at most one link per marketplace.
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

	link, err := domain.NewAffiliateLink(
		uuid.New().String(),
		req.ProductID,
		req.MarketplaceID,
		req.URL,
		price,
		now,
	)
	if err != nil {
		return "", err
	}

	var product *domain.Product

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

		product, err = i.products.GetByID(ctx, q, req.ProductID)
		if err != nil {
			return err
		}

		marketplace, err := i.marketplaces.GetByID(ctx, q, req.MarketplaceID)
		if err != nil {
			return err
		}
		if marketplace.IsDeleted() {
			return domain.ErrMarketplaceNotFound
		}

		existing, err := i.links.ListForProduct(ctx, q, product.ID())
		if err != nil {
			return err
		}
		for _, l := range existing {
			if l.MarketplaceID() == marketplace.ID() {
				return domain.ErrDuplicateLink
			}
		}

		if err := i.links.Insert(ctx, q, link); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityLink,
			EntityID:   link.ID(),
			NewValues: map[string]any{
				"product_id":     link.ProductID(),
				"marketplace_id": link.MarketplaceID(),
				"url":            link.URL(),
				"price":          link.Price().String(),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", err
	}

	if product.IsPublished() {
		i.invalidator.InvalidateProduct(ctx, product.Slug())
	}
	return link.ID(), nil
}
