package create_marketplace

import (
	"context"

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

const auditAction = "marketplace.create"

// Request contains the data needed to create a marketplace. Slug is
// derived from Name when empty. PriceSelector is the CSS selector the
// price checker extracts prices with; empty means price checks skip
// this marketplace.
type Request struct {
	ActorID       string
	Name          string
	Slug          string
	SiteURL       string
	AffiliateTag  string
	PriceSelector string
}

// Interactor handles the create marketplace use case.
type Interactor struct {
	txns         *txn.Factory
	marketplaces contracts.MarketplaceRepository
	admins       admincontracts.AdminRepository
	recorder     audit.Recorder
	clock        clock.Clock
}

// NewInteractor creates a new create marketplace interactor.
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

// Execute creates a marketplace in one unit of work with its audit
// entry.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	now := i.clock.Now()

	marketplaceSlug := req.Slug
	if marketplaceSlug == "" {
		marketplaceSlug = slug.Make(req.Name)
	}

	marketplace, err := domain.NewMarketplace(
		uuid.New().String(),
		req.Name,
		marketplaceSlug,
		req.SiteURL,
		req.AffiliateTag,
		req.PriceSelector,
		now,
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
		if err := actor.Authorize(admindomain.ActionCatalogManage); err != nil {
			return err
		}

		if err := i.marketplaces.Insert(ctx, q, marketplace); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityMarketplace,
			EntityID:   marketplace.ID(),
			NewValues: map[string]any{
				"name":     marketplace.Name(),
				"slug":     marketplace.Slug(),
				"site_url": marketplace.SiteURL(),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", err
	}

	return marketplace.ID(), nil
}
