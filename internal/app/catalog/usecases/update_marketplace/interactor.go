package update_marketplace

import (
	"context"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "marketplace.update"

// Request contains the fields to change. Nil fields are left alone.
// Restore brings a soft-deleted marketplace back alongside any edits.
type Request struct {
	ActorID       string
	MarketplaceID string
	Name          *string
	SiteURL       *string
	AffiliateTag  *string
	PriceSelector *string
	Restore       bool
}

// Interactor handles the update marketplace use case.
type Interactor struct {
	txns         *txn.Factory
	marketplaces contracts.MarketplaceRepository
	admins       admincontracts.AdminRepository
	recorder     audit.Recorder
	clock        clock.Clock
}

// NewInteractor creates a new update marketplace interactor.
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

		marketplace, err := i.marketplaces.GetByID(ctx, q, req.MarketplaceID)
		if err != nil {
			return err
		}

		oldValues := map[string]any{}
		newValues := map[string]any{}

		if req.Restore && marketplace.IsDeleted() {
			oldValues["deleted"] = true
			marketplace.Restore(now)
			newValues["deleted"] = false
		}

		if req.Name != nil && *req.Name != marketplace.Name() {
			oldValues["name"] = marketplace.Name()
			if err := marketplace.Rename(*req.Name, now); err != nil {
				return err
			}
			newValues["name"] = marketplace.Name()
		}

		if req.SiteURL != nil && *req.SiteURL != marketplace.SiteURL() {
			oldValues["site_url"] = marketplace.SiteURL()
			if err := marketplace.SetSiteURL(*req.SiteURL, now); err != nil {
				return err
			}
			newValues["site_url"] = marketplace.SiteURL()
		}

		if req.AffiliateTag != nil && *req.AffiliateTag != marketplace.AffiliateTag() {
			oldValues["affiliate_tag"] = marketplace.AffiliateTag()
			marketplace.SetAffiliateTag(*req.AffiliateTag, now)
			newValues["affiliate_tag"] = marketplace.AffiliateTag()
		}

		if req.PriceSelector != nil && *req.PriceSelector != marketplace.PriceSelector() {
			oldValues["price_selector"] = marketplace.PriceSelector()
			marketplace.SetPriceSelector(*req.PriceSelector, now)
			newValues["price_selector"] = marketplace.PriceSelector()
		}

		if len(newValues) == 0 {
			return nil
		}

		if err := i.marketplaces.Update(ctx, q, marketplace); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityMarketplace,
			EntityID:   marketplace.ID(),
			OldValues:  oldValues,
			NewValues:  newValues,
			CreatedAt:  now,
		})
	})
}
