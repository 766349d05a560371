// Package check_prices sweeps the affiliate links, reads the current
// price off each marketplace page and folds the result back into the
// catalog: a price point per observation, the link's own price, and
// the product's display price as the lowest healthy offer.
package check_prices

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// PriceSource pulls a price off a marketplace page. Returns minor
// units and a currency code.
type PriceSource interface {
	ExtractPrice(ctx context.Context, rawURL, selector string) (int64, string, error)
}

// Report sums up one sweep.
type Report struct {
	Checked int
	Updated int
	Skipped int
	Failed  int
}

// Job runs the price sweep.
type Job struct {
	txns         *txn.Factory
	db           txn.Querier
	links        contracts.LinkRepository
	products     contracts.ProductRepository
	marketplaces contracts.MarketplaceRepository
	history      contracts.PriceHistoryRepository
	source       PriceSource
	invalidator  contracts.CacheInvalidator
	clock        clock.Clock
	logger       *zap.Logger
}

// NewJob creates a price check job.
func NewJob(
	txns *txn.Factory,
	db txn.Querier,
	links contracts.LinkRepository,
	products contracts.ProductRepository,
	marketplaces contracts.MarketplaceRepository,
	history contracts.PriceHistoryRepository,
	source PriceSource,
	invalidator contracts.CacheInvalidator,
	clk clock.Clock,
	logger *zap.Logger,
) *Job {
	return &Job{
		txns:         txns,
		db:           db,
		links:        links,
		products:     products,
		marketplaces: marketplaces,
		history:      history,
		source:       source,
		invalidator:  invalidator,
		clock:        clk,
		logger:       logger,
	}
}

type observation struct {
	linkID string
	price  domain.Price
}

// Run extracts prices outside any transaction, then writes the
// observations back in one batch with a savepoint per link.
// Marketplaces without a price selector, and deleted ones, are
// skipped; extraction failures skip the link and the sweep goes on.
func (j *Job) Run(ctx context.Context) (*Report, error) {
	links, err := j.links.ListAll(ctx, j.db)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	selectors := make(map[string]string)

	observations := make([]observation, 0, len(links))
	for _, link := range links {
		selector, err := j.selectorFor(ctx, selectors, link.MarketplaceID())
		if err != nil {
			return nil, err
		}
		if selector == "" {
			report.Skipped++
			continue
		}

		amount, currency, err := j.source.ExtractPrice(ctx, link.URL(), selector)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			report.Failed++
			j.logger.Warn("price extraction failed",
				zap.String("link_id", link.ID()),
				zap.String("url", link.URL()),
				zap.Error(err))
			continue
		}
		price, err := domain.NewPrice(amount, currency)
		if err != nil {
			report.Failed++
			j.logger.Warn("extracted price rejected",
				zap.String("link_id", link.ID()),
				zap.Int64("amount", amount),
				zap.String("currency", currency))
			continue
		}
		observations = append(observations, observation{linkID: link.ID(), price: price})
	}

	now := j.clock.Now()
	var stale []domain.DomainEvent

	r := j.txns.Runner()
	defer r.Close()

	result, err := txn.ExecuteBatch(ctx, r, txn.BatchOptions{}, observations,
		func(ctx context.Context, q txn.Querier, o observation) error {
			link, err := j.links.GetByID(ctx, q, o.linkID)
			if errors.Is(err, domain.ErrLinkNotFound) {
				return nil
			}
			if err != nil {
				return err
			}

			// An unchanged link price writes nothing; updated_at only
			// moves when the offer actually moved.
			if !link.Price().Equal(o.price) {
				link.SetPrice(o.price, now)
				if err := j.links.Update(ctx, q, link); err != nil {
					return err
				}
			}

			if err := j.history.Record(ctx, q, contracts.PricePoint{
				LinkID:        link.ID(),
				ProductID:     link.ProductID(),
				MarketplaceID: link.MarketplaceID(),
				Price:         o.price,
				RecordedAt:    now,
			}); err != nil {
				return err
			}

			product, err := j.products.GetByID(ctx, q, link.ProductID())
			if err != nil {
				return err
			}

			changed := false
			if lowest, ok := j.lowestOffer(ctx, q, product.ID()); ok {
				changed = product.ApplyCheckedPrice(lowest, now)
			}
			product.MarkPriceChecked(now)
			if err := j.products.Update(ctx, q, product); err != nil {
				return err
			}

			if changed {
				report.Updated++
				if product.IsPublished() {
					stale = append(stale, product.DomainEvents()...)
				}
			}
			product.ClearEvents()
			return nil
		})
	if err != nil {
		return nil, err
	}

	if len(stale) > 0 {
		j.invalidator.Invalidate(ctx, stale)
	}

	report.Checked = result.Processed
	report.Failed += result.Failed
	for _, itemErr := range result.Errors {
		j.logger.Warn("price write failed",
			zap.String("link_id", observations[itemErr.Index].linkID),
			zap.Error(itemErr.Err))
	}
	for _, chunkErr := range result.ChunkErrors {
		j.logger.Warn("price chunk failed", zap.Error(chunkErr.Err))
	}

	j.logger.Info("price sweep finished",
		zap.Int("checked", report.Checked),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	return report, nil
}

// lowestOffer returns the cheapest price across the product's healthy
// links, reading through the batch transaction so the link updated a
// moment ago counts.
func (j *Job) lowestOffer(ctx context.Context, q txn.Querier, productID string) (domain.Price, bool) {
	siblings, err := j.links.ListForProduct(ctx, q, productID)
	if err != nil {
		j.logger.Warn("sibling link read failed",
			zap.String("product_id", productID),
			zap.Error(err))
		return domain.Price{}, false
	}

	var lowest domain.Price
	found := false
	for _, sibling := range siblings {
		if !sibling.Healthy() || sibling.Price().IsZero() {
			continue
		}
		if !found || sibling.Price().Amount() < lowest.Amount() {
			lowest = sibling.Price()
			found = true
		}
	}
	return lowest, found
}

func (j *Job) selectorFor(ctx context.Context, cache map[string]string, marketplaceID string) (string, error) {
	if selector, ok := cache[marketplaceID]; ok {
		return selector, nil
	}

	marketplace, err := j.marketplaces.GetByID(ctx, j.db, marketplaceID)
	if err != nil {
		return "", err
	}

	selector := ""
	if !marketplace.IsDeleted() {
		selector = marketplace.PriceSelector()
	}
	cache[marketplaceID] = selector
	return selector, nil
}
