// Package check_links sweeps the affiliate links, probes each URL and
// records whether the destination still answers. The storefront hides
// links the sweep has marked unhealthy.
package check_links

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// Prober answers whether a URL still resolves to a live page.
type Prober interface {
	CheckURL(ctx context.Context, rawURL string) (bool, error)
}

// Report sums up one sweep.
type Report struct {
	Checked int
	Flipped int
	Failed  int
}

// Job runs the link health sweep.
type Job struct {
	txns        *txn.Factory
	db          txn.Querier
	links       contracts.LinkRepository
	products    contracts.ProductRepository
	prober      Prober
	invalidator contracts.CacheInvalidator
	clock       clock.Clock
	logger      *zap.Logger
}

// NewJob creates a link check job.
func NewJob(
	txns *txn.Factory,
	db txn.Querier,
	links contracts.LinkRepository,
	products contracts.ProductRepository,
	prober Prober,
	invalidator contracts.CacheInvalidator,
	clk clock.Clock,
	logger *zap.Logger,
) *Job {
	return &Job{
		txns:        txns,
		db:          db,
		links:       links,
		products:    products,
		prober:      prober,
		invalidator: invalidator,
		clock:       clk,
		logger:      logger,
	}
}

type outcome struct {
	linkID  string
	healthy bool
}

// Run probes every link and writes the outcomes back in one batch,
// one savepoint per link. Probing finishes before the batch opens; a
// slow retailer must never hold row locks.
func (j *Job) Run(ctx context.Context) (*Report, error) {
	links, err := j.links.ListAll(ctx, j.db)
	if err != nil {
		return nil, err
	}

	outcomes := make([]outcome, 0, len(links))
	for _, link := range links {
		healthy, err := j.prober.CheckURL(ctx, link.URL())
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome{linkID: link.ID(), healthy: healthy})
	}

	now := j.clock.Now()
	report := &Report{}
	var staleSlugs []string

	r := j.txns.Runner()
	defer r.Close()

	result, err := txn.ExecuteBatch(ctx, r, txn.BatchOptions{}, outcomes,
		func(ctx context.Context, q txn.Querier, o outcome) error {
			link, err := j.links.GetByID(ctx, q, o.linkID)
			if errors.Is(err, domain.ErrLinkNotFound) {
				// Removed while the sweep ran.
				return nil
			}
			if err != nil {
				return err
			}

			flipped := link.RecordCheck(o.healthy, now)
			if err := j.links.Update(ctx, q, link); err != nil {
				return err
			}

			product, err := j.products.GetByID(ctx, q, link.ProductID())
			if err != nil {
				return err
			}
			product.MarkLinkChecked(now)
			if err := j.products.Update(ctx, q, product); err != nil {
				return err
			}

			if flipped {
				report.Flipped++
				if product.IsPublished() {
					staleSlugs = append(staleSlugs, product.Slug())
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	// A flipped link changes what the product page shows; the cached
	// page has to go.
	for _, slug := range staleSlugs {
		j.invalidator.InvalidateProduct(ctx, slug)
	}

	report.Checked = result.Processed
	report.Failed = result.Failed
	for _, itemErr := range result.Errors {
		j.logger.Warn("link check write failed",
			zap.String("link_id", outcomes[itemErr.Index].linkID),
			zap.Error(itemErr.Err))
	}
	for _, chunkErr := range result.ChunkErrors {
		j.logger.Warn("link check chunk failed", zap.Error(chunkErr.Err))
	}

	j.logger.Info("link sweep finished",
		zap.Int("checked", report.Checked),
		zap.Int("flipped", report.Flipped),
		zap.Int("failed", report.Failed))
	return report, nil
}
