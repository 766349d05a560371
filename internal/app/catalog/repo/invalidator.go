package repo

import (
	"context"

	"go.uber.org/zap"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/cache"
)

// Invalidator drops storefront cache entries after catalog writes. It
// runs post-commit, so failures only mean staleness until the TTL;
// they are logged and swallowed.
type Invalidator struct {
	store  *cache.Store
	logger *zap.Logger
}

// NewInvalidator creates a cache invalidator over the given store.
func NewInvalidator(store *cache.Store, logger *zap.Logger) *Invalidator {
	return &Invalidator{
		store:  store,
		logger: logger,
	}
}

var _ contracts.CacheInvalidator = (*Invalidator)(nil)

// Invalidate maps domain events to the cache entries they make stale.
// Events that never touch the storefront (draft edits moving through
// verification) fall through the switch and cost nothing.
func (inv *Invalidator) Invalidate(ctx context.Context, events []domain.DomainEvent) {
	slugs := make(map[string]struct{})
	lists := false

	for _, event := range events {
		switch e := event.(type) {
		case *domain.ProductUpdatedEvent:
			slugs[e.Slug] = struct{}{}
			if e.PrevSlug != "" {
				slugs[e.PrevSlug] = struct{}{}
			}
			lists = true
		case *domain.ProductPublishedEvent:
			slugs[e.Slug] = struct{}{}
			lists = true
		case *domain.ProductUnpublishedEvent:
			slugs[e.Slug] = struct{}{}
			lists = true
		case *domain.ProductArchivedEvent:
			slugs[e.Slug] = struct{}{}
			lists = true
		case *domain.ProductRestoredEvent:
			if e.To == domain.StatusPublished {
				slugs[e.Slug] = struct{}{}
				lists = true
			}
		case *domain.PriceChangedEvent:
			slugs[e.Slug] = struct{}{}
			lists = true
		}
	}

	if len(slugs) == 0 && !lists {
		return
	}

	keys := make([]string, 0, len(slugs))
	for slug := range slugs {
		keys = append(keys, productPageKey(slug))
	}
	inv.drop(ctx, keys, lists)
}

// InvalidateProduct drops one product page plus the list pages. Link
// and badge writes use it directly; they change what a page shows
// without going through the product aggregate.
func (inv *Invalidator) InvalidateProduct(ctx context.Context, slug string) {
	inv.drop(ctx, []string{productPageKey(slug)}, true)
}

func (inv *Invalidator) drop(ctx context.Context, keys []string, bumpLists bool) {
	if err := inv.store.Delete(ctx, keys...); err != nil {
		inv.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
	if bumpLists {
		if _, err := inv.store.Incr(ctx, listGenKey); err != nil {
			inv.logger.Warn("list generation bump failed", zap.Error(err))
		}
	}
}
