package repo

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/pkg/cache"
)

// CachedReadModel serves storefront reads cache-aside over an inner
// read model. Database truth wins on any cache trouble: failed cache
// reads log and fall through, failed cache writes log and move on.
type CachedReadModel struct {
	inner  contracts.ReadModel
	store  *cache.Store
	logger *zap.Logger
}

// NewCachedReadModel wraps a read model with the storefront cache.
func NewCachedReadModel(inner contracts.ReadModel, store *cache.Store, logger *zap.Logger) contracts.ReadModel {
	return &CachedReadModel{
		inner:  inner,
		store:  store,
		logger: logger,
	}
}

// GetProductPage serves the product page from cache when it can.
// Misses are not cached; an unpublished slug stays a database hit
// until it goes live.
func (c *CachedReadModel) GetProductPage(ctx context.Context, slug string) (*contracts.ProductPageDTO, error) {
	key := productPageKey(slug)

	var page contracts.ProductPageDTO
	err := c.store.Get(ctx, key, &page)
	if err == nil {
		return &page, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	fresh, err := c.inner.GetProductPage(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, fresh); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return fresh, nil
}

// ListPublished serves list pages from cache when it can. List keys
// include the current generation; a bumped generation makes every
// cached list an automatic miss.
func (c *CachedReadModel) ListPublished(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	key := listKey(c.generation(ctx), filter)

	var result contracts.ListResult
	err := c.store.Get(ctx, key, &result)
	if err == nil {
		return &result, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	fresh, err := c.inner.ListPublished(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, fresh); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return fresh, nil
}

func (c *CachedReadModel) generation(ctx context.Context) int64 {
	var gen int64
	err := c.store.Get(ctx, listGenKey, &gen)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn("cache generation read failed", zap.Error(err))
	}
	return gen
}
