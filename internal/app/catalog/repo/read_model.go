package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/models/m_badge"
	"github.com/devdaily/catalog-service/internal/models/m_link"
	"github.com/devdaily/catalog-service/internal/models/m_marketplace"
	"github.com/devdaily/catalog-service/internal/models/m_price_history"
	"github.com/devdaily/catalog-service/internal/models/m_product"
	"github.com/devdaily/catalog-service/internal/models/m_product_badge"
	"github.com/devdaily/catalog-service/internal/pkg/query"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// ReadModelImpl implements ReadModel for MySQL. Storefront reads run
// outside the runner on the plain connection pool.
type ReadModelImpl struct {
	db *sqlx.DB
}

var _ contracts.ReadModel = (*ReadModelImpl)(nil)

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(db *sqlx.DB) *ReadModelImpl {
	return &ReadModelImpl{db: db}
}

// dtoColumns are the product columns the storefront exposes.
var dtoColumns = []string{
	m_product.ID,
	m_product.Name,
	m_product.Slug,
	m_product.Description,
	m_product.CategoryID,
	m_product.PriceAmount,
	m_product.PriceCurrency,
	m_product.PublishedAt,
	m_product.CreatedAt,
	m_product.UpdatedAt,
}

// GetProductPage retrieves the full page for a published product: the
// product itself, its badges, its healthy offers, and recent price
// points.
func (rm *ReadModelImpl) GetProductPage(ctx context.Context, slug string) (*contracts.ProductPageDTO, error) {
	product, err := rm.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	badges, err := rm.ListBadges(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	links, err := rm.ListHealthyLinks(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	prices, err := rm.ListRecentPrices(ctx, product.ID, defaultPageSize)
	if err != nil {
		return nil, err
	}

	return &contracts.ProductPageDTO{
		Product: *product,
		Badges:  badges,
		Links:   links,
		Prices:  prices,
	}, nil
}

// GetPublishedBySlug retrieves a published product DTO by slug.
func (rm *ReadModelImpl) GetPublishedBySlug(ctx context.Context, slug string) (*contracts.ProductDTO, error) {
	sqlStr, args := query.From(m_product.TableName).
		Select(dtoColumns...).
		Where(query.Eq(m_product.Slug, slug)).
		Where(query.Eq(m_product.Status, string(domain.StatusPublished))).
		Build()

	var dto contracts.ProductDTO
	if err := rm.db.GetContext(ctx, &dto, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	return &dto, nil
}

// ListPublished retrieves a paginated list of published products.
func (rm *ReadModelImpl) ListPublished(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	b := query.From(m_product.TableName).
		Select(dtoColumns...).
		Where(query.Eq(m_product.Status, string(domain.StatusPublished)))

	if filter.CategoryID != "" {
		b = b.Where(query.Eq(m_product.CategoryID, filter.CategoryID))
	}

	if filter.BadgeID != "" {
		b = b.Where(query.Raw(
			m_product.ID+" IN (SELECT "+m_product_badge.ProductID+
				" FROM "+m_product_badge.TableName+
				" WHERE "+m_product_badge.BadgeID+" = ?)",
			filter.BadgeID,
		))
	}

	if filter.MarketplaceID != "" {
		b = b.Where(query.Raw(
			m_product.ID+" IN (SELECT "+m_link.ProductID+
				" FROM "+m_link.TableName+
				" WHERE "+m_link.MarketplaceID+" = ?)",
			filter.MarketplaceID,
		))
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(query.Or(
			query.Like(m_product.Name, pattern),
			query.Like(m_product.Description, pattern),
		))
	}

	pageSize := filter.Limit
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	listSQL, listArgs := b.
		OrderBy(m_product.CreatedAt, query.Desc).
		Limit(int64(pageSize)).
		Offset(int64(filter.Offset)).
		Build()

	products := make([]*contracts.ProductDTO, 0, pageSize)
	if err := rm.db.SelectContext(ctx, &products, listSQL, listArgs...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	countSQL, countArgs := b.Count().Build()
	var total int64
	if err := rm.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &contracts.ListResult{
		Products:   products,
		TotalCount: total,
	}, nil
}

// ListHealthyLinks returns the healthy offers for a product page,
// cheapest first.
func (rm *ReadModelImpl) ListHealthyLinks(ctx context.Context, productID string) ([]*contracts.LinkDTO, error) {
	sqlStr := "SELECT l." + m_link.ID + ", l." + m_link.MarketplaceID +
		", m." + m_marketplace.Name + " AS marketplace_name" +
		", l." + m_link.URL + ", l." + m_link.PriceAmount + ", l." + m_link.PriceCurrency +
		" FROM " + m_link.TableName + " l" +
		" JOIN " + m_marketplace.TableName + " m ON m." + m_marketplace.ID + " = l." + m_link.MarketplaceID +
		" WHERE l." + m_link.ProductID + " = ? AND l." + m_link.Healthy + " = TRUE" +
		" AND m." + m_marketplace.DeletedAt + " IS NULL" +
		" ORDER BY l." + m_link.PriceAmount

	links := make([]*contracts.LinkDTO, 0, 4)
	if err := rm.db.SelectContext(ctx, &links, sqlStr, productID); err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return links, nil
}

// ListBadges returns the live badges assigned to a product, by name.
func (rm *ReadModelImpl) ListBadges(ctx context.Context, productID string) ([]*contracts.BadgeDTO, error) {
	sqlStr := "SELECT b." + m_badge.ID + ", b." + m_badge.Name +
		", b." + m_badge.Slug + ", b." + m_badge.Color +
		" FROM " + m_badge.TableName + " b" +
		" JOIN " + m_product_badge.TableName + " pb ON pb." + m_product_badge.BadgeID + " = b." + m_badge.ID +
		" WHERE pb." + m_product_badge.ProductID + " = ?" +
		" AND b." + m_badge.DeletedAt + " IS NULL" +
		" ORDER BY b." + m_badge.Name

	badges := make([]*contracts.BadgeDTO, 0, 4)
	if err := rm.db.SelectContext(ctx, &badges, sqlStr, productID); err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

// ListRecentPrices returns recent price points for a product, newest
// first.
func (rm *ReadModelImpl) ListRecentPrices(ctx context.Context, productID string, limit int) ([]*contracts.PricePointDTO, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	sqlStr, args := query.From(m_price_history.TableName).
		Select(m_price_history.PriceAmount, m_price_history.PriceCurrency, m_price_history.RecordedAt).
		Where(query.Eq(m_price_history.ProductID, productID)).
		OrderBy(m_price_history.RecordedAt, query.Desc).
		Limit(int64(limit)).
		Build()

	points := make([]*contracts.PricePointDTO, 0, limit)
	if err := rm.db.SelectContext(ctx, &points, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to list price points: %w", err)
	}
	return points, nil
}
