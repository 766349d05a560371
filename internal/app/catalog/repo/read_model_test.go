package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
)

func dtoRow(publishedAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "description", "category_id",
		"price_amount", "price_currency", "published_at", "created_at", "updated_at",
	}).AddRow(
		"prod-1", "Mechanical Keyboard", "mechanical-keyboard", "Clicky.", "cat-1",
		int64(7999), "USD", publishedAt, repoTestStart, publishedAt,
	)
}

func TestReadModelGetPublishedBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	rm := NewReadModel(db)

	publishedAt := repoTestStart.Add(48 * time.Hour)
	mock.ExpectQuery(`^SELECT id, name, slug, description, category_id, price_amount, price_currency, published_at, created_at, updated_at FROM products WHERE slug = \? AND status = \?$`).
		WithArgs("mechanical-keyboard", "published").
		WillReturnRows(dtoRow(publishedAt))

	dto, err := rm.GetPublishedBySlug(context.Background(), "mechanical-keyboard")
	require.NoError(t, err)

	assert.Equal(t, "prod-1", dto.ID)
	assert.Equal(t, int64(7999), dto.PriceAmount)
	assert.Equal(t, publishedAt, dto.PublishedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadModelGetPublishedBySlugNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	rm := NewReadModel(db)

	mock.ExpectQuery(`FROM products WHERE slug = \? AND status = \?`).
		WithArgs("drafted-thing", "published").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := rm.GetPublishedBySlug(context.Background(), "drafted-thing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadModelListPublishedWithFilters(t *testing.T) {
	db, mock := newMockDB(t)
	rm := NewReadModel(db)

	publishedAt := repoTestStart.Add(48 * time.Hour)
	mock.ExpectQuery(`^SELECT .+ FROM products WHERE status = \? AND category_id = \? AND \(name LIKE \? OR description LIKE \?\) ORDER BY created_at DESC LIMIT \? OFFSET \?$`).
		WithArgs("published", "cat-1", "%keyboard%", "%keyboard%", int64(20), int64(40)).
		WillReturnRows(dtoRow(publishedAt))
	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM products WHERE status = \? AND category_id = \? AND \(name LIKE \? OR description LIKE \?\)$`).
		WithArgs("published", "cat-1", "%keyboard%", "%keyboard%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))

	result, err := rm.ListPublished(context.Background(), &contracts.ListFilter{
		CategoryID: "cat-1",
		Search:     "keyboard",
		Limit:      20,
		Offset:     40,
	})
	require.NoError(t, err)

	require.Len(t, result.Products, 1)
	assert.Equal(t, "prod-1", result.Products[0].ID)
	assert.Equal(t, int64(41), result.TotalCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadModelListPublishedBadgeFilterUsesSubquery(t *testing.T) {
	db, mock := newMockDB(t)
	rm := NewReadModel(db)

	mock.ExpectQuery(`^SELECT .+ FROM products WHERE status = \? AND id IN \(SELECT product_id FROM product_badges WHERE badge_id = \?\) ORDER BY created_at DESC LIMIT \?$`).
		WithArgs("published", "badge-1", int64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM products`).
		WithArgs("published", "badge-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	result, err := rm.ListPublished(context.Background(), &contracts.ListFilter{BadgeID: "badge-1"})
	require.NoError(t, err)
	assert.Empty(t, result.Products)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadModelListPublishedCapsPageSize(t *testing.T) {
	db, mock := newMockDB(t)
	rm := NewReadModel(db)

	mock.ExpectQuery(`^SELECT .+ FROM products WHERE status = \? ORDER BY created_at DESC LIMIT \?$`).
		WithArgs("published", int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM products WHERE status = \?$`).
		WithArgs("published").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := rm.ListPublished(context.Background(), &contracts.ListFilter{Limit: 500})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadModelListHealthyLinks(t *testing.T) {
	db, mock := newMockDB(t)
	rm := NewReadModel(db)

	rows := sqlmock.NewRows([]string{
		"id", "marketplace_id", "marketplace_name", "url", "price_amount", "price_currency",
	}).
		AddRow("link-2", "mkt-2", "ShopFast", "https://shopfast.example/kb", int64(7499), "USD").
		AddRow("link-1", "mkt-1", "MegaMart", "https://megamart.example/kb", int64(7999), "USD")

	mock.ExpectQuery(`^SELECT l\.id, l\.marketplace_id, m\.name AS marketplace_name, l\.url, l\.price_amount, l\.price_currency FROM affiliate_links l JOIN marketplaces m ON m\.id = l\.marketplace_id WHERE l\.product_id = \? AND l\.healthy = TRUE AND m\.deleted_at IS NULL ORDER BY l\.price_amount$`).
		WithArgs("prod-1").
		WillReturnRows(rows)

	links, err := rm.ListHealthyLinks(context.Background(), "prod-1")
	require.NoError(t, err)

	require.Len(t, links, 2)
	assert.Equal(t, "ShopFast", links[0].MarketplaceName)
	assert.Equal(t, int64(7499), links[0].PriceAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadModelGetProductPage(t *testing.T) {
	db, mock := newMockDB(t)
	rm := NewReadModel(db)

	publishedAt := repoTestStart.Add(48 * time.Hour)
	mock.ExpectQuery(`FROM products WHERE slug = \? AND status = \?`).
		WithArgs("mechanical-keyboard", "published").
		WillReturnRows(dtoRow(publishedAt))

	mock.ExpectQuery(`FROM badges b JOIN product_badges pb ON pb\.badge_id = b\.id WHERE pb\.product_id = \? AND b\.deleted_at IS NULL ORDER BY b\.name`).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "color"}).
			AddRow("badge-1", "Editor's Pick", "editors-pick", "#663399"))

	mock.ExpectQuery(`FROM affiliate_links l JOIN marketplaces m`).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "marketplace_id", "marketplace_name", "url", "price_amount", "price_currency",
		}).AddRow("link-1", "mkt-1", "MegaMart", "https://megamart.example/kb", int64(7999), "USD"))

	mock.ExpectQuery(`FROM price_history WHERE product_id = \?`).
		WithArgs("prod-1", int64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"price_amount", "price_currency", "recorded_at"}).
			AddRow(int64(7999), "USD", repoTestStart))

	page, err := rm.GetProductPage(context.Background(), "mechanical-keyboard")
	require.NoError(t, err)

	assert.Equal(t, "prod-1", page.Product.ID)
	require.Len(t, page.Badges, 1)
	assert.Equal(t, "Editor's Pick", page.Badges[0].Name)
	require.Len(t, page.Links, 1)
	require.Len(t, page.Prices, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadModelListRecentPrices(t *testing.T) {
	db, mock := newMockDB(t)
	rm := NewReadModel(db)

	rows := sqlmock.NewRows([]string{"price_amount", "price_currency", "recorded_at"}).
		AddRow(int64(6999), "USD", repoTestStart.Add(72*time.Hour)).
		AddRow(int64(7999), "USD", repoTestStart)

	mock.ExpectQuery(`^SELECT price_amount, price_currency, recorded_at FROM price_history WHERE product_id = \? ORDER BY recorded_at DESC LIMIT \?$`).
		WithArgs("prod-1", int64(30)).
		WillReturnRows(rows)

	points, err := rm.ListRecentPrices(context.Background(), "prod-1", 30)
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, int64(6999), points[0].PriceAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}
