package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
)

var repoTestStart = time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "mysql"), mock
}

func draftProduct(clk clock.Clock) *domain.Product {
	return domain.ReconstructProduct(
		"prod-1", "Mechanical Keyboard", "mechanical-keyboard", "Clicky.", "cat-1",
		domain.MustPrice(7999, "USD"),
		domain.StatusDraft,
		nil, "", nil,
		nil, nil,
		repoTestStart, repoTestStart,
		nil,
		clk,
	)
}

func productColumns() []string {
	return []string{
		"id", "name", "slug", "description", "category_id",
		"price_amount", "price_currency", "status",
		"verified_at", "verified_by", "published_at",
		"last_price_check", "last_link_check",
		"created_at", "updated_at", "archived_at",
	}
}

func draftRow() *sqlmock.Rows {
	return sqlmock.NewRows(productColumns()).AddRow(
		"prod-1", "Mechanical Keyboard", "mechanical-keyboard", "Clicky.", "cat-1",
		int64(7999), "USD", "draft",
		nil, nil, nil,
		nil, nil,
		repoTestStart, repoTestStart, nil,
	)
}

func TestProductRepoInsert(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	product := draftProduct(clk)

	mock.ExpectExec(`^INSERT INTO products \(id, name, slug, description, category_id, price_amount, price_currency, status, verified_at, verified_by, published_at, last_price_check, last_link_check, created_at, updated_at, archived_at\)`).
		WithArgs(
			"prod-1", "Mechanical Keyboard", "mechanical-keyboard", "Clicky.", "cat-1",
			int64(7999), "USD", "draft",
			nil, nil, nil,
			nil, nil,
			repoTestStart, repoTestStart, nil,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.Insert(context.Background(), db, product)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoUpdateBusinessEditBumpsUpdatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	product := draftProduct(clk)
	editedAt := repoTestStart.Add(2 * time.Hour)
	clk.Set(editedAt)
	require.NoError(t, product.SetName("Better Keyboard"))

	mock.ExpectExec(`^UPDATE products SET name = \?, updated_at = \? WHERE id = \?$`).
		WithArgs("Better Keyboard", editedAt, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.Update(context.Background(), db, product)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoUpdateHousekeepingSkipsUpdatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	product := draftProduct(clk)
	checkedAt := repoTestStart.Add(30 * time.Minute)
	product.MarkPriceChecked(checkedAt)
	product.MarkLinkChecked(checkedAt)

	// The SET clause carries only the check stamps.
	mock.ExpectExec(`^UPDATE products SET last_link_check = \?, last_price_check = \? WHERE id = \?$`).
		WithArgs(checkedAt, checkedAt, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.Update(context.Background(), db, product)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoUpdateVerification(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	product := draftProduct(clk)
	requestedAt := repoTestStart.Add(time.Hour)
	verifiedAt := repoTestStart.Add(2 * time.Hour)
	require.NoError(t, product.RequestVerification(requestedAt))
	require.NoError(t, product.Verify("admin-7", verifiedAt))

	mock.ExpectExec(`^UPDATE products SET status = \?, updated_at = \?, verified_at = \?, verified_by = \? WHERE id = \?$`).
		WithArgs("verified", verifiedAt, verifiedAt, "admin-7", "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.Update(context.Background(), db, product)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoUpdateNoChangesIsNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	err := r.Update(context.Background(), db, draftProduct(clk))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	mock.ExpectQuery(`^SELECT id, name, slug, description, category_id, price_amount, price_currency, status, verified_at, verified_by, published_at, last_price_check, last_link_check, created_at, updated_at, archived_at FROM products WHERE id = \?$`).
		WithArgs("prod-1").
		WillReturnRows(draftRow())

	product, err := r.GetByID(context.Background(), db, "prod-1")
	require.NoError(t, err)

	assert.Equal(t, "prod-1", product.ID())
	assert.Equal(t, "Mechanical Keyboard", product.Name())
	assert.Equal(t, "mechanical-keyboard", product.Slug())
	assert.Equal(t, domain.StatusDraft, product.Status())
	assert.Equal(t, domain.MustPrice(7999, "USD"), product.Price())
	assert.Nil(t, product.VerifiedAt())
	assert.Nil(t, product.PublishedAt())
	assert.False(t, product.Changes().HasChanges())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	mock.ExpectQuery(`^SELECT .+ FROM products WHERE id = \?$`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(productColumns()))

	_, err := r.GetByID(context.Background(), db, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoGetByIDForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	mock.ExpectQuery(`^SELECT .+ FROM products WHERE id = \? FOR UPDATE$`).
		WithArgs("prod-1").
		WillReturnRows(draftRow())

	product, err := r.GetByIDForUpdate(context.Background(), db, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoGetBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	mock.ExpectQuery(`^SELECT .+ FROM products WHERE slug = \?$`).
		WithArgs("mechanical-keyboard").
		WillReturnRows(draftRow())

	product, err := r.GetBySlug(context.Background(), db, "mechanical-keyboard")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoGetByIDRejectsUnknownStatus(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	rows := sqlmock.NewRows(productColumns()).AddRow(
		"prod-1", "Mechanical Keyboard", "mechanical-keyboard", "Clicky.", "cat-1",
		int64(7999), "USD", "limbo",
		nil, nil, nil,
		nil, nil,
		repoTestStart, repoTestStart, nil,
	)
	mock.ExpectQuery(`^SELECT .+ FROM products WHERE id = \?$`).
		WithArgs("prod-1").
		WillReturnRows(rows)

	_, err := r.GetByID(context.Background(), db, "prod-1")
	assert.ErrorContains(t, err, "invalid stored status")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoExists(t *testing.T) {
	db, mock := newMockDB(t)
	clk := clock.NewMockClock(repoTestStart)
	r := NewProductRepo(clk)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM products WHERE id = \?$`).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := r.Exists(context.Background(), db, "prod-1")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoListDefaultsPaging(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewProductRepo(clock.NewMockClock(repoTestStart))

	rows := sqlmock.NewRows(productColumns()).
		AddRow(
			"prod-2", "Trackball", "trackball", "Rolls.", "cat-1",
			int64(2999), "USD", "published",
			repoTestStart, "admin-1", repoTestStart.Add(time.Hour),
			nil, nil,
			repoTestStart, repoTestStart.Add(2*time.Hour), nil,
		).
		AddRow(
			"prod-1", "Mechanical Keyboard", "mechanical-keyboard", "Clicky.", "cat-1",
			int64(7999), "USD", "draft",
			nil, nil, nil,
			nil, nil,
			repoTestStart, repoTestStart, nil,
		)
	mock.ExpectQuery(`^SELECT .+ FROM products ORDER BY updated_at DESC LIMIT \? OFFSET \?$`).
		WithArgs(50, 0).
		WillReturnRows(rows)

	products, err := r.List(context.Background(), db, contracts.ProductListFilter{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "prod-2", products[0].ID())
	assert.Equal(t, domain.StatusPublished, products[0].Status())
	assert.Equal(t, "prod-1", products[1].ID())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepoListFiltersByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewProductRepo(clock.NewMockClock(repoTestStart))

	mock.ExpectQuery(`^SELECT .+ FROM products WHERE status = \? ORDER BY updated_at DESC LIMIT \? OFFSET \?$`).
		WithArgs("published", 10, 20).
		WillReturnRows(sqlmock.NewRows(productColumns()))

	status := domain.StatusPublished
	products, err := r.List(context.Background(), db, contracts.ProductListFilter{
		Status: &status,
		Limit:  10,
		Offset: 20,
	})
	require.NoError(t, err)
	assert.Empty(t, products)
	require.NoError(t, mock.ExpectationsWereMet())
}
