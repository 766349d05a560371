package check_links_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/app/catalog/jobs/check_links"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

var sweepTime = time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)

func newBatchFactory(t *testing.T) (*txn.Factory, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	db := sqlx.NewDb(mockDB, "mysql")
	return txn.NewFactory(db, txn.Config{Logger: zap.NewNop()}), mock
}

func expectChunk(mock sqlmock.Sqlmock, items int) {
	mock.ExpectBegin()
	for i := 0; i < items; i++ {
		mock.ExpectExec(`^SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`^RELEASE SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()
}

type stubProber struct {
	healthy map[string]bool
	err     error
}

func (s *stubProber) CheckURL(_ context.Context, rawURL string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.healthy[rawURL], nil
}

type fakeLinks struct {
	contracts.LinkRepository
	order   []*domain.AffiliateLink
	gone    map[string]bool
	updated []string
}

func (f *fakeLinks) ListAll(context.Context, txn.Querier) ([]*domain.AffiliateLink, error) {
	return f.order, nil
}

func (f *fakeLinks) GetByID(_ context.Context, _ txn.Querier, linkID string) (*domain.AffiliateLink, error) {
	if f.gone[linkID] {
		return nil, domain.ErrLinkNotFound
	}
	for _, link := range f.order {
		if link.ID() == linkID {
			return link, nil
		}
	}
	return nil, domain.ErrLinkNotFound
}

func (f *fakeLinks) Update(_ context.Context, _ txn.Querier, link *domain.AffiliateLink) error {
	f.updated = append(f.updated, link.ID())
	return nil
}

type fakeProducts struct {
	contracts.ProductRepository
	byID    map[string]*domain.Product
	updated []string
}

func (f *fakeProducts) GetByID(_ context.Context, _ txn.Querier, productID string) (*domain.Product, error) {
	product, ok := f.byID[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (f *fakeProducts) Update(_ context.Context, _ txn.Querier, product *domain.Product) error {
	f.updated = append(f.updated, product.ID())
	return nil
}

type fakeInvalidator struct {
	slugs  []string
	events []domain.DomainEvent
}

func (f *fakeInvalidator) Invalidate(_ context.Context, events []domain.DomainEvent) {
	f.events = append(f.events, events...)
}

func (f *fakeInvalidator) InvalidateProduct(_ context.Context, slug string) {
	f.slugs = append(f.slugs, slug)
}

func publishedProduct(id, slug string) *domain.Product {
	created := sweepTime.Add(-30 * 24 * time.Hour)
	published := sweepTime.Add(-20 * 24 * time.Hour)
	return domain.ReconstructProduct(
		id, "Mechanical Keyboard", slug, "hot-swap switches", "cat-1",
		domain.MustPrice(4999, "USD"),
		domain.StatusPublished,
		nil, "", &published, nil, nil,
		created, created, nil,
		clock.NewMockClock(sweepTime),
	)
}

func link(id, productID, url string) *domain.AffiliateLink {
	created := sweepTime.Add(-30 * 24 * time.Hour)
	return domain.ReconstructAffiliateLink(
		id, productID, "mkt-1", url,
		domain.MustPrice(4999, "USD"),
		true, nil, created, created,
	)
}

func TestRunRecordsProbeOutcomes(t *testing.T) {
	factory, mock := newBatchFactory(t)
	expectChunk(mock, 2)

	product := publishedProduct("prod-1", "mech-keyboard")
	linkA := link("link-a", "prod-1", "http://alive.test/p")
	linkB := link("link-b", "prod-1", "http://dead.test/p")

	links := &fakeLinks{order: []*domain.AffiliateLink{linkA, linkB}}
	products := &fakeProducts{byID: map[string]*domain.Product{"prod-1": product}}
	inv := &fakeInvalidator{}
	prober := &stubProber{healthy: map[string]bool{
		"http://alive.test/p": true,
		"http://dead.test/p":  false,
	}}

	job := check_links.NewJob(factory, nil, links, products, prober, inv,
		clock.NewMockClock(sweepTime), zap.NewNop())

	report, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Flipped)
	assert.Equal(t, 0, report.Failed)

	assert.True(t, linkA.Healthy())
	assert.False(t, linkB.Healthy())
	require.NotNil(t, linkA.LastCheckedAt())
	assert.Equal(t, sweepTime, *linkB.LastCheckedAt())

	// Both links get their check stamp written back; the product is
	// stamped once per link visit.
	assert.Equal(t, []string{"link-a", "link-b"}, links.updated)
	require.NotNil(t, product.LastLinkCheck())
	assert.Equal(t, sweepTime, *product.LastLinkCheck())

	// Only the flip invalidates the cached page.
	assert.Equal(t, []string{"mech-keyboard"}, inv.slugs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSkipsLinkRemovedMidSweep(t *testing.T) {
	factory, mock := newBatchFactory(t)
	expectChunk(mock, 1)

	linkA := link("link-a", "prod-1", "http://alive.test/p")
	links := &fakeLinks{
		order: []*domain.AffiliateLink{linkA},
		gone:  map[string]bool{"link-a": true},
	}
	products := &fakeProducts{byID: map[string]*domain.Product{}}
	inv := &fakeInvalidator{}
	prober := &stubProber{healthy: map[string]bool{"http://alive.test/p": true}}

	job := check_links.NewJob(factory, nil, links, products, prober, inv,
		clock.NewMockClock(sweepTime), zap.NewNop())

	report, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Checked)
	assert.Equal(t, 0, report.Flipped)
	assert.Empty(t, links.updated)
	assert.Empty(t, products.updated)
	assert.Empty(t, inv.slugs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunAbortsWhenProbeCannotRun(t *testing.T) {
	factory, mock := newBatchFactory(t)

	linkA := link("link-a", "prod-1", "http://alive.test/p")
	links := &fakeLinks{order: []*domain.AffiliateLink{linkA}}
	prober := &stubProber{err: context.Canceled}

	job := check_links.NewJob(factory, nil, links, &fakeProducts{}, prober,
		&fakeInvalidator{}, clock.NewMockClock(sweepTime), zap.NewNop())

	_, err := job.Run(context.Background())
	assert.True(t, errors.Is(err, context.Canceled))

	assert.NoError(t, mock.ExpectationsWereMet())
}
