package e2e

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	adminrepo "github.com/devdaily/catalog-service/internal/app/admin/repo"
	"github.com/devdaily/catalog-service/internal/app/admin/usecases/create_admin"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/app/catalog/jobs/check_links"
	"github.com/devdaily/catalog-service/internal/app/catalog/jobs/check_prices"
	"github.com/devdaily/catalog-service/internal/app/catalog/queries/get_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/queries/list_products"
	"github.com/devdaily/catalog-service/internal/app/catalog/repo"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/add_link"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/archive_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/assign_badge"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/create_badge"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/create_category"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/create_marketplace"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/create_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/publish_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/reject_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/remove_link"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/request_verification"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/restore_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/restore_to_published"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/unassign_badge"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/unpublish_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/update_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/verify_product"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/probe"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
	"github.com/devdaily/catalog-service/tests/testutil"
)

// Services holds all use cases and queries for E2E tests.
type Services struct {
	// Product workflow
	CreateProduct       *create_product.Interactor
	UpdateProduct       *update_product.Interactor
	RequestVerification *request_verification.Interactor
	VerifyProduct       *verify_product.Interactor
	RejectProduct       *reject_product.Interactor
	PublishProduct      *publish_product.Interactor
	UnpublishProduct    *unpublish_product.Interactor
	ArchiveProduct      *archive_product.Interactor
	RestoreProduct      *restore_product.Interactor
	RestoreToPublished  *restore_to_published.Interactor

	// Catalog entities
	CreateCategory    *create_category.Interactor
	CreateMarketplace *create_marketplace.Interactor
	CreateBadge       *create_badge.Interactor
	AssignBadge       *assign_badge.Interactor
	UnassignBadge     *unassign_badge.Interactor
	AddLink           *add_link.Interactor
	RemoveLink        *remove_link.Interactor

	// Admin
	CreateAdmin *create_admin.Interactor

	// Queries
	GetProduct   *get_product.Query
	ListProducts *list_products.Query

	// Maintenance jobs
	LinkCheck  *check_links.Job
	PriceCheck *check_prices.Job

	// Infrastructure
	Clock  clock.Clock
	DB     *sqlx.DB
	Txns   *txn.Factory
	Audits *audit.Store
}

// noopInvalidator stands in for the cache layer, which stays off in
// these tests.
type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, []domain.DomainEvent) {}
func (noopInvalidator) InvalidateProduct(context.Context, string)       {}

// wireServices assembles the full application over the given clock,
// the same way the services package does in production.
func wireServices(db *sqlx.DB, clk clock.Clock) *Services {
	logger := zap.NewNop()
	txns := txn.NewFactory(db, txn.Config{Clock: clk})

	productRepo := repo.NewProductRepo(clk)
	categoryRepo := repo.NewCategoryRepo()
	marketplaceRepo := repo.NewMarketplaceRepo()
	badgeRepo := repo.NewBadgeRepo(clk)
	linkRepo := repo.NewLinkRepo()
	historyRepo := repo.NewPriceHistoryRepo()
	adminRepo := adminrepo.NewAdminRepo()
	audits := audit.NewStore()

	readModel := repo.NewReadModel(db)
	var invalidator contracts.CacheInvalidator = noopInvalidator{}

	prober := probe.New(probe.Config{RequestsPerSec: 100}, logger)
	linkCheck := check_links.NewJob(txns, db, linkRepo, productRepo, prober, invalidator, clk, logger)
	priceCheck := check_prices.NewJob(txns, db, linkRepo, productRepo, marketplaceRepo, historyRepo,
		prober, invalidator, clk, logger)

	return &Services{
		CreateProduct:       create_product.NewInteractor(txns, productRepo, categoryRepo, adminRepo, audits, clk),
		UpdateProduct:       update_product.NewInteractor(txns, productRepo, categoryRepo, adminRepo, audits, invalidator),
		RequestVerification: request_verification.NewInteractor(txns, productRepo, adminRepo, audits, clk),
		VerifyProduct:       verify_product.NewInteractor(txns, productRepo, adminRepo, audits, clk),
		RejectProduct:       reject_product.NewInteractor(txns, productRepo, adminRepo, audits, clk),
		PublishProduct:      publish_product.NewInteractor(txns, productRepo, adminRepo, audits, invalidator, clk),
		UnpublishProduct:    unpublish_product.NewInteractor(txns, productRepo, adminRepo, audits, invalidator, clk),
		ArchiveProduct:      archive_product.NewInteractor(txns, productRepo, adminRepo, audits, invalidator, clk),
		RestoreProduct:      restore_product.NewInteractor(txns, productRepo, adminRepo, audits, clk),
		RestoreToPublished:  restore_to_published.NewInteractor(txns, productRepo, adminRepo, audits, invalidator, clk),

		CreateCategory:    create_category.NewInteractor(txns, categoryRepo, adminRepo, audits, clk),
		CreateMarketplace: create_marketplace.NewInteractor(txns, marketplaceRepo, adminRepo, audits, clk),
		CreateBadge:       create_badge.NewInteractor(txns, badgeRepo, adminRepo, audits, clk),
		AssignBadge:       assign_badge.NewInteractor(txns, productRepo, badgeRepo, adminRepo, audits, invalidator, clk),
		UnassignBadge:     unassign_badge.NewInteractor(txns, productRepo, badgeRepo, adminRepo, audits, invalidator, clk),
		AddLink:           add_link.NewInteractor(txns, productRepo, marketplaceRepo, linkRepo, adminRepo, audits, invalidator, clk),
		RemoveLink:        remove_link.NewInteractor(txns, productRepo, linkRepo, adminRepo, audits, invalidator, clk),

		CreateAdmin: create_admin.NewInteractor(txns, adminRepo, audits, clk),

		GetProduct:   get_product.NewQuery(readModel),
		ListProducts: list_products.NewQuery(readModel),

		LinkCheck:  linkCheck,
		PriceCheck: priceCheck,

		Clock:  clk,
		DB:     db,
		Txns:   txns,
		Audits: audits,
	}
}

// setupTest initializes all dependencies for E2E testing.
func setupTest(t *testing.T) (*Services, func()) {
	t.Helper()

	db, cleanup := testutil.SetupMySQLTest(t)
	return wireServices(db, clock.NewRealClock()), cleanup
}

// setupTestWithMockClock initializes services with a controllable mock
// clock.
func setupTestWithMockClock(t *testing.T) (*Services, *clock.MockClock, func()) {
	t.Helper()

	db, cleanup := testutil.SetupMySQLTest(t)
	mockClock := testutil.NewMockClock()
	return wireServices(db, mockClock), mockClock, cleanup
}

// ctx returns a context for testing.
func ctx() context.Context {
	return context.Background()
}
