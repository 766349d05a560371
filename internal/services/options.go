// Package services wires the application together.
package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
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
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/delete_badge"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/delete_category"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/delete_marketplace"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/publish_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/reject_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/remove_link"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/request_verification"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/restore_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/restore_to_published"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/unassign_badge"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/unpublish_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/update_badge"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/update_category"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/update_link"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/update_marketplace"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/update_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/verify_product"
	"github.com/devdaily/catalog-service/internal/config"
	"github.com/devdaily/catalog-service/internal/pkg/cache"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/database"
	"github.com/devdaily/catalog-service/internal/pkg/probe"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *sqlx.DB
	Redis    *redis.Client
	Registry *prometheus.Registry
	Txns     *txn.Factory

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
	UpdateCategory    *update_category.Interactor
	DeleteCategory    *delete_category.Interactor
	CreateMarketplace *create_marketplace.Interactor
	UpdateMarketplace *update_marketplace.Interactor
	DeleteMarketplace *delete_marketplace.Interactor
	CreateBadge       *create_badge.Interactor
	UpdateBadge       *update_badge.Interactor
	DeleteBadge       *delete_badge.Interactor
	AssignBadge       *assign_badge.Interactor
	UnassignBadge     *unassign_badge.Interactor
	AddLink           *add_link.Interactor
	UpdateLink        *update_link.Interactor
	RemoveLink        *remove_link.Interactor

	// Admin
	CreateAdmin *create_admin.Interactor

	// Storefront queries
	GetProduct   *get_product.Query
	ListProducts *list_products.Query

	// Maintenance jobs
	LinkCheck  *check_links.Job
	PriceCheck *check_prices.Job

	// Direct read surfaces for the CLI; the shared pool satisfies
	// txn.Querier, so these read without opening a transaction.
	Audits   *audit.Store
	Admins   admincontracts.AdminRepository
	Products contracts.ProductRepository
	Links    contracts.LinkRepository
	History  contracts.PriceHistoryRepository
}

// noopInvalidator stands in when the cache is disabled.
type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, []domain.DomainEvent) {}
func (noopInvalidator) InvalidateProduct(context.Context, string)       {}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	// 1. Infrastructure: MySQL pool, metrics registry, transaction factory
	db, err := database.NewMySQLConnection(database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		DBName:       cfg.Database.Name,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	clk := clock.NewRealClock()
	txns := txn.NewFactory(db, txn.Config{
		Logger:          logger,
		Metrics:         txn.NewMetrics(registry),
		Clock:           clk,
		LockWaitTimeout: cfg.Database.LockWaitTimeout,
	})

	// 2. Repositories and audit store
	productRepo := repo.NewProductRepo(clk)
	categoryRepo := repo.NewCategoryRepo()
	marketplaceRepo := repo.NewMarketplaceRepo()
	badgeRepo := repo.NewBadgeRepo(clk)
	linkRepo := repo.NewLinkRepo()
	historyRepo := repo.NewPriceHistoryRepo()
	adminRepo := adminrepo.NewAdminRepo()
	audits := audit.NewStore()

	// 3. Storefront read side. The cache is optional: with it off,
	// reads hit MySQL directly and invalidation is a no-op.
	var (
		redisClient *redis.Client
		readModel   contracts.ReadModel        = repo.NewReadModel(db)
		invalidator contracts.CacheInvalidator = noopInvalidator{}
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			database.Close(db)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		store := cache.NewStore(redisClient, cfg.Redis.TTL)
		readModel = repo.NewCachedReadModel(readModel, store, logger)
		invalidator = repo.NewInvalidator(store, logger)
	}

	// 4. Command use cases (write operations)
	createProduct := create_product.NewInteractor(txns, productRepo, categoryRepo, adminRepo, audits, clk)
	updateProduct := update_product.NewInteractor(txns, productRepo, categoryRepo, adminRepo, audits, invalidator)
	requestVerification := request_verification.NewInteractor(txns, productRepo, adminRepo, audits, clk)
	verifyProduct := verify_product.NewInteractor(txns, productRepo, adminRepo, audits, clk)
	rejectProduct := reject_product.NewInteractor(txns, productRepo, adminRepo, audits, clk)
	publishProduct := publish_product.NewInteractor(txns, productRepo, adminRepo, audits, invalidator, clk)
	unpublishProduct := unpublish_product.NewInteractor(txns, productRepo, adminRepo, audits, invalidator, clk)
	archiveProduct := archive_product.NewInteractor(txns, productRepo, adminRepo, audits, invalidator, clk)
	restoreProduct := restore_product.NewInteractor(txns, productRepo, adminRepo, audits, clk)
	restoreToPublished := restore_to_published.NewInteractor(txns, productRepo, adminRepo, audits, invalidator, clk)

	createCategory := create_category.NewInteractor(txns, categoryRepo, adminRepo, audits, clk)
	updateCategory := update_category.NewInteractor(txns, categoryRepo, adminRepo, audits, clk)
	deleteCategory := delete_category.NewInteractor(txns, categoryRepo, adminRepo, audits, clk)
	createMarketplace := create_marketplace.NewInteractor(txns, marketplaceRepo, adminRepo, audits, clk)
	updateMarketplace := update_marketplace.NewInteractor(txns, marketplaceRepo, adminRepo, audits, clk)
	deleteMarketplace := delete_marketplace.NewInteractor(txns, marketplaceRepo, adminRepo, audits, clk)
	createBadge := create_badge.NewInteractor(txns, badgeRepo, adminRepo, audits, clk)
	updateBadge := update_badge.NewInteractor(txns, badgeRepo, adminRepo, audits, clk)
	deleteBadge := delete_badge.NewInteractor(txns, badgeRepo, adminRepo, audits, clk)
	assignBadge := assign_badge.NewInteractor(txns, productRepo, badgeRepo, adminRepo, audits, invalidator, clk)
	unassignBadge := unassign_badge.NewInteractor(txns, productRepo, badgeRepo, adminRepo, audits, invalidator, clk)
	addLink := add_link.NewInteractor(txns, productRepo, marketplaceRepo, linkRepo, adminRepo, audits, invalidator, clk)
	updateLink := update_link.NewInteractor(txns, productRepo, linkRepo, adminRepo, audits, invalidator, clk)
	removeLink := remove_link.NewInteractor(txns, productRepo, linkRepo, adminRepo, audits, invalidator, clk)

	createAdmin := create_admin.NewInteractor(txns, adminRepo, audits, clk)

	// 5. Query use cases (read operations)
	getProduct := get_product.NewQuery(readModel)
	listProducts := list_products.NewQuery(readModel)

	// 6. Maintenance jobs
	prober := probe.New(probe.Config{
		RequestTimeout: cfg.Maintenance.RequestTimeout,
		RequestsPerSec: cfg.Maintenance.RequestsPerSec,
		Burst:          cfg.Maintenance.Burst,
		UserAgent:      cfg.Maintenance.UserAgent,
	}, logger)
	linkCheck := check_links.NewJob(txns, db, linkRepo, productRepo, prober, invalidator, clk, logger)
	priceCheck := check_prices.NewJob(txns, db, linkRepo, productRepo, marketplaceRepo, historyRepo,
		prober, invalidator, clk, logger)

	return &ServiceOptions{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Redis:    redisClient,
		Registry: registry,
		Txns:     txns,

		CreateProduct:       createProduct,
		UpdateProduct:       updateProduct,
		RequestVerification: requestVerification,
		VerifyProduct:       verifyProduct,
		RejectProduct:       rejectProduct,
		PublishProduct:      publishProduct,
		UnpublishProduct:    unpublishProduct,
		ArchiveProduct:      archiveProduct,
		RestoreProduct:      restoreProduct,
		RestoreToPublished:  restoreToPublished,

		CreateCategory:    createCategory,
		UpdateCategory:    updateCategory,
		DeleteCategory:    deleteCategory,
		CreateMarketplace: createMarketplace,
		UpdateMarketplace: updateMarketplace,
		DeleteMarketplace: deleteMarketplace,
		CreateBadge:       createBadge,
		UpdateBadge:       updateBadge,
		DeleteBadge:       deleteBadge,
		AssignBadge:       assignBadge,
		UnassignBadge:     unassignBadge,
		AddLink:           addLink,
		UpdateLink:        updateLink,
		RemoveLink:        removeLink,

		CreateAdmin: createAdmin,

		GetProduct:   getProduct,
		ListProducts: listProducts,

		LinkCheck:  linkCheck,
		PriceCheck: priceCheck,

		Audits:   audits,
		Admins:   adminRepo,
		Products: productRepo,
		Links:    linkRepo,
		History:  historyRepo,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.DB != nil {
		_ = s.DB.Close()
	}
}
