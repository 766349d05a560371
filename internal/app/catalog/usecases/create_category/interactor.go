package create_category

import (
	"context"

	"github.com/google/uuid"

	admincontracts "github.com/devdaily/catalog-service/internal/app/admin/contracts"
	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/slug"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "category.create"

// Request contains the data needed to create a category. Slug is
// derived from Name when empty. Position orders categories in the
// storefront navigation, lowest first.
type Request struct {
	ActorID     string
	Name        string
	Slug        string
	Description string
	Position    int
}

// Interactor handles the create category use case.
type Interactor struct {
	txns       *txn.Factory
	categories contracts.CategoryRepository
	admins     admincontracts.AdminRepository
	recorder   audit.Recorder
	clock      clock.Clock
}

// NewInteractor creates a new create category interactor.
func NewInteractor(
	txns *txn.Factory,
	categories contracts.CategoryRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:       txns,
		categories: categories,
		admins:     admins,
		recorder:   recorder,
		clock:      clk,
	}
}

// Execute creates a category in one unit of work with its audit entry.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	now := i.clock.Now()

	categorySlug := req.Slug
	if categorySlug == "" {
		categorySlug = slug.Make(req.Name)
	}

	category, err := domain.NewCategory(
		uuid.New().String(),
		req.Name,
		categorySlug,
		req.Description,
		req.Position,
		now,
	)
	if err != nil {
		return "", err
	}

	r := i.txns.Runner()
	defer r.Close()

	err = txn.Run(ctx, r, txn.ExecOptions{}, func(ctx context.Context, q txn.Querier) error {
		actor, err := i.admins.GetByID(ctx, q, req.ActorID)
		if err != nil {
			return err
		}
		if err := actor.Authorize(admindomain.ActionCatalogManage); err != nil {
			return err
		}

		if err := i.categories.Insert(ctx, q, category); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityCategory,
			EntityID:   category.ID(),
			NewValues: map[string]any{
				"name":     category.Name(),
				"slug":     category.Slug(),
				"position": category.Position(),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", err
	}

	return category.ID(), nil
}
