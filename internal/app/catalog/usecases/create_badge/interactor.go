package create_badge

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

const auditAction = "badge.create"

// Request contains the data needed to create a badge. Slug is derived
// from Name when empty. Color is the storefront chip color, any CSS
// color value.
type Request struct {
	ActorID string
	Name    string
	Slug    string
	Color   string
}

// Interactor handles the create badge use case.
type Interactor struct {
	txns     *txn.Factory
	badges   contracts.BadgeRepository
	admins   admincontracts.AdminRepository
	recorder audit.Recorder
	clock    clock.Clock
}

// NewInteractor creates a new create badge interactor.
func NewInteractor(
	txns *txn.Factory,
	badges contracts.BadgeRepository,
	admins admincontracts.AdminRepository,
	recorder audit.Recorder,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:     txns,
		badges:   badges,
		admins:   admins,
		recorder: recorder,
		clock:    clk,
	}
}

// Execute creates a badge in one unit of work with its audit entry.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	now := i.clock.Now()

	badgeSlug := req.Slug
	if badgeSlug == "" {
		badgeSlug = slug.Make(req.Name)
	}

	badge, err := domain.NewBadge(
		uuid.New().String(),
		req.Name,
		badgeSlug,
		req.Color,
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

		if err := i.badges.Insert(ctx, q, badge); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    req.ActorID,
			Action:     auditAction,
			EntityType: audit.EntityBadge,
			EntityID:   badge.ID(),
			NewValues: map[string]any{
				"name":  badge.Name(),
				"slug":  badge.Slug(),
				"color": badge.Color(),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", err
	}

	return badge.ID(), nil
}
