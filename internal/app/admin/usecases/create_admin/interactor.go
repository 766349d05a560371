package create_admin

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/devdaily/catalog-service/internal/app/admin/contracts"
	"github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

const auditAction = "admin.create"

// Request contains the data needed to create an admin user. An empty
// ActorID means bootstrap seeding from the CLI; anyone else must hold
// the admin-management permission.
type Request struct {
	ActorID  string
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

// Interactor handles the create admin use case.
type Interactor struct {
	txns     *txn.Factory
	repo     contracts.AdminRepository
	recorder audit.Recorder
	clock    clock.Clock
}

// NewInteractor creates a new create admin interactor.
func NewInteractor(
	txns *txn.Factory,
	repo contracts.AdminRepository,
	recorder audit.Recorder,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		txns:     txns,
		repo:     repo,
		recorder: recorder,
		clock:    clk,
	}
}

// Execute creates an admin user in one unit of work with its audit
// entry.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	now := i.clock.Now()

	user, err := domain.NewAdminUser(uuid.New().String(), req.Email, req.Name, req.Password, req.Role, now)
	if err != nil {
		return "", err
	}

	r := i.txns.Runner()
	defer r.Close()

	err = txn.Run(ctx, r, txn.ExecOptions{}, func(ctx context.Context, q txn.Querier) error {
		actorID := req.ActorID
		if actorID == "" {
			actorID = audit.SystemActor
		} else {
			actor, err := i.repo.GetByID(ctx, q, actorID)
			if err != nil {
				return err
			}
			if err := actor.Authorize(domain.ActionAdminManage); err != nil {
				return err
			}
		}

		_, err := i.repo.GetByEmail(ctx, q, user.Email())
		if err == nil {
			return domain.ErrEmailTaken
		}
		if !errors.Is(err, domain.ErrAdminNotFound) {
			return err
		}

		if err := i.repo.Insert(ctx, q, user); err != nil {
			return err
		}

		return i.recorder.Record(ctx, q, audit.Entry{
			ActorID:    actorID,
			Action:     auditAction,
			EntityType: audit.EntityAdmin,
			EntityID:   user.ID(),
			NewValues: map[string]any{
				"email": user.Email(),
				"name":  user.Name(),
				"role":  string(user.Role()),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", err
	}

	return user.ID(), nil
}
