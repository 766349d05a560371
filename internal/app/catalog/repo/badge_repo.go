package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/models/m_badge"
	"github.com/devdaily/catalog-service/internal/models/m_product_badge"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// BadgeRepo implements BadgeRepository for MySQL.
type BadgeRepo struct {
	model       *m_badge.Model
	assignModel *m_product_badge.Model
	clock       clock.Clock
}

// NewBadgeRepo creates a new BadgeRepo.
func NewBadgeRepo(clk clock.Clock) contracts.BadgeRepository {
	return &BadgeRepo{
		model:       m_badge.NewModel(),
		assignModel: m_product_badge.NewModel(),
		clock:       clk,
	}
}

// Insert persists a new badge.
func (r *BadgeRepo) Insert(ctx context.Context, q txn.Querier, badge *domain.Badge) error {
	data := r.domainToData(badge)
	if _, err := q.NamedExecContext(ctx, r.model.InsertQuery(), data); err != nil {
		return fmt.Errorf("failed to insert badge: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a badge.
func (r *BadgeRepo) Update(ctx context.Context, q txn.Querier, badge *domain.Badge) error {
	updates := map[string]any{
		m_badge.Name:      badge.Name(),
		m_badge.Color:     badge.Color(),
		m_badge.DeletedAt: nullTime(badge.DeletedAt()),
		m_badge.UpdatedAt: badge.UpdatedAt(),
	}
	query, args := r.model.UpdateQuery(badge.ID(), updates)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update badge: %w", err)
	}
	return nil
}

// GetByID retrieves a badge by ID.
func (r *BadgeRepo) GetByID(ctx context.Context, q txn.Querier, badgeID string) (*domain.Badge, error) {
	query := "SELECT " + strings.Join(r.model.Columns(), ", ") +
		" FROM " + m_badge.TableName +
		" WHERE " + m_badge.ID + " = ?"

	var data m_badge.Data
	if err := q.GetContext(ctx, &data, query, badgeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBadgeNotFound
		}
		return nil, fmt.Errorf("failed to read badge: %w", err)
	}
	return r.dataToDomain(&data), nil
}

// Assign attaches a badge to a product. Re-assigning is a no-op.
func (r *BadgeRepo) Assign(ctx context.Context, q txn.Querier, productID, badgeID string) error {
	data := &m_product_badge.Data{
		ProductID: productID,
		BadgeID:   badgeID,
		CreatedAt: r.clock.Now(),
	}
	if _, err := q.NamedExecContext(ctx, r.assignModel.InsertQuery(), data); err != nil {
		return fmt.Errorf("failed to assign badge: %w", err)
	}
	return nil
}

// Unassign detaches a badge from a product.
func (r *BadgeRepo) Unassign(ctx context.Context, q txn.Querier, productID, badgeID string) error {
	query, args := r.assignModel.DeleteQuery(productID, badgeID)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to unassign badge: %w", err)
	}
	return nil
}

// ListForProduct returns the badges assigned to a product, skipping
// soft-deleted badges.
func (r *BadgeRepo) ListForProduct(ctx context.Context, q txn.Querier, productID string) ([]*domain.Badge, error) {
	cols := make([]string, 0, len(r.model.Columns()))
	for _, c := range r.model.Columns() {
		cols = append(cols, "b."+c)
	}
	query := "SELECT " + strings.Join(cols, ", ") +
		" FROM " + m_badge.TableName + " b" +
		" JOIN " + m_product_badge.TableName + " pb ON pb." + m_product_badge.BadgeID + " = b." + m_badge.ID +
		" WHERE pb." + m_product_badge.ProductID + " = ? AND b." + m_badge.DeletedAt + " IS NULL" +
		" ORDER BY b." + m_badge.Name

	var rows []m_badge.Data
	if err := q.SelectContext(ctx, &rows, query, productID); err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}

	badges := make([]*domain.Badge, 0, len(rows))
	for i := range rows {
		badges = append(badges, r.dataToDomain(&rows[i]))
	}
	return badges, nil
}

func (r *BadgeRepo) domainToData(badge *domain.Badge) *m_badge.Data {
	return &m_badge.Data{
		ID:        badge.ID(),
		Name:      badge.Name(),
		Slug:      badge.Slug(),
		Color:     badge.Color(),
		CreatedAt: badge.CreatedAt(),
		UpdatedAt: badge.UpdatedAt(),
		DeletedAt: nullTime(badge.DeletedAt()),
	}
}

func (r *BadgeRepo) dataToDomain(data *m_badge.Data) *domain.Badge {
	return domain.ReconstructBadge(
		data.ID,
		data.Name,
		data.Slug,
		data.Color,
		data.CreatedAt,
		data.UpdatedAt,
		timePtr(data.DeletedAt),
	)
}
