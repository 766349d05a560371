package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/models/m_category"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// CategoryRepo implements CategoryRepository for MySQL.
type CategoryRepo struct {
	model *m_category.Model
}

// NewCategoryRepo creates a new CategoryRepo.
func NewCategoryRepo() contracts.CategoryRepository {
	return &CategoryRepo{model: m_category.NewModel()}
}

// Insert persists a new category.
func (r *CategoryRepo) Insert(ctx context.Context, q txn.Querier, category *domain.Category) error {
	data := &m_category.Data{
		ID:          category.ID(),
		Name:        category.Name(),
		Slug:        category.Slug(),
		Description: category.Description(),
		Position:    int64(category.Position()),
		CreatedAt:   category.CreatedAt(),
		UpdatedAt:   category.UpdatedAt(),
		DeletedAt:   nullTime(category.DeletedAt()),
	}
	if _, err := q.NamedExecContext(ctx, r.model.InsertQuery(), data); err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a category.
func (r *CategoryRepo) Update(ctx context.Context, q txn.Querier, category *domain.Category) error {
	updates := map[string]any{
		m_category.Name:        category.Name(),
		m_category.Description: category.Description(),
		m_category.Position:    int64(category.Position()),
		m_category.DeletedAt:   nullTime(category.DeletedAt()),
		m_category.UpdatedAt:   category.UpdatedAt(),
	}
	query, args := r.model.UpdateQuery(category.ID(), updates)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepo) GetByID(ctx context.Context, q txn.Querier, categoryID string) (*domain.Category, error) {
	query := "SELECT " + strings.Join(r.model.Columns(), ", ") +
		" FROM " + m_category.TableName +
		" WHERE " + m_category.ID + " = ?"

	var data m_category.Data
	if err := q.GetContext(ctx, &data, query, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to read category: %w", err)
	}

	return domain.ReconstructCategory(
		data.ID,
		data.Name,
		data.Slug,
		data.Description,
		int(data.Position),
		data.CreatedAt,
		data.UpdatedAt,
		timePtr(data.DeletedAt),
	), nil
}

// Exists reports whether a live category exists.
func (r *CategoryRepo) Exists(ctx context.Context, q txn.Querier, categoryID string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM " + m_category.TableName +
		" WHERE " + m_category.ID + " = ? AND " + m_category.DeletedAt + " IS NULL"
	if err := q.GetContext(ctx, &count, query, categoryID); err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return count > 0, nil
}
