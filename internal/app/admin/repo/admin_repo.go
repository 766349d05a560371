package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devdaily/catalog-service/internal/app/admin/contracts"
	"github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/models/m_admin"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// AdminRepo implements AdminRepository for MySQL.
type AdminRepo struct {
	model *m_admin.Model
}

// NewAdminRepo creates a new AdminRepo.
func NewAdminRepo() contracts.AdminRepository {
	return &AdminRepo{model: m_admin.NewModel()}
}

// Insert persists a new admin user.
func (r *AdminRepo) Insert(ctx context.Context, q txn.Querier, user *domain.AdminUser) error {
	data := r.domainToData(user)
	if _, err := q.NamedExecContext(ctx, r.model.InsertQuery(), data); err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}
	return nil
}

// Update persists the mutable fields of an admin user.
func (r *AdminRepo) Update(ctx context.Context, q txn.Querier, user *domain.AdminUser) error {
	updates := map[string]any{
		m_admin.Name:         user.Name(),
		m_admin.PasswordHash: string(user.PasswordHash()),
		m_admin.Role:         string(user.Role()),
		m_admin.Active:       user.Active(),
		m_admin.DeletedAt:    nullTime(user.DeletedAt()),
		m_admin.UpdatedAt:    user.UpdatedAt(),
	}
	query, args := r.model.UpdateQuery(user.ID(), updates)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update admin user: %w", err)
	}
	return nil
}

// GetByID retrieves an admin user by ID.
func (r *AdminRepo) GetByID(ctx context.Context, q txn.Querier, id string) (*domain.AdminUser, error) {
	return r.getOne(ctx, q, m_admin.ID, id)
}

// GetByEmail retrieves an admin user by email.
func (r *AdminRepo) GetByEmail(ctx context.Context, q txn.Querier, email string) (*domain.AdminUser, error) {
	return r.getOne(ctx, q, m_admin.Email, email)
}

// List returns all admin users that are not soft-deleted.
func (r *AdminRepo) List(ctx context.Context, q txn.Querier) ([]*domain.AdminUser, error) {
	query := r.selectQuery() +
		" WHERE " + m_admin.DeletedAt + " IS NULL" +
		" ORDER BY " + m_admin.Email

	var rows []m_admin.Data
	if err := q.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}

	users := make([]*domain.AdminUser, 0, len(rows))
	for i := range rows {
		users = append(users, r.dataToDomain(&rows[i]))
	}
	return users, nil
}

func (r *AdminRepo) getOne(ctx context.Context, q txn.Querier, column, value string) (*domain.AdminUser, error) {
	query := r.selectQuery() + " WHERE " + column + " = ?"

	var data m_admin.Data
	if err := q.GetContext(ctx, &data, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to read admin user: %w", err)
	}
	return r.dataToDomain(&data), nil
}

func (r *AdminRepo) selectQuery() string {
	return "SELECT " + strings.Join(r.model.Columns(), ", ") + " FROM " + m_admin.TableName
}

func (r *AdminRepo) domainToData(user *domain.AdminUser) *m_admin.Data {
	return &m_admin.Data{
		ID:           user.ID(),
		Email:        user.Email(),
		Name:         user.Name(),
		PasswordHash: string(user.PasswordHash()),
		Role:         string(user.Role()),
		Active:       user.Active(),
		CreatedAt:    user.CreatedAt(),
		UpdatedAt:    user.UpdatedAt(),
		DeletedAt:    nullTime(user.DeletedAt()),
	}
}

func (r *AdminRepo) dataToDomain(data *m_admin.Data) *domain.AdminUser {
	return domain.ReconstructAdminUser(
		data.ID,
		data.Email,
		data.Name,
		[]byte(data.PasswordHash),
		domain.Role(data.Role),
		data.Active,
		data.CreatedAt,
		data.UpdatedAt,
		timePtr(data.DeletedAt),
	)
}

// nullTime converts an optional time to its database representation.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// timePtr converts a database time back to an optional time.
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
