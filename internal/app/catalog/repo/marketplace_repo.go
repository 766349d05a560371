package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/models/m_marketplace"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// MarketplaceRepo implements MarketplaceRepository for MySQL.
type MarketplaceRepo struct {
	model *m_marketplace.Model
}

// NewMarketplaceRepo creates a new MarketplaceRepo.
func NewMarketplaceRepo() contracts.MarketplaceRepository {
	return &MarketplaceRepo{model: m_marketplace.NewModel()}
}

// Insert persists a new marketplace.
func (r *MarketplaceRepo) Insert(ctx context.Context, q txn.Querier, marketplace *domain.Marketplace) error {
	data := &m_marketplace.Data{
		ID:            marketplace.ID(),
		Name:          marketplace.Name(),
		Slug:          marketplace.Slug(),
		SiteURL:       marketplace.SiteURL(),
		AffiliateTag:  marketplace.AffiliateTag(),
		PriceSelector: marketplace.PriceSelector(),
		CreatedAt:     marketplace.CreatedAt(),
		UpdatedAt:     marketplace.UpdatedAt(),
		DeletedAt:     nullTime(marketplace.DeletedAt()),
	}
	if _, err := q.NamedExecContext(ctx, r.model.InsertQuery(), data); err != nil {
		return fmt.Errorf("failed to insert marketplace: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a marketplace.
func (r *MarketplaceRepo) Update(ctx context.Context, q txn.Querier, marketplace *domain.Marketplace) error {
	updates := map[string]any{
		m_marketplace.Name:          marketplace.Name(),
		m_marketplace.SiteURL:       marketplace.SiteURL(),
		m_marketplace.AffiliateTag:  marketplace.AffiliateTag(),
		m_marketplace.PriceSelector: marketplace.PriceSelector(),
		m_marketplace.DeletedAt:     nullTime(marketplace.DeletedAt()),
		m_marketplace.UpdatedAt:     marketplace.UpdatedAt(),
	}
	query, args := r.model.UpdateQuery(marketplace.ID(), updates)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update marketplace: %w", err)
	}
	return nil
}

// GetByID retrieves a marketplace by ID.
func (r *MarketplaceRepo) GetByID(ctx context.Context, q txn.Querier, marketplaceID string) (*domain.Marketplace, error) {
	query := "SELECT " + strings.Join(r.model.Columns(), ", ") +
		" FROM " + m_marketplace.TableName +
		" WHERE " + m_marketplace.ID + " = ?"

	var data m_marketplace.Data
	if err := q.GetContext(ctx, &data, query, marketplaceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMarketplaceNotFound
		}
		return nil, fmt.Errorf("failed to read marketplace: %w", err)
	}

	return domain.ReconstructMarketplace(
		data.ID,
		data.Name,
		data.Slug,
		data.SiteURL,
		data.AffiliateTag,
		data.PriceSelector,
		data.CreatedAt,
		data.UpdatedAt,
		timePtr(data.DeletedAt),
	), nil
}
