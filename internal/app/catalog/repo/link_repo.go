package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/models/m_link"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// LinkRepo implements LinkRepository for MySQL.
type LinkRepo struct {
	model *m_link.Model
}

// NewLinkRepo creates a new LinkRepo.
func NewLinkRepo() contracts.LinkRepository {
	return &LinkRepo{model: m_link.NewModel()}
}

// Insert persists a new affiliate link.
func (r *LinkRepo) Insert(ctx context.Context, q txn.Querier, link *domain.AffiliateLink) error {
	data := r.domainToData(link)
	if _, err := q.NamedExecContext(ctx, r.model.InsertQuery(), data); err != nil {
		return fmt.Errorf("failed to insert link: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a link. updated_at carries the
// domain's own stamp, so health checks that flip nothing rewrite the
// value it already had.
func (r *LinkRepo) Update(ctx context.Context, q txn.Querier, link *domain.AffiliateLink) error {
	updates := map[string]any{
		m_link.URL:           link.URL(),
		m_link.PriceAmount:   link.Price().Amount(),
		m_link.PriceCurrency: link.Price().Currency(),
		m_link.Healthy:       link.Healthy(),
		m_link.LastCheckedAt: nullTime(link.LastCheckedAt()),
		m_link.UpdatedAt:     link.UpdatedAt(),
	}
	query, args := r.model.UpdateQuery(link.ID(), updates)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	return nil
}

// Delete removes an affiliate link.
func (r *LinkRepo) Delete(ctx context.Context, q txn.Querier, linkID string) error {
	query, args := r.model.DeleteQuery(linkID)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}

// GetByID retrieves an affiliate link by ID.
func (r *LinkRepo) GetByID(ctx context.Context, q txn.Querier, linkID string) (*domain.AffiliateLink, error) {
	query := r.selectQuery() + " WHERE " + m_link.ID + " = ?"

	var data m_link.Data
	if err := q.GetContext(ctx, &data, query, linkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to read link: %w", err)
	}
	return r.dataToDomain(&data)
}

// ListForProduct returns the links of one product.
func (r *LinkRepo) ListForProduct(ctx context.Context, q txn.Querier, productID string) ([]*domain.AffiliateLink, error) {
	query := r.selectQuery() +
		" WHERE " + m_link.ProductID + " = ?" +
		" ORDER BY " + m_link.CreatedAt

	var rows []m_link.Data
	if err := q.SelectContext(ctx, &rows, query, productID); err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return r.rowsToDomain(rows)
}

// ListAll returns every link ordered by least recently checked, never
// checked first.
func (r *LinkRepo) ListAll(ctx context.Context, q txn.Querier) ([]*domain.AffiliateLink, error) {
	query := r.selectQuery() +
		" ORDER BY " + m_link.LastCheckedAt + " IS NOT NULL, " + m_link.LastCheckedAt

	var rows []m_link.Data
	if err := q.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return r.rowsToDomain(rows)
}

func (r *LinkRepo) selectQuery() string {
	return "SELECT " + strings.Join(r.model.Columns(), ", ") + " FROM " + m_link.TableName
}

func (r *LinkRepo) rowsToDomain(rows []m_link.Data) ([]*domain.AffiliateLink, error) {
	links := make([]*domain.AffiliateLink, 0, len(rows))
	for i := range rows {
		link, err := r.dataToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

func (r *LinkRepo) domainToData(link *domain.AffiliateLink) *m_link.Data {
	return &m_link.Data{
		ID:            link.ID(),
		ProductID:     link.ProductID(),
		MarketplaceID: link.MarketplaceID(),
		URL:           link.URL(),
		PriceAmount:   link.Price().Amount(),
		PriceCurrency: link.Price().Currency(),
		Healthy:       link.Healthy(),
		LastCheckedAt: nullTime(link.LastCheckedAt()),
		CreatedAt:     link.CreatedAt(),
		UpdatedAt:     link.UpdatedAt(),
	}
}

func (r *LinkRepo) dataToDomain(data *m_link.Data) (*domain.AffiliateLink, error) {
	var price domain.Price
	if data.PriceCurrency != "" {
		var err error
		price, err = domain.NewPrice(data.PriceAmount, data.PriceCurrency)
		if err != nil {
			return nil, fmt.Errorf("invalid stored link price: %w", err)
		}
	}

	return domain.ReconstructAffiliateLink(
		data.ID,
		data.ProductID,
		data.MarketplaceID,
		data.URL,
		price,
		data.Healthy,
		timePtr(data.LastCheckedAt),
		data.CreatedAt,
		data.UpdatedAt,
	), nil
}
