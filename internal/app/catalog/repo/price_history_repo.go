package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/models/m_price_history"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// PriceHistoryRepo implements PriceHistoryRepository for MySQL.
type PriceHistoryRepo struct {
	model *m_price_history.Model
}

// NewPriceHistoryRepo creates a new PriceHistoryRepo.
func NewPriceHistoryRepo() contracts.PriceHistoryRepository {
	return &PriceHistoryRepo{model: m_price_history.NewModel()}
}

// Record appends one observed price point.
func (r *PriceHistoryRepo) Record(ctx context.Context, q txn.Querier, point contracts.PricePoint) error {
	data := &m_price_history.Data{
		LinkID:        point.LinkID,
		ProductID:     point.ProductID,
		MarketplaceID: point.MarketplaceID,
		PriceAmount:   point.Price.Amount(),
		PriceCurrency: point.Price.Currency(),
		RecordedAt:    point.RecordedAt,
	}
	if _, err := q.NamedExecContext(ctx, r.model.InsertQuery(), data); err != nil {
		return fmt.Errorf("failed to record price point: %w", err)
	}
	return nil
}

// ListForProduct retrieves price points for a product, most recent first.
func (r *PriceHistoryRepo) ListForProduct(ctx context.Context, q txn.Querier, productID string, limit int) ([]contracts.PricePoint, error) {
	query := "SELECT " + strings.Join(r.model.Columns(), ", ") +
		" FROM " + m_price_history.TableName +
		" WHERE " + m_price_history.ProductID + " = ?" +
		" ORDER BY " + m_price_history.RecordedAt + " DESC" +
		" LIMIT ?"

	var rows []m_price_history.Data
	if err := q.SelectContext(ctx, &rows, query, productID, limit); err != nil {
		return nil, fmt.Errorf("failed to list price points: %w", err)
	}

	points := make([]contracts.PricePoint, 0, len(rows))
	for _, row := range rows {
		price, err := domain.NewPrice(row.PriceAmount, row.PriceCurrency)
		if err != nil {
			return nil, fmt.Errorf("invalid stored price point: %w", err)
		}
		points = append(points, contracts.PricePoint{
			LinkID:        row.LinkID,
			ProductID:     row.ProductID,
			MarketplaceID: row.MarketplaceID,
			Price:         price,
			RecordedAt:    row.RecordedAt,
		})
	}
	return points, nil
}

// Prune deletes points recorded before the cutoff.
func (r *PriceHistoryRepo) Prune(ctx context.Context, q txn.Querier, before time.Time) (int64, error) {
	res, err := q.ExecContext(ctx, r.model.PruneQuery(), before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune price history: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return affected, nil
}
