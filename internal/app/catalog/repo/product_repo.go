package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/models/m_product"
	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// ProductRepo implements ProductRepository for MySQL.
type ProductRepo struct {
	model *m_product.Model
	clock clock.Clock
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(clk clock.Clock) contracts.ProductRepository {
	return &ProductRepo{
		model: m_product.NewModel(),
		clock: clk,
	}
}

// Insert persists a new product aggregate.
func (r *ProductRepo) Insert(ctx context.Context, q txn.Querier, product *domain.Product) error {
	data := r.domainToData(product)
	if _, err := q.NamedExecContext(ctx, r.model.InsertQuery(), data); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Update persists the dirty fields of a product. updated_at is written
// only when the change set contains business edits; housekeeping
// stamps go through without touching it.
func (r *ProductRepo) Update(ctx context.Context, q txn.Querier, product *domain.Product) error {
	changes := product.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]any)

	if changes.Dirty(domain.FieldName) {
		updates[m_product.Name] = product.Name()
	}

	if changes.Dirty(domain.FieldSlug) {
		updates[m_product.Slug] = product.Slug()
	}

	if changes.Dirty(domain.FieldDescription) {
		updates[m_product.Description] = product.Description()
	}

	if changes.Dirty(domain.FieldCategory) {
		updates[m_product.CategoryID] = product.CategoryID()
	}

	if changes.Dirty(domain.FieldPrice) {
		updates[m_product.PriceAmount] = product.Price().Amount()
		updates[m_product.PriceCurrency] = product.Price().Currency()
	}

	if changes.Dirty(domain.FieldStatus) {
		updates[m_product.Status] = string(product.Status())
	}

	if changes.Dirty(domain.FieldVerifiedAt) {
		updates[m_product.VerifiedAt] = nullTime(product.VerifiedAt())
	}

	if changes.Dirty(domain.FieldVerifiedBy) {
		updates[m_product.VerifiedBy] = nullString(product.VerifiedBy())
	}

	if changes.Dirty(domain.FieldPublishedAt) {
		updates[m_product.PublishedAt] = nullTime(product.PublishedAt())
	}

	if changes.Dirty(domain.FieldArchivedAt) {
		updates[m_product.ArchivedAt] = nullTime(product.ArchivedAt())
	}

	if changes.Dirty(domain.FieldLastPriceCheck) {
		updates[m_product.LastPriceCheck] = nullTime(product.LastPriceCheck())
	}

	if changes.Dirty(domain.FieldLastLinkCheck) {
		updates[m_product.LastLinkCheck] = nullTime(product.LastLinkCheck())
	}

	if len(updates) == 0 {
		return nil
	}

	if changes.HasBusinessChanges() {
		updates[m_product.UpdatedAt] = product.UpdatedAt()
	}

	query, args := r.model.UpdateQuery(product.ID(), updates)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID, reconstructing the domain aggregate.
func (r *ProductRepo) GetByID(ctx context.Context, q txn.Querier, productID string) (*domain.Product, error) {
	return r.getOne(ctx, q, m_product.ID, productID, false)
}

// GetByIDForUpdate retrieves a product with a row lock held until the
// enclosing transaction ends.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, q txn.Querier, productID string) (*domain.Product, error) {
	return r.getOne(ctx, q, m_product.ID, productID, true)
}

// GetBySlug retrieves a product by slug.
func (r *ProductRepo) GetBySlug(ctx context.Context, q txn.Querier, slug string) (*domain.Product, error) {
	return r.getOne(ctx, q, m_product.Slug, slug, false)
}

// Exists checks if a product exists.
func (r *ProductRepo) Exists(ctx context.Context, q txn.Querier, productID string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM " + m_product.TableName + " WHERE " + m_product.ID + " = ?"
	if err := q.GetContext(ctx, &count, query, productID); err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return count > 0, nil
}

// List returns products for the admin views, most recently touched
// first.
func (r *ProductRepo) List(ctx context.Context, q txn.Querier, filter contracts.ProductListFilter) ([]*domain.Product, error) {
	query := "SELECT " + strings.Join(r.model.Columns(), ", ") +
		" FROM " + m_product.TableName
	args := make([]any, 0, 3)

	if filter.Status != nil {
		query += " WHERE " + m_product.Status + " = ?"
		args = append(args, string(*filter.Status))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += " ORDER BY " + m_product.UpdatedAt + " DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []*m_product.Data
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*domain.Product, 0, len(rows))
	for _, data := range rows {
		product, err := r.dataToDomain(data)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *ProductRepo) getOne(ctx context.Context, q txn.Querier, column, value string, forUpdate bool) (*domain.Product, error) {
	query := "SELECT " + strings.Join(r.model.Columns(), ", ") +
		" FROM " + m_product.TableName +
		" WHERE " + column + " = ?"
	if forUpdate {
		query += " FOR UPDATE"
	}

	var data m_product.Data
	if err := q.GetContext(ctx, &data, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	return r.dataToDomain(&data)
}

// domainToData converts a domain Product to database Data.
func (r *ProductRepo) domainToData(product *domain.Product) *m_product.Data {
	return &m_product.Data{
		ID:             product.ID(),
		Name:           product.Name(),
		Slug:           product.Slug(),
		Description:    product.Description(),
		CategoryID:     product.CategoryID(),
		PriceAmount:    product.Price().Amount(),
		PriceCurrency:  product.Price().Currency(),
		Status:         string(product.Status()),
		VerifiedAt:     nullTime(product.VerifiedAt()),
		VerifiedBy:     nullString(product.VerifiedBy()),
		PublishedAt:    nullTime(product.PublishedAt()),
		LastPriceCheck: nullTime(product.LastPriceCheck()),
		LastLinkCheck:  nullTime(product.LastLinkCheck()),
		CreatedAt:      product.CreatedAt(),
		UpdatedAt:      product.UpdatedAt(),
		ArchivedAt:     nullTime(product.ArchivedAt()),
	}
}

// dataToDomain converts database Data to a domain Product.
func (r *ProductRepo) dataToDomain(data *m_product.Data) (*domain.Product, error) {
	var price domain.Price
	if data.PriceCurrency != "" {
		var err error
		price, err = domain.NewPrice(data.PriceAmount, data.PriceCurrency)
		if err != nil {
			return nil, fmt.Errorf("invalid stored price: %w", err)
		}
	}

	status := domain.ProductStatus(data.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid stored status %q", data.Status)
	}

	return domain.ReconstructProduct(
		data.ID,
		data.Name,
		data.Slug,
		data.Description,
		data.CategoryID,
		price,
		status,
		timePtr(data.VerifiedAt),
		data.VerifiedBy.String,
		timePtr(data.PublishedAt),
		timePtr(data.LastPriceCheck),
		timePtr(data.LastLinkCheck),
		data.CreatedAt,
		data.UpdatedAt,
		timePtr(data.ArchivedAt),
		r.clock,
	), nil
}
