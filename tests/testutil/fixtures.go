package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/devdaily/catalog-service/internal/models/m_admin"
	"github.com/devdaily/catalog-service/internal/models/m_audit"
	"github.com/devdaily/catalog-service/internal/models/m_badge"
	"github.com/devdaily/catalog-service/internal/models/m_category"
	"github.com/devdaily/catalog-service/internal/models/m_link"
	"github.com/devdaily/catalog-service/internal/models/m_marketplace"
	"github.com/devdaily/catalog-service/internal/models/m_price_history"
	"github.com/devdaily/catalog-service/internal/models/m_product"
	"github.com/devdaily/catalog-service/internal/models/m_product_badge"
)

// CreateTestAdmin creates an admin user directly in the database and
// returns its id. MinCost keeps the bcrypt work factor out of the
// test runtime.
func CreateTestAdmin(t *testing.T, db *sqlx.DB, role string) string {
	t.Helper()

	id := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte("test-password"), bcrypt.MinCost)
	require.NoError(t, err, "failed to hash test password")

	now := time.Now().UTC()
	data := &m_admin.Data{
		ID:           id,
		Email:        id[:8] + "@example.test",
		Name:         "Test Admin",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = db.NamedExec(m_admin.NewModel().InsertQuery(), data)
	require.NoError(t, err, "failed to create test admin")

	return id
}

// CreateTestCategory creates a category directly in the database.
func CreateTestCategory(t *testing.T, db *sqlx.DB, name, slug string) string {
	t.Helper()

	id := uuid.New().String()
	now := time.Now().UTC()
	data := &m_category.Data{
		ID:          id,
		Name:        name,
		Slug:        slug,
		Description: "Test category",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := db.NamedExec(m_category.NewModel().InsertQuery(), data)
	require.NoError(t, err, "failed to create test category")

	return id
}

// CreateTestMarketplace creates a marketplace directly in the database.
func CreateTestMarketplace(t *testing.T, db *sqlx.DB, name, slug, priceSelector string) string {
	t.Helper()

	id := uuid.New().String()
	now := time.Now().UTC()
	data := &m_marketplace.Data{
		ID:            id,
		Name:          name,
		Slug:          slug,
		SiteURL:       "https://" + slug + ".example.test",
		AffiliateTag:  "devdaily-21",
		PriceSelector: priceSelector,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err := db.NamedExec(m_marketplace.NewModel().InsertQuery(), data)
	require.NoError(t, err, "failed to create test marketplace")

	return id
}

// CreateTestBadge creates a badge directly in the database.
func CreateTestBadge(t *testing.T, db *sqlx.DB, name, slug string) string {
	t.Helper()

	id := uuid.New().String()
	now := time.Now().UTC()
	data := &m_badge.Data{
		ID:        id,
		Name:      name,
		Slug:      slug,
		Color:     "#2563eb",
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := db.NamedExec(m_badge.NewModel().InsertQuery(), data)
	require.NoError(t, err, "failed to create test badge")

	return id
}

// CreateTestProduct creates a product in the given lifecycle status.
// Published rows get a published_at stamp, archived rows an
// archived_at stamp, so the row passes the repository's consistency
// checks.
func CreateTestProduct(t *testing.T, db *sqlx.DB, categoryID, name, slug, status string) string {
	t.Helper()

	id := uuid.New().String()
	now := time.Now().UTC()
	data := &m_product.Data{
		ID:            id,
		Name:          name,
		Slug:          slug,
		Description:   "Test product description",
		CategoryID:    categoryID,
		PriceAmount:   7999,
		PriceCurrency: "USD",
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	switch status {
	case "verified", "published":
		data.VerifiedAt = sql.NullTime{Time: now, Valid: true}
		data.VerifiedBy = sql.NullString{String: "test-verifier", Valid: true}
	case "archived":
		data.ArchivedAt = sql.NullTime{Time: now, Valid: true}
	}
	if status == "published" {
		data.PublishedAt = sql.NullTime{Time: now, Valid: true}
	}

	_, err := db.NamedExec(m_product.NewModel().InsertQuery(), data)
	require.NoError(t, err, "failed to create test product")

	return id
}

// CreateTestLink creates an affiliate link directly in the database.
func CreateTestLink(t *testing.T, db *sqlx.DB, productID, marketplaceID, url string, priceAmount int64) string {
	t.Helper()

	id := uuid.New().String()
	now := time.Now().UTC()
	data := &m_link.Data{
		ID:            id,
		ProductID:     productID,
		MarketplaceID: marketplaceID,
		URL:           url,
		PriceAmount:   priceAmount,
		PriceCurrency: "USD",
		Healthy:       true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err := db.NamedExec(m_link.NewModel().InsertQuery(), data)
	require.NoError(t, err, "failed to create test link")

	return id
}

// AssignTestBadge attaches a badge to a product directly in the
// database.
func AssignTestBadge(t *testing.T, db *sqlx.DB, productID, badgeID string) {
	t.Helper()

	data := &m_product_badge.Data{
		ProductID: productID,
		BadgeID:   badgeID,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.NamedExec(m_product_badge.NewModel().InsertQuery(), data)
	require.NoError(t, err, "failed to assign test badge")
}

// RecordTestPricePoint appends a price observation directly in the
// database.
func RecordTestPricePoint(t *testing.T, db *sqlx.DB, linkID, productID, marketplaceID string, priceAmount int64, recordedAt time.Time) {
	t.Helper()

	data := &m_price_history.Data{
		LinkID:        linkID,
		ProductID:     productID,
		MarketplaceID: marketplaceID,
		PriceAmount:   priceAmount,
		PriceCurrency: "USD",
		RecordedAt:    recordedAt,
	}
	_, err := db.NamedExec(m_price_history.NewModel().InsertQuery(), data)
	require.NoError(t, err, "failed to record test price point")
}

// GetProductRow reads a product row back for verification.
func GetProductRow(t *testing.T, db *sqlx.DB, productID string) *m_product.Data {
	t.Helper()

	var data m_product.Data
	query := "SELECT * FROM " + m_product.TableName + " WHERE " + m_product.ID + " = ?"
	err := db.Get(&data, query, productID)
	require.NoError(t, err, "failed to get product by id")

	return &data
}

// AssertAuditEntry verifies an audit record exists for the action and
// entity.
func AssertAuditEntry(t *testing.T, db *sqlx.DB, action, entityID string) {
	t.Helper()

	var count int64
	query := "SELECT COUNT(*) FROM " + m_audit.TableName +
		" WHERE " + m_audit.Action + " = ? AND " + m_audit.EntityID + " = ?"
	err := db.Get(&count, query, action, entityID)
	require.NoError(t, err, "failed to query audit entries")
	require.Positive(t, count, "audit entry not found for action %s on %s", action, entityID)
}

// CountAuditEntries returns how many audit records exist for an entity.
func CountAuditEntries(t *testing.T, db *sqlx.DB, entityID string) int64 {
	t.Helper()

	var count int64
	query := "SELECT COUNT(*) FROM " + m_audit.TableName + " WHERE " + m_audit.EntityID + " = ?"
	err := db.Get(&count, query, entityID)
	require.NoError(t, err, "failed to count audit entries")

	return count
}
