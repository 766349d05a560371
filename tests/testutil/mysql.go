package testutil

import (
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

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

// DSNEnvVar names the environment variable holding the test database
// DSN. Tests that need MySQL skip when it is unset.
const DSNEnvVar = "CATALOG_MYSQL_DSN"

// SetupMySQLTest connects to the migrated test database and returns a
// cleanup function.
func SetupMySQLTest(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	dsn := os.Getenv(DSNEnvVar)
	if dsn == "" {
		t.Skipf("%s not set; skipping database test", DSNEnvVar)
	}

	db, err := sqlx.Connect("mysql", dsn)
	require.NoError(t, err, "failed to connect to test database")

	CleanDatabase(t, db)

	cleanup := func() {
		CleanDatabase(t, db)
		db.Close()
	}

	return db, cleanup
}

// CleanDatabase empties every table for test isolation. Child tables
// go first so foreign keys never block the deletes.
func CleanDatabase(t *testing.T, db *sqlx.DB) {
	t.Helper()

	tables := []string{
		m_audit.TableName,
		m_price_history.TableName,
		m_product_badge.TableName,
		m_link.TableName,
		m_product.TableName,
		m_badge.TableName,
		m_marketplace.TableName,
		m_category.TableName,
		m_admin.TableName,
	}
	for _, table := range tables {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err, "failed to clean table %s", table)
	}
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, db *sqlx.DB, table string, expected int) {
	t.Helper()

	var count int64
	err := db.Get(&count, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	require.NoError(t, err, "failed to query row count")
	require.Equal(t, int64(expected), count, "unexpected row count in table %s", table)
}
