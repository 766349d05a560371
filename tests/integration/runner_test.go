//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdaily/catalog-service/internal/models/m_category"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
	"github.com/devdaily/catalog-service/tests/testutil"
)

func insertCategory(ctx context.Context, q txn.Querier, id, slug string) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES (?, ?, ?, '', 0, ?, ?)",
		m_category.TableName, m_category.ID, m_category.Name, m_category.Slug,
		m_category.Description, m_category.Position, m_category.CreatedAt, m_category.UpdatedAt)
	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, query, id, "Category "+id, slug, now, now)
	return err
}

func TestRunner_CommitMakesWorkVisible(t *testing.T) {
	db, cleanup := testutil.SetupMySQLTest(t)
	defer cleanup()

	ctx := context.Background()
	factory := txn.NewFactory(db, txn.Config{})

	runner := factory.Runner()
	defer runner.Close()

	require.NoError(t, runner.Begin(ctx))
	require.NoError(t, insertCategory(ctx, runner.Querier(), "cat-1", "cat-1"))

	// Not visible from the pool until commit.
	testutil.AssertRowCount(t, db, "categories", 0)

	require.NoError(t, runner.Commit(ctx))
	testutil.AssertRowCount(t, db, "categories", 1)
}

func TestRunner_RollbackDiscardsWork(t *testing.T) {
	db, cleanup := testutil.SetupMySQLTest(t)
	defer cleanup()

	ctx := context.Background()
	factory := txn.NewFactory(db, txn.Config{})

	runner := factory.Runner()
	defer runner.Close()

	require.NoError(t, runner.Begin(ctx))
	require.NoError(t, insertCategory(ctx, runner.Querier(), "cat-1", "cat-1"))
	require.NoError(t, runner.Rollback(ctx))

	assert.True(t, runner.RolledBack())
	testutil.AssertRowCount(t, db, "categories", 0)
}

func TestRunner_NestedRollbackKeepsOuterWork(t *testing.T) {
	db, cleanup := testutil.SetupMySQLTest(t)
	defer cleanup()

	ctx := context.Background()
	factory := txn.NewFactory(db, txn.Config{})

	runner := factory.Runner()
	defer runner.Close()

	require.NoError(t, runner.Begin(ctx))
	require.NoError(t, insertCategory(ctx, runner.Querier(), "cat-outer", "cat-outer"))

	// Inner level uses a savepoint; rolling it back must not touch the
	// outer insert.
	require.NoError(t, runner.Begin(ctx))
	assert.Equal(t, 2, runner.Level())
	require.NoError(t, insertCategory(ctx, runner.Querier(), "cat-inner", "cat-inner"))
	require.NoError(t, runner.Rollback(ctx))

	assert.False(t, runner.RolledBack())
	require.NoError(t, runner.Commit(ctx))

	testutil.AssertRowCount(t, db, "categories", 1)
	var slug string
	require.NoError(t, db.GetContext(ctx, &slug,
		fmt.Sprintf("SELECT %s FROM %s", m_category.Slug, m_category.TableName)))
	assert.Equal(t, "cat-outer", slug)
}

func TestRunner_ExecuteBatchIsolatesFailedItems(t *testing.T) {
	db, cleanup := testutil.SetupMySQLTest(t)
	defer cleanup()

	ctx := context.Background()
	factory := txn.NewFactory(db, txn.Config{})

	runner := factory.Runner()
	defer runner.Close()

	// The duplicate slug violates the unique key; only that item should
	// roll back.
	items := []string{"alpha", "beta", "alpha", "gamma"}
	seen := 0
	result, err := txn.ExecuteBatch(ctx, runner, txn.BatchOptions{ChunkSize: 10},
		items, func(ctx context.Context, q txn.Querier, slug string) error {
			seen++
			return insertCategory(ctx, q, fmt.Sprintf("cat-%d", seen), slug)
		})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Processed)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Index)

	testutil.AssertRowCount(t, db, "categories", 3)
}

func TestRunner_ExecuteBatchStopOnError(t *testing.T) {
	db, cleanup := testutil.SetupMySQLTest(t)
	defer cleanup()

	ctx := context.Background()
	factory := txn.NewFactory(db, txn.Config{})

	runner := factory.Runner()
	defer runner.Close()

	items := []string{"alpha", "alpha", "beta"}
	seen := 0
	_, err := txn.ExecuteBatch(ctx, runner, txn.BatchOptions{ChunkSize: 10, StopOnError: true},
		items, func(ctx context.Context, q txn.Querier, slug string) error {
			seen++
			return insertCategory(ctx, q, fmt.Sprintf("cat-%d", seen), slug)
		})
	require.Error(t, err)

	// The chunk that contained the failure rolled back whole.
	testutil.AssertRowCount(t, db, "categories", 0)
	assert.Equal(t, 2, seen)
}
