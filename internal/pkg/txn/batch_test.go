package txn_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdaily/catalog-service/internal/pkg/clock"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

func expectItemSavepoint(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`^SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^RELEASE SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestExecuteBatchChunksWork(t *testing.T) {
	r, mock := newTestRunner(t, txn.Config{})

	// 5 items, chunk size 2: two full chunks and one remainder chunk.
	for _, chunkLen := range []int{2, 2, 1} {
		mock.ExpectBegin()
		for i := 0; i < chunkLen; i++ {
			expectItemSavepoint(mock)
		}
		mock.ExpectCommit()
	}

	items := []int{1, 2, 3, 4, 5}
	var seen []int
	result, err := txn.ExecuteBatch(context.Background(), r, txn.BatchOptions{ChunkSize: 2}, items,
		func(ctx context.Context, q txn.Querier, item int) error {
			seen = append(seen, item)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, items, seen)
	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, 5, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.ChunkErrors)

	expectationsMet(t, mock)
}

func TestExecuteBatchRecordsItemFailures(t *testing.T) {
	r, mock := newTestRunner(t, txn.Config{})

	mock.ExpectBegin()
	expectItemSavepoint(mock)
	mock.ExpectExec(`^SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^ROLLBACK TO SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
	expectItemSavepoint(mock)
	mock.ExpectCommit()

	badItem := errors.New("unreachable url")
	result, err := txn.ExecuteBatch(context.Background(), r, txn.BatchOptions{ChunkSize: 3}, []int{10, 11, 12},
		func(ctx context.Context, q txn.Querier, item int) error {
			if item == 11 {
				return badItem
			}
			return nil
		})
	require.NoError(t, err, "item failures must not fail the batch")
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.ErrorIs(t, result.Errors[0].Err, badItem)

	expectationsMet(t, mock)
}

func TestExecuteBatchProcessesAllChunksDespiteFailures(t *testing.T) {
	r, mock := newTestRunner(t, txn.Config{})

	failing := map[int]bool{23: true, 27: true}
	items := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, i)
	}
	for start := 0; start < 100; start += 10 {
		mock.ExpectBegin()
		for i := start; i < start+10; i++ {
			if failing[i] {
				mock.ExpectExec(`^SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`^ROLLBACK TO SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
				continue
			}
			expectItemSavepoint(mock)
		}
		mock.ExpectCommit()
	}

	result, err := txn.ExecuteBatch(context.Background(), r, txn.BatchOptions{ChunkSize: 10}, items,
		func(ctx context.Context, q txn.Querier, item int) error {
			if failing[item] {
				return fmt.Errorf("item %d rejected", item)
			}
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Processed)
	assert.Equal(t, 98, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, result.Errors, 2)

	expectationsMet(t, mock)
}

func TestExecuteBatchStopOnError(t *testing.T) {
	r, mock := newTestRunner(t, txn.Config{})

	mock.ExpectBegin()
	expectItemSavepoint(mock)
	mock.ExpectExec(`^SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^ROLLBACK TO SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	calls := 0
	result, err := txn.ExecuteBatch(context.Background(), r, txn.BatchOptions{ChunkSize: 2, StopOnError: true}, []int{1, 2, 3, 4},
		func(ctx context.Context, q txn.Querier, item int) error {
			calls++
			if item == 2 {
				return errors.New("fatal item")
			}
			return nil
		})
	require.Error(t, err)
	assert.Equal(t, 2, calls, "items after the failure must not run")
	assert.Equal(t, 2, result.Processed, "only the aborted chunk counts as processed")
	assert.Equal(t, 2, result.Failed, "the aborted chunk is rolled back whole")
	assert.Equal(t, 0, result.Succeeded)
	require.Len(t, result.ChunkErrors, 1)
	assert.Equal(t, 0, result.ChunkErrors[0].Start)
	assert.Equal(t, 2, result.ChunkErrors[0].End)

	expectationsMet(t, mock)
}

func TestExecuteBatchChunkFailureContinues(t *testing.T) {
	r, mock := newTestRunner(t, txn.Config{})

	// First chunk dies creating its first savepoint; the second chunk
	// still runs to completion.
	mock.ExpectBegin()
	mock.ExpectExec(`^SAVEPOINT sp_1$`).WillReturnError(errors.New("server has gone away"))
	mock.ExpectRollback()
	mock.ExpectBegin()
	expectItemSavepoint(mock)
	expectItemSavepoint(mock)
	mock.ExpectCommit()

	result, err := txn.ExecuteBatch(context.Background(), r, txn.BatchOptions{ChunkSize: 2}, []int{1, 2, 3, 4},
		func(ctx context.Context, q txn.Querier, item int) error {
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.ChunkErrors, 1)
	assert.Equal(t, 0, result.ChunkErrors[0].Start)
	assert.Equal(t, 2, result.ChunkErrors[0].End)

	expectationsMet(t, mock)
}

func TestExecuteBatchRetriesTransientChunk(t *testing.T) {
	mc := clock.NewMockClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	r, mock := newTestRunner(t, txn.Config{Clock: mc})

	// The chunk commit deadlocks once; the whole chunk re-runs and the
	// counters must not double-count the first attempt.
	mock.ExpectBegin()
	expectItemSavepoint(mock)
	expectItemSavepoint(mock)
	mock.ExpectCommit().WillReturnError(errDeadlock)
	mock.ExpectBegin()
	expectItemSavepoint(mock)
	expectItemSavepoint(mock)
	mock.ExpectCommit()

	processed := 0
	result, err := txn.ExecuteBatch(context.Background(), r, txn.BatchOptions{ChunkSize: 2}, []int{7, 8},
		func(ctx context.Context, q txn.Querier, item int) error {
			processed++
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 4, processed, "both items run again on the retry attempt")
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, []time.Duration{100 * time.Millisecond}, mc.SleepDurations())

	expectationsMet(t, mock)
}

func TestExecuteBatchEmptyInput(t *testing.T) {
	r, mock := newTestRunner(t, txn.Config{})

	result, err := txn.ExecuteBatch(context.Background(), r, txn.BatchOptions{}, nil,
		func(ctx context.Context, q txn.Querier, item string) error {
			t.Fatal("processor must not run for an empty batch")
			return nil
		})
	require.NoError(t, err)
	assert.Zero(t, result.Processed)

	expectationsMet(t, mock)
}
