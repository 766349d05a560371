package txn

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BatchResult aggregates the outcome of an ExecuteBatch call across
// all chunks.
type BatchResult struct {
	Processed int
	Succeeded int
	Failed    int

	// Errors records items that failed individually while the rest of
	// their chunk went on to commit.
	Errors []BatchError

	// ChunkErrors records chunks that failed as a whole; every item in
	// such a chunk was rolled back.
	ChunkErrors []ChunkError
}

// BatchError ties an item-level failure to the item's position in the
// input slice.
type BatchError struct {
	Index int
	Err   error
}

func (e BatchError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

// ChunkError covers the half-open item range [Start, End) of a chunk
// whose transaction could not commit.
type ChunkError struct {
	Start int
	End   int
	Err   error
}

func (e ChunkError) Error() string {
	return fmt.Sprintf("chunk [%d,%d): %v", e.Start, e.End, e.Err)
}

type chunkOutcome struct {
	succeeded int
	errors    []BatchError
}

// ExecuteBatch processes items in chunks, one transaction per chunk,
// with a savepoint around every item. An item failure rolls back to
// its savepoint and is recorded without disturbing the rest of the
// chunk; a chunk failure rolls back that chunk and the batch moves on.
// With StopOnError the first item failure aborts its chunk and the
// whole batch.
//
// The returned error is non-nil only for a StopOnError abort; all
// other failures are reported through the result.
func ExecuteBatch[T any](ctx context.Context, r *Runner, opts BatchOptions, items []T, process func(ctx context.Context, q Querier, item T) error) (*BatchResult, error) {
	opts = opts.withDefaults()
	result := &BatchResult{}

	chunkOpts := opts.ExecOptions
	// Chunk failures are reported through the result, never swallowed.
	chunkOpts.SuppressErrors = false

	for start := 0; start < len(items); start += opts.ChunkSize {
		end := start + opts.ChunkSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]
		chunkStart := start

		out, err := Execute(ctx, r, chunkOpts, func(ctx context.Context, q Querier) (chunkOutcome, error) {
			var out chunkOutcome
			for i, item := range chunk {
				idx := chunkStart + i
				if err := r.Begin(ctx); err != nil {
					return out, err
				}
				if err := process(ctx, q, item); err != nil {
					if rbErr := r.Rollback(ctx); rbErr != nil {
						return out, rbErr
					}
					if opts.StopOnError {
						return out, fmt.Errorf("item %d: %w", idx, err)
					}
					out.errors = append(out.errors, BatchError{Index: idx, Err: err})
					continue
				}
				if err := r.Commit(ctx); err != nil {
					return out, err
				}
				out.succeeded++
			}
			return out, nil
		})

		result.Processed += len(chunk)
		if err != nil {
			result.Failed += len(chunk)
			result.ChunkErrors = append(result.ChunkErrors, ChunkError{Start: start, End: end, Err: err})
			r.log.Error("batch chunk failed",
				zap.Int("start", start),
				zap.Int("end", end),
				zap.Error(err))
			if opts.StopOnError {
				return result, err
			}
			continue
		}
		result.Succeeded += out.succeeded
		result.Failed += len(out.errors)
		result.Errors = append(result.Errors, out.errors...)
	}

	return result, nil
}
