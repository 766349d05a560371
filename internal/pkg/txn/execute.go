package txn

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Execute runs work as one unit of work: begin, callback, commit, with
// rollback on any failure. Transient failures (deadlocks, lock wait
// timeouts) are retried on a fresh transaction with a doubling delay;
// everything else surfaces immediately. The callback must leave the
// runner balanced: every nested Begin it performs matched by a Commit
// or Rollback.
func Execute[T any](ctx context.Context, r *Runner, opts ExecOptions, work func(ctx context.Context, q Querier) (T, error)) (T, error) {
	var zero T
	opts = opts.withDefaults()

	if r.closed {
		return zero, ErrClosed
	}
	if r.level != 0 {
		return zero, stateErr("execute", r.level, "unit of work already in flight")
	}

	start := r.cfg.Clock.Now()
	defer func() {
		r.cfg.Metrics.observeDuration(r.cfg.Clock.Now().Sub(start).Seconds())
	}()

	attempts := opts.attempts()
	delay := opts.RetryDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := runAttempt(ctx, r, opts, work)
		if err == nil {
			return out, nil
		}
		lastErr = err

		var se *StateError
		if errors.As(err, &se) {
			return zero, err
		}
		if opts.NoDeadlockRetry || !r.cfg.Classifier.Transient(err) {
			break
		}
		r.cfg.Metrics.deadlock()
		if attempt == attempts {
			lastErr = fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, err)
			break
		}
		r.cfg.Metrics.retried()
		r.log.Warn("transient transaction failure, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(err))
		r.cfg.Clock.Sleep(ctx, delay)
		delay *= 2
		if ctx.Err() != nil {
			lastErr = fmt.Errorf("retry aborted: %w", ctx.Err())
			break
		}
	}

	if opts.SuppressErrors {
		r.log.Error("unit of work failed, error suppressed", zap.Error(lastErr))
		return zero, nil
	}
	return zero, lastErr
}

// Run is Execute for callbacks that produce no result.
func Run(ctx context.Context, r *Runner, opts ExecOptions, work func(ctx context.Context, q Querier) error) error {
	_, err := Execute(ctx, r, opts, func(ctx context.Context, q Querier) (struct{}, error) {
		return struct{}{}, work(ctx, q)
	})
	return err
}

func runAttempt[T any](ctx context.Context, r *Runner, opts ExecOptions, work func(ctx context.Context, q Querier) (T, error)) (T, error) {
	var zero T
	if err := r.BeginTx(ctx, opts.Isolation); err != nil {
		return zero, err
	}
	out, err := work(ctx, r.tx)
	if err != nil {
		if rbErr := r.RollbackAll(ctx); rbErr != nil {
			r.log.Error("rollback after failed attempt", zap.Error(rbErr))
		}
		return zero, err
	}
	if r.level != 1 {
		level := r.level
		_ = r.RollbackAll(ctx)
		return zero, stateErr("execute", level, "unbalanced nested transactions in callback")
	}
	if err := r.Commit(ctx); err != nil {
		return zero, err
	}
	return out, nil
}
