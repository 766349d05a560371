// Package txn coordinates MySQL transactions for the catalog service.
//
// A Runner owns a single connection for the duration of one unit of
// work. The root Begin opens a real transaction; nested Begin calls
// create savepoints so inner failures can be undone without losing the
// outer work. Execute wraps a callback in the full cycle with retry on
// lock contention, and ExecuteBatch fans a large item set out into
// chunked transactions with per-item savepoints.
//
// A Runner serves one request or job at a time. It is not safe for
// concurrent use; create one per unit of work and Close it when done.
package txn

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/devdaily/catalog-service/internal/pkg/clock"
)

// Querier is the statement surface handed to unit-of-work callbacks
// and repositories. *sqlx.DB and *sqlx.Tx both satisfy it, so read
// paths can run against the pool while writes compose into a
// transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Config carries the runner's collaborators and tuning knobs.
type Config struct {
	Logger     *zap.Logger
	Metrics    *Metrics
	Clock      clock.Clock
	Classifier *Classifier

	// LockWaitTimeout bounds how long statements wait on row locks,
	// applied as innodb_lock_wait_timeout on the runner's connection.
	// Zero keeps the server default.
	LockWaitTimeout time.Duration

	// DisableSavepoints turns nested Begin calls into pure counter
	// bumps. A nested rollback then poisons the whole transaction,
	// because there is no savepoint to fall back to.
	DisableSavepoints bool
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Clock == nil {
		c.Clock = clock.NewRealClock()
	}
	if c.Classifier == nil {
		c.Classifier = NewClassifier()
	}
	return c
}

// Factory hands out runners bound to a shared pool.
type Factory struct {
	db  *sqlx.DB
	cfg Config
}

func NewFactory(db *sqlx.DB, cfg Config) *Factory {
	return &Factory{db: db, cfg: cfg.withDefaults()}
}

// Runner builds a fresh runner for one unit of work.
func (f *Factory) Runner() *Runner {
	return NewRunner(f.db, f.cfg)
}

// Runner drives one transaction cycle at a time against a dedicated
// connection, tracking nesting depth so savepoints map onto the
// logical begin/commit pairs of the code above it.
type Runner struct {
	db  *sqlx.DB
	cfg Config
	log *zap.Logger

	conn *sqlx.Conn
	tx   *sqlx.Tx

	level          int
	rolledBack     bool
	closed         bool
	timeoutApplied bool
}

func NewRunner(db *sqlx.DB, cfg Config) *Runner {
	cfg = cfg.withDefaults()
	return &Runner{db: db, cfg: cfg, log: cfg.Logger}
}

// Level reports the current nesting depth; zero means no transaction
// is in flight.
func (r *Runner) Level() int { return r.level }

// InTransaction reports whether a transaction is open.
func (r *Runner) InTransaction() bool { return r.level > 0 }

// RolledBack reports whether the current transaction has been marked
// rolled back and can no longer commit.
func (r *Runner) RolledBack() bool { return r.rolledBack }

// Querier exposes the open transaction's statement surface, or nil
// when no transaction is in flight.
func (r *Runner) Querier() Querier {
	if r.tx == nil {
		return nil
	}
	return r.tx
}

// Begin starts a transaction at the driver's default isolation level,
// or adds a nesting level if one is already open.
func (r *Runner) Begin(ctx context.Context) error {
	return r.BeginTx(ctx, IsolationDefault)
}

// BeginTx starts the root transaction at the given isolation level.
// When a transaction is already open the isolation level is ignored
// and a savepoint named for the enclosing level is created instead.
func (r *Runner) BeginTx(ctx context.Context, isolation IsolationLevel) error {
	if r.closed {
		return ErrClosed
	}
	if r.level > 0 {
		return r.beginNested(ctx)
	}

	sqlLevel, err := isolation.sqlLevel()
	if err != nil {
		return err
	}
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	if r.cfg.LockWaitTimeout > 0 {
		stmt := fmt.Sprintf("SET SESSION innodb_lock_wait_timeout = %d", lockWaitSeconds(r.cfg.LockWaitTimeout))
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return fmt.Errorf("set lock wait timeout: %w", err)
		}
		r.timeoutApplied = true
	}
	tx, err := conn.BeginTxx(ctx, &sql.TxOptions{Isolation: sqlLevel})
	if err != nil {
		r.releaseConn(conn)
		return fmt.Errorf("begin transaction: %w", err)
	}

	r.conn = conn
	r.tx = tx
	r.level = 1
	r.rolledBack = false
	r.cfg.Metrics.started()
	r.log.Debug("transaction started",
		zap.String("isolation", string(isolation)),
		zap.Duration("lock_wait_timeout", r.cfg.LockWaitTimeout))
	return nil
}

func (r *Runner) beginNested(ctx context.Context) error {
	name := savepointName(r.level)
	if r.cfg.DisableSavepoints {
		r.level++
		r.log.Debug("nested transaction without savepoint", zap.Int("level", r.level))
		return nil
	}
	if _, err := r.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("create savepoint %s: %w", name, err)
	}
	r.level++
	r.log.Debug("savepoint created", zap.String("savepoint", name), zap.Int("level", r.level))
	return nil
}

// Commit closes the current nesting level. At the root it commits the
// real transaction; inside a nested level it releases the enclosing
// savepoint. Committing with no transaction open, or after a rollback
// has been recorded, is a StateError.
func (r *Runner) Commit(ctx context.Context) error {
	if r.closed {
		return ErrClosed
	}
	if r.level == 0 {
		return stateErr("commit", 0, "no active transaction")
	}
	if r.rolledBack {
		return stateErr("commit", r.level, "transaction already rolled back")
	}
	if r.level > 1 {
		r.level--
		if r.cfg.DisableSavepoints {
			return nil
		}
		name := savepointName(r.level)
		if _, err := r.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
			return fmt.Errorf("release savepoint %s: %w", name, err)
		}
		r.log.Debug("savepoint released", zap.String("savepoint", name), zap.Int("level", r.level))
		return nil
	}

	err := r.tx.Commit()
	r.finishRoot()
	if err != nil {
		r.cfg.Metrics.rolledBack()
		return fmt.Errorf("commit transaction: %w", err)
	}
	r.cfg.Metrics.committed()
	r.log.Debug("transaction committed")
	return nil
}

// Rollback undoes the current nesting level. At the root it rolls the
// real transaction back; inside a nested level it rolls back to the
// enclosing savepoint, leaving outer work intact. With savepoints
// disabled a nested rollback marks the whole transaction rolled back.
func (r *Runner) Rollback(ctx context.Context) error {
	if r.closed {
		return ErrClosed
	}
	if r.level == 0 {
		return stateErr("rollback", 0, "no active transaction")
	}
	if r.level > 1 {
		r.level--
		if r.cfg.DisableSavepoints {
			r.rolledBack = true
			r.log.Warn("nested rollback without savepoints, transaction marked rolled back",
				zap.Int("level", r.level))
			return nil
		}
		name := savepointName(r.level)
		if _, err := r.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); err != nil {
			return fmt.Errorf("rollback to savepoint %s: %w", name, err)
		}
		r.log.Debug("rolled back to savepoint", zap.String("savepoint", name), zap.Int("level", r.level))
		return nil
	}

	err := r.tx.Rollback()
	r.rolledBack = true
	r.finishRoot()
	r.cfg.Metrics.rolledBack()
	if err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	r.log.Debug("transaction rolled back")
	return nil
}

// RollbackTo rolls back to a named savepoint without changing the
// nesting level. The savepoint stays defined and can be rolled back
// to again.
func (r *Runner) RollbackTo(ctx context.Context, name string) error {
	if r.closed {
		return ErrClosed
	}
	if r.level == 0 {
		return stateErr("rollback_to", 0, "no active transaction")
	}
	if r.cfg.DisableSavepoints {
		return stateErr("rollback_to", r.level, "savepoints are disabled")
	}
	if _, err := r.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); err != nil {
		return fmt.Errorf("rollback to savepoint %s: %w", name, err)
	}
	r.log.Debug("rolled back to savepoint", zap.String("savepoint", name), zap.Int("level", r.level))
	return nil
}

// RollbackAll abandons the whole unit of work regardless of nesting
// depth. It is a no-op when nothing is open.
func (r *Runner) RollbackAll(ctx context.Context) error {
	if r.tx == nil {
		r.level = 0
		return nil
	}
	err := r.tx.Rollback()
	r.rolledBack = true
	r.finishRoot()
	r.cfg.Metrics.rolledBack()
	if err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	r.log.Debug("transaction rolled back")
	return nil
}

// Close force-rolls back any transaction still open and returns the
// runner's connection to the pool. Safe to call more than once; meant
// to be deferred as soon as the runner is created.
func (r *Runner) Close() error {
	if r.closed {
		return nil
	}
	var err error
	if r.tx != nil {
		r.log.Error("transaction still open at close, rolling back", zap.Int("level", r.level))
		err = r.RollbackAll(context.Background())
	}
	r.releaseConn(r.conn)
	r.conn = nil
	r.closed = true
	return err
}

// finishRoot resets transaction state after the root commit or
// rollback and returns the connection to the pool.
func (r *Runner) finishRoot() {
	r.tx = nil
	r.level = 0
	r.releaseConn(r.conn)
	r.conn = nil
}

// releaseConn hands the connection back, restoring the server's lock
// wait default first so pooled connections stay uniform.
func (r *Runner) releaseConn(conn *sqlx.Conn) {
	if conn == nil {
		return
	}
	if r.timeoutApplied {
		_, _ = conn.ExecContext(context.Background(), "SET SESSION innodb_lock_wait_timeout = DEFAULT")
		r.timeoutApplied = false
	}
	_ = conn.Close()
}

func savepointName(level int) string {
	return fmt.Sprintf("sp_%d", level)
}

func lockWaitSeconds(d time.Duration) int64 {
	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	if secs < 1 {
		secs = 1
	}
	return secs
}
