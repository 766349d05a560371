package txn

import (
	"database/sql"
	"fmt"
	"time"
)

// IsolationLevel names a SQL transaction isolation level using the
// spelling MySQL reports in SHOW VARIABLES. The zero value keeps the
// driver default.
type IsolationLevel string

const (
	IsolationDefault         IsolationLevel = ""
	IsolationReadUncommitted IsolationLevel = "READ UNCOMMITTED"
	IsolationReadCommitted   IsolationLevel = "READ COMMITTED"
	IsolationRepeatableRead  IsolationLevel = "REPEATABLE READ"
	IsolationSerializable    IsolationLevel = "SERIALIZABLE"
)

func (l IsolationLevel) sqlLevel() (sql.IsolationLevel, error) {
	switch l {
	case IsolationDefault:
		return sql.LevelDefault, nil
	case IsolationReadUncommitted:
		return sql.LevelReadUncommitted, nil
	case IsolationReadCommitted:
		return sql.LevelReadCommitted, nil
	case IsolationRepeatableRead:
		return sql.LevelRepeatableRead, nil
	case IsolationSerializable:
		return sql.LevelSerializable, nil
	default:
		return sql.LevelDefault, fmt.Errorf("unknown isolation level %q", string(l))
	}
}

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 100 * time.Millisecond
	defaultChunkSize  = 100
)

// ExecOptions tunes a single Execute call. The zero value retries
// transient failures up to three times with a doubling delay starting
// at 100ms.
type ExecOptions struct {
	// Isolation applies to the root transaction of this unit of work.
	Isolation IsolationLevel

	// MaxRetries is the number of additional attempts after the first
	// one. Zero means the default of 3; disable retrying with
	// NoDeadlockRetry instead.
	MaxRetries int

	// RetryDelay is the sleep before the first retry; it doubles after
	// every failed attempt. Zero means the default of 100ms.
	RetryDelay time.Duration

	// NoDeadlockRetry disables retrying entirely: the first error is
	// returned no matter how it classifies.
	NoDeadlockRetry bool

	// SuppressErrors makes Execute swallow the final error: the failure
	// is logged, counted, and the zero value is returned with a nil
	// error. Misuse of the runner (StateError) is never suppressed.
	SuppressErrors bool
}

func (o ExecOptions) withDefaults() ExecOptions {
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = defaultRetryDelay
	}
	return o
}

// attempts is the total number of tries Execute may make.
func (o ExecOptions) attempts() int {
	if o.NoDeadlockRetry {
		return 1
	}
	return o.MaxRetries + 1
}

// BatchOptions tunes ExecuteBatch. Each chunk runs as its own
// transaction governed by the embedded ExecOptions.
type BatchOptions struct {
	ExecOptions

	// ChunkSize is the number of items committed together. Zero means
	// the default of 100.
	ChunkSize int

	// StopOnError aborts the whole batch on the first failing item,
	// rolling back the chunk it occurred in.
	StopOnError bool
}

func (o BatchOptions) withDefaults() BatchOptions {
	o.ExecOptions = o.ExecOptions.withDefaults()
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	return o
}
