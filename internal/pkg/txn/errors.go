package txn

import (
	"errors"
	"fmt"
)

var (
	// ErrRetriesExhausted wraps the last transient error once every
	// configured attempt has been spent.
	ErrRetriesExhausted = errors.New("transaction retries exhausted")

	// ErrClosed is returned when the runner is used after Close.
	ErrClosed = errors.New("transaction runner is closed")
)

// StateError reports a lifecycle misuse of the runner: committing or
// rolling back with no transaction in flight, committing after a
// rollback has been recorded, or starting a unit of work while one is
// already open.
type StateError struct {
	Op    string
	Level int
	Cause string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("txn: %s at level %d: %s", e.Op, e.Level, e.Cause)
}

func stateErr(op string, level int, cause string) *StateError {
	return &StateError{Op: op, Level: level, Cause: cause}
}
