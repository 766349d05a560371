package txn

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Transient MySQL server error numbers: ER_LOCK_WAIT_TIMEOUT,
// ER_LOCK_DEADLOCK, ER_LOCK_NOWAIT.
var defaultTransientCodes = []uint16{1205, 1213, 3572}

// Message fragments that mark an error as retryable when no structured
// code is available (lowercased before matching).
var transientPatterns = []string{
	"deadlock",
	"lock wait timeout",
	"try restarting transaction",
	"serialization failure",
}

// Classifier decides whether a failure is worth retrying. Anything it
// does not recognise is permanent, so domain errors surface on the
// first attempt.
type Classifier struct {
	codes map[uint16]struct{}
}

// NewClassifier builds a classifier for the given MySQL error numbers.
// With no arguments the default transient set is used.
func NewClassifier(codes ...uint16) *Classifier {
	if len(codes) == 0 {
		codes = defaultTransientCodes
	}
	set := make(map[uint16]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return &Classifier{codes: set}
}

// Transient reports whether err looks like lock contention that a
// fresh attempt could clear. Context cancellation is never transient.
func (c *Classifier) Transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if _, ok := c.codes[myErr.Number]; ok {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// IsTransient classifies err with the default transient code set.
func IsTransient(err error) bool {
	return NewClassifier().Transient(err)
}
