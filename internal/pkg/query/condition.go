package query

import (
	"fmt"
	"strings"
)

// Condition represents a WHERE clause condition. Implementations
// return a SQL fragment with ? placeholders and the arguments that
// fill them, in order.
type Condition interface {
	SQL() (string, []any)
}

type simpleCondition struct {
	fragment string
	args     []any
}

func (c *simpleCondition) SQL() (string, []any) {
	return c.fragment, c.args
}

// Eq creates an equality condition: "field = ?".
func Eq(field string, value any) Condition {
	return &simpleCondition{fragment: field + " = ?", args: []any{value}}
}

// Ne creates an inequality condition: "field <> ?".
func Ne(field string, value any) Condition {
	return &simpleCondition{fragment: field + " <> ?", args: []any{value}}
}

// Lt creates a less-than condition: "field < ?".
func Lt(field string, value any) Condition {
	return &simpleCondition{fragment: field + " < ?", args: []any{value}}
}

// Gte creates a greater-or-equal condition: "field >= ?".
func Gte(field string, value any) Condition {
	return &simpleCondition{fragment: field + " >= ?", args: []any{value}}
}

// Like creates a pattern match condition: "field LIKE ?". The caller
// supplies the wildcards.
func Like(field, pattern string) Condition {
	return &simpleCondition{fragment: field + " LIKE ?", args: []any{pattern}}
}

// IsNull creates a NULL check: "field IS NULL".
func IsNull(field string) Condition {
	return &simpleCondition{fragment: field + " IS NULL"}
}

// IsNotNull creates a NOT NULL check: "field IS NOT NULL".
func IsNotNull(field string) Condition {
	return &simpleCondition{fragment: field + " IS NOT NULL"}
}

// In creates a membership condition: "field IN (?, ?, ...)". An empty
// value list produces a fragment that matches nothing, so a query with
// no candidates stays a valid query.
func In[T any](field string, values []T) Condition {
	if len(values) == 0 {
		return &simpleCondition{fragment: "1 = 0"}
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return &simpleCondition{
		fragment: fmt.Sprintf("%s IN (%s)", field, placeholders),
		args:     args,
	}
}

// Raw wraps a hand-written fragment, for subqueries and expressions
// the typed constructors don't cover. The fragment must use ?
// placeholders matching args.
func Raw(fragment string, args ...any) Condition {
	return &simpleCondition{fragment: fragment, args: args}
}

// Or combines conditions with OR, wrapped in parentheses so it nests
// safely among the builder's AND logic.
func Or(conditions ...Condition) Condition {
	parts := make([]string, 0, len(conditions))
	var args []any
	for _, cond := range conditions {
		fragment, condArgs := cond.SQL()
		parts = append(parts, fragment)
		args = append(args, condArgs...)
	}
	return &simpleCondition{
		fragment: "(" + strings.Join(parts, " OR ") + ")",
		args:     args,
	}
}
