package query

import (
	"fmt"
	"slices"
	"strings"
)

// Direction selects the sort order of an OrderBy column.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Builder assembles SELECT statements with ? placeholders. Arguments
// come out of Build in placeholder order, so repositories never line
// them up by hand. Every method returns a derived copy and leaves its
// receiver untouched, which lets one base query fan out into list and
// count variants.
type Builder struct {
	table  string
	cols   []string
	conds  []Condition
	sorts  []string
	limit  int64
	offset int64
}

// From starts a query against the given table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// Select appends columns to retrieve. Without it the query selects *.
func (b *Builder) Select(columns ...string) *Builder {
	next := *b
	// Clip forces append to reallocate, so builders derived from the
	// same base never write through a shared backing array.
	next.cols = append(slices.Clip(b.cols), columns...)
	return &next
}

// Where appends a condition. Conditions are joined with AND.
func (b *Builder) Where(cond Condition) *Builder {
	next := *b
	next.conds = append(slices.Clip(b.conds), cond)
	return &next
}

// OrderBy appends a sort column. Later calls order rows within the
// earlier ones.
func (b *Builder) OrderBy(column string, dir Direction) *Builder {
	next := *b
	next.sorts = append(slices.Clip(b.sorts), column+" "+string(dir))
	return &next
}

// Limit caps the number of returned rows. Zero emits no LIMIT clause.
func (b *Builder) Limit(n int64) *Builder {
	next := *b
	next.limit = n
	return &next
}

// Offset skips rows before the first returned one. Zero emits no
// OFFSET clause.
func (b *Builder) Offset(n int64) *Builder {
	next := *b
	next.offset = n
	return &next
}

// Count derives a COUNT(*) statement with the same FROM and WHERE
// clauses as the receiver. Ordering and pagination are dropped.
func (b *Builder) Count() *Builder {
	next := *b
	next.cols = []string{"COUNT(*)"}
	next.sorts = nil
	next.limit = 0
	next.offset = 0
	return &next
}

// Build renders the statement and collects its arguments.
func (b *Builder) Build() (string, []any) {
	cols := "*"
	if len(b.cols) > 0 {
		cols = strings.Join(b.cols, ", ")
	}

	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	for i, cond := range b.conds {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		fragment, condArgs := cond.SQL()
		sb.WriteString(fragment)
		args = append(args, condArgs...)
	}

	if len(b.sorts) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.sorts, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, b.limit)
	}
	if b.offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, b.offset)
	}

	return sb.String(), args
}

// String renders the statement and arguments for debug logging.
func (b *Builder) String() string {
	sql, args := b.Build()
	return fmt.Sprintf("SQL: %s\nArgs: %v", sql, args)
}
