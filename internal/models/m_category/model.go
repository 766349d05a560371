package m_category

import (
	"sort"
	"strings"
)

// Model provides a facade for type-safe statements on the categories table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns returns the column list for reading categories.
func (m *Model) Columns() []string {
	return []string{
		ID,
		Name,
		Slug,
		Description,
		Position,
		CreatedAt,
		UpdatedAt,
		DeletedAt,
	}
}

// InsertQuery returns a named INSERT statement bound to a Data struct.
func (m *Model) InsertQuery() string {
	cols := m.Columns()
	return "INSERT INTO " + TableName +
		" (" + strings.Join(cols, ", ") + ")" +
		" VALUES (:" + strings.Join(cols, ", :") + ")"
}

// UpdateQuery builds an UPDATE statement for the given columns, sorted
// for deterministic SQL. The caller controls whether updated_at is in
// the set.
func (m *Model) UpdateQuery(id string, updates map[string]any) (string, []any) {
	if len(updates) == 0 {
		return "", nil
	}

	cols := make([]string, 0, len(updates))
	for col := range updates {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var sql strings.Builder
	sql.WriteString("UPDATE ")
	sql.WriteString(TableName)
	sql.WriteString(" SET ")

	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		if i > 0 {
			sql.WriteString(", ")
		}
		sql.WriteString(col)
		sql.WriteString(" = ?")
		args = append(args, updates[col])
	}

	sql.WriteString(" WHERE ")
	sql.WriteString(ID)
	sql.WriteString(" = ?")
	args = append(args, id)

	return sql.String(), args
}
