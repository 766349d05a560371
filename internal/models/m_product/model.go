package m_product

import (
	"sort"
	"strings"
)

// Model provides a facade for type-safe statements on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns returns the column list for reading products.
func (m *Model) Columns() []string {
	return []string{
		ID,
		Name,
		Slug,
		Description,
		CategoryID,
		PriceAmount,
		PriceCurrency,
		Status,
		VerifiedAt,
		VerifiedBy,
		PublishedAt,
		LastPriceCheck,
		LastLinkCheck,
		CreatedAt,
		UpdatedAt,
		ArchivedAt,
	}
}

// InsertQuery returns a named INSERT statement bound to a Data struct.
func (m *Model) InsertQuery() string {
	cols := m.Columns()
	return "INSERT INTO " + TableName +
		" (" + strings.Join(cols, ", ") + ")" +
		" VALUES (:" + strings.Join(cols, ", :") + ")"
}

// UpdateQuery builds an UPDATE statement for the given columns. Columns
// are sorted so the generated SQL is deterministic. The updated_at
// column is set only when the caller puts it in the map; housekeeping
// writes leave it out.
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

// DeleteQuery returns a hard-delete statement for a product.
func (m *Model) DeleteQuery(id string) (string, []any) {
	return "DELETE FROM " + TableName + " WHERE " + ID + " = ?", []any{id}
}
