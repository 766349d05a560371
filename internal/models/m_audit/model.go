package m_audit

import "strings"

// Model provides a facade for statements on the audit_logs table. The
// table is append-only: rows are inserted, listed, and pruned, never
// updated.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns returns the column list for reading audit entries.
func (m *Model) Columns() []string {
	return []string{
		ID,
		ActorID,
		Action,
		EntityType,
		EntityID,
		OldValues,
		NewValues,
		CreatedAt,
	}
}

// InsertQuery returns a named INSERT statement bound to a Data struct.
// The id column is omitted; MySQL assigns it.
func (m *Model) InsertQuery() string {
	cols := m.Columns()[1:]
	return "INSERT INTO " + TableName +
		" (" + strings.Join(cols, ", ") + ")" +
		" VALUES (:" + strings.Join(cols, ", :") + ")"
}

// PruneQuery returns a statement deleting entries older than the cutoff.
func (m *Model) PruneQuery() string {
	return "DELETE FROM " + TableName + " WHERE " + CreatedAt + " < ?"
}
