package m_price_history

import "strings"

// Model provides type-safe database statements for price history.
type Model struct{}

// NewModel creates a new price history model.
func NewModel() *Model {
	return &Model{}
}

// Columns returns the column names for reading price history.
func (m *Model) Columns() []string {
	return []string{
		ID,
		LinkID,
		ProductID,
		MarketplaceID,
		PriceAmount,
		PriceCurrency,
		RecordedAt,
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

// PruneQuery returns a statement deleting points older than the cutoff.
func (m *Model) PruneQuery() string {
	return "DELETE FROM " + TableName + " WHERE " + RecordedAt + " < ?"
}
