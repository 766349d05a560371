package m_product_badge

// Model provides a facade for statements on the product_badges table.
// Assignments are immutable rows: added, removed, never updated.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertQuery returns a named INSERT statement bound to a Data struct.
// INSERT IGNORE keeps re-assignment of an existing badge idempotent.
func (m *Model) InsertQuery() string {
	return "INSERT IGNORE INTO " + TableName +
		" (" + ProductID + ", " + BadgeID + ", " + CreatedAt + ")" +
		" VALUES (:" + ProductID + ", :" + BadgeID + ", :" + CreatedAt + ")"
}

// DeleteQuery returns a statement removing one assignment.
func (m *Model) DeleteQuery(productID, badgeID string) (string, []any) {
	return "DELETE FROM " + TableName +
		" WHERE " + ProductID + " = ? AND " + BadgeID + " = ?", []any{productID, badgeID}
}

// DeleteForProductQuery returns a statement removing every assignment
// of a product. Used when a product is hard-deleted.
func (m *Model) DeleteForProductQuery(productID string) (string, []any) {
	return "DELETE FROM " + TableName + " WHERE " + ProductID + " = ?", []any{productID}
}
