package m_audit

import "time"

// Data represents one audit_logs row. OldValues and NewValues hold
// JSON documents; nil maps to NULL (creates have no old values).
type Data struct {
	ID         int64     `db:"id"`
	ActorID    string    `db:"actor_id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	OldValues  []byte    `db:"old_values"`
	NewValues  []byte    `db:"new_values"`
	CreatedAt  time.Time `db:"created_at"`
}
