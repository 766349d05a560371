package m_audit

// Field name constants for the audit_logs table.
const (
	TableName = "audit_logs"

	ID         = "id"
	ActorID    = "actor_id"
	Action     = "action"
	EntityType = "entity_type"
	EntityID   = "entity_id"
	OldValues  = "old_values"
	NewValues  = "new_values"
	CreatedAt  = "created_at"
)
