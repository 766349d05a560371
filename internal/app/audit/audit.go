// Package audit records who changed what in the catalog. Every
// workflow and CRUD usecase writes one entry in the same transaction
// as its mutation, so the trail and the data cannot disagree.
// Housekeeping writes (checker timestamps) are deliberately not
// audited.
package audit

import (
	"context"
	"time"

	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// Entry is one audit trail record to be written.
type Entry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	OldValues  map[string]any
	NewValues  map[string]any
	CreatedAt  time.Time
}

// Record is a stored audit entry.
type Record struct {
	ID int64
	Entry
}

// Filter narrows audit listings.
type Filter struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Limit      int
	Offset     int
}

// Recorder is the port usecases write audit entries through.
type Recorder interface {
	Record(ctx context.Context, q txn.Querier, entry Entry) error
}

// SystemActor marks entries written by seeding and maintenance paths
// that have no human behind them.
const SystemActor = "system"

// Entity type constants for audit entries.
const (
	EntityProduct     = "product"
	EntityCategory    = "category"
	EntityMarketplace = "marketplace"
	EntityBadge       = "badge"
	EntityLink        = "affiliate_link"
	EntityAdmin       = "admin_user"
)
