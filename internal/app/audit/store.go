package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/devdaily/catalog-service/internal/models/m_audit"
	"github.com/devdaily/catalog-service/internal/pkg/query"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// Store reads and writes audit entries in MySQL.
type Store struct {
	model *m_audit.Model
}

// NewStore creates a new audit Store.
func NewStore() *Store {
	return &Store{model: m_audit.NewModel()}
}

// Record writes one audit entry through the caller's transaction.
func (s *Store) Record(ctx context.Context, q txn.Querier, entry Entry) error {
	oldValues, err := marshalValues(entry.OldValues)
	if err != nil {
		return fmt.Errorf("failed to encode old values: %w", err)
	}
	newValues, err := marshalValues(entry.NewValues)
	if err != nil {
		return fmt.Errorf("failed to encode new values: %w", err)
	}

	data := &m_audit.Data{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		OldValues:  oldValues,
		NewValues:  newValues,
		CreatedAt:  entry.CreatedAt,
	}
	if _, err := q.NamedExecContext(ctx, s.model.InsertQuery(), data); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List returns audit records matching the filter, newest first.
func (s *Store) List(ctx context.Context, q txn.Querier, filter Filter) ([]Record, error) {
	b := query.From(m_audit.TableName).Select(s.model.Columns()...)

	if filter.ActorID != "" {
		b = b.Where(query.Eq(m_audit.ActorID, filter.ActorID))
	}
	if filter.Action != "" {
		b = b.Where(query.Eq(m_audit.Action, filter.Action))
	}
	if filter.EntityType != "" {
		b = b.Where(query.Eq(m_audit.EntityType, filter.EntityType))
	}
	if filter.EntityID != "" {
		b = b.Where(query.Eq(m_audit.EntityID, filter.EntityID))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sqlStr, args := b.
		OrderBy(m_audit.ID, query.Desc).
		Limit(int64(limit)).
		Offset(int64(filter.Offset)).
		Build()

	var rows []m_audit.Data
	if err := q.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record, err := rowToRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Prune deletes entries older than the cutoff and returns how many
// rows went away.
func (s *Store) Prune(ctx context.Context, q txn.Querier, before time.Time) (int64, error) {
	res, err := q.ExecContext(ctx, s.model.PruneQuery(), before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return affected, nil
}

func marshalValues(values map[string]any) ([]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return json.Marshal(values)
}

func unmarshalValues(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to decode audit values: %w", err)
	}
	return values, nil
}

func rowToRecord(row m_audit.Data) (Record, error) {
	oldValues, err := unmarshalValues(row.OldValues)
	if err != nil {
		return Record{}, err
	}
	newValues, err := unmarshalValues(row.NewValues)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID: row.ID,
		Entry: Entry{
			ActorID:    row.ActorID,
			Action:     row.Action,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			OldValues:  oldValues,
			NewValues:  newValues,
			CreatedAt:  row.CreatedAt,
		},
	}, nil
}

var _ Recorder = (*Store)(nil)

// Summary renders a record's change set for CLI output, e.g.
// "status: draft -> published".
func (r Record) Summary() string {
	if len(r.NewValues) == 0 {
		return r.Action
	}
	fields := make([]string, 0, len(r.NewValues))
	for field := range r.NewValues {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		newVal := r.NewValues[field]
		if oldVal, ok := r.OldValues[field]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v -> %v", field, oldVal, newVal))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %v", field, newVal))
		}
	}
	return strings.Join(parts, ", ")
}
