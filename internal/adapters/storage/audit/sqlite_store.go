package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"radioclub/internal/adapters/storage"
	domain "radioclub/internal/domain/audit"
)

// SQLiteStore implements the audit Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an audit event.
// PRE: event has an ID
// POST: Event is persisted
func (s *SQLiteStore) Save(ctx context.Context, event domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_event (id, timestamp, category, action, severity, actor, resource_type, resource_id, description, ip_address, user_agent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.UTC().Format(storage.TimeLayout), string(event.Category), string(event.Action),
		string(event.Severity), event.Actor, event.ResourceType, event.ResourceID,
		event.Description, event.IPAddress, event.UserAgent)
	if err != nil {
		return fmt.Errorf("save audit_event: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first.
// PRE: limit > 0
// POST: Returns at most limit events ordered by timestamp desc
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, category, action, severity, actor, resource_type, resource_id, description, ip_address, user_agent
		 FROM audit_event ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// scanEvents scans multiple rows into a slice of Events.
func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		var timestamp string
		if err := rows.Scan(&e.ID, &timestamp, &e.Category, &e.Action, &e.Severity, &e.Actor,
			&e.ResourceType, &e.ResourceID, &e.Description, &e.IPAddress, &e.UserAgent); err != nil {
			return nil, err
		}
		e.Timestamp, _ = time.Parse(storage.TimeLayout, timestamp)
		events = append(events, e)
	}
	return events, rows.Err()
}
