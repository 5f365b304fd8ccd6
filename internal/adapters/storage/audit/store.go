package audit

import (
	"context"

	domain "radioclub/internal/domain/audit"
)

// Store defines the interface for audit event persistence.
type Store interface {
	// Save persists an audit event.
	// PRE: event has an ID
	// POST: Event is persisted
	Save(ctx context.Context, event domain.Event) error

	// ListRecent returns the newest events first.
	// PRE: limit > 0
	// POST: Returns at most limit events ordered by timestamp desc
	ListRecent(ctx context.Context, limit int) ([]domain.Event, error)
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)
