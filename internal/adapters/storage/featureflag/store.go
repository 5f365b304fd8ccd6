package featureflag

import (
	"context"

	domain "radioclub/internal/domain/featureflag"
)

// Store persists FeatureFlag state.
type Store interface {
	// IsEnabled reports a flag's state, treating a missing row as enabled.
	IsEnabled(ctx context.Context, key string) (bool, error)
	GetByKey(ctx context.Context, key string) (domain.FeatureFlag, error)
	List(ctx context.Context) ([]domain.FeatureFlag, error)
	Save(ctx context.Context, value domain.FeatureFlag) error
	// Toggle flips a flag in one statement and returns the new state.
	Toggle(ctx context.Context, key string) (domain.FeatureFlag, error)
	// EnsureDefaults inserts any default flag that has no row yet.
	EnsureDefaults(ctx context.Context, defaults []domain.FeatureFlag) error
}

var _ Store = (*SQLiteStore)(nil)
