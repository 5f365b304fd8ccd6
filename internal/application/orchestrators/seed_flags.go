package orchestrators

import (
	"context"
	"log/slog"

	"radioclub/internal/domain/featureflag"
)

// SeedFlagsDeps holds dependencies for SeedFlags.
type SeedFlagsDeps struct {
	FlagStore FlagStore
}

// ExecuteSeedFlags creates any missing flag with its default value.
// POST: every key in featureflag.DefaultFlags has a row; existing values are untouched
func ExecuteSeedFlags(ctx context.Context, deps SeedFlagsDeps) error {
	if err := deps.FlagStore.EnsureDefaults(ctx, featureflag.DefaultFlags()); err != nil {
		return err
	}
	slog.Debug("flags_seeded")
	return nil
}
