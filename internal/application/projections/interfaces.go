package projections

import (
	"context"

	registrationStore "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/domain/audit"
	"radioclub/internal/domain/registration"
)

// RegistrationReader lists registrations for read-only views.
type RegistrationReader interface {
	List(ctx context.Context, order registrationStore.ListOrder) ([]registration.Registration, error)
	Count(ctx context.Context) (int, error)
	CountByFirstChoice(ctx context.Context) ([]registrationStore.ChoiceCount, error)
}

// FlagReader reads feature flags with fail-open semantics.
type FlagReader interface {
	IsEnabled(ctx context.Context, key string) (bool, error)
}

// AuditReader lists recent admin actions.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}
