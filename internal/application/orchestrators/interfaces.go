package orchestrators

import (
	"context"

	registrationStore "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/domain/audit"
	"radioclub/internal/domain/featureflag"
	"radioclub/internal/domain/registration"
)

// RegistrationStore defines the registration persistence used by orchestrators.
type RegistrationStore interface {
	GetByStudentID(ctx context.Context, studentID string) (registration.Registration, error)
	Upsert(ctx context.Context, value registration.Registration) (registration.Registration, registration.Outcome, error)
	List(ctx context.Context, order registrationStore.ListOrder) ([]registration.Registration, error)
	Delete(ctx context.Context, studentID string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// FlagReader reads feature flags with fail-open semantics.
type FlagReader interface {
	IsEnabled(ctx context.Context, key string) (bool, error)
}

// FlagStore reads, toggles and seeds feature flags.
type FlagStore interface {
	FlagReader
	Toggle(ctx context.Context, key string) (featureflag.FeatureFlag, error)
	EnsureDefaults(ctx context.Context, defaults []featureflag.FeatureFlag) error
}

// AuditStore persists admin actions.
type AuditStore interface {
	Save(ctx context.Context, event audit.Event) error
}

// Actor identifies who performed an admin action, for the audit trail.
type Actor struct {
	Name      string
	IPAddress string
	UserAgent string
}
