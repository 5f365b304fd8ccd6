package web

import (
	"context"
	"sort"

	auditStore "radioclub/internal/adapters/storage/audit"
	featureFlagStore "radioclub/internal/adapters/storage/featureflag"
	registrationStore "radioclub/internal/adapters/storage/registration"
	auditDomain "radioclub/internal/domain/audit"
	featureflagDomain "radioclub/internal/domain/featureflag"
	"radioclub/internal/domain/registration"
)

// mockRegistrationStore keeps registrations in insertion order.
type mockRegistrationStore struct {
	rows []registration.Registration
}

var _ registrationStore.Store = (*mockRegistrationStore)(nil)

func (m *mockRegistrationStore) indexOf(studentID string) int {
	for i, r := range m.rows {
		if r.StudentID == studentID {
			return i
		}
	}
	return -1
}

// GetByStudentID implements registrationStore.Store for testing.
func (m *mockRegistrationStore) GetByStudentID(_ context.Context, studentID string) (registration.Registration, error) {
	if i := m.indexOf(studentID); i >= 0 {
		return m.rows[i], nil
	}
	return registration.Registration{}, registration.ErrNotFound
}

// Upsert implements registrationStore.Store for testing.
func (m *mockRegistrationStore) Upsert(_ context.Context, v registration.Registration) (registration.Registration, registration.Outcome, error) {
	i := m.indexOf(v.StudentID)
	if i < 0 {
		m.rows = append(m.rows, v)
		return v, registration.OutcomeCreated, nil
	}
	if m.rows[i].Name != v.Name {
		return registration.Registration{}, "", registration.ErrNameMismatch
	}
	m.rows[i].ApplyUpdate(v)
	return m.rows[i], registration.OutcomeUpdated, nil
}

// List implements registrationStore.Store for testing; name and choice orders are honoured.
func (m *mockRegistrationStore) List(_ context.Context, order registrationStore.ListOrder) ([]registration.Registration, error) {
	out := append([]registration.Registration{}, m.rows...)
	switch order.Sort {
	case registrationStore.SortName:
		sort.SliceStable(out, func(i, j int) bool {
			if order.Dir == "desc" {
				return out[i].Name > out[j].Name
			}
			return out[i].Name < out[j].Name
		})
	case registrationStore.SortChoice:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].FirstChoice != out[j].FirstChoice {
				return out[i].FirstChoice < out[j].FirstChoice
			}
			return out[i].SecondChoice < out[j].SecondChoice
		})
	}
	return out, nil
}

// Delete implements registrationStore.Store for testing.
func (m *mockRegistrationStore) Delete(_ context.Context, studentID string) error {
	i := m.indexOf(studentID)
	if i < 0 {
		return registration.ErrNotFound
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return nil
}

// DeleteAll implements registrationStore.Store for testing.
func (m *mockRegistrationStore) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(m.rows))
	m.rows = nil
	return n, nil
}

// Count implements registrationStore.Store for testing.
func (m *mockRegistrationStore) Count(_ context.Context) (int, error) {
	return len(m.rows), nil
}

// CountByFirstChoice implements registrationStore.Store for testing.
func (m *mockRegistrationStore) CountByFirstChoice(_ context.Context) ([]registrationStore.ChoiceCount, error) {
	counts := map[string]int{}
	for _, r := range m.rows {
		counts[r.FirstChoice]++
	}
	var out []registrationStore.ChoiceCount
	for c, n := range counts {
		out = append(out, registrationStore.ChoiceCount{Choice: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Choice < out[j].Choice })
	return out, nil
}

// mockFlagStore treats a missing key as enabled.
type mockFlagStore struct {
	values map[string]string
}

var _ featureFlagStore.Store = (*mockFlagStore)(nil)

// IsEnabled implements featureFlagStore.Store for testing.
func (m *mockFlagStore) IsEnabled(_ context.Context, key string) (bool, error) {
	v, ok := m.values[key]
	return !ok || v == featureflagDomain.ValueOn, nil
}

// GetByKey implements featureFlagStore.Store for testing.
func (m *mockFlagStore) GetByKey(_ context.Context, key string) (featureflagDomain.FeatureFlag, error) {
	v, ok := m.values[key]
	if !ok {
		return featureflagDomain.FeatureFlag{}, featureFlagStore.ErrNotFound
	}
	return featureflagDomain.FeatureFlag{Key: key, Value: v}, nil
}

// List implements featureFlagStore.Store for testing.
func (m *mockFlagStore) List(_ context.Context) ([]featureflagDomain.FeatureFlag, error) {
	var out []featureflagDomain.FeatureFlag
	for k, v := range m.values {
		out = append(out, featureflagDomain.FeatureFlag{Key: k, Value: v})
	}
	return out, nil
}

// Save implements featureFlagStore.Store for testing.
func (m *mockFlagStore) Save(_ context.Context, f featureflagDomain.FeatureFlag) error {
	m.values[f.Key] = f.Value
	return nil
}

// Toggle implements featureFlagStore.Store for testing.
func (m *mockFlagStore) Toggle(_ context.Context, key string) (featureflagDomain.FeatureFlag, error) {
	v, ok := m.values[key]
	if !ok {
		v = featureflagDomain.ValueOn
	}
	f := featureflagDomain.FeatureFlag{Key: key, Value: v}.Toggled()
	m.values[key] = f.Value
	return f, nil
}

// EnsureDefaults implements featureFlagStore.Store for testing.
func (m *mockFlagStore) EnsureDefaults(_ context.Context, defaults []featureflagDomain.FeatureFlag) error {
	for _, f := range defaults {
		if _, ok := m.values[f.Key]; !ok {
			m.values[f.Key] = f.Value
		}
	}
	return nil
}

type mockAuditStore struct {
	events []auditDomain.Event
}

var _ auditStore.Store = (*mockAuditStore)(nil)

// Save implements auditStore.Store for testing.
func (m *mockAuditStore) Save(_ context.Context, e auditDomain.Event) error {
	m.events = append(m.events, e)
	return nil
}

// ListRecent implements auditStore.Store for testing.
func (m *mockAuditStore) ListRecent(_ context.Context, limit int) ([]auditDomain.Event, error) {
	out := make([]auditDomain.Event, 0, len(m.events))
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

// testEnv holds the mocks installed by setupTestStores.
type testEnv struct {
	regs  *mockRegistrationStore
	flags *mockFlagStore
	audit *mockAuditStore
}
