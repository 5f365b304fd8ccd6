package orchestrators

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	registrationStore "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/domain/audit"
	"radioclub/internal/domain/export"
	"radioclub/internal/domain/featureflag"
	"radioclub/internal/domain/registration"
)

// mockRegistrationStore keeps registrations in insertion order, keyed by student id.
type mockRegistrationStore struct {
	rows    []registration.Registration
	upserts int
	err     error
}

func newMockRegistrationStore(rows ...registration.Registration) *mockRegistrationStore {
	return &mockRegistrationStore{rows: rows}
}

func (m *mockRegistrationStore) indexOf(studentID string) int {
	for i, r := range m.rows {
		if r.StudentID == studentID {
			return i
		}
	}
	return -1
}

// GetByStudentID implements RegistrationStore.
func (m *mockRegistrationStore) GetByStudentID(_ context.Context, studentID string) (registration.Registration, error) {
	if m.err != nil {
		return registration.Registration{}, m.err
	}
	i := m.indexOf(studentID)
	if i < 0 {
		return registration.Registration{}, registration.ErrNotFound
	}
	return m.rows[i], nil
}

// Upsert implements RegistrationStore with the same rules as the SQLite statement.
func (m *mockRegistrationStore) Upsert(_ context.Context, value registration.Registration) (registration.Registration, registration.Outcome, error) {
	if m.err != nil {
		return registration.Registration{}, "", m.err
	}
	m.upserts++
	i := m.indexOf(value.StudentID)
	if i < 0 {
		m.rows = append(m.rows, value)
		return value, registration.OutcomeCreated, nil
	}
	if m.rows[i].Name != value.Name {
		return registration.Registration{}, "", registration.ErrNameMismatch
	}
	m.rows[i].ApplyUpdate(value)
	return m.rows[i], registration.OutcomeUpdated, nil
}

// List implements RegistrationStore; only the choice order is honoured.
func (m *mockRegistrationStore) List(_ context.Context, order registrationStore.ListOrder) ([]registration.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := append([]registration.Registration(nil), m.rows...)
	if order.Sort == registrationStore.SortChoice {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].FirstChoice != out[j].FirstChoice {
				return out[i].FirstChoice < out[j].FirstChoice
			}
			return out[i].SecondChoice < out[j].SecondChoice
		})
	}
	return out, nil
}

// Delete implements RegistrationStore.
func (m *mockRegistrationStore) Delete(_ context.Context, studentID string) error {
	i := m.indexOf(studentID)
	if i < 0 {
		return registration.ErrNotFound
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return nil
}

// DeleteAll implements RegistrationStore.
func (m *mockRegistrationStore) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(m.rows))
	m.rows = nil
	return n, nil
}

// mockFlagStore treats a missing key as enabled.
type mockFlagStore struct {
	values map[string]string
	seeded int
}

func newMockFlagStore(values map[string]string) *mockFlagStore {
	if values == nil {
		values = map[string]string{}
	}
	return &mockFlagStore{values: values}
}

// IsEnabled implements FlagReader.
func (m *mockFlagStore) IsEnabled(_ context.Context, key string) (bool, error) {
	v, ok := m.values[key]
	if !ok {
		return true, nil
	}
	return v == featureflag.ValueOn, nil
}

// Toggle implements FlagStore.
func (m *mockFlagStore) Toggle(_ context.Context, key string) (featureflag.FeatureFlag, error) {
	v, ok := m.values[key]
	if !ok {
		v = featureflag.ValueOn
	}
	f := featureflag.FeatureFlag{Key: key, Value: v}.Toggled()
	m.values[key] = f.Value
	return f, nil
}

// EnsureDefaults implements FlagStore.
func (m *mockFlagStore) EnsureDefaults(_ context.Context, defaults []featureflag.FeatureFlag) error {
	m.seeded++
	for _, f := range defaults {
		if _, ok := m.values[f.Key]; !ok {
			m.values[f.Key] = f.Value
		}
	}
	return nil
}

type mockAuditStore struct {
	events []audit.Event
	err    error
}

// Save implements AuditStore.
func (m *mockAuditStore) Save(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

type mockNotifier struct {
	created []registration.Registration
	err     error
}

// NotifyCreated implements RegistrationNotifier.
func (m *mockNotifier) NotifyCreated(_ context.Context, r registration.Registration) error {
	m.created = append(m.created, r)
	return m.err
}

// mockTableWriter captures the table instead of encoding it.
type mockTableWriter struct {
	table export.Table
	err   error
}

// Write implements TableWriter.
func (m *mockTableWriter) Write(w io.Writer, t export.Table) error {
	if m.err != nil {
		return m.err
	}
	m.table = t
	_, err := io.WriteString(w, "xlsx")
	return err
}

var errStoreDown = errors.New("store down")

var fixedTime = time.Date(2025, 9, 1, 8, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }
