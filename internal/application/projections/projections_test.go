package projections

import (
	"context"
	"errors"
	"testing"

	registrationStore "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/application/listutil"
	"radioclub/internal/domain/audit"
	"radioclub/internal/domain/featureflag"
	"radioclub/internal/domain/registration"
)

type mockRegistrationReader struct {
	rows      []registration.Registration
	lastOrder registrationStore.ListOrder
	countErr  error
}

// List implements RegistrationReader.
func (m *mockRegistrationReader) List(_ context.Context, order registrationStore.ListOrder) ([]registration.Registration, error) {
	m.lastOrder = order
	return m.rows, nil
}

// Count implements RegistrationReader.
func (m *mockRegistrationReader) Count(_ context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.rows), nil
}

// CountByFirstChoice implements RegistrationReader.
func (m *mockRegistrationReader) CountByFirstChoice(_ context.Context) ([]registrationStore.ChoiceCount, error) {
	counts := map[string]int{}
	var order []string
	for _, r := range m.rows {
		if counts[r.FirstChoice] == 0 {
			order = append(order, r.FirstChoice)
		}
		counts[r.FirstChoice]++
	}
	out := make([]registrationStore.ChoiceCount, 0, len(order))
	for _, c := range order {
		out = append(out, registrationStore.ChoiceCount{Choice: c, Count: counts[c]})
	}
	return out, nil
}

type mockFlagReader struct {
	values map[string]bool
	err    error
}

// IsEnabled implements FlagReader.
func (m mockFlagReader) IsEnabled(_ context.Context, key string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	v, ok := m.values[key]
	return v || !ok, nil
}

type mockAuditReader struct {
	events    []audit.Event
	lastLimit int
}

// ListRecent implements AuditReader.
func (m *mockAuditReader) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	m.lastLimit = limit
	return m.events, nil
}

func roster() []registration.Registration {
	return []registration.Registration{
		{Name: "Li Wei", StudentID: "2023001", FirstChoice: "Radio"},
		{Name: "Wang Fang", StudentID: "2023002", FirstChoice: "Antenna"},
		{Name: "Zhang Min", StudentID: "2024003", FirstChoice: "Radio"},
	}
}

// TestQueryGetAdminDashboard tests flags, counts and activity.
func TestQueryGetAdminDashboard(t *testing.T) {
	auditReader := &mockAuditReader{events: []audit.Event{{ID: "e1"}}}
	res, err := QueryGetAdminDashboard(context.Background(), GetAdminDashboardDeps{
		RegistrationStore: &mockRegistrationReader{rows: roster()},
		FlagStore:         mockFlagReader{values: map[string]bool{featureflag.KeyEdit: false}},
		AuditStore:        auditReader,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.RegistrationOpen || res.EditOpen {
		t.Errorf("expected registration open and edit closed, got %+v", res)
	}
	if res.Total != 3 {
		t.Errorf("expected total 3, got %d", res.Total)
	}
	if len(res.ByChoice) != 2 || res.ByChoice[0].Choice != "Radio" || res.ByChoice[0].Count != 2 {
		t.Errorf("unexpected choice counts: %+v", res.ByChoice)
	}
	if len(res.RecentActivity) != 1 || auditReader.lastLimit != RecentAuditLimit {
		t.Errorf("unexpected activity: %+v (limit %d)", res.RecentActivity, auditReader.lastLimit)
	}
}

// TestQueryGetAdminDashboard_FlagErrorFails tests that flag errors are not swallowed.
func TestQueryGetAdminDashboard_FlagErrorFails(t *testing.T) {
	_, err := QueryGetAdminDashboard(context.Background(), GetAdminDashboardDeps{
		RegistrationStore: &mockRegistrationReader{},
		FlagStore:         mockFlagReader{err: errors.New("db locked")},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

// TestQueryGetAdminDashboard_CountErrorTolerated tests that statistics are best-effort.
func TestQueryGetAdminDashboard_CountErrorTolerated(t *testing.T) {
	res, err := QueryGetAdminDashboard(context.Background(), GetAdminDashboardDeps{
		RegistrationStore: &mockRegistrationReader{rows: roster(), countErr: errors.New("boom")},
		FlagStore:         mockFlagReader{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || res.RecentActivity != nil {
		t.Errorf("unexpected result: %+v", res)
	}
}

// TestQueryGetPreview tests ordering pass-through and search filtering.
func TestQueryGetPreview(t *testing.T) {
	reader := &mockRegistrationReader{rows: roster()}
	query := GetPreviewQuery{ListParams: listutil.ListParams{
		SortParams: listutil.SortParams{Sort: registrationStore.SortName, Dir: "desc"},
		Search:     "2023",
	}}

	res, err := QueryGetPreview(context.Background(), query, GetPreviewDeps{RegistrationStore: reader})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.lastOrder.Sort != registrationStore.SortName || reader.lastOrder.Dir != "desc" {
		t.Errorf("order not passed through: %+v", reader.lastOrder)
	}
	if res.Total != 3 || len(res.Rows) != 2 {
		t.Errorf("expected 2 of 3 rows, got %d of %d", len(res.Rows), res.Total)
	}
}

// TestQueryGetPreview_Empty tests that an empty roster yields a non-nil slice.
func TestQueryGetPreview_Empty(t *testing.T) {
	res, err := QueryGetPreview(context.Background(), GetPreviewQuery{}, GetPreviewDeps{RegistrationStore: &mockRegistrationReader{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rows == nil || len(res.Rows) != 0 {
		t.Errorf("expected empty non-nil rows")
	}
}
