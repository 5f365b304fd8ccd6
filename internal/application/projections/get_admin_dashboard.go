package projections

import (
	"context"
	"log/slog"

	registrationStore "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/domain/audit"
	"radioclub/internal/domain/featureflag"
)

// RecentAuditLimit is how many audit events the admin page shows.
const RecentAuditLimit = 20

// GetAdminDashboardDeps holds dependencies for the admin dashboard projection.
type GetAdminDashboardDeps struct {
	RegistrationStore RegistrationReader
	FlagStore         FlagReader
	AuditStore        AuditReader // optional: nil hides the activity list
}

// AdminDashboardResult carries everything the admin page renders.
type AdminDashboardResult struct {
	RegistrationOpen bool
	EditOpen         bool

	Total    int
	ByChoice []registrationStore.ChoiceCount

	RecentActivity []audit.Event
}

// QueryGetAdminDashboard reads both flags plus roster statistics.
// PRE: none
// POST: flag errors fail the projection; statistics and activity are best-effort
// INVARIANT: Store state is not mutated
func QueryGetAdminDashboard(ctx context.Context, deps GetAdminDashboardDeps) (AdminDashboardResult, error) {
	var result AdminDashboardResult
	var err error

	if result.RegistrationOpen, err = deps.FlagStore.IsEnabled(ctx, featureflag.KeyRegistration); err != nil {
		return AdminDashboardResult{}, err
	}
	if result.EditOpen, err = deps.FlagStore.IsEnabled(ctx, featureflag.KeyEdit); err != nil {
		return AdminDashboardResult{}, err
	}

	if total, err := deps.RegistrationStore.Count(ctx); err == nil {
		result.Total = total
	} else {
		slog.Warn("dashboard_count_failed", "error", err)
	}
	if byChoice, err := deps.RegistrationStore.CountByFirstChoice(ctx); err == nil {
		result.ByChoice = byChoice
	} else {
		slog.Warn("dashboard_choice_count_failed", "error", err)
	}

	if deps.AuditStore != nil {
		if events, err := deps.AuditStore.ListRecent(ctx, RecentAuditLimit); err == nil {
			result.RecentActivity = events
		} else {
			slog.Warn("dashboard_audit_failed", "error", err)
		}
	}
	return result, nil
}
