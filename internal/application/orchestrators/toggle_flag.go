package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"radioclub/internal/domain/audit"
	"radioclub/internal/domain/featureflag"
)

// ToggleFlagInput names the flag to flip and who flipped it.
type ToggleFlagInput struct {
	Key   string
	Actor Actor
}

// ToggleFlagDeps holds dependencies for ToggleFlag.
type ToggleFlagDeps struct {
	FlagStore  FlagStore
	AuditStore AuditStore // optional
	Now        func() time.Time
}

// ExecuteToggleFlag flips exactly one flag.
// PRE: Key is one of the known flag keys
// POST: The flag's stored value is inverted; a missing row becomes off
func ExecuteToggleFlag(ctx context.Context, input ToggleFlagInput, deps ToggleFlagDeps) (featureflag.FeatureFlag, error) {
	probe := featureflag.FeatureFlag{Key: input.Key}
	if err := probe.Validate(); err != nil {
		return featureflag.FeatureFlag{}, err
	}

	flag, err := deps.FlagStore.Toggle(ctx, input.Key)
	if err != nil {
		return featureflag.FeatureFlag{}, err
	}
	slog.Info("flag_toggled", "key", flag.Key, "enabled", flag.Enabled(), "actor", input.Actor.Name)

	state := "off"
	if flag.Enabled() {
		state = "on"
	}
	recordAudit(ctx, deps.AuditStore, deps.Now, input.Actor,
		audit.CategoryConfig, audit.ActionToggle, audit.SeverityInfo,
		"flag", flag.Key, flag.Key+" turned "+state)
	return flag, nil
}

// recordAudit saves an admin action. Audit failures are logged and never fail the action.
func recordAudit(ctx context.Context, store AuditStore, now func() time.Time, actor Actor,
	category audit.Category, action audit.Action, severity audit.Severity,
	resourceType, resourceID, description string) {
	if store == nil {
		return
	}
	if now == nil {
		now = time.Now
	}
	name := actor.Name
	if name == "" {
		name = "anonymous"
	}
	ev := audit.NewEvent(name, category, action, now()).
		WithSeverity(severity).
		WithResource(resourceType, resourceID).
		WithDescription(description).
		WithRequest(actor.IPAddress, actor.UserAgent)
	if err := store.Save(ctx, ev); err != nil {
		slog.Error("audit_save_failed", "action", string(action), "error", err)
	}
}
