package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"radioclub/internal/domain/audit"
	"radioclub/internal/domain/registration"
)

// DeleteRegistrationInput names the record to remove.
type DeleteRegistrationInput struct {
	StudentID string
	Actor     Actor
}

// DeleteRegistrationDeps holds dependencies for DeleteRegistration and DeleteAllRegistrations.
type DeleteRegistrationDeps struct {
	RegistrationStore RegistrationStore
	AuditStore        AuditStore // optional
	Now               func() time.Time
}

// ExecuteDeleteRegistration removes one registration by student id.
// POST: The record is gone, or ErrNotFound and the store is unchanged
func ExecuteDeleteRegistration(ctx context.Context, input DeleteRegistrationInput, deps DeleteRegistrationDeps) error {
	studentID := registration.NormalizeStudentID(input.StudentID)
	if studentID == "" {
		return registration.ErrNotFound
	}
	if err := deps.RegistrationStore.Delete(ctx, studentID); err != nil {
		return err
	}
	slog.Info("registration_deleted", "stu_id", studentID, "actor", input.Actor.Name)
	recordAudit(ctx, deps.AuditStore, deps.Now, input.Actor,
		audit.CategoryRegistration, audit.ActionDelete, audit.SeverityWarning,
		"registration", studentID, "deleted registration "+studentID)
	return nil
}

// ExecuteDeleteAllRegistrations removes every registration. There is no undo.
// POST: The registration table is empty; returns how many rows were removed
func ExecuteDeleteAllRegistrations(ctx context.Context, actor Actor, deps DeleteRegistrationDeps) (int64, error) {
	n, err := deps.RegistrationStore.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	slog.Warn("registrations_cleared", "count", n, "actor", actor.Name)
	recordAudit(ctx, deps.AuditStore, deps.Now, actor,
		audit.CategoryRegistration, audit.ActionDeleteAll, audit.SeverityCritical,
		"registration", "*", fmt.Sprintf("deleted all registrations (%d)", n))
	return n, nil
}
