package orchestrators

import (
	"context"
	"errors"

	"radioclub/internal/domain/featureflag"
	"radioclub/internal/domain/registration"
)

// LookupForEditInput carries the identity pair typed on the edit page.
type LookupForEditInput struct {
	Name      string
	StudentID string
}

// LookupForEditDeps holds dependencies for LookupForEdit.
type LookupForEditDeps struct {
	RegistrationStore RegistrationStore
	FlagStore         FlagReader
}

// CheckEditGates reports which gate, if any, blocks the edit flow.
// POST: ErrRegistrationClosed takes precedence over ErrEditClosed
func CheckEditGates(ctx context.Context, flags FlagReader) error {
	open, err := flags.IsEnabled(ctx, featureflag.KeyRegistration)
	if err != nil {
		return err
	}
	if !open {
		return registration.ErrRegistrationClosed
	}
	editable, err := flags.IsEnabled(ctx, featureflag.KeyEdit)
	if err != nil {
		return err
	}
	if !editable {
		return registration.ErrEditClosed
	}
	return nil
}

// ExecuteLookupForEdit finds the record a caller wants to edit.
// PRE: none
// POST: Returns the stored record when name and student id belong together;
// ErrNotFound when the id is unknown, ErrNameMismatch when the name differs
// INVARIANT: Store state is not mutated
func ExecuteLookupForEdit(ctx context.Context, input LookupForEditInput, deps LookupForEditDeps) (registration.Registration, error) {
	if err := CheckEditGates(ctx, deps.FlagStore); err != nil {
		return registration.Registration{}, err
	}

	studentID := registration.NormalizeStudentID(input.StudentID)
	if studentID == "" {
		return registration.Registration{}, registration.ErrNotFound
	}
	rec, err := deps.RegistrationStore.GetByStudentID(ctx, studentID)
	if errors.Is(err, registration.ErrNotFound) {
		return registration.Registration{}, registration.ErrNotFound
	}
	if err != nil {
		return registration.Registration{}, err
	}
	if !rec.BelongsTo(input.Name) {
		return registration.Registration{}, registration.ErrNameMismatch
	}
	return rec, nil
}
