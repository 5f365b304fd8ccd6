package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"radioclub/internal/domain/featureflag"
	"radioclub/internal/domain/registration"
)

// RegistrationNotifier is told about newly created registrations.
type RegistrationNotifier interface {
	NotifyCreated(ctx context.Context, r registration.Registration) error
}

// SubmitRegistrationInput carries the raw form fields.
type SubmitRegistrationInput struct {
	Name         string
	StudentID    string
	MajorClass   string
	FirstChoice  string
	SecondChoice string
	Intro        string
}

// SubmitRegistrationDeps holds dependencies for SubmitRegistration.
type SubmitRegistrationDeps struct {
	RegistrationStore RegistrationStore
	FlagStore         FlagReader
	Notifier          RegistrationNotifier // optional
	GenerateID        func() string        // defaults to uuid
	Now               func() time.Time     // defaults to time.Now
}

// SubmitRegistrationResult describes the stored record and what happened to it.
type SubmitRegistrationResult struct {
	Registration registration.Registration
	Outcome      registration.Outcome
}

// ExecuteSubmitRegistration creates a registration or updates the caller's own.
// PRE: none; input is untrusted form data
// POST: on OutcomeCreated a new row exists with SubmittedAt = now (UTC);
// on OutcomeUpdated only choices and intro changed
// INVARIANT: returns ErrRegistrationClosed or ErrNameMismatch without mutating the store
func ExecuteSubmitRegistration(ctx context.Context, input SubmitRegistrationInput, deps SubmitRegistrationDeps) (SubmitRegistrationResult, error) {
	open, err := deps.FlagStore.IsEnabled(ctx, featureflag.KeyRegistration)
	if err != nil {
		return SubmitRegistrationResult{}, err
	}
	if !open {
		return SubmitRegistrationResult{}, registration.ErrRegistrationClosed
	}

	genID := deps.GenerateID
	if genID == nil {
		genID = func() string { return uuid.New().String() }
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	r := registration.Registration{
		ID:           genID(),
		Name:         input.Name,
		StudentID:    input.StudentID,
		MajorClass:   input.MajorClass,
		FirstChoice:  input.FirstChoice,
		SecondChoice: input.SecondChoice,
		Intro:        input.Intro,
		SubmittedAt:  now().UTC(),
	}
	r.Normalize()
	if err := r.Validate(); err != nil {
		return SubmitRegistrationResult{}, err
	}

	stored, outcome, err := deps.RegistrationStore.Upsert(ctx, r)
	if err != nil {
		return SubmitRegistrationResult{}, err
	}
	slog.Info("registration_submitted", "stu_id", stored.StudentID, "outcome", string(outcome))

	if outcome == registration.OutcomeCreated && deps.Notifier != nil {
		if err := deps.Notifier.NotifyCreated(ctx, stored); err != nil {
			slog.Warn("registration_notify_failed", "stu_id", stored.StudentID, "error", err)
		}
	}

	return SubmitRegistrationResult{Registration: stored, Outcome: outcome}, nil
}
