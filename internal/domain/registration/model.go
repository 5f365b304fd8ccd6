package registration

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Length limits in characters. Only the name and intro are bounded; the
// student id is a key and is never shortened.
const (
	MaxNameLength  = 20
	MaxIntroLength = 200
)

// Outcome describes what a submission did to the store.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Domain errors
var (
	ErrNotFound           = errors.New("registration not found")
	ErrNameMismatch       = errors.New("student id is registered under a different name")
	ErrMissingName        = errors.New("name is required")
	ErrMissingStudentID   = errors.New("student id is required")
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrEditClosed         = errors.New("editing is closed")
)

// Registration is one applicant's submission, identified by StudentID.
//
// ID is a surrogate row key. StudentID is the business identity and is unique
// in storage. Name, StudentID, MajorClass and SubmittedAt never change after
// creation; only the choices and intro are rewritten by a resubmission.
type Registration struct {
	ID           string
	Name         string
	StudentID    string
	MajorClass   string
	FirstChoice  string
	SecondChoice string
	Intro        string
	SubmittedAt  time.Time
}

// Normalize trims the identity fields and bounds the name and intro.
// POST: StudentID equals NormalizeStudentID of the input; MajorClass and choices are unchanged
func (r *Registration) Normalize() {
	r.Name = Truncate(strings.TrimSpace(r.Name), MaxNameLength)
	r.StudentID = NormalizeStudentID(r.StudentID)
	r.Intro = Truncate(r.Intro, MaxIntroLength)
}

// NormalizeStudentID is the key form of a student id. Every lookup by id uses it.
func NormalizeStudentID(id string) string {
	return strings.TrimSpace(id)
}

// Validate checks the identity fields are present.
// PRE: Normalize has been called
// POST: Returns error if validation fails, nil otherwise
func (r *Registration) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if r.StudentID == "" {
		return ErrMissingStudentID
	}
	return nil
}

// BelongsTo reports whether the record was created under the given name.
// INVARIANT: r is not mutated
func (r Registration) BelongsTo(name string) bool {
	return r.Name == Truncate(strings.TrimSpace(name), MaxNameLength)
}

// ApplyUpdate copies the mutable fields from a resubmission.
// POST: only FirstChoice, SecondChoice and Intro are changed
func (r *Registration) ApplyUpdate(from Registration) {
	r.FirstChoice = from.FirstChoice
	r.SecondChoice = from.SecondChoice
	r.Intro = Truncate(from.Intro, MaxIntroLength)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
