package registration

import (
	"context"

	domain "radioclub/internal/domain/registration"
)

// Store persists Registration state.
type Store interface {
	GetByStudentID(ctx context.Context, studentID string) (domain.Registration, error)
	// Upsert creates the record or, when the student id exists under the same
	// name, rewrites its choices and intro. It is a single statement, so two
	// concurrent first submissions for one student id cannot both insert.
	Upsert(ctx context.Context, value domain.Registration) (domain.Registration, domain.Outcome, error)
	List(ctx context.Context, order ListOrder) ([]domain.Registration, error)
	Delete(ctx context.Context, studentID string) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
	CountByFirstChoice(ctx context.Context) ([]ChoiceCount, error)
}

// ListOrder selects the ORDER BY for List. Ties always fall back to insertion order.
type ListOrder struct {
	Sort string // one of SortColumns; empty means insertion order
	Dir  string // "asc" or "desc"
}

// OrderByChoice is the export ordering: first choice, then second choice.
var OrderByChoice = ListOrder{Sort: SortChoice, Dir: "asc"}

// Sort keys accepted by List.
const (
	SortName        = "name"
	SortStudentID   = "stu_id"
	SortMajorClass  = "major_class"
	SortChoice      = "choice"
	SortSubmittedAt = "submitted_at"
)

// SortColumns lists every accepted ListOrder.Sort value.
var SortColumns = []string{SortName, SortStudentID, SortMajorClass, SortChoice, SortSubmittedAt}

// ChoiceCount is the number of registrations naming Choice as first choice.
type ChoiceCount struct {
	Choice string
	Count  int
}

var _ Store = (*SQLiteStore)(nil)
