package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"radioclub/internal/adapters/storage"
	domain "radioclub/internal/domain/registration"
)

const selectColumns = "id, name, stu_id, major_class, first_choice, second_choice, intro, submitted_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new registration store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByStudentID retrieves a registration by student id.
// PRE: studentID is non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByStudentID(ctx context.Context, studentID string) (domain.Registration, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM registration WHERE stu_id = ?", studentID)
	return scanRegistration(row.Scan)
}

// Upsert inserts value, or updates choices and intro of the existing row for
// the same student id when the stored name matches.
// PRE: value is normalized and validated; value.ID is a fresh id
// POST: Returns the stored row and OutcomeCreated or OutcomeUpdated;
// domain.ErrNameMismatch when the id belongs to a different name (no row changed)
func (s *SQLiteStore) Upsert(ctx context.Context, value domain.Registration) (domain.Registration, domain.Outcome, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO registration (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(stu_id) DO UPDATE SET
			first_choice = excluded.first_choice,
			second_choice = excluded.second_choice,
			intro = excluded.intro
		WHERE registration.name = excluded.name
		RETURNING `+selectColumns,
		value.ID,
		value.Name,
		value.StudentID,
		value.MajorClass,
		value.FirstChoice,
		value.SecondChoice,
		value.Intro,
		value.SubmittedAt.UTC().Format(storage.TimeLayout),
	)
	stored, err := scanRegistration(row.Scan)
	if errors.Is(err, domain.ErrNotFound) {
		// The conflict branch's WHERE rejected the update.
		return domain.Registration{}, "", domain.ErrNameMismatch
	}
	if err != nil {
		return domain.Registration{}, "", fmt.Errorf("upsert registration: %w", err)
	}
	if stored.ID == value.ID {
		return stored, domain.OutcomeCreated, nil
	}
	return stored, domain.OutcomeUpdated, nil
}

// List returns every registration in the requested order.
// POST: Returns all rows; never nil
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) List(ctx context.Context, order ListOrder) ([]domain.Registration, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM registration ORDER BY "+orderClause(order))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Registration{}
	for rows.Next() {
		r, err := scanRegistration(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes the registration for studentID.
// POST: Row removed, or domain.ErrNotFound when none existed
func (s *SQLiteStore) Delete(ctx context.Context, studentID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM registration WHERE stu_id = ?", studentID)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAll removes every registration and returns how many were removed.
func (s *SQLiteStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM registration")
	if err != nil {
		return 0, fmt.Errorf("delete all registrations: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of registrations.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM registration").Scan(&n)
	return n, err
}

// CountByFirstChoice groups registrations by first choice, most popular first.
func (s *SQLiteStore) CountByFirstChoice(ctx context.Context) ([]ChoiceCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT first_choice, COUNT(*) FROM registration
		GROUP BY first_choice
		ORDER BY COUNT(*) DESC, first_choice ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ChoiceCount{}
	for rows.Next() {
		var c ChoiceCount
		if err := rows.Scan(&c.Choice, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// orderClause maps a ListOrder onto whitelisted SQL. Unknown sorts fall back to insertion order.
func orderClause(o ListOrder) string {
	dir := "ASC"
	if o.Dir == "desc" {
		dir = "DESC"
	}
	switch o.Sort {
	case SortName:
		return "name " + dir + ", rowid ASC"
	case SortStudentID:
		return "stu_id " + dir + ", rowid ASC"
	case SortMajorClass:
		return "major_class " + dir + ", rowid ASC"
	case SortChoice:
		return "first_choice " + dir + ", second_choice " + dir + ", rowid ASC"
	case SortSubmittedAt:
		return "submitted_at " + dir + ", rowid " + dir
	default:
		return "rowid ASC"
	}
}

func scanRegistration(scan func(dest ...any) error) (domain.Registration, error) {
	var r domain.Registration
	var submittedAt string
	if err := scan(
		&r.ID,
		&r.Name,
		&r.StudentID,
		&r.MajorClass,
		&r.FirstChoice,
		&r.SecondChoice,
		&r.Intro,
		&submittedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Registration{}, domain.ErrNotFound
		}
		return domain.Registration{}, err
	}
	t, err := time.Parse(storage.TimeLayout, submittedAt)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("parse submitted_at %q: %w", submittedAt, err)
	}
	r.SubmittedAt = t
	return r, nil
}
