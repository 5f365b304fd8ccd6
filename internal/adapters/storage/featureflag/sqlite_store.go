package featureflag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"radioclub/internal/adapters/storage"
	domain "radioclub/internal/domain/featureflag"
)

// ErrNotFound is returned by GetByKey when no row exists for the key.
var ErrNotFound = errors.New("feature flag not found")

// SQLiteStore implements Store using the config key/value table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new FeatureFlag store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// IsEnabled reports whether a flag is on. A missing row counts as on.
// PRE: key is non-empty
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) IsEnabled(ctx context.Context, key string) (bool, error) {
	ff, err := s.GetByKey(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return ff.Enabled(), nil
}

// GetByKey retrieves a single flag by its key.
// PRE: key is non-empty
// POST: Returns the persisted flag or ErrNotFound
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) GetByKey(ctx context.Context, key string) (domain.FeatureFlag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT key, value FROM config WHERE key = ?`, key)
	return scanFlag(row.Scan)
}

// List returns all persisted flags sorted by key.
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) List(ctx context.Context) ([]domain.FeatureFlag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM config ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.FeatureFlag{}
	for rows.Next() {
		ff, err := scanFlag(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ff)
	}
	return out, rows.Err()
}

// Save upserts a flag.
// PRE: value has a known Key
// POST: Flag is persisted (insert or update)
// INVARIANT: No other flags are modified
func (s *SQLiteStore) Save(ctx context.Context, value domain.FeatureFlag) error {
	if err := value.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, value.Key, value.Value)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Toggle flips the stored value. A missing row is treated as on and becomes off.
// PRE: key is a known flag
// POST: Exactly one row changed; returns the new state
func (s *SQLiteStore) Toggle(ctx context.Context, key string) (domain.FeatureFlag, error) {
	ff := domain.FeatureFlag{Key: key}
	if err := ff.Validate(); err != nil {
		return domain.FeatureFlag{}, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = CASE WHEN config.value = ? THEN ? ELSE ? END
		RETURNING key, value
	`, key, domain.ValueOff, domain.ValueOn, domain.ValueOff, domain.ValueOn)
	ff, err := scanFlag(row.Scan)
	if err != nil {
		return domain.FeatureFlag{}, fmt.Errorf("toggle config %q: %w", key, err)
	}
	return ff, nil
}

// EnsureDefaults inserts each default whose key has no row. Existing rows keep their value.
// POST: every default key has a row
func (s *SQLiteStore) EnsureDefaults(ctx context.Context, defaults []domain.FeatureFlag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, ff := range defaults {
		if err := ff.Validate(); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO config (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
			ff.Key, ff.Value); err != nil {
			return fmt.Errorf("seed config %q: %w", ff.Key, err)
		}
	}
	return tx.Commit()
}

func scanFlag(scan func(dest ...any) error) (domain.FeatureFlag, error) {
	var ff domain.FeatureFlag
	if err := scan(&ff.Key, &ff.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.FeatureFlag{}, ErrNotFound
		}
		return domain.FeatureFlag{}, err
	}
	return ff, nil
}
