package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// TimeLayout is the fixed-width UTC layout used for every stored timestamp,
// so lexical order in SQL matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// migrations are applied in order; the index+1 is the schema version.
// Append only: never edit a migration that has shipped.
var migrations = []string{
	// 1: registrations and config flags
	`
	CREATE TABLE IF NOT EXISTS registration (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		stu_id TEXT NOT NULL,
		major_class TEXT NOT NULL DEFAULT '',
		first_choice TEXT NOT NULL DEFAULT '',
		second_choice TEXT NOT NULL DEFAULT '',
		intro TEXT NOT NULL DEFAULT '',
		submitted_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_registration_stu_id ON registration(stu_id);
	CREATE INDEX IF NOT EXISTS idx_registration_choice ON registration(first_choice, second_choice);

	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`,
	// 2: admin audit trail
	`
	CREATE TABLE IF NOT EXISTS audit_event (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		category TEXT NOT NULL,
		action TEXT NOT NULL,
		severity TEXT NOT NULL DEFAULT 'info',
		actor TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_audit_event_timestamp ON audit_event(timestamp);
	`,
}

// LatestSchemaVersion returns the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion returns the highest applied migration, or 0 for a fresh database.
// PRE: db is a valid database connection
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("failed to create schema_version: %w", err)
	}
	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB applies every pending migration, each in its own transaction.
// PRE: db is a valid database connection
// POST: SchemaVersion(db) == LatestSchemaVersion(); running it again is a no-op
func MigrateDB(db *sql.DB) error {
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this binary (%d)", current, len(migrations))
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", version, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
			version, time.Now().UTC().Format(TimeLayout)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", version, err)
		}
		slog.Info("migration_applied", "version", version)
	}
	return nil
}
