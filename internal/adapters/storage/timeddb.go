package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"radioclub/internal/adapters/http/perf"
)

// SQLDB is what stores need from a database handle; *sql.DB and *TimedDB both qualify.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQuery is the latency above which a statement is logged at WARN.
const DefaultSlowQuery = 50 * time.Millisecond

// SlowQueryThreshold reads RADIOCLUB_SLOW_QUERY_MS, falling back to DefaultSlowQuery.
func SlowQueryThreshold() time.Duration {
	if n, err := strconv.Atoi(os.Getenv("RADIOCLUB_SLOW_QUERY_MS")); err == nil && n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return DefaultSlowQuery
}

// TimedDB times every statement, logs the slow ones and reports to a perf collector.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold time.Duration
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db.
// PRE: collector may be nil
func NewTimedDB(db *sql.DB, collector *perf.Collector) *TimedDB {
	return &TimedDB{db: db, collector: collector, threshold: SlowQueryThreshold()}
}

// RawDB returns the wrapped handle.
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// QueryLabel reduces a statement to "VERB table" for grouping in the perf view,
// e.g. "INSERT registration" or "SELECT config".
func QueryLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "EMPTY"
	}
	verb := strings.ToUpper(fields[0])
	var marker string
	switch verb {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT":
		marker = "INTO"
	case "UPDATE":
		if len(fields) > 1 {
			return verb + " " + fields[1]
		}
		return verb
	default:
		return verb
	}
	for i, f := range fields {
		if strings.EqualFold(f, marker) && i+1 < len(fields) {
			return verb + " " + strings.Trim(fields[i+1], "(,;")
		}
	}
	return verb
}

// observe logs one statement and records it.
func (t *TimedDB) observe(label string, start time.Time, err error) {
	elapsed := time.Since(start)
	ms := float64(elapsed.Microseconds()) / 1000
	if elapsed >= t.threshold {
		slog.Warn("slow_query", "query", label, "duration_ms", ms, "error", err)
	} else {
		slog.Debug("query", "query", label, "duration_ms", ms)
	}
	if t.collector != nil {
		t.collector.Record(perf.Entry{Kind: perf.KindQuery, Path: label, DurationMs: ms, Timestamp: start})
	}
}

// ExecContext runs a statement.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe(QueryLabel(query), start, err)
	return result, err
}

// QueryContext runs a query returning rows.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(QueryLabel(query), start, err)
	return rows, err
}

// QueryRowContext runs a single-row query; the row's deferred error is what gets logged.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(QueryLabel(query), start, row.Err())
	return row
}

// BeginTx starts a transaction. Statements inside it are not timed.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe("BEGIN", start, err)
	return tx, err
}
