package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// SlowQueryThreshold is the duration past which a query is logged.
var SlowQueryThreshold = 100 * time.Millisecond

// TimedDB wraps a *sql.DB to log slow queries. Satisfies the SQLDB
// interface so it can be passed to any store constructor.
type TimedDB struct {
	db *sql.DB
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a database handle with slow-query logging.
func NewTimedDB(db *sql.DB) *TimedDB {
	return &TimedDB{db: db}
}

func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.db.ExecContext(ctx, query, args...)
	t.observe("exec", query, start)
	return res, err
}

func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe("query", query, start)
	return rows, err
}

func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe("query_row", query, start)
	return row
}

func (t *TimedDB) observe(kind, query string, start time.Time) {
	elapsed := time.Since(start)
	if elapsed >= SlowQueryThreshold {
		slog.Warn("slow_query", "kind", kind, "elapsed_ms", elapsed.Milliseconds(), "query", query)
	}
}
