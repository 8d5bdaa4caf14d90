package storage

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order; PRAGMA user_version tracks the last one
// applied so restarts are idempotent.
var migrations = []string{
	// v1: draft persistence for the registration wizard
	`CREATE TABLE IF NOT EXISTS draft (
		visitor_id TEXT NOT NULL,
		storage_key TEXT NOT NULL,
		feature_type TEXT NOT NULL,
		feature_id INTEGER NOT NULL DEFAULT 0,
		data TEXT NOT NULL,
		current_step INTEGER NOT NULL DEFAULT 0,
		expires_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (visitor_id, storage_key)
	);
	CREATE INDEX IF NOT EXISTS idx_draft_expires_at ON draft(expires_at);`,
}

// LatestSchemaVersion returns the schema version this build expects.
func LatestSchemaVersion() int { return len(migrations) }

// InitDB prepares a connection for use.
// PRE: db is a valid database connection
// POST: WAL mode and foreign keys are enabled
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return nil
}

// MigrateDB applies pending migrations.
// PRE: db is open
// POST: user_version == LatestSchemaVersion()
func MigrateDB(db *sql.DB) error {
	if err := InitDB(db); err != nil {
		return err
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	for i := version; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("failed to bump schema version to %d: %w", i+1, err)
		}
	}
	return nil
}
