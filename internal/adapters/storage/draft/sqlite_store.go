package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"portal/internal/adapters/storage"
	domain "portal/internal/domain/draft"
	"portal/internal/domain/form"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load retrieves a draft by key.
// POST: expired or corrupted rows are deleted and reported as absent; the
// error return is reserved for real database failures
func (s *SQLiteStore) Load(ctx context.Context, key domain.Key, now time.Time) (domain.Draft, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT data, current_step, expires_at, updated_at
		 FROM draft WHERE visitor_id = ? AND storage_key = ?`,
		key.VisitorID, key.StorageKey())

	var dataJSON, expiresAt, updatedAt string
	var currentStep int
	if err := row.Scan(&dataJSON, &currentStep, &expiresAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Draft{}, false, nil
		}
		return domain.Draft{}, false, err
	}

	d := domain.Draft{Key: key, CurrentStep: currentStep}
	var parseErr error
	if d.ExpiresAt, parseErr = time.Parse(timeLayout, expiresAt); parseErr == nil {
		d.UpdatedAt, parseErr = time.Parse(timeLayout, updatedAt)
	}
	if parseErr == nil {
		parseErr = json.Unmarshal([]byte(dataJSON), &d.Data)
	}
	if parseErr != nil {
		// A corrupted draft is a non-critical cache: discard silently so it
		// never blocks the user.
		slog.Debug("draft_corrupted_discarded", "storage_key", key.StorageKey(), "error", parseErr.Error())
		return domain.Draft{}, false, s.Clear(ctx, key)
	}
	if d.Expired(now) {
		return domain.Draft{}, false, s.Clear(ctx, key)
	}
	if d.Data == nil {
		d.Data = form.ValueRecord{}
	}
	return d, true, nil
}

// Save inserts or overwrites a draft. Safe to call at high frequency; the
// caller debounces.
func (s *SQLiteStore) Save(ctx context.Context, d domain.Draft) error {
	dataJSON, err := json.Marshal(d.Data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO draft (visitor_id, storage_key, feature_type, feature_id, data, current_step, expires_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(visitor_id, storage_key) DO UPDATE SET
		   data=excluded.data, current_step=excluded.current_step,
		   expires_at=excluded.expires_at, updated_at=excluded.updated_at`,
		d.Key.VisitorID, d.Key.StorageKey(), d.Key.Target.Type, d.Key.Target.FeatureID,
		string(dataJSON), d.CurrentStep,
		d.ExpiresAt.UTC().Format(timeLayout), d.UpdatedAt.UTC().Format(timeLayout))
	return err
}

// Clear removes a draft. Idempotent.
func (s *SQLiteStore) Clear(ctx context.Context, key domain.Key) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM draft WHERE visitor_id = ? AND storage_key = ?`,
		key.VisitorID, key.StorageKey())
	return err
}

// PurgeExpired removes every draft past its expiry. Called opportunistically
// at startup; Load already handles per-key expiry.
func (s *SQLiteStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM draft WHERE expires_at <= ?`, now.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// compile-time interface check
var _ Store = (*SQLiteStore)(nil)
