package draft

import (
	"context"
	"database/sql"
	"reflect"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"portal/internal/adapters/storage"
	domain "portal/internal/domain/draft"
	"portal/internal/domain/form"
	"portal/internal/domain/registration"
)

var testNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return NewSQLiteStore(db)
}

func activityKey(t *testing.T, visitor string, featureID int64) domain.Key {
	t.Helper()
	k, err := domain.NewKey(visitor, registration.Target{Type: registration.FeatureActivity, FeatureID: featureID})
	if err != nil {
		t.Fatalf("failed to build key: %v", err)
	}
	return k
}

// Idempotent reload: a saved draft loads back equal before expiry.
func TestSaveThenLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := activityKey(t, "visitor-1", 42)

	data := form.ValueRecord{"reason": "ingin berkontribusi", "division": "acara", "agree": true}
	if err := store.Save(ctx, domain.New(key, data, 1, testNow)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, ok, err := store.Load(ctx, key, testNow.Add(time.Hour))
	if err != nil || !ok {
		t.Fatalf("load failed: ok=%v err=%v", ok, err)
	}
	if got.CurrentStep != 1 {
		t.Errorf("expected step 1, got %d", got.CurrentStep)
	}
	if !reflect.DeepEqual(got.Data, data) {
		t.Errorf("expected %v, got %v", data, got.Data)
	}
}

// Expiry: a draft at or past expires_at loads absent and is deleted.
func TestLoad_ExpiredDeletes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := activityKey(t, "visitor-1", 42)

	if err := store.Save(ctx, domain.New(key, form.ValueRecord{"a": "1"}, 0, testNow)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	_, ok, err := store.Load(ctx, key, testNow.Add(domain.TTL))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if ok {
		t.Fatal("expired draft should be absent")
	}

	// The row must be gone even for a load before expiry.
	_, ok, err = store.Load(ctx, key, testNow)
	if err != nil || ok {
		t.Errorf("expired draft should have been deleted: ok=%v err=%v", ok, err)
	}
}

// Key isolation: drafts under different (featureType, featureId) or visitors
// never leak into each other.
func TestLoad_KeyIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	keyA := activityKey(t, "visitor-1", 1)
	keyB := activityKey(t, "visitor-1", 2)
	keyC := activityKey(t, "visitor-2", 1)
	clubKey, _ := domain.NewKey("visitor-1", registration.Target{Type: registration.FeatureClub, FeatureID: 1})

	store.Save(ctx, domain.New(keyA, form.ValueRecord{"who": "a"}, 0, testNow))
	store.Save(ctx, domain.New(keyB, form.ValueRecord{"who": "b"}, 1, testNow))
	store.Save(ctx, domain.New(clubKey, form.ValueRecord{"who": "club"}, 2, testNow))

	got, ok, _ := store.Load(ctx, keyA, testNow)
	if !ok || got.Data["who"] != "a" {
		t.Errorf("keyA: got %v ok=%v", got.Data, ok)
	}
	got, ok, _ = store.Load(ctx, clubKey, testNow)
	if !ok || got.Data["who"] != "club" || got.CurrentStep != 2 {
		t.Errorf("clubKey: got %+v ok=%v", got, ok)
	}
	if _, ok, _ := store.Load(ctx, keyC, testNow); ok {
		t.Error("visitor-2 must not see visitor-1's draft")
	}
}

func TestSave_Overwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := activityKey(t, "visitor-1", 7)

	store.Save(ctx, domain.New(key, form.ValueRecord{"reason": "a"}, 0, testNow))
	store.Save(ctx, domain.New(key, form.ValueRecord{"reason": "ab"}, 1, testNow.Add(time.Minute)))

	got, ok, err := store.Load(ctx, key, testNow.Add(2*time.Minute))
	if err != nil || !ok {
		t.Fatalf("load failed: ok=%v err=%v", ok, err)
	}
	if got.Data["reason"] != "ab" || got.CurrentStep != 1 {
		t.Errorf("last write should win: %+v", got)
	}
	if want := testNow.Add(time.Minute).Add(domain.TTL); !got.ExpiresAt.Equal(want) {
		t.Errorf("save must refresh expiry: want %v got %v", want, got.ExpiresAt)
	}
}

// DraftCorrupted: unreadable JSON is silently discarded, never an error.
func TestLoad_CorruptedDiscarded(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	store := NewSQLiteStore(db)
	ctx := context.Background()
	key := activityKey(t, "visitor-1", 9)

	_, err = db.Exec(
		`INSERT INTO draft (visitor_id, storage_key, feature_type, feature_id, data, current_step, expires_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key.VisitorID, key.StorageKey(), key.Target.Type, key.Target.FeatureID,
		`{"broken`, 0, testNow.Add(domain.TTL).Format(timeLayout), testNow.Format(timeLayout))
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, ok, err := store.Load(ctx, key, testNow)
	if err != nil {
		t.Fatalf("corrupted draft must not error: %v", err)
	}
	if ok {
		t.Fatal("corrupted draft should be absent")
	}

	var count int
	db.QueryRow(`SELECT COUNT(*) FROM draft`).Scan(&count)
	if count != 0 {
		t.Error("corrupted draft should be deleted")
	}
}

func TestClear_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := activityKey(t, "visitor-1", 3)

	store.Save(ctx, domain.New(key, form.ValueRecord{"a": "1"}, 0, testNow))
	if err := store.Clear(ctx, key); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := store.Clear(ctx, key); err != nil {
		t.Fatalf("second clear must be a no-op: %v", err)
	}
	if _, ok, _ := store.Load(ctx, key, testNow); ok {
		t.Error("cleared draft should be absent")
	}
}

func TestPurgeExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	live := activityKey(t, "visitor-1", 1)
	stale := activityKey(t, "visitor-1", 2)
	store.Save(ctx, domain.New(live, form.ValueRecord{}, 0, testNow))
	store.Save(ctx, domain.New(stale, form.ValueRecord{}, 0, testNow.Add(-3*time.Hour)))

	n, err := store.PurgeExpired(ctx, testNow)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged row, got %d", n)
	}
	if _, ok, _ := store.Load(ctx, live, testNow); !ok {
		t.Error("live draft should survive the purge")
	}
}
