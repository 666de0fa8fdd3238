package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-httpkit/internal/domain"
	bolt "go.etcd.io/bbolt"
)

func openTestStore(t *testing.T, opts Options) *boltStore {
	t.Helper()
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "exchanges.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(id string, started time.Time) domain.ExchangeRecord {
	return domain.ExchangeRecord{
		ID:        id,
		Method:    "GET",
		URL:       "https://api.example.com/" + id,
		Status:    "completed",
		StartedAt: started,
	}
}

func TestBoltStoreRecordAndGet(t *testing.T) {
	store := openTestStore(t, Options{})

	if _, found, err := store.Get("missing"); err != nil || found {
		t.Fatalf("expected missing record, found=%v err=%v", found, err)
	}
	if err := store.Record(record("ex1", time.Now())); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, found, err := store.Get("ex1")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if got.URL != "https://api.example.com/ex1" || got.Status != "completed" {
		t.Fatalf("unexpected record %+v", got)
	}
	if err := store.Record(domain.ExchangeRecord{}); err == nil {
		t.Fatalf("expected error for record without id")
	}
}

func TestBoltStoreRecentNewestFirst(t *testing.T) {
	store := openTestStore(t, Options{})
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"a", "b", "c"} {
		if err := store.Record(record(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}
	// re-recording keeps a single timeline entry for the id
	if err := store.Record(record("a", base.Add(10*time.Minute))); err != nil {
		t.Fatalf("Record a again: %v", err)
	}

	recent, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	var ids []string
	for _, r := range recent {
		ids = append(ids, r.ID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "c" || ids[2] != "b" {
		t.Fatalf("Recent order = %v", ids)
	}

	limited, err := store.Recent(1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("Recent(1) = %v, %v", limited, err)
	}
}

func TestBoltStoreExpiresRecords(t *testing.T) {
	store := openTestStore(t, Options{RecordTTL: time.Minute, CleanupInterval: time.Minute})
	now := time.Now()
	store.now = func() time.Time { return now }

	if err := store.Record(record("old", now)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, found, err := store.Get("old"); err != nil || found {
		t.Fatalf("expected expired record to be hidden, found=%v err=%v", found, err)
	}

	recent, err := store.Recent(5)
	if err != nil || len(recent) != 0 {
		t.Fatalf("Recent after expiry = %v, %v", recent, err)
	}
	if err := store.db.View(func(tx *bolt.Tx) error {
		if k, _ := tx.Bucket([]byte(timelineBucket)).Cursor().First(); k != nil {
			t.Fatalf("timeline entry not cleaned up")
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Record(record("x", time.Now())); err != nil {
		t.Fatalf("noop store Record: %v", err)
	}
	if recent, _ := store.Recent(5); len(recent) != 0 {
		t.Fatalf("noop store should not return records")
	}
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected unsupported storage type error")
	}
}
