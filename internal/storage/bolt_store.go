package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/samvad-httpkit/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	exchangeBucket   = "exchanges"
	timelineBucket   = "timeline"
	expiryValueBytes = 8
)

var errBucketMissing = errors.New("exchange buckets missing")

// boltStore implements a Store backed by BoltDB. Records live in the
// exchanges bucket as <8-byte expiry><json>; the timeline bucket orders ids
// by start time.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	recordTTL       time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{exchangeBucket, timelineBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		recordTTL:       opts.RecordTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Record stores rec, replacing any earlier record with the same id.
func (b *boltStore) Record(rec domain.ExchangeRecord) error {
	if b == nil || b.db == nil {
		return nil
	}
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("exchange record has no id")
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode exchange record: %w", err)
	}
	value := make([]byte, expiryValueBytes, expiryValueBytes+len(payload))
	binary.BigEndian.PutUint64(value, uint64(now.Add(b.recordTTL).Unix()))
	value = append(value, payload...)

	return b.db.Update(func(tx *bolt.Tx) error {
		records, timeline := tx.Bucket([]byte(exchangeBucket)), tx.Bucket([]byte(timelineBucket))
		if records == nil || timeline == nil {
			return errBucketMissing
		}
		if err := records.Put([]byte(rec.ID), value); err != nil {
			return err
		}
		return timeline.Put(timelineKey(rec), []byte(rec.ID))
	})
}

// Get returns the record for id unless it expired.
func (b *boltStore) Get(id string) (domain.ExchangeRecord, bool, error) {
	if b == nil || b.db == nil {
		return domain.ExchangeRecord{}, false, nil
	}

	now := b.now()
	var (
		rec   domain.ExchangeRecord
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		records := tx.Bucket([]byte(exchangeBucket))
		if records == nil {
			return errBucketMissing
		}
		var err error
		rec, found, err = decodeRecord(records.Get([]byte(id)), now)
		return err
	})
	return rec, found, err
}

// Recent returns up to limit unexpired records, newest first.
func (b *boltStore) Recent(limit int) ([]domain.ExchangeRecord, error) {
	if b == nil || b.db == nil || limit <= 0 {
		return nil, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, err
	}

	out := make([]domain.ExchangeRecord, 0, limit)
	err := b.db.View(func(tx *bolt.Tx) error {
		records, timeline := tx.Bucket([]byte(exchangeBucket)), tx.Bucket([]byte(timelineBucket))
		if records == nil || timeline == nil {
			return errBucketMissing
		}
		cursor := timeline.Cursor()
		for k, id := cursor.Last(); k != nil && len(out) < limit; k, id = cursor.Prev() {
			rec, ok, err := decodeRecord(records.Get(id), now)
			if err != nil {
				return err
			}
			if ok && timelineKeyMatches(k, rec) {
				out = append(out, rec)
			}
		}
		return nil
	})
	return out, err
}

// maybeCleanupExpired removes expired records on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		records, timeline := tx.Bucket([]byte(exchangeBucket)), tx.Bucket([]byte(timelineBucket))
		if records == nil || timeline == nil {
			return errBucketMissing
		}

		cursor := records.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}

		tc := timeline.Cursor()
		for k, id := tc.First(); k != nil; k, id = tc.Next() {
			if records.Get(id) == nil {
				if err := tc.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

// timelineKey orders records by start time, then id.
func timelineKey(rec domain.ExchangeRecord) []byte {
	key := make([]byte, 8, 8+len(rec.ID))
	binary.BigEndian.PutUint64(key, uint64(rec.StartedAt.UnixNano()))
	return append(key, rec.ID...)
}

// timelineKeyMatches drops stale timeline entries left by a re-recorded id.
func timelineKeyMatches(k []byte, rec domain.ExchangeRecord) bool {
	return string(k) == string(timelineKey(rec))
}

func decodeRecord(value []byte, now time.Time) (domain.ExchangeRecord, bool, error) {
	if value == nil {
		return domain.ExchangeRecord{}, false, nil
	}
	expiry, ok := decodeExpiry(value[:min(len(value), expiryValueBytes)])
	if !ok || !expiry.After(now) {
		return domain.ExchangeRecord{}, false, nil
	}
	var rec domain.ExchangeRecord
	if err := json.Unmarshal(value[expiryValueBytes:], &rec); err != nil {
		return domain.ExchangeRecord{}, false, fmt.Errorf("decode exchange record: %w", err)
	}
	return rec, true, nil
}

// decodeExpiry decodes the expiry time from the stored byte slice.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
