package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/vectorops/chromactl/pkg/chroma"
)

const (
	collectionBucket = "collections"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB. Each value is an expiry
// timestamp followed by the JSON-encoded collection record.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	collectionTTL   time.Duration
	cleanupInterval time.Duration
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
		_, err := tx.CreateBucketIfNotExists([]byte(collectionBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		collectionTTL:   opts.CollectionTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Collection returns the cached record for the given collection name, if a
// fresh one exists. Expired entries are removed on access.
func (b *boltStore) Collection(name string) (chroma.Collection, bool, error) {
	if b == nil || b.db == nil {
		return chroma.Collection{}, false, nil
	}

	if err := b.maybeCleanupExpired(time.Now()); err != nil {
		return chroma.Collection{}, false, err
	}

	var (
		col   chroma.Collection
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(collectionBucket))
		if bucket == nil {
			return fmt.Errorf("collection bucket missing")
		}

		key := []byte(name)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		expiry, record, ok := decodeRecord(value)
		if !ok || !expiry.After(time.Now()) {
			return bucket.Delete(key)
		}

		if err := json.Unmarshal(record, &col); err != nil {
			// Unreadable record: drop it rather than serve garbage.
			return bucket.Delete(key)
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return chroma.Collection{}, false, err
	}
	return col, true, nil
}

// Put stores a collection record under the requested name with a fresh TTL.
func (b *boltStore) Put(name string, col chroma.Collection) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	record, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(collectionBucket))
		if bucket == nil {
			return fmt.Errorf("collection bucket missing")
		}
		value := make([]byte, expiryValueBytes+len(record))
		binary.BigEndian.PutUint64(value, uint64(now.Add(b.collectionTTL).Unix()))
		copy(value[expiryValueBytes:], record)
		return bucket.Put([]byte(name), value)
	})
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
		bucket := tx.Bucket([]byte(collectionBucket))
		if bucket == nil {
			return fmt.Errorf("collection bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, _, ok := decodeRecord(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
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

// decodeRecord splits a stored value into its expiry time and record payload.
func decodeRecord(value []byte) (time.Time, []byte, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, nil, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, nil, false
	}
	return time.Unix(unix, 0), value[expiryValueBytes:], true
}
