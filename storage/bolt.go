package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketKV    = []byte("kv")
	bucketLists = []byte("lists")
)

// BoltKV implements KV on a bbolt file. Scalars live in the "kv" bucket;
// lists are JSON arrays in the "lists" bucket.
type BoltKV struct {
	db *bolt.DB
}

// NewBoltKV opens (or creates) adcraft.bolt in dataDir.
func NewBoltKV(dataDir string) (*BoltKV, error) {
	path := filepath.Join(dataDir, "adcraft.bolt")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketKV, bucketLists} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BoltKV{db: db}, nil
}

func (b *BoltKV) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketKV).Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	return value, found, err
}

func (b *BoltKV) Set(_ context.Context, key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Put([]byte(key), []byte(value))
	})
}

func (b *BoltKV) Delete(_ context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketKV).Delete([]byte(key)); err != nil {
			return err
		}
		return tx.Bucket(bucketLists).Delete([]byte(key))
	})
}

func (b *BoltKV) Incr(_ context.Context, key string) (int64, error) {
	var n int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketKV)
		if v := bucket.Get([]byte(key)); v != nil {
			cur, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return fmt.Errorf("counter %s is not an integer: %w", key, err)
			}
			n = cur
		}
		n++
		return bucket.Put([]byte(key), []byte(strconv.FormatInt(n, 10)))
	})
	return n, err
}

func (b *BoltKV) ListAppend(_ context.Context, key, value string) error {
	return b.updateList(key, func(items []string) []string {
		return append(items, value)
	})
}

func (b *BoltKV) ListRange(_ context.Context, key string) ([]string, error) {
	var items []string
	err := b.db.View(func(tx *bolt.Tx) error {
		var err error
		items, err = decodeList(tx.Bucket(bucketLists).Get([]byte(key)))
		return err
	})
	return items, err
}

func (b *BoltKV) ListRemove(_ context.Context, key, value string) error {
	return b.updateList(key, func(items []string) []string {
		kept := items[:0]
		for _, it := range items {
			if it != value {
				kept = append(kept, it)
			}
		}
		return kept
	})
}

func (b *BoltKV) updateList(key string, fn func([]string) []string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketLists)
		items, err := decodeList(bucket.Get([]byte(key)))
		if err != nil {
			return err
		}
		enc, err := json.Marshal(fn(items))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), enc)
	})
}

func decodeList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("malformed list: %w", err)
	}
	return items, nil
}

func (b *BoltKV) Close() error {
	return b.db.Close()
}
