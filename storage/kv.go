package storage

import (
	"context"
	"fmt"
	"os"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// KV is the durable key/value contract the stores are built on. Values are
// opaque strings (JSON blobs); lists keep insertion order.
type KV interface {
	// Get returns the value of key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key and any list stored under it.
	Delete(ctx context.Context, key string) error
	// Incr atomically increments the integer stored at key (missing = 0)
	// and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)

	ListAppend(ctx context.Context, key, value string) error
	ListRange(ctx context.Context, key string) ([]string, error)
	// ListRemove removes every occurrence of value from the list at key.
	ListRemove(ctx context.Context, key, value string) error

	Close() error
}

// Open creates the data directory and opens the requested backend in it.
func Open(backend, dataDir string) (KV, error) {
	// 0700 - user-only access
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	switch backend {
	case BackendSQLite, "":
		return NewSQLiteKV(dataDir)
	case BackendBolt:
		return NewBoltKV(dataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
