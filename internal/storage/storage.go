// Package storage is the key-value layer under the repositories: each key
// holds one JSON blob, the way the dashboard's local storage did.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get when the key has never been set or was removed.
var ErrKeyNotFound = errors.New("key_not_found")

// KV is the storage abstraction: get/set/remove of whole blobs.
// Implementations must be safe for concurrent use and must not retain or
// hand out the caller's byte slices.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver     string
	SQLitePath string
	DBUrl      string
}

// Open constructs the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemoryKV(), nil
	case DriverSQLite:
		return NewSQLiteKV(opts.SQLitePath)
	case DriverPostgres:
		return NewPostgresKV(ctx, opts.DBUrl)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
