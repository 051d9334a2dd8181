// Package kvstore provides the synchronous local key-value device backing
// all persisted application state: registered accounts, lockout bookkeeping,
// and per-user namespaced data. A SQLite-backed implementation is used by the
// CLI; a map-backed one serves tests and embedding.
package kvstore

import (
	"context"
	"fmt"
)

// Device is a flat string-keyed byte store.
//
// Get returns nil (with a nil error) when the key is absent; callers treat
// nil as "not set". All failures are reported as *StorageError.
type Device interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)

	// Batch runs fn against a view of the device and applies the writes
	// atomically where the backend supports it. fn's error aborts the batch
	// and is returned unchanged.
	Batch(ctx context.Context, fn func(d Device) error) error
}

// StorageError wraps an underlying device failure (I/O, quota, corrupt DB)
// so callers can distinguish it from validation and auth errors.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
