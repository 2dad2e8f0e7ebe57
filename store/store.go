// Package store persists named save records behind a small key-value
// interface with Redis, file, and in-memory implementations.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record exists under the key.
var ErrNotFound = errors.New("store: record not found")

// Store is the persistence interface for save records.
type Store interface {
	// Put writes a record, replacing any existing one under the key.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves a record. Returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a record. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying connection.
	Close() error
}
