// Package storage is the local key/value store the account core persists
// into. Values are opaque bytes (JSON documents in practice) under string
// keys.
//
// Two backends are provided: SQLStore, a single table in SQLite or
// PostgreSQL, and MemoryStore, a process-local map used by tests and by the
// "memory" storage driver. Both implement Transactor so a group of writes
// spanning several keys is applied as one unit.
package storage

import (
	"context"
	"errors"
)

// ErrCorrupt marks a stored value that could not be decoded.
var ErrCorrupt = errors.New("corrupt value")

// Store is the get/set/remove contract over string keys.
//
// Get returns (nil, nil) when the key is absent. Remove of an absent key is
// not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Transactor is a Store that can apply several writes atomically.
//
// Update calls fn with a Store scoped to the unit of work. If fn returns an
// error or panics none of its writes are kept. fn must only use the Store it
// is given.
type Transactor interface {
	Store
	Update(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
