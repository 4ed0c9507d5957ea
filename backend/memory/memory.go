// Package memory provides an in-process kvdrop.Store. Contents are lost on
// restart; it backs tests and throwaway servers.
package memory

import (
	"context"
	"sync"

	"github.com/sagarc03/kvdrop"
)

// DB holds the items map.
type DB struct {
	store *Store
}

// New creates an empty in-memory backend.
func New() *DB {
	return &DB{store: NewStore()}
}

// Ping always succeeds.
func (d *DB) Ping(ctx context.Context) error { return ctx.Err() }

// Migrate is a no-op.
func (d *DB) Migrate(ctx context.Context) error { return nil }

// Validate is a no-op.
func (d *DB) Validate(ctx context.Context) error { return nil }

// GetStore returns the kvdrop.Store for item operations.
func (d *DB) GetStore() kvdrop.Store { return d.store }

// Close is a no-op.
func (d *DB) Close() error { return nil }

// Store is a map guarded by a RWMutex. Values are copied on the way in
// and out so callers cannot mutate stored items.
type Store struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{items: make(map[string][]byte)}
}

// Get returns a copy of the value. Returns kvdrop.ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	value, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil, kvdrop.ErrNotFound
	}
	return append([]byte{}, value...), nil
}

// Put stores a copy of value under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.items[key] = append([]byte{}, value...)
	s.mu.Unlock()

	return nil
}

// Len reports the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
