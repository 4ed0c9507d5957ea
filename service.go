package kvdrop

import (
	"context"
	"fmt"
)

// Store defines the interface for item persistence.
// Implementations must be safe for concurrent use and treat every Put as a
// full overwrite of the previous value.
type Store interface {
	// Get returns the value stored under key.
	//
	// Returns:
	//   - []byte: The stored value
	//   - error: ErrNotFound if key has no item, or other backend errors
	Get(ctx context.Context, key string) ([]byte, error)

	// Put creates or replaces the item stored under key.
	Put(ctx context.Context, key string, value []byte) error
}

// Service validates keys and forwards reads and writes to a Store.
type Service struct {
	store Store
}

// NewService creates a Service backed by store. A nil store yields a
// Service whose operations fail with ErrStoreNotBound.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Bound reports whether a store is configured.
func (s *Service) Bound() bool {
	return s != nil && s.store != nil
}

// Get reads the item stored under key.
//
// Error types returned:
//   - ErrStoreNotBound: no store configured
//   - ErrInvalidInput: key fails IsValidKey
//   - ErrNotFound: key has no item
//   - context.Canceled or context.DeadlineExceeded: context was cancelled
func (s *Service) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if s.store == nil {
		return nil, fmt.Errorf("get item: %w", ErrStoreNotBound)
	}

	if !IsValidKey(key) {
		return nil, fmt.Errorf("get item %q: %w", key, ErrInvalidInput)
	}

	value, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", key, err)
	}

	return value, nil
}

// Put writes value under key, replacing any previous item.
func (s *Service) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("put item: %w", err)
	}

	if s.store == nil {
		return fmt.Errorf("put item: %w", ErrStoreNotBound)
	}

	if !IsValidKey(key) {
		return fmt.Errorf("put item %q: %w", key, ErrInvalidInput)
	}

	if value == nil {
		value = []byte{}
	}

	if err := s.store.Put(ctx, key, value); err != nil {
		return fmt.Errorf("put item %s: %w", key, err)
	}

	return nil
}
