package kvdrop

import "errors"

var (
	// ErrNotFound is returned when a key has no stored item
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when authentication fails
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStoreNotBound is returned when no backing store is configured
	ErrStoreNotBound = errors.New("store not bound")
)
