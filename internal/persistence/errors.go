package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert collides with an existing key.
	ErrDuplicate = errors.New("persistence: duplicate key")
	// ErrConcurrencyConflict is returned when a conditional update carries a
	// version that no longer matches the stored record.
	ErrConcurrencyConflict = errors.New("persistence: concurrency conflict")
)
