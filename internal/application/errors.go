package application

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when a sharing-started event arrives while the
	// user already has an open session in the room.
	ErrConflict = errors.New("application: existing open session")
	// ErrUnsupportedEvent is returned for event types the tracker does not
	// act on. Typed details travel in UnsupportedEventError.
	ErrUnsupportedEvent = errors.New("application: unsupported event")
)

// UnsupportedEventError names the event type that was rejected.
type UnsupportedEventError struct {
	EventType string
}

// Error implements the error interface.
func (e *UnsupportedEventError) Error() string {
	return fmt.Sprintf("application: event %q is not supported", e.EventType)
}

// Is lets errors.Is match the ErrUnsupportedEvent sentinel.
func (e *UnsupportedEventError) Is(target error) bool {
	return target == ErrUnsupportedEvent
}
