package persistence

import "context"

// SharingSessionRepository stores sharing-session rows keyed by a fixed
// partition key plus a unique row id.
type SharingSessionRepository interface {
	// InsertSession stores a new row. Inserting an existing id fails with
	// ErrDuplicate.
	InsertSession(ctx context.Context, session SharingSession) error
	// UpdateSession rewrites the mutable fields of a row if the supplied
	// Version still matches the stored one, returning the updated row with
	// its new version. A mismatch yields ErrConcurrencyConflict; a missing
	// row yields ErrNotFound.
	UpdateSession(ctx context.Context, session SharingSession) (SharingSession, error)
	// ListOpenSessions returns the rows for (userID, roomID) that have no
	// recorded end, ordered by StartSharing ascending.
	ListOpenSessions(ctx context.Context, userID, roomID string) ([]SharingSession, error)
	// ListSessions returns every stored row ordered by StartSharing
	// ascending.
	ListSessions(ctx context.Context) ([]SharingSession, error)
	// DeleteSession removes a row by id. A missing row yields ErrNotFound.
	DeleteSession(ctx context.Context, id string) error
}
