package persistence

import "time"

// SharingSession records one continuous screen-sharing occurrence by a user
// in a room. A session with no EndSharing is open: the user is still (or was
// last known to be) presenting.
type SharingSession struct {
	ID           string
	PartitionKey string
	UserID       string
	Username     string
	RoomID       string
	RoomName     string
	StartSharing time.Time
	EndSharing   *time.Time
	// Version is the concurrency token: returned on read, required on
	// update. A conditional write carrying a stale version is rejected.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open reports whether the session has no recorded end.
func (s SharingSession) Open() bool {
	return s.EndSharing == nil
}
