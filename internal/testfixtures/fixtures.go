package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/standup-notifier/internal/persistence"
)

var sessionCounter uint64

var referenceTime = time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It sits at 09:00 local time in Europe/Paris (CET) on a weekday.
func ReferenceTime() time.Time {
	return referenceTime
}

// SessionOption configures the generated sharing-session fixture.
type SessionOption func(*persistence.SharingSession)

// NewSessionFixture returns a deterministic open sharing session with
// optional overrides.
func NewSessionFixture(opts ...SessionOption) persistence.SharingSession {
	idx := atomic.AddUint64(&sessionCounter, 1)
	started := referenceTime.Add(time.Duration(idx) * time.Minute)
	session := persistence.SharingSession{
		ID:           fmt.Sprintf("session-%03d", idx),
		PartitionKey: "ZoomSharing",
		UserID:       fmt.Sprintf("user-%03d", idx),
		Username:     fmt.Sprintf("User %03d", idx),
		RoomID:       "room-standup",
		RoomName:     "Daily stand-up",
		StartSharing: started,
		Version:      1,
		CreatedAt:    started,
		UpdatedAt:    started,
	}
	for _, opt := range opts {
		opt(&session)
	}
	return session
}

// WithUser overrides the user identity on the fixture.
func WithUser(userID, username string) SessionOption {
	return func(s *persistence.SharingSession) {
		s.UserID = userID
		s.Username = username
	}
}

// WithRoom overrides the room on the fixture.
func WithRoom(roomID, roomName string) SessionOption {
	return func(s *persistence.SharingSession) {
		s.RoomID = roomID
		s.RoomName = roomName
	}
}

// WithInterval pins the sharing interval. A zero end leaves the session open.
func WithInterval(start, end time.Time) SessionOption {
	return func(s *persistence.SharingSession) {
		s.StartSharing = start
		if end.IsZero() {
			s.EndSharing = nil
		} else {
			ended := end
			s.EndSharing = &ended
		}
	}
}
