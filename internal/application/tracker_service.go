package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/standup-notifier/internal/persistence"
	"github.com/example/standup-notifier/internal/zoom"
)

// TrackerService applies sharing presence events to the session store,
// enforcing the one-open-session invariant per (user, room) pair.
type TrackerService struct {
	sessions      persistence.SharingSessionRepository
	monitoredRoom string
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewTrackerService wires dependencies for event handling. Events for rooms
// other than monitoredRoom are accepted but produce no mutation.
func NewTrackerService(sessions persistence.SharingSessionRepository, monitoredRoom string, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TrackerService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TrackerService{
		sessions:      sessions,
		monitoredRoom: monitoredRoom,
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

// HandleEvent dispatches a parsed event to the matching transition.
func (s *TrackerService) HandleEvent(ctx context.Context, event zoom.Event) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("TrackerService is not configured")
	}

	switch event.Type {
	case zoom.EventSharingStarted:
		return s.startSharing(ctx, event)
	case zoom.EventSharingEnded, zoom.EventParticipantLeft:
		return s.endSharing(ctx, event)
	default:
		return &UnsupportedEventError{EventType: event.Type}
	}
}

func (s *TrackerService) startSharing(ctx context.Context, event zoom.Event) error {
	logger := serviceLogger(ctx, s.logger, "tracker", "start_sharing",
		"user_id", event.UserID, "room_id", event.RoomID)

	if event.RoomID != s.monitoredRoom {
		logger.InfoContext(ctx, "room is not monitored, event skipped")
		return nil
	}

	open, err := s.sessions.ListOpenSessions(ctx, event.UserID, event.RoomID)
	if err != nil {
		return fmt.Errorf("list open sessions: %w", err)
	}
	if len(open) > 0 {
		return fmt.Errorf("%w: user %q already sharing in room %q (session %q)",
			ErrConflict, event.UserID, event.RoomID, open[0].ID)
	}

	session := persistence.SharingSession{
		ID:           s.idGenerator(),
		UserID:       event.UserID,
		Username:     event.Username,
		RoomID:       event.RoomID,
		RoomName:     event.RoomName,
		StartSharing: event.Timestamp,
		CreatedAt:    s.now(),
	}

	if err := s.sessions.InsertSession(ctx, session); err != nil {
		return fmt.Errorf("insert session %q: %w", session.ID, err)
	}

	logger.InfoContext(ctx, "sharing session opened", "session_id", session.ID)
	return nil
}

func (s *TrackerService) endSharing(ctx context.Context, event zoom.Event) error {
	logger := serviceLogger(ctx, s.logger, "tracker", "end_sharing",
		"user_id", event.UserID, "room_id", event.RoomID)

	if event.RoomID != s.monitoredRoom {
		logger.InfoContext(ctx, "room is not monitored, event skipped")
		return nil
	}

	open, err := s.sessions.ListOpenSessions(ctx, event.UserID, event.RoomID)
	if err != nil {
		return fmt.Errorf("list open sessions: %w", err)
	}
	if len(open) != 1 {
		// Zero or several open sessions means we missed or duplicated an
		// event earlier. Benign: log and leave the store untouched.
		logger.WarnContext(ctx, "inconsistent open-session state, event skipped",
			"open_sessions", len(open))
		return nil
	}

	session := open[0]
	ended := event.Timestamp
	if ended.Before(session.StartSharing) {
		ended = session.StartSharing
	}
	session.EndSharing = &ended

	if _, err := s.sessions.UpdateSession(ctx, session); err != nil {
		return fmt.Errorf("close session %q: %w", session.ID, err)
	}

	logger.InfoContext(ctx, "sharing session closed", "session_id", session.ID)
	return nil
}
