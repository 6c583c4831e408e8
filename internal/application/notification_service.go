package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/standup-notifier/internal/persistence"
	"github.com/example/standup-notifier/internal/standup"
)

// NotificationThreshold bounds how far the current time may drift from the
// configured notification time before a cycle is skipped.
const NotificationThreshold = 10 * time.Minute

// Notifier delivers the attribution message to the outbound webhook.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// NotificationSettings carries the schedule-related configuration for the
// aggregation cycle.
type NotificationSettings struct {
	TimeZone         *time.Location
	WindowStart      standup.TimeOfDay
	WindowEnd        standup.TimeOfDay
	NotificationTime standup.TimeOfDay
	MinimumSharing   time.Duration
}

// NotificationService runs the scheduled aggregation cycle: it attributes
// stand-up presenters from stored sharing sessions, sends the notification
// and drains the store for the next day.
type NotificationService struct {
	sessions persistence.SharingSessionRepository
	notifier Notifier
	settings NotificationSettings
	now      func() time.Time
	logger   *slog.Logger
}

// NewNotificationService wires dependencies for the aggregation cycle.
func NewNotificationService(sessions persistence.SharingSessionRepository, notifier Notifier, settings NotificationSettings, now func() time.Time, logger *slog.Logger) *NotificationService {
	if now == nil {
		now = time.Now
	}
	if settings.TimeZone == nil {
		settings.TimeZone = time.UTC
	}
	return &NotificationService{
		sessions: sessions,
		notifier: notifier,
		settings: settings,
		now:      now,
		logger:   defaultLogger(logger),
	}
}

// Run executes one aggregation cycle. Outside the notification window it is
// a no-op that touches neither the store nor the webhook. Sessions are
// purged only after the notification was delivered (or none was needed), so
// a delivery failure keeps the unreported rows for the next cycle.
func (s *NotificationService) Run(ctx context.Context) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("NotificationService is not configured")
	}

	logger := serviceLogger(ctx, s.logger, "notification", "run")
	now := s.now()

	if !standup.ShouldRun(now, s.settings.TimeZone, s.settings.NotificationTime, NotificationThreshold) {
		logger.InfoContext(ctx, "outside notification window, cycle skipped",
			"current_time", now.In(s.settings.TimeZone).Format("15:04:05"),
			"notification_time", s.settings.NotificationTime.String())
		return nil
	}

	window := standup.ComputeWindow(now, s.settings.TimeZone, s.settings.WindowStart, s.settings.WindowEnd)

	all, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	presenters := s.attributePresenters(all, window, now)
	for _, session := range presenters {
		logger.InfoContext(ctx, "presenter attributed",
			"username", session.Username,
			"start_sharing", session.StartSharing,
			"end_sharing", session.EndSharing)
	}

	if message := presenterMessage(presenters); message != "" {
		if err := s.notifier.Send(ctx, message); err != nil {
			return fmt.Errorf("send notification: %w", err)
		}
		logger.InfoContext(ctx, "notification sent", "presenters", len(presenters))
	}

	for _, session := range all {
		if err := s.sessions.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, persistence.ErrNotFound) {
			return fmt.Errorf("purge session %q: %w", session.ID, err)
		}
	}

	return nil
}

// attributePresenters keeps the sessions whose coverage interval lasted at
// least the minimum sharing duration and overlaps the stand-up window, in
// StartSharing order. Open sessions count as ongoing until now.
func (s *NotificationService) attributePresenters(sessions []persistence.SharingSession, window standup.Window, now time.Time) []persistence.SharingSession {
	matching := make([]persistence.SharingSession, 0, len(sessions))
	for _, session := range sessions {
		end := now
		if session.EndSharing != nil {
			end = *session.EndSharing
		}
		if end.Sub(session.StartSharing) < s.settings.MinimumSharing {
			continue
		}
		if !window.Overlaps(session.StartSharing, end) {
			continue
		}
		matching = append(matching, session)
	}

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].StartSharing.Before(matching[j].StartSharing)
	})
	return matching
}

func presenterMessage(presenters []persistence.SharingSession) string {
	switch len(presenters) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s was presenting the stand-up meeting today", presenters[0].Username)
	default:
		names := make([]string, 0, len(presenters))
		for _, session := range presenters {
			names = append(names, session.Username)
		}
		return fmt.Sprintf("%s were presenting the stand-up meeting today", strings.Join(names, ", "))
	}
}
