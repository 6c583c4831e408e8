package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/standup-notifier/internal/persistence"
	"github.com/example/standup-notifier/internal/standup"
	"github.com/example/standup-notifier/internal/testfixtures"
)

type capturingNotifier struct {
	messages []string
	err      error
}

func (n *capturingNotifier) Send(_ context.Context, text string) error {
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, text)
	return nil
}

type untouchableSessionStore struct {
	t *testing.T
}

func (s *untouchableSessionStore) InsertSession(context.Context, persistence.SharingSession) error {
	s.t.Fatal("unexpected InsertSession call")
	return nil
}

func (s *untouchableSessionStore) UpdateSession(context.Context, persistence.SharingSession) (persistence.SharingSession, error) {
	s.t.Fatal("unexpected UpdateSession call")
	return persistence.SharingSession{}, nil
}

func (s *untouchableSessionStore) ListOpenSessions(context.Context, string, string) ([]persistence.SharingSession, error) {
	s.t.Fatal("unexpected ListOpenSessions call")
	return nil, nil
}

func (s *untouchableSessionStore) ListSessions(context.Context) ([]persistence.SharingSession, error) {
	s.t.Fatal("unexpected ListSessions call")
	return nil, nil
}

func (s *untouchableSessionStore) DeleteSession(context.Context, string) error {
	s.t.Fatal("unexpected DeleteSession call")
	return nil
}

func standupSettings(minimum time.Duration) NotificationSettings {
	return NotificationSettings{
		TimeZone:         time.UTC,
		WindowStart:      standup.TimeOfDay{Hour: 8, Minute: 10},
		WindowEnd:        standup.TimeOfDay{Hour: 8, Minute: 20},
		NotificationTime: standup.TimeOfDay{Hour: 8, Minute: 25},
		MinimumSharing:   minimum,
	}
}

func dayAt(hour, minute, second int) time.Time {
	return time.Date(2024, time.March, 5, hour, minute, second, 0, time.UTC)
}

func seedPresenters(store *testfixtures.MemorySessionStore) {
	store.Seed(
		testfixtures.NewSessionFixture(
			testfixtures.WithUser("user-a", "A"),
			testfixtures.WithInterval(dayAt(8, 12, 0), dayAt(8, 14, 0)),
		),
		testfixtures.NewSessionFixture(
			testfixtures.WithUser("user-b", "B"),
			testfixtures.WithInterval(dayAt(8, 15, 0), dayAt(8, 18, 0)),
		),
	)
}

func TestNotificationServiceRun(t *testing.T) {
	notificationTime := dayAt(8, 25, 0)

	t.Run("attributes overlapping presenters in start order", func(t *testing.T) {
		store := testfixtures.NewMemorySessionStore(nil)
		seedPresenters(store)
		notifier := &capturingNotifier{}
		service := NewNotificationService(store, notifier, standupSettings(time.Minute), func() time.Time { return notificationTime }, nil)

		if err := service.Run(context.Background()); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}

		want := "A, B were presenting the stand-up meeting today"
		if len(notifier.messages) != 1 || notifier.messages[0] != want {
			t.Fatalf("unexpected messages %q, want %q", notifier.messages, want)
		}
		if store.Len() != 0 {
			t.Fatalf("expected all sessions purged, found %d", store.Len())
		}
	})

	t.Run("a narrower window still catches partial overlaps", func(t *testing.T) {
		store := testfixtures.NewMemorySessionStore(nil)
		seedPresenters(store)
		notifier := &capturingNotifier{}
		settings := standupSettings(time.Minute)
		settings.WindowStart = standup.TimeOfDay{Hour: 8, Minute: 12, Second: 30}
		settings.WindowEnd = standup.TimeOfDay{Hour: 8, Minute: 17}
		service := NewNotificationService(store, notifier, settings, func() time.Time { return notificationTime }, nil)

		if err := service.Run(context.Background()); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		want := "A, B were presenting the stand-up meeting today"
		if len(notifier.messages) != 1 || notifier.messages[0] != want {
			t.Fatalf("unexpected messages %q, want %q", notifier.messages, want)
		}
	})

	t.Run("minimum duration filters short sessions", func(t *testing.T) {
		store := testfixtures.NewMemorySessionStore(nil)
		seedPresenters(store)
		notifier := &capturingNotifier{}
		service := NewNotificationService(store, notifier, standupSettings(150*time.Second), func() time.Time { return notificationTime }, nil)

		if err := service.Run(context.Background()); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}

		want := "B was presenting the stand-up meeting today"
		if len(notifier.messages) != 1 || notifier.messages[0] != want {
			t.Fatalf("unexpected messages %q, want %q", notifier.messages, want)
		}
		if store.Len() != 0 {
			t.Fatalf("expected filtered sessions purged as well, found %d", store.Len())
		}
	})

	t.Run("an open session counts as ongoing until now", func(t *testing.T) {
		store := testfixtures.NewMemorySessionStore(nil)
		store.Seed(testfixtures.NewSessionFixture(
			testfixtures.WithUser("user-c", "C"),
			testfixtures.WithInterval(dayAt(8, 12, 0), time.Time{}),
		))
		notifier := &capturingNotifier{}
		service := NewNotificationService(store, notifier, standupSettings(time.Minute), func() time.Time { return notificationTime }, nil)

		if err := service.Run(context.Background()); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		want := "C was presenting the stand-up meeting today"
		if len(notifier.messages) != 1 || notifier.messages[0] != want {
			t.Fatalf("unexpected messages %q, want %q", notifier.messages, want)
		}
	})

	t.Run("no sessions means no outbound call", func(t *testing.T) {
		store := testfixtures.NewMemorySessionStore(nil)
		notifier := &capturingNotifier{}
		service := NewNotificationService(store, notifier, standupSettings(time.Minute), func() time.Time { return notificationTime }, nil)

		if err := service.Run(context.Background()); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if len(notifier.messages) != 0 {
			t.Fatalf("expected no messages, got %q", notifier.messages)
		}
	})

	t.Run("no matching sessions still purges the store", func(t *testing.T) {
		store := testfixtures.NewMemorySessionStore(nil)
		store.Seed(testfixtures.NewSessionFixture(
			testfixtures.WithUser("user-d", "D"),
			testfixtures.WithInterval(dayAt(7, 0, 0), dayAt(7, 5, 0)),
		))
		notifier := &capturingNotifier{}
		service := NewNotificationService(store, notifier, standupSettings(time.Minute), func() time.Time { return notificationTime }, nil)

		if err := service.Run(context.Background()); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if len(notifier.messages) != 0 {
			t.Fatalf("expected no messages, got %q", notifier.messages)
		}
		if store.Len() != 0 {
			t.Fatalf("expected the stale session purged, found %d", store.Len())
		}
	})

	t.Run("delivery failure keeps the sessions", func(t *testing.T) {
		store := testfixtures.NewMemorySessionStore(nil)
		seedPresenters(store)
		notifier := &capturingNotifier{err: errors.New("webhook unreachable")}
		service := NewNotificationService(store, notifier, standupSettings(time.Minute), func() time.Time { return notificationTime }, nil)

		if err := service.Run(context.Background()); err == nil {
			t.Fatal("expected the delivery error to propagate")
		}
		if store.Len() != 2 {
			t.Fatalf("expected sessions retained for the next cycle, found %d", store.Len())
		}
	})

	t.Run("outside the notification window nothing is touched", func(t *testing.T) {
		store := &untouchableSessionStore{t: t}
		notifier := &capturingNotifier{}
		service := NewNotificationService(store, notifier, standupSettings(time.Minute), func() time.Time { return dayAt(14, 0, 0) }, nil)

		if err := service.Run(context.Background()); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if len(notifier.messages) != 0 {
			t.Fatalf("expected no messages, got %q", notifier.messages)
		}
	})
}
