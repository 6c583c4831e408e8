package standup

import (
	"testing"
	"time"
)

func mustTimeOfDay(t *testing.T, value string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(value)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q) returned error: %v", value, err)
	}
	return tod
}

func TestParseTimeOfDay(t *testing.T) {
	t.Run("parses hour minute second", func(t *testing.T) {
		tod := mustTimeOfDay(t, "10:15:30")
		if tod.Hour != 10 || tod.Minute != 15 || tod.Second != 30 {
			t.Fatalf("unexpected value %+v", tod)
		}
		if tod.String() != "10:15:30" {
			t.Fatalf("unexpected rendering %q", tod.String())
		}
	})

	t.Run("defaults seconds to zero", func(t *testing.T) {
		tod := mustTimeOfDay(t, "09:05")
		if tod.Hour != 9 || tod.Minute != 5 || tod.Second != 0 {
			t.Fatalf("unexpected value %+v", tod)
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		for _, value := range []string{"", "10", "10:00:00:00", "ten:00", "24:00", "10:60", "10:00:60", "-1:00"} {
			if _, err := ParseTimeOfDay(value); err == nil {
				t.Fatalf("expected error for %q", value)
			}
		}
	})
}

func TestComputeWindow(t *testing.T) {
	paris := time.FixedZone("CET", 3600)

	t.Run("resolves the local date in the configured zone", func(t *testing.T) {
		// 07:30 UTC is 08:30 in CET; the window lands on the same local day.
		now := time.Date(2024, time.March, 5, 7, 30, 0, 0, time.UTC)
		window := ComputeWindow(now, paris, TimeOfDay{Hour: 10}, TimeOfDay{Hour: 10, Minute: 10})

		wantStart := time.Date(2024, time.March, 5, 10, 0, 0, 0, paris)
		wantEnd := time.Date(2024, time.March, 5, 10, 10, 0, 0, paris)
		if !window.Start.Equal(wantStart) || !window.End.Equal(wantEnd) {
			t.Fatalf("unexpected window %v, want [%v, %v)", window, wantStart, wantEnd)
		}
		if window.Duration() != 10*time.Minute {
			t.Fatalf("unexpected duration %v", window.Duration())
		}
	})

	t.Run("crossing midnight in the zone shifts the window a day", func(t *testing.T) {
		// 23:30 UTC is already the next local day in CET.
		now := time.Date(2024, time.March, 5, 23, 30, 0, 0, time.UTC)
		window := ComputeWindow(now, paris, TimeOfDay{Hour: 10}, TimeOfDay{Hour: 10, Minute: 10})

		wantStart := time.Date(2024, time.March, 6, 10, 0, 0, 0, paris)
		if !window.Start.Equal(wantStart) {
			t.Fatalf("unexpected window start %v, want %v", window.Start, wantStart)
		}
	})

	t.Run("inverted window rejects intervals inside it", func(t *testing.T) {
		now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
		window := ComputeWindow(now, time.UTC, TimeOfDay{Hour: 10}, TimeOfDay{Hour: 9})

		if window.Duration() >= 0 {
			t.Fatalf("expected a negative duration, got %v", window.Duration())
		}
		if window.Overlaps(now.Add(-time.Hour), now.Add(time.Hour)) {
			t.Fatal("expected no overlap with an inverted window")
		}
	})
}

func TestWindowOverlaps(t *testing.T) {
	window := Window{
		Start: time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 5, 10, 10, 0, 0, time.UTC),
	}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"fully inside", window.Start.Add(time.Minute), window.End.Add(-time.Minute), true},
		{"spanning the window", window.Start.Add(-time.Hour), window.End.Add(time.Hour), true},
		{"overlapping the start edge", window.Start.Add(-time.Minute), window.Start.Add(time.Minute), true},
		{"ending exactly at window start", window.Start.Add(-time.Hour), window.Start, false},
		{"starting exactly at window end", window.End, window.End.Add(time.Hour), false},
		{"entirely before", window.Start.Add(-2 * time.Hour), window.Start.Add(-time.Hour), false},
		{"entirely after", window.End.Add(time.Hour), window.End.Add(2 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := window.Overlaps(tc.start, tc.end); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestShouldRun(t *testing.T) {
	notification := TimeOfDay{Hour: 10, Minute: 15}
	threshold := 10 * time.Minute

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"at the notification time", time.Date(2024, time.March, 5, 10, 15, 0, 0, time.UTC), true},
		{"just before", time.Date(2024, time.March, 5, 10, 6, 0, 0, time.UTC), true},
		{"exactly at the threshold", time.Date(2024, time.March, 5, 10, 25, 0, 0, time.UTC), true},
		{"a nanosecond past the threshold", time.Date(2024, time.March, 5, 10, 25, 0, 1, time.UTC), false},
		{"an hour away", time.Date(2024, time.March, 5, 11, 15, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldRun(tc.now, time.UTC, notification, threshold); got != tc.want {
				t.Fatalf("ShouldRun(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}

	t.Run("distance does not wrap across midnight", func(t *testing.T) {
		now := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)
		if ShouldRun(now, time.UTC, TimeOfDay{Minute: 2}, threshold) {
			t.Fatal("expected 23:59 to be far from a 00:02 notification time")
		}
	})

	t.Run("evaluates the time of day in the configured zone", func(t *testing.T) {
		paris := time.FixedZone("CET", 3600)
		// 09:15 UTC is 10:15 local.
		now := time.Date(2024, time.March, 5, 9, 15, 0, 0, time.UTC)
		if !ShouldRun(now, paris, notification, threshold) {
			t.Fatal("expected the local wall clock to gate the run")
		}
	})
}
