// Package standup provides the pure time arithmetic behind stand-up
// attribution: resolving the daily meeting window in a configured time zone,
// gating the notification cycle on proximity to the configured send time and
// testing sharing intervals for overlap with the window.
package standup

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "15:04:05" or "15:04" into a TimeOfDay.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("standup: invalid time of day %q", value)
	}

	fields := make([]int, 3)
	for i, part := range parts {
		parsed, err := strconv.Atoi(part)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("standup: invalid time of day %q", value)
		}
		fields[i] = parsed
	}

	tod := TimeOfDay{Hour: fields[0], Minute: fields[1], Second: fields[2]}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 || tod.Second < 0 || tod.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("standup: invalid time of day %q", value)
	}
	return tod, nil
}

// Duration returns the offset from midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second
}

// String renders the time of day as "15:04:05".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Window is a half-open instant interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns End minus Start. It is negative for inverted windows.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Overlaps reports whether the coverage interval [start, end] shares at
// least one instant with the window under the strict open comparison.
func (w Window) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && end.After(w.Start)
}

// ComputeWindow resolves "today" in zone from now and returns the absolute
// interval [today@start, today@end). When end <= start the window is
// returned inverted as-is; it is not corrected across midnight.
func ComputeWindow(now time.Time, zone *time.Location, start, end TimeOfDay) Window {
	local := now.In(zone)
	year, month, day := local.Date()
	return Window{
		Start: time.Date(year, month, day, start.Hour, start.Minute, start.Second, 0, zone),
		End:   time.Date(year, month, day, end.Hour, end.Minute, end.Second, 0, zone),
	}
}

// ShouldRun reports whether the local time of day for now in zone is within
// threshold of the configured notification time. The distance is the plain
// absolute difference of the two offsets from midnight: it does not wrap, so
// 23:59 against a notification time of 00:02 measures as almost a full day.
func ShouldRun(now time.Time, zone *time.Location, notification TimeOfDay, threshold time.Duration) bool {
	local := now.In(zone)
	current := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second +
		time.Duration(local.Nanosecond())

	diff := current - notification.Duration()
	if diff < 0 {
		diff = -diff
	}
	return diff <= threshold
}
