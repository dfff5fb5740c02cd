package timestamp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Layouts tried, in order, for string timestamps. Zone-less layouts are
// interpreted in the caller's location.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"01-02-2006 15:04:05",
	"01/02/2006 15:04:05",
	"01-02-2006",
	"01/02/2006",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Jan 2, 2006 15:04:05",
	"January 2, 2006 15:04:05",
	"2 Jan 2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ClockLayout is the bare time-of-day layout accepted as a last resort.
const ClockLayout = "15:04:05"

// DateLayout is the calendar date key layout.
const DateLayout = "2006-01-02"

// Normalize converts a raw timestamp into an instant in the system location.
// It returns nil for nil input and for anything it cannot interpret.
func Normalize(raw any) *time.Time {
	return NormalizeIn(raw, time.Local)
}

// NormalizeIn is Normalize with an explicit location for epoch values and
// zone-less strings.
func NormalizeIn(raw any, loc *time.Location) *time.Time {
	if loc == nil {
		loc = time.Local
	}

	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		t := *v
		return &t
	case map[string]any:
		return fromSecondsBag(v, loc)
	case string:
		return ParseString(v, loc)
	case *string:
		if v == nil {
			return nil
		}
		return ParseString(*v, loc)
	}

	return nil
}

// ParseString tries every known layout, then the strict clock layout anchored
// to year 0. Returns nil when nothing matches.
func ParseString(s string, loc *time.Location) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t
		}
	}

	if t, err := time.ParseInLocation(ClockLayout, s, loc); err == nil {
		return &t
	}

	return nil
}

func fromSecondsBag(bag map[string]any, loc *time.Location) *time.Time {
	rawSeconds, ok := bag["_seconds"]
	if !ok {
		rawSeconds, ok = bag["seconds"]
	}
	if !ok {
		return nil
	}

	seconds, ok := toFloat(rawSeconds)
	if !ok || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil
	}

	var nanos float64
	if rawNanos, ok := bag["_nanoseconds"]; ok {
		nanos, _ = toFloat(rawNanos)
	} else if rawNanos, ok := bag["nanoseconds"]; ok {
		nanos, _ = toFloat(rawNanos)
	}

	whole := math.Trunc(seconds)
	frac := seconds - whole
	t := time.Unix(int64(whole), int64(frac*1e9)+int64(nanos)).In(loc)
	return &t
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// IsClockOnly reports whether t came from the bare clock layout.
func IsClockOnly(t time.Time) bool {
	return t.Year() == 0
}

// AnchorToDate moves a clock-only instant onto the given YYYY-MM-DD date.
// Instants that already carry a date are returned unchanged.
func AnchorToDate(t time.Time, date string, loc *time.Location) time.Time {
	if !IsClockOnly(t) {
		return t
	}
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return t
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// TimeOfDaySeconds returns seconds since midnight in t's own location.
func TimeOfDaySeconds(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// FormatClock renders seconds since midnight as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
