// Package dates owns the canonical calendar-day key and the due-time
// value type. All date normalization happens here, once, at the
// repository boundary; the rest of the application only sees canonical
// keys and decoded time values.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key is a canonical calendar-day key in YYYY-MM-DD form, or one of the
// sentinel keys below for tasks whose date is absent or unreadable.
type Key string

// Sentinel keys. Both are legal bucket keys but never map to a
// selectable calendar day.
const (
	KeyNoDate  Key = "no_date"
	KeyInvalid Key = "invalid_date"
)

// datetime layouts tried by Normalize, in order. Naive layouts keep
// their written components; zoned layouts are converted to local time
// before the day is derived.
var parseLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
}

// IsDay reports whether the key names an actual calendar day.
func (k Key) IsDay() bool {
	return k != KeyNoDate && k != KeyInvalid && k != ""
}

// Time returns the midnight instant of the key's day in local time.
// Sentinel keys return the zero time.
func (k Key) Time() time.Time {
	if !k.IsDay() {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02", string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DayKey derives a canonical key from the local calendar components of t.
func DayKey(t time.Time) Key {
	return Key(t.Format("2006-01-02"))
}

// NewKey builds a key directly from calendar components.
func NewKey(year int, month time.Month, day int) Key {
	return Key(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}

// Normalize converts any raw task-date representation into a canonical
// calendar-day key. An empty input yields KeyNoDate and an unreadable
// one yields KeyInvalid; a malformed date must never break bucketing.
//
// The day is always re-derived from calendar components, never from a
// UTC serialization of the instant, so a task dated "2024-03-05" stays
// on March 5 for viewers west of UTC.
func Normalize(raw string) Key {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return KeyNoDate
	}

	// Fast path: already YYYY-MM-DD, optionally with a naive trailing
	// time. Inputs carrying a zone designator must go through the
	// layout parse below so the day is re-derived in local time.
	if len(raw) >= 10 && isDayPrefix(raw[:10]) && !hasZoneSuffix(raw[10:]) {
		return Key(raw[:10])
	}

	for _, layout := range parseLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if hasZone(layout) {
			t = t.In(time.Local)
		}
		return DayKey(t)
	}

	// DD.MM.YYYY fallback.
	if t, err := time.Parse("02.01.2006", raw); err == nil {
		return DayKey(t)
	}

	return KeyInvalid
}

// isDayPrefix reports whether s is exactly a YYYY-MM-DD day string with
// in-range month and day components.
func isDayPrefix(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	month, _ := strconv.Atoi(s[5:7])
	day, _ := strconv.Atoi(s[8:10])
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// hasZone reports whether the layout carries timezone information.
func hasZone(layout string) bool {
	return strings.Contains(layout, "Z07")
}

// hasZoneSuffix reports whether the part after the date component
// carries an explicit UTC designator or offset.
func hasZoneSuffix(rest string) bool {
	return strings.ContainsAny(rest, "Z+-")
}
