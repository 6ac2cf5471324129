package dates

import (
	"fmt"
	"strconv"
	"strings"
)

// timeKind tags the variants of TimeValue.
type timeKind int

const (
	timeMissing timeKind = iota
	timeClock
	timeRawText
)

// TimeValue is a decoded due-time. The server may send a time as an
// "HH:MM:SS" string or as an {hour, minute, second} object; both are
// decoded into the Clock variant exactly once at the wire boundary.
// Text that cannot be read as a clock time is kept verbatim as RawText
// so it can still be displayed instead of being dropped.
type TimeValue struct {
	kind   timeKind
	hour   int
	minute int
	second int
	raw    string
}

// MissingTime returns the absent-time value.
func MissingTime() TimeValue {
	return TimeValue{}
}

// Clock returns a TimeValue for a concrete time of day.
func Clock(hour, minute, second int) TimeValue {
	return TimeValue{kind: timeClock, hour: hour, minute: minute, second: second}
}

// RawText returns a TimeValue that preserves unparseable source text.
func RawText(s string) TimeValue {
	return TimeValue{kind: timeRawText, raw: s}
}

// ParseClock decodes "HH:MM" or "HH:MM:SS" text. Out-of-range or
// malformed input is preserved as RawText; empty input is Missing.
func ParseClock(s string) TimeValue {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return MissingTime()
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return RawText(trimmed)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return RawText(trimmed)
		}
		nums[i] = n
	}

	second := 0
	if len(nums) == 3 {
		second = nums[2]
	}
	if nums[0] > 23 || nums[1] > 59 || second > 59 {
		return RawText(trimmed)
	}
	return Clock(nums[0], nums[1], second)
}

// IsMissing reports whether no time was provided.
func (v TimeValue) IsMissing() bool { return v.kind == timeMissing }

// ClockParts returns the hour/minute/second components and whether the
// value is a concrete clock time.
func (v TimeValue) ClockParts() (hour, minute, second int, ok bool) {
	if v.kind != timeClock {
		return 0, 0, 0, false
	}
	return v.hour, v.minute, v.second, true
}

// Display renders the value for the UI: "HH:MM" for clock times, the
// original text for raw values, and "" when missing.
func (v TimeValue) Display() string {
	switch v.kind {
	case timeClock:
		return fmt.Sprintf("%02d:%02d", v.hour, v.minute)
	case timeRawText:
		return v.raw
	default:
		return ""
	}
}

// Wire renders the value for transmission, normalized to "HH:MM:SS".
// Missing and raw values produce "" and the caller omits the field.
func (v TimeValue) Wire() string {
	if v.kind != timeClock {
		return ""
	}
	return fmt.Sprintf("%02d:%02d:%02d", v.hour, v.minute, v.second)
}
