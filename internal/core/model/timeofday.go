package model

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

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: want HH:MM", value)
	}

	fields := make([]int, 3)
	limits := []int{23, 59, 59}
	for index, part := range parts {
		if len(part) != 2 {
			return TimeOfDay{}, fmt.Errorf("parse time of day %q: want two digits per field", value)
		}
		parsed, err := strconv.Atoi(part)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", value, err)
		}
		if parsed < 0 || parsed > limits[index] {
			return TimeOfDay{}, fmt.Errorf("parse time of day %q: field out of range", value)
		}
		fields[index] = parsed
	}

	return TimeOfDay{Hour: fields[0], Minute: fields[1], Second: fields[2]}, nil
}

// MustTimeOfDay parses value or panics. Used for built-in defaults only.
func MustTimeOfDay(value string) TimeOfDay {
	parsed, err := ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

// TimeOfDayOf extracts the time of day from t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// SecondsOfDay returns the offset from midnight in seconds.
func (tod TimeOfDay) SecondsOfDay() int {
	return tod.Hour*3600 + tod.Minute*60 + tod.Second
}

// On returns the instant at tod on the calendar day of day, in day's location.
func (tod TimeOfDay) On(day time.Time) time.Time {
	year, month, date := day.Date()
	return time.Date(year, month, date, tod.Hour, tod.Minute, tod.Second, 0, day.Location())
}

// String formats as HH:MM, adding seconds only when set.
func (tod TimeOfDay) String() string {
	if tod.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", tod.Hour, tod.Minute, tod.Second)
	}
	return fmt.Sprintf("%02d:%02d", tod.Hour, tod.Minute)
}
