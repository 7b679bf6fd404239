package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// Duration renders seconds the way summaries and menus show them.
// Short form is "1h 5m" or "3m 20s". Long form is "1 hour and 5 minutes".
func Duration(seconds int64, short bool) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		if short {
			return fmt.Sprintf("%ds", seconds)
		}
		return fmt.Sprintf("%d %s", seconds, plural(seconds, "second"))
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if short {
		if hours > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		if secs > 0 {
			return fmt.Sprintf("%dm %ds", minutes, secs)
		}
		return fmt.Sprintf("%dm", minutes)
	}

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, plural(hours, "hour")))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", minutes, plural(minutes, "minute")))
	}
	// seconds only matter below an hour
	if secs > 0 && hours == 0 {
		parts = append(parts, fmt.Sprintf("%d %s", secs, plural(secs, "second")))
	}

	switch len(parts) {
	case 0:
		return "0 seconds"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

// Clock renders a countdown as MM:SS.
func Clock(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func plural(value int64, unit string) string {
	if value == 1 {
		return unit
	}
	return unit + "s"
}
