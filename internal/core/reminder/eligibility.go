package reminder

import (
	"time"

	"workbuddy/internal/core/model"
)

// IsWorkDay reports whether now falls on an allowed day. Without the
// work-days-only restriction every day is allowed.
func IsWorkDay(settings model.Settings, now time.Time) bool {
	if !settings.WorkDaysOnly {
		return true
	}
	weekday := now.Weekday()
	return weekday != time.Saturday && weekday != time.Sunday
}

// IsWorkHours reports whether now lies within [work start, work end].
func IsWorkHours(settings model.Settings, now time.Time) bool {
	current := model.TimeOfDayOf(now).SecondsOfDay()
	start := settings.WorkStartOrDefault().SecondsOfDay()
	end := settings.WorkEndOrDefault().SecondsOfDay()
	return start <= current && current <= end
}

// Eligible is the gate every rolling reminder passes before it is presented.
func Eligible(settings model.Settings, now time.Time) bool {
	return settings.NotificationsEnabled && IsWorkDay(settings, now) && IsWorkHours(settings, now)
}

// NextDailyFire returns tod today if it is still ahead of now, otherwise tod tomorrow.
func NextDailyFire(now time.Time, tod model.TimeOfDay) time.Time {
	target := tod.On(now)
	if target.After(now) {
		return target
	}
	return tod.On(now.AddDate(0, 0, 1))
}
