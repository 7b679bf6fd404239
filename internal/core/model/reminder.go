package model

import (
	"fmt"
	"time"
)

// ReminderKind names one category of periodic wellness prompt.
type ReminderKind string

const (
	KindBreak         ReminderKind = "break"
	KindHydration     ReminderKind = "hydration"
	KindInspiration   ReminderKind = "inspiration"
	KindEyeStrain     ReminderKind = "eye_strain"
	KindPosture       ReminderKind = "posture"
	KindMoodCheckin   ReminderKind = "mood_checkin"
	KindDailySummary  ReminderKind = "daily_summary"
	KindFocusComplete ReminderKind = "focus_complete"
)

// Fixed cadences for kinds without a user setting.
const (
	EyeStrainInterval   = 20 * time.Minute
	PostureInterval     = 60 * time.Minute
	MoodCheckinInterval = 4 * time.Hour
)

var scheduledKinds = []ReminderKind{
	KindBreak,
	KindHydration,
	KindInspiration,
	KindDailySummary,
	KindEyeStrain,
	KindPosture,
	KindMoodCheckin,
}

// ScheduledKinds returns every kind the reminder scheduler arms, in start order.
func ScheduledKinds() []ReminderKind {
	return append([]ReminderKind(nil), scheduledKinds...)
}

// IsScheduled reports whether kind runs on a timer.
func (kind ReminderKind) IsScheduled() bool {
	for _, candidate := range scheduledKinds {
		if candidate == kind {
			return true
		}
	}
	return false
}

// Valid reports whether kind is known at all, scheduled or not.
func (kind ReminderKind) Valid() bool {
	return kind.IsScheduled() || kind == KindFocusComplete
}

// ParseReminderKind converts user input into a ReminderKind.
func ParseReminderKind(value string) (ReminderKind, error) {
	kind := ReminderKind(value)
	if !kind.Valid() {
		return "", fmt.Errorf("unknown reminder kind %q", value)
	}
	return kind, nil
}
