package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SettingsPatch carries a partial settings update. Nil fields are untouched.
type SettingsPatch struct {
	NotificationsEnabled *bool
	SoundEnabled         *bool
	WorkDaysOnly         *bool
	IdlePauseReminders   *bool
	WorkStartTime        *string
	WorkEndTime          *string
	DailySummaryTime     *string
	BreakInterval        *time.Duration
	HydrationInterval    *time.Duration
	InspirationInterval  *time.Duration
}

// PatchFrom builds a patch that overwrites every user-editable field.
func PatchFrom(settings Settings) SettingsPatch {
	return SettingsPatch{
		NotificationsEnabled: &settings.NotificationsEnabled,
		SoundEnabled:         &settings.SoundEnabled,
		WorkDaysOnly:         &settings.WorkDaysOnly,
		IdlePauseReminders:   &settings.IdlePauseReminders,
		WorkStartTime:        &settings.WorkStartTime,
		WorkEndTime:          &settings.WorkEndTime,
		DailySummaryTime:     &settings.DailySummaryTime,
		BreakInterval:        &settings.BreakInterval,
		HydrationInterval:    &settings.HydrationInterval,
		InspirationInterval:  &settings.InspirationInterval,
	}
}

// ParsePatch converts key=value pairs, keyed like the settings file, into a patch.
// Interval values are minutes.
func ParsePatch(pairs []string) (SettingsPatch, error) {
	var patch SettingsPatch
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return SettingsPatch{}, fmt.Errorf("parse setting %q: want key=value", pair)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "notifications_enabled", "sound_enabled", "work_days_only", "idle_pause_reminders":
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return SettingsPatch{}, fmt.Errorf("parse setting %s: %w", key, err)
			}
			switch key {
			case "notifications_enabled":
				patch.NotificationsEnabled = &parsed
			case "sound_enabled":
				patch.SoundEnabled = &parsed
			case "work_days_only":
				patch.WorkDaysOnly = &parsed
			default:
				patch.IdlePauseReminders = &parsed
			}
		case "work_start_time", "work_end_time", "daily_summary_time":
			if _, err := ParseTimeOfDay(value); err != nil {
				return SettingsPatch{}, fmt.Errorf("parse setting %s: %w", key, err)
			}
			text := value
			switch key {
			case "work_start_time":
				patch.WorkStartTime = &text
			case "work_end_time":
				patch.WorkEndTime = &text
			default:
				patch.DailySummaryTime = &text
			}
		case "break_interval", "hydration_interval", "inspiration_interval":
			minutes, err := strconv.Atoi(value)
			if err != nil || minutes <= 0 {
				return SettingsPatch{}, fmt.Errorf("parse setting %s: want positive minutes, got %q", key, value)
			}
			interval := time.Duration(minutes) * time.Minute
			switch key {
			case "break_interval":
				patch.BreakInterval = &interval
			case "hydration_interval":
				patch.HydrationInterval = &interval
			default:
				patch.InspirationInterval = &interval
			}
		default:
			return SettingsPatch{}, fmt.Errorf("unknown setting %q", key)
		}
	}
	return patch, nil
}
