package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"workbuddy/internal/core/model"
)

// Values are the editable preferences as the form shows them.
type Values struct {
	NotificationsEnabled bool
	SoundEnabled         bool
	WorkDaysOnly         bool
	IdlePauseReminders   bool

	WorkStart    string
	WorkEnd      string
	DailySummary string

	BreakMinutes       string
	HydrationMinutes   string
	InspirationMinutes string
}

// ValuesFrom fills the form from settings.
func ValuesFrom(settings model.Settings) Values {
	return Values{
		NotificationsEnabled: settings.NotificationsEnabled,
		SoundEnabled:         settings.SoundEnabled,
		WorkDaysOnly:         settings.WorkDaysOnly,
		IdlePauseReminders:   settings.IdlePauseReminders,
		WorkStart:            settings.WorkStartTime,
		WorkEnd:              settings.WorkEndTime,
		DailySummary:         settings.DailySummaryTime,
		BreakMinutes:         minutes(settings.BreakInterval),
		HydrationMinutes:     minutes(settings.HydrationInterval),
		InspirationMinutes:   minutes(settings.InspirationInterval),
	}
}

// Patch validates the form and converts it to a settings patch.
func (values Values) Patch() (model.SettingsPatch, error) {
	pairs := []string{
		"notifications_enabled=" + strconv.FormatBool(values.NotificationsEnabled),
		"sound_enabled=" + strconv.FormatBool(values.SoundEnabled),
		"work_days_only=" + strconv.FormatBool(values.WorkDaysOnly),
		"idle_pause_reminders=" + strconv.FormatBool(values.IdlePauseReminders),
		"work_start_time=" + strings.TrimSpace(values.WorkStart),
		"work_end_time=" + strings.TrimSpace(values.WorkEnd),
		"daily_summary_time=" + strings.TrimSpace(values.DailySummary),
		"break_interval=" + strings.TrimSpace(values.BreakMinutes),
		"hydration_interval=" + strings.TrimSpace(values.HydrationMinutes),
		"inspiration_interval=" + strings.TrimSpace(values.InspirationMinutes),
	}
	patch, err := model.ParsePatch(pairs)
	if err != nil {
		return model.SettingsPatch{}, fmt.Errorf("invalid preferences: %w", err)
	}

	start, _ := model.ParseTimeOfDay(*patch.WorkStartTime)
	end, _ := model.ParseTimeOfDay(*patch.WorkEndTime)
	if end.SecondsOfDay() < start.SecondsOfDay() {
		return model.SettingsPatch{}, fmt.Errorf("invalid preferences: work day ends at %s before it starts at %s", end, start)
	}
	return patch, nil
}

func minutes(interval time.Duration) string {
	return strconv.Itoa(int(interval / time.Minute))
}
