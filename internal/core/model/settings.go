package model

import "time"

const (
	DefaultWorkStart        = "09:00"
	DefaultWorkEnd          = "18:00"
	DefaultDailySummaryTime = "17:00"
)

// TrackerConfig controls foreground-window session tracking.
type TrackerConfig struct {
	PollInterval  time.Duration
	IdleThreshold time.Duration
	MinDuration   time.Duration
}

// FocusConfig holds Pomodoro lengths.
type FocusConfig struct {
	FocusDuration          time.Duration
	ShortBreakDuration     time.Duration
	LongBreakDuration      time.Duration
	SessionsUntilLongBreak int
}

// Settings is the process-wide user configuration.
//
// Time-of-day fields keep the text the user wrote. Readers go through the
// *OrDefault helpers so a malformed value only affects the evaluation that
// reads it.
type Settings struct {
	NotificationsEnabled bool
	SoundEnabled         bool
	WorkDaysOnly         bool
	IdlePauseReminders   bool

	WorkStartTime    string
	WorkEndTime      string
	DailySummaryTime string

	BreakInterval       time.Duration
	HydrationInterval   time.Duration
	InspirationInterval time.Duration

	Tracker TrackerConfig
	Focus   FocusConfig

	RetentionDays int
}

// DefaultSettings returns built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		SoundEnabled:         true,
		WorkDaysOnly:         true,
		IdlePauseReminders:   true,
		WorkStartTime:        DefaultWorkStart,
		WorkEndTime:          DefaultWorkEnd,
		DailySummaryTime:     DefaultDailySummaryTime,
		BreakInterval:        45 * time.Minute,
		HydrationInterval:    120 * time.Minute,
		InspirationInterval:  180 * time.Minute,
		Tracker: TrackerConfig{
			PollInterval:  5 * time.Second,
			IdleThreshold: 300 * time.Second,
			MinDuration:   time.Second,
		},
		Focus: FocusConfig{
			FocusDuration:          25 * time.Minute,
			ShortBreakDuration:     5 * time.Minute,
			LongBreakDuration:      15 * time.Minute,
			SessionsUntilLongBreak: 4,
		},
		RetentionDays: 30,
	}
}

// WorkStartOrDefault parses WorkStartTime, falling back to the default.
func (settings Settings) WorkStartOrDefault() TimeOfDay {
	return parseOr(settings.WorkStartTime, DefaultWorkStart)
}

// WorkEndOrDefault parses WorkEndTime, falling back to the default.
func (settings Settings) WorkEndOrDefault() TimeOfDay {
	return parseOr(settings.WorkEndTime, DefaultWorkEnd)
}

// DailySummaryOrDefault parses DailySummaryTime, falling back to the default.
func (settings Settings) DailySummaryOrDefault() TimeOfDay {
	return parseOr(settings.DailySummaryTime, DefaultDailySummaryTime)
}

// IntervalFor returns the rolling cadence of kind. Kinds that fire at a fixed
// clock time, or are not scheduled, return zero.
func (settings Settings) IntervalFor(kind ReminderKind) time.Duration {
	defaults := DefaultSettings()
	switch kind {
	case KindBreak:
		return positiveOr(settings.BreakInterval, defaults.BreakInterval)
	case KindHydration:
		return positiveOr(settings.HydrationInterval, defaults.HydrationInterval)
	case KindInspiration:
		return positiveOr(settings.InspirationInterval, defaults.InspirationInterval)
	case KindEyeStrain:
		return EyeStrainInterval
	case KindPosture:
		return PostureInterval
	case KindMoodCheckin:
		return MoodCheckinInterval
	default:
		return 0
	}
}

// Apply returns a copy of settings with every non-nil patch field written.
func (settings Settings) Apply(patch SettingsPatch) Settings {
	if patch.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.SoundEnabled != nil {
		settings.SoundEnabled = *patch.SoundEnabled
	}
	if patch.WorkDaysOnly != nil {
		settings.WorkDaysOnly = *patch.WorkDaysOnly
	}
	if patch.IdlePauseReminders != nil {
		settings.IdlePauseReminders = *patch.IdlePauseReminders
	}
	if patch.WorkStartTime != nil {
		settings.WorkStartTime = *patch.WorkStartTime
	}
	if patch.WorkEndTime != nil {
		settings.WorkEndTime = *patch.WorkEndTime
	}
	if patch.DailySummaryTime != nil {
		settings.DailySummaryTime = *patch.DailySummaryTime
	}
	if patch.BreakInterval != nil && *patch.BreakInterval > 0 {
		settings.BreakInterval = *patch.BreakInterval
	}
	if patch.HydrationInterval != nil && *patch.HydrationInterval > 0 {
		settings.HydrationInterval = *patch.HydrationInterval
	}
	if patch.InspirationInterval != nil && *patch.InspirationInterval > 0 {
		settings.InspirationInterval = *patch.InspirationInterval
	}
	return settings
}

func parseOr(value, fallback string) TimeOfDay {
	parsed, err := ParseTimeOfDay(value)
	if err != nil {
		return MustTimeOfDay(fallback)
	}
	return parsed
}

func positiveOr(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
