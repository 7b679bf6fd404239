package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"workbuddy/internal/core/model"
)

// SettingsFileName is the name of the YAML preferences file.
const SettingsFileName = "settings.yaml"

type yamlSettings struct {
	NotificationsEnabled *bool       `yaml:"notifications_enabled"`
	SoundEnabled         *bool       `yaml:"sound_enabled"`
	WorkDaysOnly         *bool       `yaml:"work_days_only"`
	IdlePauseReminders   *bool       `yaml:"idle_pause_reminders"`
	WorkStartTime        string      `yaml:"work_start_time"`
	WorkEndTime          string      `yaml:"work_end_time"`
	DailySummaryTime     string      `yaml:"daily_summary_time"`
	BreakInterval        int         `yaml:"break_interval"`
	HydrationInterval    int         `yaml:"hydration_interval"`
	InspirationInterval  int         `yaml:"inspiration_interval"`
	Tracker              yamlTracker `yaml:"tracker"`
	Focus                yamlFocus   `yaml:"focus"`
	DataRetentionDays    int         `yaml:"data_retention_days"`
}

type yamlTracker struct {
	PollIntervalSeconds  int `yaml:"poll_interval_seconds"`
	IdleThresholdSeconds int `yaml:"idle_threshold_seconds"`
	MinSessionSeconds    int `yaml:"min_session_seconds"`
}

type yamlFocus struct {
	FocusMinutes           int `yaml:"focus_minutes"`
	ShortBreakMinutes      int `yaml:"short_break_minutes"`
	LongBreakMinutes       int `yaml:"long_break_minutes"`
	SessionsUntilLongBreak int `yaml:"sessions_until_long_break"`
}

// SettingsStore reads and writes user preferences as YAML.
type SettingsStore struct {
	mu   sync.Mutex
	path string
}

// NewSettingsStore returns a store backed by the file at path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// SettingsPath returns the settings file location inside dataDir.
func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, SettingsFileName)
}

// Path returns the backing file.
func (store *SettingsStore) Path() string {
	return store.path
}

// Load reads user preferences. A missing file is created with defaults.
// On any other failure the defaults are returned together with the error.
func (store *SettingsStore) Load() (model.Settings, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	settings := model.DefaultSettings()
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, store.writeLocked(settings)
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// Save writes user preferences to YAML.
func (store *SettingsStore) Save(settings model.Settings) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.writeLocked(settings)
}

func (store *SettingsStore) writeLocked(settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(toYamlSettings(settings))
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

func toYamlSettings(settings model.Settings) yamlSettings {
	return yamlSettings{
		NotificationsEnabled: &settings.NotificationsEnabled,
		SoundEnabled:         &settings.SoundEnabled,
		WorkDaysOnly:         &settings.WorkDaysOnly,
		IdlePauseReminders:   &settings.IdlePauseReminders,
		WorkStartTime:        settings.WorkStartTime,
		WorkEndTime:          settings.WorkEndTime,
		DailySummaryTime:     settings.DailySummaryTime,
		BreakInterval:        int(settings.BreakInterval / time.Minute),
		HydrationInterval:    int(settings.HydrationInterval / time.Minute),
		InspirationInterval:  int(settings.InspirationInterval / time.Minute),
		Tracker: yamlTracker{
			PollIntervalSeconds:  int(settings.Tracker.PollInterval / time.Second),
			IdleThresholdSeconds: int(settings.Tracker.IdleThreshold / time.Second),
			MinSessionSeconds:    int(settings.Tracker.MinDuration / time.Second),
		},
		Focus: yamlFocus{
			FocusMinutes:           int(settings.Focus.FocusDuration / time.Minute),
			ShortBreakMinutes:      int(settings.Focus.ShortBreakDuration / time.Minute),
			LongBreakMinutes:       int(settings.Focus.LongBreakDuration / time.Minute),
			SessionsUntilLongBreak: settings.Focus.SessionsUntilLongBreak,
		},
		DataRetentionDays: settings.RetentionDays,
	}
}

// applyYamlSettings overlays file values on defaults. Missing or
// non-positive numbers keep the default. Time-of-day text is kept as written.
func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	applyBool(&settings.NotificationsEnabled, fileData.NotificationsEnabled)
	applyBool(&settings.SoundEnabled, fileData.SoundEnabled)
	applyBool(&settings.WorkDaysOnly, fileData.WorkDaysOnly)
	applyBool(&settings.IdlePauseReminders, fileData.IdlePauseReminders)

	applyText(&settings.WorkStartTime, fileData.WorkStartTime)
	applyText(&settings.WorkEndTime, fileData.WorkEndTime)
	applyText(&settings.DailySummaryTime, fileData.DailySummaryTime)

	applyDuration(&settings.BreakInterval, fileData.BreakInterval, time.Minute)
	applyDuration(&settings.HydrationInterval, fileData.HydrationInterval, time.Minute)
	applyDuration(&settings.InspirationInterval, fileData.InspirationInterval, time.Minute)

	applyDuration(&settings.Tracker.PollInterval, fileData.Tracker.PollIntervalSeconds, time.Second)
	applyDuration(&settings.Tracker.IdleThreshold, fileData.Tracker.IdleThresholdSeconds, time.Second)
	applyDuration(&settings.Tracker.MinDuration, fileData.Tracker.MinSessionSeconds, time.Second)

	applyDuration(&settings.Focus.FocusDuration, fileData.Focus.FocusMinutes, time.Minute)
	applyDuration(&settings.Focus.ShortBreakDuration, fileData.Focus.ShortBreakMinutes, time.Minute)
	applyDuration(&settings.Focus.LongBreakDuration, fileData.Focus.LongBreakMinutes, time.Minute)
	if fileData.Focus.SessionsUntilLongBreak > 0 {
		settings.Focus.SessionsUntilLongBreak = fileData.Focus.SessionsUntilLongBreak
	}

	if fileData.DataRetentionDays > 0 {
		settings.RetentionDays = fileData.DataRetentionDays
	}
}

func applyBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func applyText(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func applyDuration(target *time.Duration, value int, unit time.Duration) {
	if value > 0 {
		*target = time.Duration(value) * unit
	}
}
