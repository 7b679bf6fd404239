package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workbuddy/internal/core/model"
)

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := SettingsPath(filepath.Join(t.TempDir(), "WorkBuddy"))
	store := NewSettingsStore(path)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), again)
}

func TestSaveRoundTripsEditableFields(t *testing.T) {
	store := NewSettingsStore(SettingsPath(t.TempDir()))

	settings := model.DefaultSettings()
	settings.NotificationsEnabled = false
	settings.WorkDaysOnly = false
	settings.WorkStartTime = "08:30"
	settings.BreakInterval = 30 * time.Minute
	settings.Focus.SessionsUntilLongBreak = 3
	settings.RetentionDays = 7
	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadOverlaysPartialFile(t *testing.T) {
	path := SettingsPath(t.TempDir())
	content := "sound_enabled: false\nwork_end_time: \"7pm\"\nbreak_interval: 0\nhydration_interval: 60\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := NewSettingsStore(path).Load()
	require.NoError(t, err)

	defaults := model.DefaultSettings()
	assert.False(t, settings.SoundEnabled)
	assert.True(t, settings.NotificationsEnabled)
	assert.Equal(t, "7pm", settings.WorkEndTime)
	assert.Equal(t, model.MustTimeOfDay("18:00"), settings.WorkEndOrDefault())
	assert.Equal(t, defaults.BreakInterval, settings.BreakInterval)
	assert.Equal(t, time.Hour, settings.HydrationInterval)
}

func TestLoadCorruptFileReturnsDefaultsWithError(t *testing.T) {
	path := SettingsPath(t.TempDir())
	require.NoError(t, os.WriteFile(path, []byte("break_interval: [oops"), 0o644))

	settings, err := NewSettingsStore(path).Load()
	assert.Error(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}
