package app

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workbuddy/internal/core/clock"
	"workbuddy/internal/core/model"
	"workbuddy/internal/core/reminder"
	"workbuddy/internal/storage"
)

type fixedIdentity struct{}

func (fixedIdentity) ActiveIdentity() (string, error) { return "code (main.go)", nil }

type fixedIdle struct{}

func (fixedIdle) IdleDuration() (time.Duration, error) { return 0, nil }

type recordingPresenter struct {
	mu    sync.Mutex
	kinds []model.ReminderKind
}

func (presenter *recordingPresenter) Present(_ context.Context, kind model.ReminderKind, _ reminder.Payload) (reminder.Response, error) {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	presenter.kinds = append(presenter.kinds, kind)
	return reminder.ResponseAcknowledge, nil
}

func (presenter *recordingPresenter) presented() []model.ReminderKind {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	return append([]model.ReminderKind(nil), presenter.kinds...)
}

func newTestApp(t *testing.T, dataDir string, presenter reminder.Presenter) *App {
	t.Helper()
	core, err := New(context.Background(), Options{
		DataDir:   dataDir,
		Out:       &bytes.Buffer{},
		Clock:     clock.NewManual(time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)),
		Presenter: presenter,
		Identity:  fixedIdentity{},
		Idle:      fixedIdle{},
	})
	require.NoError(t, err)
	return core
}

func TestNewCreatesSettingsAndDatabase(t *testing.T) {
	dataDir := t.TempDir()
	core := newTestApp(t, dataDir, &recordingPresenter{})
	defer core.Close()

	_, err := os.Stat(storage.SettingsPath(dataDir))
	require.NoError(t, err)
	_, err = os.Stat(storage.DatabasePath(dataDir))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings().BreakInterval, core.Scheduler.Settings().BreakInterval)
}

func TestNewFallsBackToDefaultsOnBrokenSettings(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(storage.SettingsPath(dataDir), []byte("break_interval: [oops"), 0o644))

	core := newTestApp(t, dataDir, &recordingPresenter{})
	defer core.Close()

	assert.Equal(t, model.DefaultSettings().BreakInterval, core.Scheduler.Settings().BreakInterval)
}

func TestTriggerIsJournaledInReport(t *testing.T) {
	presenter := &recordingPresenter{}
	core := newTestApp(t, t.TempDir(), presenter)
	defer core.Close()

	shown, err := core.Scheduler.Trigger(model.KindHydration, true)
	require.NoError(t, err)
	require.True(t, shown)
	core.Scheduler.Wait()

	assert.Equal(t, []model.ReminderKind{model.KindHydration}, presenter.presented())

	report, err := core.Report(context.Background(), time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Reminders[model.KindHydration])
}

func TestReportRendersRecordedData(t *testing.T) {
	core := newTestApp(t, t.TempDir(), &recordingPresenter{})
	defer core.Close()

	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)
	_, err := core.Database.AppendSession(ctx, model.Session{
		AppIdentity:     "firefox",
		StartTime:       start,
		EndTime:         start.Add(30 * time.Minute),
		DurationSeconds: 1800,
	})
	require.NoError(t, err)
	require.NoError(t, core.Database.LogEnergy(ctx, 7, "after lunch", start.Add(4*time.Hour)))

	report, err := core.Report(ctx, start)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", report.Date)
	assert.EqualValues(t, 1800, report.Total)
	require.Len(t, report.Usage, 1)
	assert.Equal(t, 1, report.Energy.Entries)

	var out bytes.Buffer
	require.NoError(t, WriteReport(&out, report))
	assert.Contains(t, out.String(), "WorkBuddy report for 2024-03-04")
	assert.Contains(t, out.String(), "firefox")
	assert.Contains(t, out.String(), "30 minutes")
	assert.Contains(t, out.String(), "No reminders sent.")
	assert.Contains(t, out.String(), "No focus sessions.")
}

func TestWriteFocusStats(t *testing.T) {
	var out bytes.Buffer
	WriteFocusStats(&out, model.FocusStats{
		TotalSessions:       3,
		CompletedSessions:   2,
		TotalFocusSeconds:   3000,
		AverageFocusSeconds: 1000,
	})
	assert.Equal(t, "    2 of 3 sessions completed\n    50 minutes focused, 16m 40s on average\n", out.String())
}

func TestReportIncludesSavedSummary(t *testing.T) {
	core := newTestApp(t, t.TempDir(), &recordingPresenter{})
	defer core.Close()

	ctx := context.Background()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)

	report, err := core.Report(ctx, day)
	require.NoError(t, err)
	assert.Nil(t, report.Saved)

	require.NoError(t, core.Database.SaveDailySummary(ctx, model.DailySummary{
		Date:         "2024-03-04",
		TotalSeconds: 3600,
		TopApps:      []model.AppUsage{{AppName: "firefox", Seconds: 2400}, {AppName: "code", Seconds: 1200}},
	}))

	report, err = core.Report(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, report.Saved)
	assert.EqualValues(t, 3600, report.Saved.TotalSeconds)
	assert.Len(t, report.Saved.TopApps, 2)

	var out bytes.Buffer
	require.NoError(t, WriteReport(&out, report))
	assert.Contains(t, out.String(), "saved with 1 hour across 2 apps")
}

func TestShutdownHooksRunBeforeDatabaseCloses(t *testing.T) {
	core := newTestApp(t, t.TempDir(), &recordingPresenter{})
	core.Start(context.Background())

	ctx := context.Background()
	var order []string
	core.OnShutdown(func() {
		order = append(order, "first")
		assert.NoError(t, core.Database.LogEnergy(ctx, 5, "", time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)))
	})
	core.OnShutdown(func() { order = append(order, "second") })

	require.NoError(t, core.Shutdown())
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Error(t, core.Database.LogEnergy(ctx, 5, "", time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)))
}
