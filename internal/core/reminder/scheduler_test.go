package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workbuddy/internal/core/clock"
	"workbuddy/internal/core/model"
)

type presented struct {
	kind    model.ReminderKind
	payload Payload
}

type fakePresenter struct {
	mu       sync.Mutex
	calls    []presented
	err      error
	panicOn  model.ReminderKind
	blockOn  model.ReminderKind
	released chan struct{}
}

func (fake *fakePresenter) Present(_ context.Context, kind model.ReminderKind, payload Payload) (Response, error) {
	if fake.blockOn != "" && kind == fake.blockOn {
		<-fake.released
	}
	fake.mu.Lock()
	fake.calls = append(fake.calls, presented{kind: kind, payload: payload})
	err := fake.err
	fake.mu.Unlock()

	if fake.panicOn != "" && kind == fake.panicOn {
		panic("dialog exploded")
	}
	if err != nil {
		return ResponseNone, err
	}
	return ResponseAcknowledge, nil
}

func (fake *fakePresenter) count(kind model.ReminderKind) int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	total := 0
	for _, call := range fake.calls {
		if call.kind == kind {
			total++
		}
	}
	return total
}

func (fake *fakePresenter) last(kind model.ReminderKind) (Payload, bool) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for index := len(fake.calls) - 1; index >= 0; index-- {
		if fake.calls[index].kind == kind {
			return fake.calls[index].payload, true
		}
	}
	return Payload{}, false
}

type journalEntry struct {
	kind   model.ReminderKind
	sentAt time.Time
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []journalEntry
}

func (fake *fakeJournal) AppendReminderLog(_ context.Context, kind model.ReminderKind, sentAt time.Time) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.entries = append(fake.entries, journalEntry{kind: kind, sentAt: sentAt})
	return nil
}

func (fake *fakeJournal) of(kind model.ReminderKind) []time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	var times []time.Time
	for _, entry := range fake.entries {
		if entry.kind == kind {
			times = append(times, entry.sentAt)
		}
	}
	return times
}

type fakeSummaries struct {
	mu    sync.Mutex
	saved []model.DailySummary
	err   error
}

func (fake *fakeSummaries) DailySummary(_ context.Context, day time.Time, limit int) (model.DailySummary, error) {
	if fake.err != nil {
		return model.DailySummary{}, fake.err
	}
	return model.DailySummary{
		Date:         day.Format("2006-01-02"),
		TotalSeconds: 5400,
		TopApps:      []model.AppUsage{{AppName: "Editor", Seconds: 3600}, {AppName: "Browser", Seconds: 1800}}[:min(limit, 2)],
	}, nil
}

func (fake *fakeSummaries) SaveDailySummary(_ context.Context, summary model.DailySummary) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.saved = append(fake.saved, summary)
	return nil
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []model.Settings
	err   error
}

func (fake *fakeSaver) Save(settings model.Settings) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.saved = append(fake.saved, settings)
	return fake.err
}

type fakeIdle struct {
	idle time.Duration
}

func (fake fakeIdle) IdleDuration() (time.Duration, error) {
	return fake.idle, nil
}

type harness struct {
	scheduler *Scheduler
	clock     *clock.Manual
	presenter *fakePresenter
	journal   *fakeJournal
	summaries *fakeSummaries
	saver     *fakeSaver
}

func newHarness(start time.Time, settings model.Settings) *harness {
	h := &harness{
		clock:     clock.NewManual(start),
		presenter: &fakePresenter{},
		journal:   &fakeJournal{},
		summaries: &fakeSummaries{},
		saver:     &fakeSaver{},
	}
	h.scheduler = New(settings, Dependencies{
		Presenter: h.presenter,
		Journal:   h.journal,
		Summaries: h.summaries,
		Settings:  h.saver,
		Catalog:   NewCatalogWith(defaultContent(), 1),
		Clock:     h.clock,
	}, Config{TickInterval: time.Hour, IdleThreshold: 5 * time.Minute})
	return h
}

// advance moves the clock to target in steps, ticking at every step.
func (h *harness) advance(target time.Time, step time.Duration) {
	for now := h.clock.Now(); !now.After(target); now = now.Add(step) {
		h.clock.Set(now)
		h.scheduler.tick(now)
	}
	h.scheduler.Wait()
}

func tuesdayAt(hour, minute int) time.Time {
	return time.Date(2024, 3, 5, hour, minute, 0, 0, time.Local)
}

func TestStartArmsEveryKind(t *testing.T) {
	start := tuesdayAt(9, 0)
	h := newHarness(start, model.DefaultSettings())
	h.scheduler.Start()
	defer h.scheduler.Stop()
	h.scheduler.Start()

	status := h.scheduler.Status()
	assert.True(t, status.Running)
	assert.Equal(t, start, status.StartedAt)
	assert.ElementsMatch(t, model.ScheduledKinds(), status.Active)
	assert.Equal(t, start.Add(45*time.Minute), status.NextFire[model.KindBreak])
	assert.Equal(t, start.Add(20*time.Minute), status.NextFire[model.KindEyeStrain])
	assert.Equal(t, tuesdayAt(17, 0), status.NextFire[model.KindDailySummary])
	assert.True(t, status.IsWorkDay)
	assert.True(t, status.IsWorkHours)
}

func TestEligibleFiringPresentsOnWeekday(t *testing.T) {
	h := newHarness(tuesdayAt(9, 15), model.DefaultSettings())
	h.scheduler.Start()
	defer h.scheduler.Stop()

	h.clock.Set(tuesdayAt(10, 0))
	h.scheduler.tick(tuesdayAt(10, 0))
	h.scheduler.Wait()

	assert.Equal(t, 1, h.presenter.count(model.KindBreak))
	require.Len(t, h.journal.of(model.KindBreak), 1)

	payload, ok := h.presenter.last(model.KindBreak)
	require.True(t, ok)
	assert.Equal(t, "Break Time", payload.Title)
	assert.NotEmpty(t, payload.Message)
	assert.True(t, payload.Sound)
}

func TestIneligibleFiringIsSkippedOnWeekend(t *testing.T) {
	saturday := time.Date(2024, 3, 9, 9, 15, 0, 0, time.Local)
	h := newHarness(saturday, model.DefaultSettings())
	h.scheduler.Start()
	defer h.scheduler.Stop()

	fireAt := saturday.Add(45 * time.Minute)
	h.clock.Set(fireAt)
	h.scheduler.tick(fireAt)
	h.scheduler.Wait()

	assert.Zero(t, h.presenter.count(model.KindBreak))
	assert.Empty(t, h.journal.of(model.KindBreak))
	assert.Equal(t, fireAt.Add(45*time.Minute), h.scheduler.Status().NextFire[model.KindBreak])
}

func TestEveryFiringRearmsExactlyOnce(t *testing.T) {
	settings := model.DefaultSettings()
	settings.NotificationsEnabled = false
	h := newHarness(tuesdayAt(9, 0), settings)
	h.scheduler.Start()
	defer h.scheduler.Stop()

	for _, fireAt := range []time.Time{tuesdayAt(9, 45), tuesdayAt(10, 30), tuesdayAt(11, 15)} {
		h.clock.Set(fireAt)
		h.scheduler.tick(fireAt)

		status := h.scheduler.Status()
		assert.Len(t, status.Active, len(model.ScheduledKinds()))
		assert.Equal(t, fireAt.Add(45*time.Minute), status.NextFire[model.KindBreak])
	}
	h.scheduler.Wait()
	assert.Zero(t, h.presenter.count(model.KindBreak))
}

func TestLateTickDoesNotBacklog(t *testing.T) {
	h := newHarness(tuesdayAt(9, 0), model.DefaultSettings())
	h.scheduler.Start()
	defer h.scheduler.Stop()

	late := tuesdayAt(12, 0)
	h.clock.Set(late)
	h.scheduler.tick(late)
	h.scheduler.Wait()

	assert.Equal(t, 1, h.presenter.count(model.KindBreak))
	assert.Equal(t, late.Add(45*time.Minute), h.scheduler.Status().NextFire[model.KindBreak])
}

func TestDailySummaryFiresOncePerDay(t *testing.T) {
	settings := model.DefaultSettings()
	settings.DailySummaryTime = "17:00"
	monday := time.Date(2024, 3, 4, 8, 0, 0, 0, time.Local)
	h := newHarness(monday, settings)
	h.scheduler.Start()
	defer h.scheduler.Stop()

	h.advance(monday.AddDate(0, 0, 3).Add(-time.Minute), time.Minute)

	fired := h.journal.of(model.KindDailySummary)
	require.Len(t, fired, 3)
	seen := map[string]bool{}
	for _, at := range fired {
		day := at.Format("2006-01-02")
		assert.False(t, seen[day], "summary fired twice on %s", day)
		seen[day] = true
		assert.GreaterOrEqual(t, at.Hour(), 17)
	}
	assert.Equal(t, 3, h.presenter.count(model.KindDailySummary))
}

func TestDailySummaryPayloadUsesUsageData(t *testing.T) {
	start := tuesdayAt(16, 59)
	h := newHarness(start, model.DefaultSettings())
	h.scheduler.Start()
	defer h.scheduler.Stop()

	h.advance(tuesdayAt(17, 0), time.Minute)

	payload, ok := h.presenter.last(model.KindDailySummary)
	require.True(t, ok)
	require.NotNil(t, payload.Summary)
	assert.EqualValues(t, 5400, payload.Summary.TotalSeconds)
	assert.Contains(t, payload.Message, "1 hour and 30 minutes")
	assert.Contains(t, payload.Message, "1. Editor (1h 0m)")
	require.Len(t, h.summaries.saved, 1)
	assert.Equal(t, "2024-03-05", h.summaries.saved[0].Date)
}

func TestDailySummaryStillPresentsWhenQueryFails(t *testing.T) {
	h := newHarness(tuesdayAt(16, 59), model.DefaultSettings())
	h.summaries.err = errors.New("database locked")
	h.scheduler.Start()
	defer h.scheduler.Stop()

	h.advance(tuesdayAt(17, 0), time.Minute)

	payload, ok := h.presenter.last(model.KindDailySummary)
	require.True(t, ok)
	assert.Zero(t, payload.Summary.TotalSeconds)
	assert.Empty(t, h.summaries.saved)
}

func TestSettingsUpdateRestartsCadence(t *testing.T) {
	start := tuesdayAt(9, 0)
	h := newHarness(start, model.DefaultSettings())
	h.scheduler.Start()
	defer h.scheduler.Stop()

	updatedAt := h.clock.Advance(5 * time.Minute)
	interval := 10 * time.Minute
	require.NoError(t, h.scheduler.UpdateSettings(model.SettingsPatch{BreakInterval: &interval}))

	status := h.scheduler.Status()
	assert.Equal(t, updatedAt.Add(10*time.Minute), status.NextFire[model.KindBreak])
	assert.Equal(t, updatedAt, status.StartedAt)
	assert.Equal(t, interval, status.Settings.BreakInterval)
	require.Len(t, h.saver.saved, 1)
	assert.Equal(t, interval, h.saver.saved[0].BreakInterval)

	h.advance(updatedAt.Add(10*time.Minute), time.Minute)
	assert.Equal(t, 1, h.presenter.count(model.KindBreak))
}

func TestSettingsUpdateWhileStoppedOnlyPersists(t *testing.T) {
	h := newHarness(tuesdayAt(9, 0), model.DefaultSettings())
	h.saver.err = errors.New("read-only filesystem")

	enabled := false
	err := h.scheduler.UpdateSettings(model.SettingsPatch{NotificationsEnabled: &enabled})
	require.Error(t, err)

	assert.False(t, h.scheduler.Settings().NotificationsEnabled)
	assert.Empty(t, h.scheduler.Status().Active)
}

func TestPresenterFailureStillRearms(t *testing.T) {
	h := newHarness(tuesdayAt(9, 0), model.DefaultSettings())
	h.presenter.panicOn = model.KindEyeStrain
	h.presenter.err = errors.New("toast unavailable")
	h.scheduler.Start()
	defer h.scheduler.Stop()

	h.advance(tuesdayAt(9, 40), time.Minute)

	assert.Equal(t, 2, h.presenter.count(model.KindEyeStrain))
	assert.Equal(t, tuesdayAt(10, 0), h.scheduler.Status().NextFire[model.KindEyeStrain])
}

func TestBlockedPresentationDoesNotDelayOtherKinds(t *testing.T) {
	h := newHarness(tuesdayAt(9, 0), model.DefaultSettings())
	h.presenter.blockOn = model.KindEyeStrain
	h.presenter.released = make(chan struct{})
	h.scheduler.Start()
	defer h.scheduler.Stop()

	for now := tuesdayAt(9, 0); !now.After(tuesdayAt(9, 45)); now = now.Add(time.Minute) {
		h.clock.Set(now)
		h.scheduler.tick(now)
	}

	require.Eventually(t, func() bool {
		return h.presenter.count(model.KindBreak) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, h.presenter.count(model.KindEyeStrain))

	close(h.presenter.released)
	h.scheduler.Wait()
	assert.Equal(t, 2, h.presenter.count(model.KindEyeStrain))
}

func TestStopPreventsFurtherFirings(t *testing.T) {
	h := newHarness(tuesdayAt(9, 0), model.DefaultSettings())
	h.scheduler.Stop()
	h.scheduler.Start()
	h.scheduler.Stop()
	h.scheduler.Stop()

	h.clock.Set(tuesdayAt(12, 0))
	h.scheduler.tick(tuesdayAt(12, 0))
	h.scheduler.Wait()

	status := h.scheduler.Status()
	assert.False(t, status.Running)
	assert.Empty(t, status.Active)
	assert.Zero(t, h.presenter.count(model.KindBreak))
}

func TestIdleUserSkipsReminders(t *testing.T) {
	h := newHarness(tuesdayAt(9, 0), model.DefaultSettings())
	h.scheduler.SetIdleChecker(fakeIdle{idle: 10 * time.Minute})
	h.scheduler.Start()
	defer h.scheduler.Stop()

	h.advance(tuesdayAt(9, 45), time.Minute)
	assert.Zero(t, h.presenter.count(model.KindBreak))
	assert.Equal(t, tuesdayAt(10, 30), h.scheduler.Status().NextFire[model.KindBreak])

	paused := false
	require.NoError(t, h.scheduler.UpdateSettings(model.SettingsPatch{IdlePauseReminders: &paused}))
	h.advance(tuesdayAt(10, 30), time.Minute)
	assert.Equal(t, 1, h.presenter.count(model.KindBreak))
}

func TestTrigger(t *testing.T) {
	saturday := time.Date(2024, 3, 9, 10, 0, 0, 0, time.Local)
	h := newHarness(saturday, model.DefaultSettings())

	_, err := h.scheduler.Trigger("stretch", false)
	require.ErrorIs(t, err, ErrUnknownKind)

	shown, err := h.scheduler.Trigger(model.KindHydration, false)
	require.NoError(t, err)
	assert.False(t, shown)

	shown, err = h.scheduler.Trigger(model.KindHydration, true)
	require.NoError(t, err)
	assert.True(t, shown)

	h.scheduler.Wait()
	assert.Equal(t, 1, h.presenter.count(model.KindHydration))
	assert.Empty(t, h.scheduler.Status().Active)
}

type blockingIdle struct {
	entered chan struct{}
	release chan struct{}
}

func (fake *blockingIdle) IdleDuration() (time.Duration, error) {
	close(fake.entered)
	<-fake.release
	return 0, nil
}

func TestSlowIdleSignalDoesNotBlockStatus(t *testing.T) {
	h := newHarness(tuesdayAt(9, 0), model.DefaultSettings())
	checker := &blockingIdle{entered: make(chan struct{}), release: make(chan struct{})}
	h.scheduler.SetIdleChecker(checker)
	h.scheduler.Start()
	defer h.scheduler.Stop()

	ticked := make(chan struct{})
	go func() {
		defer close(ticked)
		h.scheduler.tick(tuesdayAt(9, 45))
	}()
	<-checker.entered

	statusDone := make(chan Status, 1)
	go func() { statusDone <- h.scheduler.Status() }()
	select {
	case status := <-statusDone:
		assert.True(t, status.Running)
	case <-time.After(time.Second):
		t.Fatal("status waited on the idle signal")
	}

	close(checker.release)
	<-ticked
	h.scheduler.Wait()
	assert.Equal(t, 1, h.presenter.count(model.KindBreak))
	assert.Equal(t, tuesdayAt(10, 30), h.scheduler.Status().NextFire[model.KindBreak])
}

func TestIdleSignalNotSampledWhenNothingIsDue(t *testing.T) {
	h := newHarness(tuesdayAt(9, 0), model.DefaultSettings())
	checker := &countingIdle{}
	h.scheduler.SetIdleChecker(checker)
	h.scheduler.Start()
	defer h.scheduler.Stop()

	h.scheduler.tick(tuesdayAt(9, 10))
	assert.Zero(t, checker.calls())

	h.scheduler.tick(tuesdayAt(9, 45))
	h.scheduler.Wait()
	assert.Equal(t, 1, checker.calls())
}

type countingIdle struct {
	mu    sync.Mutex
	count int
}

func (fake *countingIdle) IdleDuration() (time.Duration, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.count++
	return 0, nil
}

func (fake *countingIdle) calls() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.count
}
