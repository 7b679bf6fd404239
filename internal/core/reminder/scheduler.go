package reminder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"workbuddy/internal/core/clock"
	"workbuddy/internal/core/model"
)

// ErrUnknownKind is returned for reminder kinds the scheduler does not know.
var ErrUnknownKind = errors.New("unknown reminder kind")

const (
	summaryTopApps = 3
	journalTimeout = 5 * time.Second
)

// Presenter shows a reminder to the user. It may block until dismissed.
type Presenter interface {
	Present(ctx context.Context, kind model.ReminderKind, payload Payload) (Response, error)
}

// Journal records that a reminder was presented.
type Journal interface {
	AppendReminderLog(ctx context.Context, kind model.ReminderKind, sentAt time.Time) error
}

// SummarySource supplies and stores the daily usage summary.
type SummarySource interface {
	DailySummary(ctx context.Context, day time.Time, limit int) (model.DailySummary, error)
	SaveDailySummary(ctx context.Context, summary model.DailySummary) error
}

// SettingsSaver persists settings after an update.
type SettingsSaver interface {
	Save(settings model.Settings) error
}

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Dependencies are the scheduler's collaborators. Only Presenter is required.
type Dependencies struct {
	Presenter Presenter
	Journal   Journal
	Summaries SummarySource
	Settings  SettingsSaver
	Catalog   *Catalog
	Clock     clock.Clock
	Logger    hclog.Logger
}

// Config contains runtime options for the Scheduler.
type Config struct {
	TickInterval  time.Duration
	IdleThreshold time.Duration
}

// Status is a snapshot of the scheduler.
type Status struct {
	Running     bool
	StartedAt   time.Time
	Active      []model.ReminderKind
	NextFire    map[model.ReminderKind]time.Time
	Settings    model.Settings
	IsWorkHours bool
	IsWorkDay   bool
}

// Scheduler fires every reminder kind on its own cadence. One loop owns a
// kind -> next-fire-time table. A due kind is gated, dispatched on its own
// goroutine and re-armed in the same step.
type Scheduler struct {
	mu        sync.Mutex
	settings  model.Settings
	options   Config
	deps      Dependencies
	clock     clock.Clock
	logger    hclog.Logger
	idle      IdleChecker
	next      map[model.ReminderKind]time.Time
	running   bool
	startedAt time.Time
	stopCh    chan struct{}
	doneCh    chan struct{}
	inflight  sync.WaitGroup
}

// New creates a Scheduler holding settings as its configuration value.
func New(settings model.Settings, deps Dependencies, options Config) *Scheduler {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.IdleThreshold <= 0 {
		options.IdleThreshold = model.DefaultSettings().Tracker.IdleThreshold
	}
	if deps.Catalog == nil {
		deps.Catalog = NewCatalog()
	}
	logger := deps.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Scheduler{
		settings: settings,
		options:  options,
		deps:     deps,
		clock:    clock.OrSystem(deps.Clock),
		logger:   logger.Named("scheduler"),
		next:     make(map[model.ReminderKind]time.Time),
	}
}

// SetIdleChecker enables skipping reminders while the user is away.
func (scheduler *Scheduler) SetIdleChecker(checker IdleChecker) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.idle = checker
}

// Start arms every scheduled kind and launches the loop. No-op when running.
func (scheduler *Scheduler) Start() {
	scheduler.mu.Lock()
	if scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	now := scheduler.clock.Now()
	scheduler.running = true
	scheduler.startedAt = now
	scheduler.armAllLocked(now)
	scheduler.stopCh = make(chan struct{})
	scheduler.doneCh = make(chan struct{})
	stopCh, doneCh := scheduler.stopCh, scheduler.doneCh
	scheduler.mu.Unlock()

	scheduler.logger.Info("reminders started", "at", now.Format("15:04:05"))
	go scheduler.run(stopCh, doneCh)
}

// Stop cancels every armed timer. Presentations already dispatched run to
// completion, but nothing fires after Stop returns.
func (scheduler *Scheduler) Stop() {
	scheduler.mu.Lock()
	if !scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	scheduler.running = false
	scheduler.next = make(map[model.ReminderKind]time.Time)
	close(scheduler.stopCh)
	doneCh := scheduler.doneCh
	scheduler.mu.Unlock()

	<-doneCh
	scheduler.logger.Info("reminders stopped")
}

// Wait blocks until every dispatched presentation has returned.
func (scheduler *Scheduler) Wait() {
	scheduler.inflight.Wait()
}

// Settings returns the active settings value.
func (scheduler *Scheduler) Settings() model.Settings {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.settings
}

// UpdateSettings merges patch into the settings and persists them. A running
// scheduler re-arms every kind from now so new intervals apply at once.
func (scheduler *Scheduler) UpdateSettings(patch model.SettingsPatch) error {
	scheduler.mu.Lock()
	scheduler.settings = scheduler.settings.Apply(patch)
	snapshot := scheduler.settings
	restarted := scheduler.running
	if restarted {
		now := scheduler.clock.Now()
		scheduler.startedAt = now
		scheduler.armAllLocked(now)
	}
	scheduler.mu.Unlock()

	if restarted {
		scheduler.logger.Info("reminders restarted with new settings")
	}
	if scheduler.deps.Settings == nil {
		return nil
	}
	if err := scheduler.deps.Settings.Save(snapshot); err != nil {
		scheduler.logger.Warn("failed to save settings", "error", err)
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

// Trigger presents kind immediately without touching armed timers. Unless
// force is set, the usual gate applies and false is returned when it denies.
func (scheduler *Scheduler) Trigger(kind model.ReminderKind, force bool) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("trigger %q: %w", kind, ErrUnknownKind)
	}

	var idle idleSample
	if !force {
		idle = scheduler.sampleIdle()
	}

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	now := scheduler.clock.Now()
	if !force && !scheduler.allowedLocked(kind, now, idle) {
		return false, nil
	}
	scheduler.dispatchLocked(kind, now)
	return true, nil
}

// Status reports running state, armed kinds and the gate evaluated now.
func (scheduler *Scheduler) Status() Status {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	now := scheduler.clock.Now()
	status := Status{
		Running:     scheduler.running,
		StartedAt:   scheduler.startedAt,
		NextFire:    make(map[model.ReminderKind]time.Time, len(scheduler.next)),
		Settings:    scheduler.settings,
		IsWorkHours: IsWorkHours(scheduler.settings, now),
		IsWorkDay:   IsWorkDay(scheduler.settings, now),
	}
	for _, kind := range model.ScheduledKinds() {
		if at, ok := scheduler.next[kind]; ok {
			status.Active = append(status.Active, kind)
			status.NextFire[kind] = at
		}
	}
	return status
}

func (scheduler *Scheduler) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(scheduler.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			scheduler.tick(scheduler.clock.Now())
		}
	}
}

// tick fires every kind due at now and re-arms it exactly once. The idle
// signal is sampled without holding the lock, and only when a kind is due.
func (scheduler *Scheduler) tick(now time.Time) {
	scheduler.mu.Lock()
	if !scheduler.running || len(scheduler.dueLocked(now)) == 0 {
		scheduler.mu.Unlock()
		return
	}
	scheduler.mu.Unlock()

	idle := scheduler.sampleIdle()

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if !scheduler.running {
		return
	}
	for _, kind := range scheduler.dueLocked(now) {
		scheduler.next[kind] = scheduler.nextFireLocked(kind, now)
		if scheduler.allowedLocked(kind, now, idle) {
			scheduler.dispatchLocked(kind, now)
		} else {
			scheduler.logger.Debug("reminder skipped", "kind", kind)
		}
	}
}

func (scheduler *Scheduler) dueLocked(now time.Time) []model.ReminderKind {
	var due []model.ReminderKind
	for kind, at := range scheduler.next {
		if !now.Before(at) {
			due = append(due, kind)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i] < due[j] })
	return due
}

// idleSample is one reading of the idle signal. Known is false when no
// reading was taken or the checker failed.
type idleSample struct {
	known bool
	idle  time.Duration
}

// sampleIdle reads the idle checker outside the lock when idle pausing is on.
func (scheduler *Scheduler) sampleIdle() idleSample {
	scheduler.mu.Lock()
	checker := scheduler.idle
	enabled := scheduler.settings.IdlePauseReminders
	scheduler.mu.Unlock()

	if !enabled || checker == nil {
		return idleSample{}
	}
	idleFor, err := checker.IdleDuration()
	if err != nil {
		scheduler.logger.Debug("idle signal unavailable", "error", err)
		return idleSample{}
	}
	return idleSample{known: true, idle: idleFor}
}

func (scheduler *Scheduler) armAllLocked(now time.Time) {
	scheduler.next = make(map[model.ReminderKind]time.Time)
	for _, kind := range model.ScheduledKinds() {
		scheduler.next[kind] = scheduler.nextFireLocked(kind, now)
		scheduler.logger.Debug("reminder armed", "kind", kind, "next", scheduler.next[kind])
	}
}

func (scheduler *Scheduler) nextFireLocked(kind model.ReminderKind, now time.Time) time.Time {
	if kind == model.KindDailySummary {
		return NextDailyFire(now, scheduler.settings.DailySummaryOrDefault())
	}
	return now.Add(scheduler.settings.IntervalFor(kind))
}

// allowedLocked applies the eligibility gate. The daily summary only
// honours the master switch.
func (scheduler *Scheduler) allowedLocked(kind model.ReminderKind, now time.Time, idle idleSample) bool {
	settings := scheduler.settings
	if kind == model.KindDailySummary || kind == model.KindFocusComplete {
		return settings.NotificationsEnabled
	}
	if !Eligible(settings, now) {
		return false
	}
	if settings.IdlePauseReminders && idle.known && idle.idle >= scheduler.options.IdleThreshold {
		return false
	}
	return true
}

func (scheduler *Scheduler) dispatchLocked(kind model.ReminderKind, now time.Time) {
	sound := scheduler.settings.SoundEnabled
	scheduler.inflight.Add(1)
	go func() {
		defer scheduler.inflight.Done()
		scheduler.present(kind, now, sound)
	}()
}

func (scheduler *Scheduler) present(kind model.ReminderKind, firedAt time.Time, sound bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			scheduler.logger.Error("reminder presenter panicked", "kind", kind, "panic", recovered)
		}
	}()

	ctx := context.Background()
	var summary *model.DailySummary
	if kind == model.KindDailySummary {
		collected := scheduler.collectSummary(ctx, firedAt)
		summary = &collected
	}

	payload := scheduler.deps.Catalog.Payload(kind, summary)
	payload.Sound = sound

	scheduler.journal(ctx, kind, firedAt)
	scheduler.logger.Info("reminder fired", "kind", kind)

	if scheduler.deps.Presenter == nil {
		return
	}
	response, err := scheduler.deps.Presenter.Present(ctx, kind, payload)
	if err != nil {
		scheduler.logger.Warn("failed to present reminder", "kind", kind, "error", err)
		return
	}
	if response != ResponseNone {
		scheduler.logger.Info("reminder answered", "kind", kind, "response", response)
	}
}

func (scheduler *Scheduler) collectSummary(ctx context.Context, day time.Time) model.DailySummary {
	fallback := model.DailySummary{Date: day.Format("2006-01-02")}
	if scheduler.deps.Summaries == nil {
		return fallback
	}

	queryCtx, cancel := context.WithTimeout(ctx, journalTimeout)
	defer cancel()

	summary, err := scheduler.deps.Summaries.DailySummary(queryCtx, day, summaryTopApps)
	if err != nil {
		scheduler.logger.Warn("failed to build daily summary", "error", err)
		return fallback
	}
	if err := scheduler.deps.Summaries.SaveDailySummary(queryCtx, summary); err != nil {
		scheduler.logger.Warn("failed to save daily summary", "error", err)
	}
	return summary
}

func (scheduler *Scheduler) journal(ctx context.Context, kind model.ReminderKind, sentAt time.Time) {
	if scheduler.deps.Journal == nil {
		return
	}
	journalCtx, cancel := context.WithTimeout(ctx, journalTimeout)
	defer cancel()
	if err := scheduler.deps.Journal.AppendReminderLog(journalCtx, kind, sentAt); err != nil {
		scheduler.logger.Warn("failed to log reminder", "kind", kind, "error", err)
	}
}
