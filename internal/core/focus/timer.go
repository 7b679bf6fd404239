package focus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"workbuddy/internal/core/clock"
	"workbuddy/internal/core/model"
)

var (
	// ErrSessionRunning indicates a focus or break interval is already active.
	ErrSessionRunning = errors.New("a session is already running")
	// ErrNoSession indicates there is no active interval to act on.
	ErrNoSession = errors.New("no active session")
	// ErrNotPaused indicates Resume was called without a paused interval.
	ErrNotPaused = errors.New("no paused session")
)

const recordTimeout = 5 * time.Second

// Recorder stores ended focus and break intervals.
type Recorder interface {
	RecordFocusSession(ctx context.Context, record model.FocusRecord) error
}

// Config contains runtime options for the Timer.
type Config struct {
	TickInterval time.Duration
}

// Status is a snapshot of the focus timer.
type Status struct {
	State             State
	Kind              model.FocusKind
	Planned           time.Duration
	Remaining         time.Duration
	Elapsed           time.Duration
	CompletedSessions int
	CycleSessions     int
}

// Timer is a Pomodoro state machine counting down focus and break intervals.
type Timer struct {
	mu            sync.Mutex
	config        model.FocusConfig
	options       Config
	clock         clock.Clock
	logger        hclog.Logger
	recorder      Recorder
	onComplete    func(Event)
	state         State
	previousState State
	kind          model.FocusKind
	planned       time.Duration
	remaining     time.Duration
	startedAt     time.Time
	completed     int
	cycle         int
	events        []chan Event
	stopCh        chan struct{}
	running       bool
}

// New creates a Timer with the provided configuration.
func New(config model.FocusConfig, options Config, recorder Recorder, clk clock.Clock, logger hclog.Logger) *Timer {
	defaults := model.DefaultSettings().Focus
	if config.FocusDuration <= 0 {
		config.FocusDuration = defaults.FocusDuration
	}
	if config.ShortBreakDuration <= 0 {
		config.ShortBreakDuration = defaults.ShortBreakDuration
	}
	if config.LongBreakDuration <= 0 {
		config.LongBreakDuration = defaults.LongBreakDuration
	}
	if config.SessionsUntilLongBreak <= 0 {
		config.SessionsUntilLongBreak = defaults.SessionsUntilLongBreak
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Timer{
		config:   config,
		options:  options,
		clock:    clock.OrSystem(clk),
		logger:   logger.Named("focus"),
		recorder: recorder,
		state:    StateStopped,
	}
}

// SetOnComplete registers a handler invoked after an interval runs out.
func (timer *Timer) SetOnComplete(handler func(Event)) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.onComplete = handler
}

// Subscribe registers a new observer channel.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	timer.events = append(timer.events, ch)
	timer.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (timer *Timer) Start() {
	timer.mu.Lock()
	if timer.running {
		timer.mu.Unlock()
		return
	}
	timer.running = true
	timer.stopCh = make(chan struct{})
	stopCh := timer.stopCh
	timer.mu.Unlock()

	go timer.run(stopCh)
}

// Stop ends any active interval as incomplete, terminates the loop and closes observers.
func (timer *Timer) Stop() {
	timer.mu.Lock()
	if !timer.running {
		timer.mu.Unlock()
		return
	}
	var record *model.FocusRecord
	if timer.activeLocked() {
		record = timer.endLocked(false, timer.clock.Now())
	}
	close(timer.stopCh)
	timer.running = false
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	timer.record(record)
	for _, ch := range events {
		close(ch)
	}
}

// StartFocus begins a focus interval. A zero duration uses the configured length.
func (timer *Timer) StartFocus(duration time.Duration) error {
	if duration <= 0 {
		duration = timer.config.FocusDuration
	}
	return timer.begin(model.FocusWork, StateFocus, duration)
}

// StartBreak begins a break. An empty kind picks a long break once enough
// focus sessions completed in the current cycle, and a short break otherwise.
// Starting a long break ends the cycle.
func (timer *Timer) StartBreak(kind model.FocusKind) error {
	timer.mu.Lock()
	if timer.activeLocked() {
		timer.mu.Unlock()
		return ErrSessionRunning
	}
	if kind == "" {
		kind = model.FocusShortBreak
		if timer.cycle >= timer.config.SessionsUntilLongBreak {
			kind = model.FocusLongBreak
		}
	}
	state, duration := StateShortBreak, timer.config.ShortBreakDuration
	if kind == model.FocusLongBreak {
		state, duration = StateLongBreak, timer.config.LongBreakDuration
		timer.cycle = 0
	}
	timer.beginLocked(kind, state, duration)
	timer.mu.Unlock()

	timer.logger.Info("interval started", "kind", kind, "duration", duration)
	return nil
}

// Pause freezes the active interval.
func (timer *Timer) Pause() error {
	timer.mu.Lock()
	if timer.state != StateFocus && timer.state != StateShortBreak && timer.state != StateLongBreak {
		timer.mu.Unlock()
		return ErrNoSession
	}
	timer.previousState = timer.state
	timer.state = StatePaused
	timer.emitLocked(timer.eventLocked(EventStateChange, timer.clock.Now()))
	timer.mu.Unlock()
	return nil
}

// Resume unfreezes a paused interval.
func (timer *Timer) Resume() error {
	timer.mu.Lock()
	if timer.state != StatePaused {
		timer.mu.Unlock()
		return ErrNotPaused
	}
	timer.state = timer.previousState
	timer.emitLocked(timer.eventLocked(EventStateChange, timer.clock.Now()))
	timer.mu.Unlock()
	return nil
}

// StopSession ends the active interval early.
func (timer *Timer) StopSession(completed bool) error {
	timer.mu.Lock()
	if !timer.activeLocked() {
		timer.mu.Unlock()
		return ErrNoSession
	}
	record := timer.endLocked(completed, timer.clock.Now())
	timer.mu.Unlock()

	timer.record(record)
	return nil
}

// Status returns a snapshot of the timer.
func (timer *Timer) Status() Status {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	status := Status{
		State:             timer.state,
		CompletedSessions: timer.completed,
		CycleSessions:     timer.cycle,
	}
	if timer.activeLocked() {
		status.Kind = timer.kind
		status.Planned = timer.planned
		status.Remaining = timer.remaining
		status.Elapsed = timer.planned - timer.remaining
	}
	return status
}

func (timer *Timer) begin(kind model.FocusKind, state State, duration time.Duration) error {
	timer.mu.Lock()
	if timer.activeLocked() {
		timer.mu.Unlock()
		return ErrSessionRunning
	}
	timer.beginLocked(kind, state, duration)
	timer.mu.Unlock()

	timer.logger.Info("interval started", "kind", kind, "duration", duration)
	return nil
}

func (timer *Timer) beginLocked(kind model.FocusKind, state State, duration time.Duration) {
	now := timer.clock.Now()
	timer.kind = kind
	timer.state = state
	timer.planned = duration
	timer.remaining = duration
	timer.startedAt = now
	timer.emitLocked(timer.eventLocked(EventStateChange, now))
}

func (timer *Timer) run(stopCh <-chan struct{}) {
	ticker := time.NewTicker(timer.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			timer.tick(timer.options.TickInterval, tickTime)
		}
	}
}

func (timer *Timer) tick(delta time.Duration, now time.Time) {
	timer.mu.Lock()
	if timer.state != StateFocus && timer.state != StateShortBreak && timer.state != StateLongBreak {
		timer.mu.Unlock()
		return
	}

	timer.remaining -= delta
	if timer.remaining > 0 {
		timer.emitLocked(timer.eventLocked(EventProgress, now))
		timer.mu.Unlock()
		return
	}

	timer.remaining = 0
	completedEvent := timer.eventLocked(EventCompleted, now)
	timer.emitLocked(completedEvent)
	record := timer.endLocked(true, now)
	handler := timer.onComplete
	timer.mu.Unlock()

	timer.record(record)
	if handler != nil {
		handler(completedEvent)
	}
}

func (timer *Timer) activeLocked() bool {
	return timer.state != StateStopped
}

// endLocked finishes the interval and returns the record to persist.
func (timer *Timer) endLocked(completed bool, now time.Time) *model.FocusRecord {
	record := &model.FocusRecord{
		Kind:      timer.kind,
		Planned:   timer.planned,
		Actual:    timer.planned - timer.remaining,
		Completed: completed,
		StartTime: timer.startedAt,
		EndTime:   now,
	}
	if completed && timer.kind == model.FocusWork {
		timer.completed++
		timer.cycle++
	}

	timer.state = StateStopped
	timer.previousState = StateStopped
	timer.remaining = 0
	timer.emitLocked(Event{Type: EventStateChange, State: StateStopped, Kind: timer.kind, At: now})
	return record
}

func (timer *Timer) eventLocked(eventType EventType, now time.Time) Event {
	return Event{
		Type:      eventType,
		State:     timer.state,
		Kind:      timer.kind,
		Remaining: timer.remaining,
		Planned:   timer.planned,
		Progress:  timer.progressLocked(),
		At:        now,
	}
}

func (timer *Timer) progressLocked() float64 {
	if timer.planned <= 0 {
		return 1
	}
	progress := float64(timer.planned-timer.remaining) / float64(timer.planned)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (timer *Timer) record(record *model.FocusRecord) {
	if record == nil {
		return
	}
	timer.logger.Info("interval ended", "kind", record.Kind, "completed", record.Completed, "actual", record.Actual)
	if timer.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := timer.recorder.RecordFocusSession(ctx, *record); err != nil {
		timer.logger.Warn("failed to record focus session", "error", err)
	}
}

func (timer *Timer) emitLocked(event Event) {
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}
