package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"workbuddy/internal/core/clock"
	"workbuddy/internal/core/model"
)

const persistTimeout = 5 * time.Second

// IdentitySource reports the application currently in foreground focus.
// An empty identity means no application could be determined.
type IdentitySource interface {
	ActiveIdentity() (string, error)
}

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Recorder appends closed sessions to the usage log.
type Recorder interface {
	AppendSession(ctx context.Context, session model.Session) (int64, error)
}

// Status is a point-in-time snapshot of the tracker.
type Status struct {
	Running        bool
	CurrentApp     string
	SessionStart   time.Time
	ElapsedSeconds int64
	Idle           bool
}

// Tracker keeps exactly one open session for the focused application and
// hands closed sessions to a Recorder.
type Tracker struct {
	mu       sync.Mutex
	config   model.TrackerConfig
	identity IdentitySource
	idle     IdleChecker
	recorder Recorder
	clock    clock.Clock
	logger   hclog.Logger

	current *model.Session
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a Tracker. A nil idle checker means the system is never idle.
func New(config model.TrackerConfig, identity IdentitySource, idle IdleChecker, recorder Recorder, clk clock.Clock, logger hclog.Logger) *Tracker {
	defaults := model.DefaultSettings().Tracker
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.IdleThreshold <= 0 {
		config.IdleThreshold = defaults.IdleThreshold
	}
	if config.MinDuration <= 0 {
		config.MinDuration = defaults.MinDuration
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Tracker{
		config:   config,
		identity: identity,
		idle:     idle,
		recorder: recorder,
		clock:    clock.OrSystem(clk),
		logger:   logger.Named("tracker"),
	}
}

// Start begins polling on the configured cadence. Calling it while running is a no-op.
func (tracker *Tracker) Start() {
	tracker.mu.Lock()
	if tracker.running {
		tracker.mu.Unlock()
		return
	}
	tracker.running = true
	tracker.stopCh = make(chan struct{})
	tracker.doneCh = make(chan struct{})
	stopCh, doneCh := tracker.stopCh, tracker.doneCh
	tracker.mu.Unlock()

	tracker.logger.Info("activity tracking started", "poll_interval", tracker.config.PollInterval)
	go tracker.run(stopCh, doneCh)
}

// Stop halts polling and closes the open session, if any. Safe to call when
// the tracker was never started.
func (tracker *Tracker) Stop() {
	tracker.mu.Lock()
	wasRunning := tracker.running
	if wasRunning {
		close(tracker.stopCh)
		tracker.running = false
	}
	doneCh := tracker.doneCh
	tracker.mu.Unlock()

	if wasRunning {
		<-doneCh
	}
	tracker.closeCurrent(tracker.clock.Now(), "tracking stopped")
	if wasRunning {
		tracker.logger.Info("activity tracking stopped")
	}
}

// Poll samples the idle and foreground signals once and updates the open session.
func (tracker *Tracker) Poll() {
	idleFor := tracker.idleDuration()
	now := tracker.clock.Now()

	if idleFor >= tracker.config.IdleThreshold {
		tracker.closeCurrent(now, "system idle")
		return
	}

	identity, err := tracker.identity.ActiveIdentity()
	if err != nil {
		tracker.logger.Debug("foreground window unavailable", "error", err)
		identity = ""
	}
	if identity == "" {
		tracker.closeCurrent(now, "no foreground window")
		return
	}

	tracker.mu.Lock()
	if tracker.current != nil && tracker.current.AppIdentity == identity {
		tracker.mu.Unlock()
		return
	}
	closed := tracker.closeLocked(now)
	tracker.current = &model.Session{AppIdentity: identity, StartTime: now}
	tracker.mu.Unlock()

	tracker.persist(closed)
	tracker.logger.Debug("session opened", "app", identity)
}

// Status returns a snapshot of the tracker. Idle is sampled at call time.
func (tracker *Tracker) Status() Status {
	idle := tracker.idleDuration() >= tracker.config.IdleThreshold
	now := tracker.clock.Now()

	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	status := Status{Running: tracker.running, Idle: idle}
	if tracker.current != nil {
		status.CurrentApp = tracker.current.AppIdentity
		status.SessionStart = tracker.current.StartTime
		status.ElapsedSeconds = int64(now.Sub(tracker.current.StartTime) / time.Second)
	}
	return status
}

func (tracker *Tracker) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(tracker.config.PollInterval)
	defer ticker.Stop()

	tracker.Poll()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			tracker.Poll()
		}
	}
}

func (tracker *Tracker) idleDuration() time.Duration {
	if tracker.idle == nil {
		return 0
	}
	idleFor, err := tracker.idle.IdleDuration()
	if err != nil {
		return 0
	}
	return idleFor
}

func (tracker *Tracker) closeCurrent(now time.Time, reason string) {
	tracker.mu.Lock()
	closed := tracker.closeLocked(now)
	tracker.mu.Unlock()

	if closed != nil {
		tracker.logger.Debug("session closed", "app", closed.AppIdentity, "reason", reason)
	}
	tracker.persist(closed)
}

// closeLocked ends the open session and returns it if it is long enough to keep.
func (tracker *Tracker) closeLocked(now time.Time) *model.Session {
	if tracker.current == nil {
		return nil
	}
	closed := *tracker.current
	tracker.current = nil

	elapsed := now.Sub(closed.StartTime)
	if elapsed < tracker.config.MinDuration {
		return nil
	}
	closed.EndTime = now
	closed.DurationSeconds = int64(elapsed / time.Second)
	return &closed
}

func (tracker *Tracker) persist(closed *model.Session) {
	if closed == nil || tracker.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	id, err := tracker.recorder.AppendSession(ctx, *closed)
	if err != nil {
		tracker.logger.Warn("failed to record session", "app", closed.AppIdentity, "error", err)
		return
	}
	tracker.logger.Info("session recorded", "id", id, "app", closed.AppIdentity, "duration_seconds", closed.DurationSeconds)
}
