package clock

import (
	"sync"
	"time"
)

// Clock abstracts wall-clock time so schedules can be driven in tests.
type Clock interface {
	Now() time.Time
}

// System reads the local wall clock.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// Manual is a clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the clock's current time.
func (manual *Manual) Now() time.Time {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.now
}

// Set moves the clock to value.
func (manual *Manual) Set(value time.Time) {
	manual.mu.Lock()
	manual.now = value
	manual.mu.Unlock()
}

// Advance moves the clock forward by delta and returns the new time.
func (manual *Manual) Advance(delta time.Duration) time.Time {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	manual.now = manual.now.Add(delta)
	return manual.now
}

// OrSystem returns value, or the system clock when value is nil.
func OrSystem(value Clock) Clock {
	if value == nil {
		return System{}
	}
	return value
}
