package focus

import (
	"time"

	"workbuddy/internal/core/model"
)

// State represents the current focus timer mode.
type State string

const (
	StateStopped    State = "stopped"
	StateFocus      State = "focus"
	StateShortBreak State = "short_break"
	StateLongBreak  State = "long_break"
	StatePaused     State = "paused"
)

// EventType defines the type of focus timer event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventCompleted   EventType = "completed"
)

// Event is a focus timer update for observers.
type Event struct {
	Type      EventType
	State     State
	Kind      model.FocusKind
	Remaining time.Duration
	Planned   time.Duration
	Progress  float64
	At        time.Time
}
