package model

import "time"

// Session is one contiguous interval of focus on a single application.
// It is open while EndTime is zero.
type Session struct {
	ID              int64
	AppIdentity     string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int64
}

// Open reports whether the session has not been closed yet.
func (session Session) Open() bool {
	return session.EndTime.IsZero()
}

// AppUsage is the total tracked time of one application.
type AppUsage struct {
	AppName string `db:"app_name"`
	Seconds int64  `db:"total_duration"`
}

// DailySummary aggregates one calendar day of usage.
type DailySummary struct {
	Date         string
	TotalSeconds int64
	TopApps      []AppUsage
}

// FocusKind is the type of a Pomodoro interval.
type FocusKind string

const (
	FocusWork       FocusKind = "focus"
	FocusShortBreak FocusKind = "short_break"
	FocusLongBreak  FocusKind = "long_break"
)

// FocusRecord is an ended focus or break interval.
type FocusRecord struct {
	Kind      FocusKind
	Planned   time.Duration
	Actual    time.Duration
	Completed bool
	StartTime time.Time
	EndTime   time.Time
}

// FocusStats summarises focus sessions for a day.
type FocusStats struct {
	TotalFocusSeconds   int64 `db:"total_focus"`
	CompletedSessions   int   `db:"completed"`
	TotalSessions       int   `db:"total"`
	AverageFocusSeconds int64 `db:"average"`
}

// EnergyStats summarises energy check-ins for a day.
type EnergyStats struct {
	Entries  int
	Average  float64
	Peak     int
	Low      int
	PeakHour int
	LowHour  int
}
