package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workbuddy/internal/app"
	"workbuddy/internal/core/focus"
	"workbuddy/internal/core/model"
	"workbuddy/internal/core/reminder"
	"workbuddy/internal/core/session"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{"code": code, "message": message},
	})
}

func writeInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	writeError(c, http.StatusInternalServerError, "internal_error", "internal server error")
}

type settingsResponse struct {
	NotificationsEnabled bool   `json:"notifications_enabled"`
	SoundEnabled         bool   `json:"sound_enabled"`
	WorkDaysOnly         bool   `json:"work_days_only"`
	IdlePauseReminders   bool   `json:"idle_pause_reminders"`
	WorkStartTime        string `json:"work_start_time"`
	WorkEndTime          string `json:"work_end_time"`
	DailySummaryTime     string `json:"daily_summary_time"`
	BreakInterval        int    `json:"break_interval"`
	HydrationInterval    int    `json:"hydration_interval"`
	InspirationInterval  int    `json:"inspiration_interval"`
	RetentionDays        int    `json:"data_retention_days"`
}

func settingsFrom(settings model.Settings) settingsResponse {
	return settingsResponse{
		NotificationsEnabled: settings.NotificationsEnabled,
		SoundEnabled:         settings.SoundEnabled,
		WorkDaysOnly:         settings.WorkDaysOnly,
		IdlePauseReminders:   settings.IdlePauseReminders,
		WorkStartTime:        settings.WorkStartTime,
		WorkEndTime:          settings.WorkEndTime,
		DailySummaryTime:     settings.DailySummaryTime,
		BreakInterval:        int(settings.BreakInterval / time.Minute),
		HydrationInterval:    int(settings.HydrationInterval / time.Minute),
		InspirationInterval:  int(settings.InspirationInterval / time.Minute),
		RetentionDays:        settings.RetentionDays,
	}
}

type trackerResponse struct {
	Running        bool       `json:"running"`
	CurrentApp     string     `json:"current_app,omitempty"`
	SessionStart   *time.Time `json:"session_start,omitempty"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
	Idle           bool       `json:"idle"`
}

func trackerFrom(status session.Status) trackerResponse {
	response := trackerResponse{
		Running:        status.Running,
		CurrentApp:     status.CurrentApp,
		ElapsedSeconds: status.ElapsedSeconds,
		Idle:           status.Idle,
	}
	if !status.SessionStart.IsZero() {
		start := status.SessionStart
		response.SessionStart = &start
	}
	return response
}

type schedulerResponse struct {
	Running     bool                 `json:"running"`
	IsWorkHours bool                 `json:"is_work_hours"`
	IsWorkDay   bool                 `json:"is_work_day"`
	NextFire    map[string]time.Time `json:"next_fire"`
}

func schedulerFrom(status reminder.Status) schedulerResponse {
	next := make(map[string]time.Time, len(status.NextFire))
	for kind, at := range status.NextFire {
		next[string(kind)] = at
	}
	return schedulerResponse{
		Running:     status.Running,
		IsWorkHours: status.IsWorkHours,
		IsWorkDay:   status.IsWorkDay,
		NextFire:    next,
	}
}

type focusResponse struct {
	State             string `json:"state"`
	Kind              string `json:"kind,omitempty"`
	PlannedSeconds    int64  `json:"planned_seconds"`
	RemainingSeconds  int64  `json:"remaining_seconds"`
	ElapsedSeconds    int64  `json:"elapsed_seconds"`
	CompletedSessions int    `json:"completed_sessions"`
	CycleSessions     int    `json:"cycle_sessions"`
}

func focusFrom(status focus.Status) focusResponse {
	return focusResponse{
		State:             string(status.State),
		Kind:              string(status.Kind),
		PlannedSeconds:    int64(status.Planned / time.Second),
		RemainingSeconds:  int64(status.Remaining / time.Second),
		ElapsedSeconds:    int64(status.Elapsed / time.Second),
		CompletedSessions: status.CompletedSessions,
		CycleSessions:     status.CycleSessions,
	}
}

type usageResponse struct {
	App     string `json:"app"`
	Seconds int64  `json:"seconds"`
}

type focusStatsResponse struct {
	TotalSessions       int   `json:"total_sessions"`
	CompletedSessions   int   `json:"completed_sessions"`
	TotalFocusSeconds   int64 `json:"total_focus_seconds"`
	AverageFocusSeconds int64 `json:"average_focus_seconds"`
}

func focusStatsFrom(stats model.FocusStats) focusStatsResponse {
	return focusStatsResponse{
		TotalSessions:       stats.TotalSessions,
		CompletedSessions:   stats.CompletedSessions,
		TotalFocusSeconds:   stats.TotalFocusSeconds,
		AverageFocusSeconds: stats.AverageFocusSeconds,
	}
}

type energyStatsResponse struct {
	Entries  int     `json:"entries"`
	Average  float64 `json:"average"`
	Peak     int     `json:"peak"`
	PeakHour int     `json:"peak_hour"`
	Low      int     `json:"low"`
	LowHour  int     `json:"low_hour"`
}

type reportResponse struct {
	Date            string                `json:"date"`
	TotalScreenTime int64                 `json:"total_screen_time"`
	Usage           []usageResponse       `json:"usage"`
	Reminders       map[string]int        `json:"reminders"`
	Focus           focusStatsResponse    `json:"focus"`
	Energy          energyStatsResponse   `json:"energy"`
	SavedSummary    *savedSummaryResponse `json:"saved_summary,omitempty"`
}

type savedSummaryResponse struct {
	TotalScreenTime int64           `json:"total_screen_time"`
	TopApps         []usageResponse `json:"top_apps"`
}

func reportFrom(report app.Report) reportResponse {
	usage := make([]usageResponse, 0, len(report.Usage))
	for _, entry := range report.Usage {
		usage = append(usage, usageResponse{App: entry.AppName, Seconds: entry.Seconds})
	}
	reminders := make(map[string]int, len(report.Reminders))
	for kind, count := range report.Reminders {
		reminders[string(kind)] = count
	}
	var saved *savedSummaryResponse
	if report.Saved != nil {
		saved = &savedSummaryResponse{TotalScreenTime: report.Saved.TotalSeconds, TopApps: []usageResponse{}}
		for _, entry := range report.Saved.TopApps {
			saved.TopApps = append(saved.TopApps, usageResponse{App: entry.AppName, Seconds: entry.Seconds})
		}
	}
	return reportResponse{
		Date:            report.Date,
		SavedSummary:    saved,
		TotalScreenTime: report.Total,
		Usage:           usage,
		Reminders:       reminders,
		Focus:           focusStatsFrom(report.Focus),
		Energy: energyStatsResponse{
			Entries:  report.Energy.Entries,
			Average:  report.Energy.Average,
			Peak:     report.Energy.Peak,
			PeakHour: report.Energy.PeakHour,
			Low:      report.Energy.Low,
			LowHour:  report.Energy.LowHour,
		},
	}
}
