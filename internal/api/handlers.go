package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"workbuddy/internal/app"
	"workbuddy/internal/core/focus"
	"workbuddy/internal/core/model"
	"workbuddy/internal/storage"
)

const dateLayout = "2006-01-02"

// Handler serves the API endpoints.
type Handler struct {
	core   *app.App
	logger hclog.Logger
}

type triggerRequest struct {
	Force bool `json:"force"`
}

type startFocusRequest struct {
	Minutes int `json:"minutes"`
}

type startBreakRequest struct {
	Kind string `json:"kind"`
}

type stopFocusRequest struct {
	Completed bool `json:"completed"`
}

type energyRequest struct {
	Level int    `json:"level"`
	Notes string `json:"notes"`
}

// Status reports the tracker, scheduler and focus timer together.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tracker":   trackerFrom(h.core.Tracker.Status()),
		"scheduler": schedulerFrom(h.core.Scheduler.Status()),
		"focus":     focusFrom(h.core.Focus.Status()),
	})
}

func (h *Handler) Summary(c *gin.Context) {
	day, ok := queryDay(c)
	if !ok {
		return
	}
	report, err := h.core.Report(c.Request.Context(), day)
	if err != nil {
		writeInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, reportFrom(report))
}

func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": settingsFrom(h.core.Scheduler.Settings())})
}

// UpdateSettings takes a JSON object keyed like the settings file.
// Interval values are minutes.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if len(body) == 0 {
		writeError(c, http.StatusBadRequest, "empty_patch", "no settings given")
		return
	}

	keys := make([]string, 0, len(body))
	for key := range body {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+fmt.Sprint(body[key]))
	}

	patch, err := model.ParsePatch(pairs)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_setting", err.Error())
		return
	}
	if err := h.core.Scheduler.UpdateSettings(patch); err != nil {
		writeInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settingsFrom(h.core.Scheduler.Settings())})
}

func (h *Handler) TriggerReminder(c *gin.Context) {
	kind, err := model.ParseReminderKind(c.Param("kind"))
	if err != nil {
		writeError(c, http.StatusNotFound, "unknown_kind", err.Error())
		return
	}
	var req triggerRequest
	if !bindOptional(c, &req) {
		return
	}

	shown, err := h.core.Scheduler.Trigger(kind, req.Force)
	if err != nil {
		writeInternal(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"kind": kind, "shown": shown})
}

func (h *Handler) LogEnergy(c *gin.Context) {
	var req energyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	err := h.core.Database.LogEnergy(c.Request.Context(), req.Level, req.Notes, time.Now())
	if errors.Is(err, storage.ErrInvalidEnergyLevel) {
		writeError(c, http.StatusBadRequest, "invalid_energy_level", err.Error())
		return
	}
	if err != nil {
		writeInternal(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"level": req.Level})
}

func (h *Handler) FocusStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"focus": focusFrom(h.core.Focus.Status())})
}

func (h *Handler) FocusStats(c *gin.Context) {
	day, ok := queryDay(c)
	if !ok {
		return
	}
	stats, err := h.core.Database.FocusStats(c.Request.Context(), day)
	if err != nil {
		writeInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.Format(dateLayout), "stats": focusStatsFrom(stats)})
}

func (h *Handler) StartFocus(c *gin.Context) {
	var req startFocusRequest
	if !bindOptional(c, &req) {
		return
	}
	if req.Minutes < 0 {
		writeError(c, http.StatusBadRequest, "invalid_minutes", "minutes must not be negative")
		return
	}
	h.focusAction(c, h.core.Focus.StartFocus(time.Duration(req.Minutes)*time.Minute))
}

func (h *Handler) StartBreak(c *gin.Context) {
	var req startBreakRequest
	if !bindOptional(c, &req) {
		return
	}
	var kind model.FocusKind
	switch strings.TrimSpace(req.Kind) {
	case "", "auto":
	case "short", string(model.FocusShortBreak):
		kind = model.FocusShortBreak
	case "long", string(model.FocusLongBreak):
		kind = model.FocusLongBreak
	default:
		writeError(c, http.StatusBadRequest, "invalid_break_kind", "kind must be short, long or auto")
		return
	}
	h.focusAction(c, h.core.Focus.StartBreak(kind))
}

func (h *Handler) PauseFocus(c *gin.Context) {
	h.focusAction(c, h.core.Focus.Pause())
}

func (h *Handler) ResumeFocus(c *gin.Context) {
	h.focusAction(c, h.core.Focus.Resume())
}

func (h *Handler) StopFocus(c *gin.Context) {
	var req stopFocusRequest
	if !bindOptional(c, &req) {
		return
	}
	h.focusAction(c, h.core.Focus.StopSession(req.Completed))
}

func (h *Handler) focusAction(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"focus": focusFrom(h.core.Focus.Status())})
	case errors.Is(err, focus.ErrSessionRunning):
		writeError(c, http.StatusConflict, "session_running", err.Error())
	case errors.Is(err, focus.ErrNoSession):
		writeError(c, http.StatusConflict, "no_session", err.Error())
	case errors.Is(err, focus.ErrNotPaused):
		writeError(c, http.StatusConflict, "not_paused", err.Error())
	default:
		writeInternal(c, err)
	}
}

// bindOptional decodes a JSON body when one is present.
func bindOptional(c *gin.Context, target any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(target); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return false
	}
	return true
}

func queryDay(c *gin.Context) (time.Time, bool) {
	value := c.Query("date")
	if value == "" {
		return time.Now(), true
	}
	day, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}
