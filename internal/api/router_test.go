package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workbuddy/internal/app"
	"workbuddy/internal/core/model"
	"workbuddy/internal/core/reminder"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type noIdentity struct{}

func (noIdentity) ActiveIdentity() (string, error) { return "", nil }

type noIdle struct{}

func (noIdle) IdleDuration() (time.Duration, error) { return 0, nil }

type silentPresenter struct{}

func (silentPresenter) Present(context.Context, model.ReminderKind, reminder.Payload) (reminder.Response, error) {
	return reminder.ResponseAcknowledge, nil
}

func setupEngine(t *testing.T) (*gin.Engine, *app.App) {
	t.Helper()
	core, err := app.New(context.Background(), app.Options{
		DataDir:   t.TempDir(),
		Out:       &bytes.Buffer{},
		Presenter: silentPresenter{},
		Identity:  noIdentity{},
		Idle:      noIdle{},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = core.Close()
	})
	return NewRouter(core, nil), core
}

func request(t *testing.T, engine *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	decoded := map[string]any{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder.Code, decoded
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	envelope, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error envelope: %v", body)
	code, _ := envelope["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	engine, _ := setupEngine(t)

	status, body := request(t, engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestSettingsRoundTrip(t *testing.T) {
	engine, core := setupEngine(t)

	status, body := request(t, engine, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, status)
	settings := body["settings"].(map[string]any)
	assert.EqualValues(t, 45, settings["break_interval"])

	status, body = request(t, engine, http.MethodPatch, "/api/settings", map[string]any{
		"break_interval":  30,
		"work_start_time": "08:30",
		"sound_enabled":   false,
	})
	require.Equal(t, http.StatusOK, status)
	settings = body["settings"].(map[string]any)
	assert.EqualValues(t, 30, settings["break_interval"])
	assert.Equal(t, "08:30", settings["work_start_time"])
	assert.Equal(t, false, settings["sound_enabled"])
	assert.Equal(t, 30*time.Minute, core.Scheduler.Settings().BreakInterval)
}

func TestSettingsRejectsInvalidValues(t *testing.T) {
	engine, _ := setupEngine(t)

	status, body := request(t, engine, http.MethodPatch, "/api/settings", map[string]any{"work_end_time": "25:00"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_setting", errorCode(t, body))

	status, body = request(t, engine, http.MethodPatch, "/api/settings", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "empty_patch", errorCode(t, body))
}

func TestTriggerReminder(t *testing.T) {
	engine, core := setupEngine(t)

	status, body := request(t, engine, http.MethodPost, "/api/reminders/teatime", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "unknown_kind", errorCode(t, body))

	status, body = request(t, engine, http.MethodPost, "/api/reminders/hydration", map[string]bool{"force": true})
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, true, body["shown"])
	core.Scheduler.Wait()

	status, body = request(t, engine, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, status)
	reminders := body["reminders"].(map[string]any)
	assert.EqualValues(t, 1, reminders["hydration"])
}

func TestFocusLifecycle(t *testing.T) {
	engine, _ := setupEngine(t)

	status, body := request(t, engine, http.MethodPost, "/api/focus/pause", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "no_session", errorCode(t, body))

	status, body = request(t, engine, http.MethodPost, "/api/focus/start", map[string]int{"minutes": 10})
	require.Equal(t, http.StatusOK, status)
	focus := body["focus"].(map[string]any)
	assert.Equal(t, "focus", focus["state"])
	assert.EqualValues(t, 600, focus["planned_seconds"])

	status, body = request(t, engine, http.MethodPost, "/api/focus/start", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "session_running", errorCode(t, body))

	status, _ = request(t, engine, http.MethodPost, "/api/focus/resume", nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body = request(t, engine, http.MethodPost, "/api/focus/pause", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "paused", body["focus"].(map[string]any)["state"])

	status, _ = request(t, engine, http.MethodPost, "/api/focus/resume", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = request(t, engine, http.MethodPost, "/api/focus/stop", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "stopped", body["focus"].(map[string]any)["state"])

	status, body = request(t, engine, http.MethodGet, "/api/focus/stats", nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["total_sessions"])
	assert.EqualValues(t, 0, stats["completed_sessions"])
}

func TestStartBreakRejectsUnknownKind(t *testing.T) {
	engine, _ := setupEngine(t)

	status, body := request(t, engine, http.MethodPost, "/api/focus/break", map[string]string{"kind": "lunch"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_break_kind", errorCode(t, body))

	status, body = request(t, engine, http.MethodPost, "/api/focus/break", map[string]string{"kind": "long"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "long_break", body["focus"].(map[string]any)["state"])
}

func TestLogEnergy(t *testing.T) {
	engine, _ := setupEngine(t)

	status, body := request(t, engine, http.MethodPost, "/api/energy", map[string]any{"level": 11})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_energy_level", errorCode(t, body))

	status, _ = request(t, engine, http.MethodPost, "/api/energy", map[string]any{"level": 7, "notes": "coffee"})
	require.Equal(t, http.StatusCreated, status)

	status, body = request(t, engine, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, status)
	energy := body["energy"].(map[string]any)
	assert.EqualValues(t, 1, energy["entries"])
	assert.EqualValues(t, 7, energy["peak"])
}

func TestSummaryRejectsBadDate(t *testing.T) {
	engine, _ := setupEngine(t)

	status, body := request(t, engine, http.MethodGet, "/api/summary?date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_date", errorCode(t, body))
}

func TestStatus(t *testing.T) {
	engine, _ := setupEngine(t)

	status, body := request(t, engine, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "tracker")
	assert.Contains(t, body, "scheduler")
	assert.Equal(t, "stopped", body["focus"].(map[string]any)["state"])
}

func TestListenOnlyOnLoopback(t *testing.T) {
	_, err := Listen("0.0.0.0:0", http.NotFoundHandler(), nil)
	require.ErrorIs(t, err, ErrNotLoopback)

	server, err := Listen("127.0.0.1:0", http.NotFoundHandler(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, server.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))
}
