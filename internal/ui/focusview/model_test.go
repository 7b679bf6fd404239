package focusview

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workbuddy/internal/core/focus"
	"workbuddy/internal/core/model"
)

type fakeController struct {
	status  focus.Status
	stopped []bool
}

func (controller *fakeController) Pause() error {
	if controller.status.State == focus.StatePaused {
		return errors.New("already paused")
	}
	controller.status.State = focus.StatePaused
	return nil
}

func (controller *fakeController) Resume() error {
	controller.status.State = focus.StateFocus
	return nil
}

func (controller *fakeController) StopSession(completed bool) error {
	controller.stopped = append(controller.stopped, completed)
	controller.status = focus.Status{State: focus.StateStopped}
	return nil
}

func (controller *fakeController) Status() focus.Status {
	return controller.status
}

func newController() *fakeController {
	return &fakeController{status: focus.Status{
		State:     focus.StateFocus,
		Kind:      model.FocusWork,
		Planned:   25 * time.Minute,
		Remaining: 20 * time.Minute,
		Elapsed:   5 * time.Minute,
	}}
}

func TestViewShowsCountdown(t *testing.T) {
	controller := newController()
	view := New(controller, make(chan focus.Event)).View()

	assert.Contains(t, view, "Focus session")
	assert.Contains(t, view, "20:00")
	assert.Contains(t, view, "██████")
}

func TestPauseKeyToggles(t *testing.T) {
	controller := newController()
	var current tea.Model = New(controller, make(chan focus.Event))

	current, _ = current.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.Equal(t, focus.StatePaused, controller.status.State)
	assert.Contains(t, current.View(), "(paused)")

	current, _ = current.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.Equal(t, focus.StateFocus, controller.status.State)
}

func TestQuitKeyStopsSession(t *testing.T) {
	controller := newController()
	var current tea.Model = New(controller, make(chan focus.Event))

	current, cmd := current.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, []bool{false}, controller.stopped)
	assert.Contains(t, current.View(), "Session stopped.")
	assert.False(t, current.(Model).Completed())
}

func TestCompletionEventQuits(t *testing.T) {
	controller := newController()
	var current tea.Model = New(controller, make(chan focus.Event))

	controller.status = focus.Status{State: focus.StateStopped, CompletedSessions: 1}
	current, cmd := current.Update(eventMsg{event: focus.Event{Type: focus.EventCompleted, Kind: model.FocusWork}, ok: true})
	require.NotNil(t, cmd)
	assert.True(t, current.(Model).Completed())
	assert.Contains(t, current.View(), "Focus session complete.")
}

func TestClosedEventsQuit(t *testing.T) {
	events := make(chan focus.Event)
	close(events)
	current := New(newController(), events)

	msg := current.Init()()
	_, cmd := current.Update(msg)
	require.NotNil(t, cmd)
}
