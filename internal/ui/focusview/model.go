package focusview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"workbuddy/internal/core/focus"
	"workbuddy/internal/core/model"
	"workbuddy/internal/core/timefmt"
	"workbuddy/internal/ui/theme"
)

const barWidth = 30

// Controller is the part of the focus timer the countdown view drives.
type Controller interface {
	Pause() error
	Resume() error
	StopSession(completed bool) error
	Status() focus.Status
}

type eventMsg struct {
	event focus.Event
	ok    bool
}

// Model is a terminal countdown for one focus or break interval.
type Model struct {
	timer     Controller
	events    <-chan focus.Event
	styles    theme.Styles
	status    focus.Status
	kind      model.FocusKind
	completed bool
	quitting  bool
	err       error
}

// New builds a countdown bound to timer. events must come from timer.Subscribe.
func New(timer Controller, events <-chan focus.Event) Model {
	status := timer.Status()
	return Model{timer: timer, events: events, styles: theme.For(nil), status: status, kind: status.Kind}
}

// Completed reports whether the interval ran to the end.
func (m Model) Completed() bool {
	return m.completed
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		if !msg.ok {
			m.quitting = true
			return m, tea.Quit
		}
		m.status = m.timer.Status()
		if msg.event.Kind != "" {
			m.kind = msg.event.Kind
		}
		if msg.event.Type == focus.EventCompleted {
			m.completed = true
			m.quitting = true
			return m, tea.Quit
		}
		if msg.event.Type == focus.EventStateChange && msg.event.State == focus.StateStopped {
			m.quitting = true
			return m, tea.Quit
		}
		return m, waitForEvent(m.events)
	case tea.KeyMsg:
		switch msg.String() {
		case "p", " ":
			if m.status.State == focus.StatePaused {
				m.err = m.timer.Resume()
			} else {
				m.err = m.timer.Pause()
			}
			m.status = m.timer.Status()
			return m, nil
		case "q", "s", "ctrl+c", "esc":
			m.err = m.timer.StopSession(false)
			m.status = m.timer.Status()
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	styles := m.styles
	if m.quitting {
		if m.completed {
			return styles.Title.Render(kindLabel(m.kind)+" complete.") + "\n"
		}
		return styles.Hint.Render("Session stopped.") + "\n"
	}

	var builder strings.Builder
	title := kindLabel(m.kind)
	if m.status.State == focus.StatePaused {
		title += " (paused)"
	}
	builder.WriteString(styles.Title.Render(title))
	builder.WriteString("\n\n")
	builder.WriteString(styles.Value.Render(timefmt.Clock(m.status.Remaining)))
	builder.WriteString("  ")
	builder.WriteString(progressBar(m.status))
	builder.WriteString("\n\n")
	builder.WriteString(styles.Hint.Render(fmt.Sprintf("completed: %d  ·  p pause/resume  ·  q stop", m.status.CompletedSessions)))
	if m.err != nil {
		builder.WriteString("\n")
		builder.WriteString(styles.Warn.Render(m.err.Error()))
	}
	return styles.Banner.Render(builder.String()) + "\n"
}

func waitForEvent(events <-chan focus.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		return eventMsg{event: event, ok: ok}
	}
}

func progressBar(status focus.Status) string {
	filled := 0
	if status.Planned > 0 {
		filled = int(float64(barWidth) * float64(status.Elapsed) / float64(status.Planned))
	}
	filled = max(0, min(barWidth, filled))
	return lipgloss.NewStyle().Foreground(theme.Teal).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled))
}

func kindLabel(kind model.FocusKind) string {
	switch kind {
	case model.FocusShortBreak:
		return "Short break"
	case model.FocusLongBreak:
		return "Long break"
	default:
		return "Focus session"
	}
}
