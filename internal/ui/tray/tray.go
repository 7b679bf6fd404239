package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences     func()
	OnToggleReminders func()
	OnToggleTracking  func()
	OnStartFocus      func()
	OnStartBreak      func()
	OnStopFocus       func()
	OnTestReminders   func()
	OnShowSummary     func()
	OnQuit            func()
}

// Manager handles system tray state.
type Manager struct {
	app            desktop.App
	menu           *fyne.Menu
	statusItem     *fyne.MenuItem
	focusItem      *fyne.MenuItem
	remindersItem  *fyne.MenuItem
	trackingItem   *fyne.MenuItem
	startFocus     *fyne.MenuItem
	startBreak     *fyne.MenuItem
	stopFocus      *fyne.MenuItem
	statusLabel    string
	focusLabel     string
	remindersPause bool
	trackingPause  bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{app: app}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true
	manager.focusItem = fyne.NewMenuItem("Focus: idle", nil)
	manager.focusItem.Disabled = true

	manager.startFocus = fyne.NewMenuItem("Start focus session", call(callbacks.OnStartFocus))
	manager.startBreak = fyne.NewMenuItem("Take a break", call(callbacks.OnStartBreak))
	manager.stopFocus = fyne.NewMenuItem("Stop session", call(callbacks.OnStopFocus))
	manager.stopFocus.Disabled = true

	manager.remindersItem = fyne.NewMenuItem("Pause reminders", call(callbacks.OnToggleReminders))
	manager.trackingItem = fyne.NewMenuItem("Pause tracking", call(callbacks.OnToggleTracking))

	manager.menu = fyne.NewMenu("WorkBuddy",
		manager.statusItem,
		manager.focusItem,
		fyne.NewMenuItemSeparator(),
		manager.startFocus,
		manager.startBreak,
		manager.stopFocus,
		fyne.NewMenuItemSeparator(),
		manager.remindersItem,
		manager.trackingItem,
		fyne.NewMenuItem("Today's summary", call(callbacks.OnShowSummary)),
		fyne.NewMenuItem("Send test reminders", call(callbacks.OnTestReminders)),
		fyne.NewMenuItem("Preferences", call(callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", call(callbacks.OnQuit)),
	)
	app.SetSystemTrayMenu(manager.menu)

	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetFocus updates the focus line. An empty label means no active session.
func (manager *Manager) SetFocus(label string) {
	manager.focusLabel = label
	active := label != ""
	manager.startFocus.Disabled = active
	manager.startBreak.Disabled = active
	manager.stopFocus.Disabled = !active
	if active {
		manager.focusItem.Label = "Focus: " + label
	} else {
		manager.focusItem.Label = "Focus: idle"
	}
	manager.refreshMenu()
}

// SetRemindersPaused updates the reminders toggle.
func (manager *Manager) SetRemindersPaused(paused bool) {
	manager.remindersPause = paused
	if paused {
		manager.remindersItem.Label = "Resume reminders"
	} else {
		manager.remindersItem.Label = "Pause reminders"
	}
	manager.refreshStatus()
}

// SetTrackingPaused updates the tracking toggle.
func (manager *Manager) SetTrackingPaused(paused bool) {
	manager.trackingPause = paused
	if paused {
		manager.trackingItem.Label = "Resume tracking"
	} else {
		manager.trackingItem.Label = "Pause tracking"
	}
	manager.refreshStatus()
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	switch {
	case manager.remindersPause && manager.trackingPause:
		status = fmt.Sprintf("%s (paused)", status)
	case manager.remindersPause:
		status = fmt.Sprintf("%s (reminders paused)", status)
	case manager.trackingPause:
		status = fmt.Sprintf("%s (tracking paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}

func call(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
