package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"workbuddy/internal/core/focus"
	"workbuddy/internal/core/model"
	"workbuddy/internal/core/timefmt"
	"workbuddy/internal/ui/overlay"
	"workbuddy/internal/ui/preferences"
	"workbuddy/internal/ui/tray"
)

const (
	statusRefresh  = 30 * time.Second
	overlayOpacity = 0.85
)

// ErrNoSystemTray indicates the GUI driver cannot host a tray icon.
var ErrNoSystemTray = errors.New("system tray unsupported on this platform")

// RunDesktop starts the core under a fyne tray application and blocks until quit.
func RunDesktop(ctx context.Context, core *App, fyneApp fyne.App) error {
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.Join(ErrNoSystemTray, core.Shutdown())
	}
	fyneApp.SetIcon(theme.ComputerIcon())

	trayWindow := fyneApp.NewWindow("WorkBuddy")
	trayWindow.SetContent(widget.NewLabel("WorkBuddy is running in the system tray."))
	trayWindow.SetCloseIntercept(trayWindow.Hide)
	desktopApp.SetSystemTrayWindow(trayWindow)

	breakOverlay := overlay.New(fyneApp, overlay.Config{Opacity: overlay.OpacityToAlpha(overlayOpacity)})
	breakOverlay.SetOnSkip(func() {
		if err := core.Focus.StopSession(false); err != nil {
			core.logger.Debug("skip break", "error", err)
		}
	})

	prefsWindow := preferences.New(fyneApp, core.Scheduler.Settings(), core.Scheduler.UpdateSettings)

	remindersPaused := false
	trackingPaused := false
	var trayManager *tray.Manager
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnPreferences: func() {
			prefsWindow.UpdateSettings(core.Scheduler.Settings())
			prefsWindow.Show()
		},
		OnToggleReminders: func() {
			if remindersPaused {
				core.Scheduler.Start()
			} else {
				core.Scheduler.Stop()
			}
			remindersPaused = !remindersPaused
			trayManager.SetRemindersPaused(remindersPaused)
		},
		OnToggleTracking: func() {
			if trackingPaused {
				core.Tracker.Start()
			} else {
				core.Tracker.Stop()
			}
			trackingPaused = !trackingPaused
			trayManager.SetTrackingPaused(trackingPaused)
		},
		OnStartFocus: func() {
			if err := core.Focus.StartFocus(0); err != nil {
				core.logger.Warn("start focus", "error", err)
			}
		},
		OnStartBreak: func() {
			if err := core.Focus.StartBreak(""); err != nil {
				core.logger.Warn("start break", "error", err)
			}
		},
		OnStopFocus: func() {
			if err := core.Focus.StopSession(false); err != nil {
				core.logger.Debug("stop focus", "error", err)
			}
		},
		OnTestReminders: func() {
			for _, kind := range []model.ReminderKind{model.KindBreak, model.KindHydration, model.KindInspiration} {
				if _, err := core.Scheduler.Trigger(kind, true); err != nil {
					core.logger.Warn("test reminder", "kind", kind, "error", err)
				}
			}
		},
		OnShowSummary: func() {
			if _, err := core.Scheduler.Trigger(model.KindDailySummary, true); err != nil {
				core.logger.Warn("summary reminder", "error", err)
			}
		},
		OnQuit: func() {
			fyneApp.Quit()
		},
	})
	desktopApp.SetSystemTrayIcon(theme.ComputerIcon())

	core.Start(ctx)

	events := core.Focus.Subscribe(8)
	go func() {
		for event := range events {
			fyne.Do(func() {
				handleFocusEvent(event, trayManager, breakOverlay)
			})
		}
	}()

	stopStatus := make(chan struct{})
	go func() {
		ticker := time.NewTicker(statusRefresh)
		defer ticker.Stop()
		for {
			status := statusLine(ctx, core)
			fyne.Do(func() { trayManager.SetStatus(status) })
			select {
			case <-stopStatus:
				return
			case <-ticker.C:
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			fyne.Do(fyneApp.Quit)
		case <-stopStatus:
		}
	}()

	fyneApp.Run()
	close(stopStatus)
	return core.Shutdown()
}

func handleFocusEvent(event focus.Event, trayManager *tray.Manager, breakOverlay *overlay.Window) {
	isBreak := event.Kind == model.FocusShortBreak || event.Kind == model.FocusLongBreak
	switch event.State {
	case focus.StateStopped:
		trayManager.SetFocus("")
		breakOverlay.Hide()
		return
	case focus.StatePaused:
		trayManager.SetFocus(fmt.Sprintf("%s paused at %s", focusLabel(event.Kind), timefmt.Clock(event.Remaining)))
		return
	}

	trayManager.SetFocus(fmt.Sprintf("%s %s left", focusLabel(event.Kind), timefmt.Clock(event.Remaining)))
	if !isBreak {
		return
	}
	if breakOverlay.Visible() {
		breakOverlay.SetRemaining(event.Remaining)
		return
	}
	breakOverlay.Show(overlay.Session{
		Title:     focusLabel(event.Kind),
		Message:   "Step away from the screen, stretch and rest your eyes.",
		Remaining: event.Remaining,
	})
}

func focusLabel(kind model.FocusKind) string {
	switch kind {
	case model.FocusShortBreak:
		return "Short break"
	case model.FocusLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}

func statusLine(ctx context.Context, core *App) string {
	total, err := core.Database.TotalScreenTime(ctx, core.clock.Now())
	if err != nil {
		core.logger.Warn("status query failed", "error", err)
		return "tracking"
	}
	current := core.Tracker.Status().CurrentApp
	if current == "" {
		return fmt.Sprintf("%s today", timefmt.Duration(total, true))
	}
	return fmt.Sprintf("%s today, on %s", timefmt.Duration(total, true), current)
}
