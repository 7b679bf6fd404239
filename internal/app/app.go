package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"workbuddy/internal/core/clock"
	"workbuddy/internal/core/focus"
	"workbuddy/internal/core/model"
	"workbuddy/internal/core/reminder"
	"workbuddy/internal/core/session"
	"workbuddy/internal/platform"
	"workbuddy/internal/storage"
	"workbuddy/internal/ui/notify"
)

const (
	schedulerTick = time.Second
	cleanupWait   = 10 * time.Second
)

// Options configures the application core.
type Options struct {
	DataDir   string
	Logger    hclog.Logger
	Out       io.Writer
	Clock     clock.Clock
	Presenter reminder.Presenter
	Identity  session.IdentitySource
	Idle      platform.IdleProvider
}

// App owns storage, the activity tracker, the reminder scheduler and the focus timer.
type App struct {
	Settings  *storage.SettingsStore
	Database  *storage.Database
	Tracker   *session.Tracker
	Scheduler *reminder.Scheduler
	Focus     *focus.Timer

	clock  clock.Clock
	logger hclog.Logger

	shutdownHooks []func()
}

// New loads settings, opens the database and builds every component. A
// settings file that cannot be read is logged and replaced by defaults.
func New(ctx context.Context, options Options) (*App, error) {
	logger := options.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if options.Out == nil {
		options.Out = os.Stdout
	}
	clk := clock.OrSystem(options.Clock)

	settingsStore := storage.NewSettingsStore(storage.SettingsPath(options.DataDir))
	settings, err := settingsStore.Load()
	if err != nil {
		logger.Warn("settings could not be loaded, using defaults", "path", settingsStore.Path(), "error", err)
	}

	database, err := storage.Open(ctx, storage.DatabasePath(options.DataDir), logger)
	if err != nil {
		return nil, err
	}

	identity := options.Identity
	if identity == nil {
		identity = platform.NewIdentitySource(platform.NewForegroundProvider())
	}
	idle := options.Idle
	if idle == nil {
		idle = platform.NewIdleProvider()
	}
	presenter := options.Presenter
	if presenter == nil {
		presenter = notify.NewConsolePresenter(options.Out, nil, logger)
	}

	tracker := session.New(settings.Tracker, identity, idle, database, clk, logger)

	scheduler := reminder.New(settings, reminder.Dependencies{
		Presenter: presenter,
		Journal:   database,
		Summaries: database,
		Settings:  settingsStore,
		Clock:     clk,
		Logger:    logger,
	}, reminder.Config{
		TickInterval:  schedulerTick,
		IdleThreshold: settings.Tracker.IdleThreshold,
	})
	scheduler.SetIdleChecker(idle)

	timer := focus.New(settings.Focus, focus.Config{}, database, clk, logger)
	timer.SetOnComplete(func(event focus.Event) {
		if event.Kind != model.FocusWork {
			return
		}
		if _, err := scheduler.Trigger(model.KindFocusComplete, false); err != nil {
			logger.Warn("focus completion reminder failed", "error", err)
		}
	})

	return &App{
		Settings:  settingsStore,
		Database:  database,
		Tracker:   tracker,
		Scheduler: scheduler,
		Focus:     timer,
		clock:     clk,
		logger:    logger,
	}, nil
}

// Start prunes old data and launches the tracker, scheduler and focus loop.
func (app *App) Start(ctx context.Context) {
	retention := app.Scheduler.Settings().RetentionDays
	cleanupCtx, cancel := context.WithTimeout(ctx, cleanupWait)
	if _, err := app.Database.Cleanup(cleanupCtx, app.clock.Now(), retention); err != nil {
		app.logger.Warn("data retention cleanup failed", "error", err)
	}
	cancel()

	app.Tracker.Start()
	app.Scheduler.Start()
	app.Focus.Start()
	app.logger.Info("workbuddy started")
}

// OnShutdown registers hook to run at the start of Shutdown, while every
// component and the database are still usable. Hooks run in registration order.
func (app *App) OnShutdown(hook func()) {
	app.shutdownHooks = append(app.shutdownHooks, hook)
}

// Shutdown runs the shutdown hooks, stops every component, closing the open
// session, and releases the database.
func (app *App) Shutdown() error {
	for _, hook := range app.shutdownHooks {
		hook()
	}
	app.shutdownHooks = nil

	app.Tracker.Stop()
	app.Scheduler.Stop()
	app.Focus.Stop()
	app.Scheduler.Wait()

	if err := app.Database.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	app.logger.Info("workbuddy stopped")
	return nil
}

// Close releases the database without starting or stopping loops.
func (app *App) Close() error {
	app.Scheduler.Wait()
	return app.Database.Close()
}
