package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"workbuddy/internal/api"
	"workbuddy/internal/app"
	"workbuddy/internal/config"
	"workbuddy/internal/core/model"
	"workbuddy/internal/core/reminder"
	"workbuddy/internal/platform"
	"workbuddy/internal/ui/focusview"
	"workbuddy/internal/ui/notify"
	"workbuddy/internal/ui/preferences"
)

const (
	appName  = platform.DefaultAppName
	appID    = "com.workbuddy.app"
	dateFlag = "2006-01-02"

	apiShutdownWait = 5 * time.Second
)

type globalOptions struct {
	dataDir  string
	logLevel string

	root hclog.Logger
}

func main() {
	if err := config.LoadDotEnv(nil); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	options := &globalOptions{}

	root := &cobra.Command{
		Use:           "workbuddy",
		Short:         "Screen time tracker and wellness reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&options.dataDir, "data-dir", config.Env(config.EnvDataDir, ""), "directory holding settings and the usage database ($"+config.EnvDataDir+")")
	root.PersistentFlags().StringVar(&options.logLevel, "log-level", config.Env(config.EnvLogLevel, "info"), "log level: trace|debug|info|warn|error ($"+config.EnvLogLevel+")")

	root.AddCommand(newRunCmd(options))
	root.AddCommand(newSummaryCmd(options))
	root.AddCommand(newRemindCmd(options))
	root.AddCommand(newSettingsCmd(options))
	root.AddCommand(newFocusCmd(options))
	root.AddCommand(newEnergyCmd(options))
	root.AddCommand(newCleanupCmd(options))
	root.AddCommand(newAutostartCmd())
	return root
}

func (options *globalOptions) logger() hclog.Logger {
	if options.root == nil {
		options.root = hclog.New(&hclog.LoggerOptions{
			Name:   "workbuddy",
			Level:  hclog.LevelFromString(options.logLevel),
			Output: os.Stderr,
		})
	}
	return options.root
}

func (options *globalOptions) resolveDataDir() (string, error) {
	if options.dataDir != "" {
		return options.dataDir, nil
	}
	return platform.NewService().DataDir(appName)
}

func (options *globalOptions) loadApp(ctx context.Context, out io.Writer, presenter reminder.Presenter) (*app.App, error) {
	dataDir, err := options.resolveDataDir()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, app.Options{
		DataDir:   dataDir,
		Logger:    options.logger(),
		Out:       out,
		Presenter: presenter,
	})
}

func newRunCmd(options *globalOptions) *cobra.Command {
	var headless bool
	var apiAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Track activity and send reminders until stopped",
		RunE: func(cmd *cobra.Command, _ []string) error {
			guard, err := platform.AcquireSingleInstance(appName)
			if err != nil {
				return err
			}
			defer func() {
				_ = guard.Release()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if headless {
				return runHeadless(ctx, cmd, options, apiAddr)
			}

			logger := options.logger()
			fyneApp := fyneapp.NewWithID(appID)
			presenter := notify.NewFallback(
				notify.NewDesktopPresenter(fyneApp, logger),
				notify.NewConsolePresenter(cmd.OutOrStdout(), nil, logger),
				logger,
			)
			core, err := options.loadApp(ctx, cmd.OutOrStdout(), presenter)
			if err != nil {
				return err
			}
			stopAPI, err := startAPI(apiAddr, core, logger)
			if err != nil {
				_ = core.Close()
				return err
			}
			core.OnShutdown(stopAPI)
			return app.RunDesktop(ctx, core, fyneApp)
		},
	}
	cmd.Flags().BoolVar(&headless, "headless", false, "run without the tray and print reminders to the terminal")
	cmd.Flags().StringVar(&apiAddr, "api-addr", config.Env(config.EnvAPIAddr, ""), "serve the local JSON API on this loopback address, e.g. 127.0.0.1:8765 ($"+config.EnvAPIAddr+")")
	return cmd
}

func runHeadless(ctx context.Context, cmd *cobra.Command, options *globalOptions, apiAddr string) error {
	core, err := options.loadApp(ctx, cmd.OutOrStdout(), nil)
	if err != nil {
		return err
	}
	stopAPI, err := startAPI(apiAddr, core, options.logger())
	if err != nil {
		_ = core.Close()
		return err
	}
	core.OnShutdown(stopAPI)

	core.Start(ctx)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "WorkBuddy is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	return core.Shutdown()
}

// startAPI serves the local API when addr is set. The returned func stops it.
func startAPI(addr string, core *app.App, logger hclog.Logger) (func(), error) {
	if addr == "" {
		return func() {}, nil
	}
	gin.SetMode(gin.ReleaseMode)
	server, err := api.Listen(addr, api.NewRouter(core, logger), logger)
	if err != nil {
		return nil, err
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), apiShutdownWait)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("api shutdown", "error", err)
		}
	}, nil
}

func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	day, err := time.ParseInLocation(dateFlag, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: want YYYY-MM-DD", value)
	}
	return day, nil
}

func newSummaryCmd(options *globalOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print screen time, reminders, focus and energy for a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			core, err := options.loadApp(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}
			defer core.Close()

			report, err := core.Report(cmd.Context(), day)
			if err != nil {
				return err
			}
			return app.WriteReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to report (YYYY-MM-DD, default today)")
	return cmd
}

func newRemindCmd(options *globalOptions) *cobra.Command {
	var force, interactive bool

	kinds := make([]string, 0, 8)
	for _, kind := range append(model.ScheduledKinds(), model.KindFocusComplete) {
		kinds = append(kinds, string(kind))
	}

	cmd := &cobra.Command{
		Use:       "remind <kind>",
		Short:     "Show one reminder now",
		Long:      "Show one reminder now. Kinds: " + strings.Join(kinds, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseReminderKind(args[0])
			if err != nil {
				return err
			}

			var in io.Reader
			if interactive {
				in = cmd.InOrStdin()
			}
			logger := options.logger()
			presenter := notify.NewConsolePresenter(cmd.OutOrStdout(), in, logger)
			core, err := options.loadApp(cmd.Context(), cmd.OutOrStdout(), presenter)
			if err != nil {
				return err
			}
			defer core.Close()

			shown, err := core.Scheduler.Trigger(kind, force)
			if err != nil {
				return err
			}
			if !shown {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Reminders are not due right now (outside work hours or disabled). Use --force to show it anyway.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "ignore work hours and the notifications switch")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "ask which action to take")
	return cmd
}

func newSettingsCmd(options *globalOptions) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Show or change preferences"}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, err := options.loadApp(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}
			defer core.Close()
			writeSettings(cmd.OutOrStdout(), core.Settings.Path(), core.Scheduler.Settings())
			return nil
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "set key=value...",
		Short: "Change preferences, e.g. break_interval=30 work_start_time=08:30",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := model.ParsePatch(args)
			if err != nil {
				return err
			}
			core, err := options.loadApp(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}
			defer core.Close()

			if err := core.Scheduler.UpdateSettings(patch); err != nil {
				return err
			}
			writeSettings(cmd.OutOrStdout(), core.Settings.Path(), core.Scheduler.Settings())
			return nil
		},
	})
	return settings
}

func writeSettings(out io.Writer, path string, settings model.Settings) {
	values := preferences.ValuesFrom(settings)
	rows := [][2]string{
		{"notifications_enabled", strconv.FormatBool(values.NotificationsEnabled)},
		{"sound_enabled", strconv.FormatBool(values.SoundEnabled)},
		{"work_days_only", strconv.FormatBool(values.WorkDaysOnly)},
		{"idle_pause_reminders", strconv.FormatBool(values.IdlePauseReminders)},
		{"work_start_time", values.WorkStart},
		{"work_end_time", values.WorkEnd},
		{"daily_summary_time", values.DailySummary},
		{"break_interval", values.BreakMinutes + " min"},
		{"hydration_interval", values.HydrationMinutes + " min"},
		{"inspiration_interval", values.InspirationMinutes + " min"},
		{"data_retention_days", strconv.Itoa(settings.RetentionDays)},
	}
	_, _ = fmt.Fprintf(out, "# %s\n", path)
	for _, row := range rows {
		_, _ = fmt.Fprintf(out, "%-22s %s\n", row[0], row[1])
	}
}

func newFocusCmd(options *globalOptions) *cobra.Command {
	focusCmd := &cobra.Command{Use: "focus", Short: "Pomodoro focus sessions"}

	var minutes int
	var breakKind string
	start := &cobra.Command{
		Use:   "start",
		Short: "Run a focus session or break with a terminal countdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, err := options.loadApp(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}
			defer core.Close()

			events := core.Focus.Subscribe(16)
			core.Focus.Start()
			defer core.Focus.Stop()

			switch breakKind {
			case "":
				err = core.Focus.StartFocus(time.Duration(minutes) * time.Minute)
			case "auto":
				err = core.Focus.StartBreak("")
			case string(model.FocusShortBreak), "short":
				err = core.Focus.StartBreak(model.FocusShortBreak)
			case string(model.FocusLongBreak), "long":
				err = core.Focus.StartBreak(model.FocusLongBreak)
			default:
				err = fmt.Errorf("unknown break kind %q: want short, long or auto", breakKind)
			}
			if err != nil {
				return err
			}

			program := tea.NewProgram(focusview.New(core.Focus, events), tea.WithContext(cmd.Context()))
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("focus countdown: %w", err)
			}
			return nil
		},
	}
	start.Flags().IntVar(&minutes, "minutes", 0, "focus length in minutes (default from settings)")
	start.Flags().StringVar(&breakKind, "break", "", "run a break instead: short, long or auto")

	var date string
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print focus statistics for a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			core, err := options.loadApp(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}
			defer core.Close()

			focusStats, err := core.Database.FocusStats(cmd.Context(), day)
			if err != nil {
				return err
			}
			app.WriteFocusStats(cmd.OutOrStdout(), focusStats)
			return nil
		},
	}
	stats.Flags().StringVar(&date, "date", "", "day to report (YYYY-MM-DD, default today)")

	focusCmd.AddCommand(start, stats)
	return focusCmd
}

func newEnergyCmd(options *globalOptions) *cobra.Command {
	energy := &cobra.Command{Use: "energy", Short: "Energy level check-ins"}

	energy.AddCommand(&cobra.Command{
		Use:   "log <1-10> [notes...]",
		Short: "Record how energetic you feel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse energy level %q: %w", args[0], err)
			}
			core, err := options.loadApp(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}
			defer core.Close()

			if err := core.Database.LogEnergy(cmd.Context(), level, strings.Join(args[1:], " "), time.Now()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "energy level %d logged\n", level)
			return nil
		},
	})
	return energy
}

func newCleanupCmd(options *globalOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete usage, reminder and energy data older than the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, err := options.loadApp(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}
			defer core.Close()

			if days <= 0 {
				days = core.Scheduler.Settings().RetentionDays
			}
			result, err := core.Database.Cleanup(cmd.Context(), time.Now(), days)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d sessions, %d reminder entries, %d energy entries older than %d days\n",
				result.Sessions, result.Reminders, result.Energy, days)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "days to keep (default from settings, 30)")
	return cmd
}

func newAutostartCmd() *cobra.Command {
	autostart := &cobra.Command{Use: "autostart", Short: "Start WorkBuddy at login"}
	service := platform.NewService()

	autostart.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Install the login entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			execPath, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}
			if err := service.EnableAutostart(platform.AutostartEntry{
				Name:     appName,
				ExecPath: execPath,
				Args:     []string{"run"},
				Comment:  "Screen time tracker and wellness reminders",
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "autostart enabled")
			return nil
		},
	})

	autostart.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Remove the login entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := service.DisableAutostart(appName); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
			return nil
		},
	})

	autostart.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether the login entry is installed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			enabled, err := service.AutostartEnabled(appName)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "autostart enabled: %t\n", enabled)
			return nil
		},
	})
	return autostart
}
