package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"workbuddy/internal/core/model"
	"workbuddy/internal/core/timefmt"
	"workbuddy/internal/ui/theme"
)

// Report is everything recorded for one day.
type Report struct {
	Date      string
	Total     int64
	Usage     []model.AppUsage
	Reminders map[model.ReminderKind]int
	Focus     model.FocusStats
	Energy    model.EnergyStats
	// Saved is the summary the scheduler stored for the day, nil if none.
	Saved *model.DailySummary
}

// Report collects the statistics for day.
func (app *App) Report(ctx context.Context, day time.Time) (Report, error) {
	report := Report{Date: day.Format("2006-01-02")}
	var err error
	if report.Total, err = app.Database.TotalScreenTime(ctx, day); err != nil {
		return report, err
	}
	if report.Usage, err = app.Database.DailyUsage(ctx, day); err != nil {
		return report, err
	}
	if report.Reminders, err = app.Database.ReminderCounts(ctx, day); err != nil {
		return report, err
	}
	if report.Focus, err = app.Database.FocusStats(ctx, day); err != nil {
		return report, err
	}
	if report.Energy, err = app.Database.EnergyStats(ctx, day); err != nil {
		return report, err
	}
	saved, found, err := app.Database.StoredSummary(ctx, day)
	if err != nil {
		return report, err
	}
	if found {
		report.Saved = &saved
	}
	return report, nil
}

// WriteReport renders report for a terminal.
func WriteReport(out io.Writer, report Report) error {
	styles := theme.For(out)
	var builder strings.Builder

	builder.WriteString(styles.Title.Render("WorkBuddy report for " + report.Date))
	builder.WriteString("\n\n")
	fmt.Fprintf(&builder, "Total screen time: %s\n", styles.Value.Render(timefmt.Duration(report.Total, false)))

	builder.WriteString("\n" + styles.Heading.Render("Applications") + "\n")
	if len(report.Usage) == 0 {
		builder.WriteString(styles.Hint.Render("No application usage recorded.") + "\n")
	}
	for index, usage := range report.Usage {
		fmt.Fprintf(&builder, "%2d. %-40s %s\n", index+1, usage.AppName, timefmt.Duration(usage.Seconds, true))
	}

	builder.WriteString("\n" + styles.Heading.Render("Reminders") + "\n")
	if len(report.Reminders) == 0 {
		builder.WriteString(styles.Hint.Render("No reminders sent.") + "\n")
	}
	kinds := make([]string, 0, len(report.Reminders))
	for kind := range report.Reminders {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(&builder, "    %-16s %d\n", kind, report.Reminders[model.ReminderKind(kind)])
	}

	builder.WriteString("\n" + styles.Heading.Render("Focus") + "\n")
	WriteFocusStats(&builder, report.Focus)

	builder.WriteString("\n" + styles.Heading.Render("Energy") + "\n")
	if report.Energy.Entries == 0 {
		builder.WriteString(styles.Hint.Render("No energy check-ins.") + "\n")
	} else {
		fmt.Fprintf(&builder, "    average %.1f over %d check-ins\n", report.Energy.Average, report.Energy.Entries)
		fmt.Fprintf(&builder, "    peak %d at %02d:00, low %d at %02d:00\n",
			report.Energy.Peak, report.Energy.PeakHour, report.Energy.Low, report.Energy.LowHour)
	}

	builder.WriteString("\n" + styles.Heading.Render("Daily summary") + "\n")
	if report.Saved == nil {
		builder.WriteString(styles.Hint.Render("No daily summary saved.") + "\n")
	} else {
		fmt.Fprintf(&builder, "    saved with %s across %d apps\n",
			timefmt.Duration(report.Saved.TotalSeconds, false), len(report.Saved.TopApps))
	}

	_, err := io.WriteString(out, builder.String())
	return err
}

// WriteFocusStats renders the focus section.
func WriteFocusStats(out io.Writer, stats model.FocusStats) {
	if stats.TotalSessions == 0 {
		fmt.Fprintln(out, "    No focus sessions.")
		return
	}
	fmt.Fprintf(out, "    %d of %d sessions completed\n", stats.CompletedSessions, stats.TotalSessions)
	fmt.Fprintf(out, "    %s focused, %s on average\n",
		timefmt.Duration(stats.TotalFocusSeconds, false), timefmt.Duration(stats.AverageFocusSeconds, true))
}
