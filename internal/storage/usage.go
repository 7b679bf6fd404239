package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"workbuddy/internal/core/model"
)

// AppendSession inserts one closed session and returns its row id.
// The row is dated by the session's start.
func (database *Database) AppendSession(ctx context.Context, session model.Session) (int64, error) {
	result, err := database.db.ExecContext(ctx,
		`INSERT INTO app_usage (app_name, start_time, end_time, duration_seconds, date) VALUES (?, ?, ?, ?, ?)`,
		session.AppIdentity,
		timestampOf(session.StartTime),
		timestampOf(session.EndTime),
		session.DurationSeconds,
		dateOf(session.StartTime),
	)
	if err != nil {
		return 0, fmt.Errorf("append session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append session: %w", err)
	}
	database.logger.Debug("session saved", "id", id, "app", session.AppIdentity, "seconds", session.DurationSeconds)
	return id, nil
}

// DailyUsage returns per-app totals for day, longest first.
func (database *Database) DailyUsage(ctx context.Context, day time.Time) ([]model.AppUsage, error) {
	return database.TopApps(ctx, day, -1)
}

// TopApps returns the limit apps with the most tracked time on day.
// A negative limit returns every app.
func (database *Database) TopApps(ctx context.Context, day time.Time, limit int) ([]model.AppUsage, error) {
	usage := []model.AppUsage{}
	err := database.db.SelectContext(ctx, &usage,
		`SELECT app_name, SUM(duration_seconds) AS total_duration
		FROM app_usage
		WHERE date = ?
		GROUP BY app_name
		ORDER BY total_duration DESC, app_name ASC
		LIMIT ?`,
		dateOf(day), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top apps: %w", err)
	}
	return usage, nil
}

// TotalScreenTime returns the tracked seconds on day.
func (database *Database) TotalScreenTime(ctx context.Context, day time.Time) (int64, error) {
	var total int64
	err := database.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(duration_seconds), 0) FROM app_usage WHERE date = ?`,
		dateOf(day),
	)
	if err != nil {
		return 0, fmt.Errorf("total screen time: %w", err)
	}
	return total, nil
}

// DailySummary aggregates day into total screen time and the top apps.
func (database *Database) DailySummary(ctx context.Context, day time.Time, limit int) (model.DailySummary, error) {
	summary := model.DailySummary{Date: dateOf(day)}
	total, err := database.TotalScreenTime(ctx, day)
	if err != nil {
		return summary, err
	}
	top, err := database.TopApps(ctx, day, limit)
	if err != nil {
		return summary, err
	}
	summary.TotalSeconds = total
	summary.TopApps = top
	return summary, nil
}

type summaryRow struct {
	Date            string `db:"date"`
	TotalScreenTime int64  `db:"total_screen_time"`
	TopApps         string `db:"top_apps"`
}

type topAppJSON struct {
	Name    string `json:"name"`
	Seconds int64  `json:"seconds"`
}

// SaveDailySummary stores summary, replacing any earlier row for the same date.
func (database *Database) SaveDailySummary(ctx context.Context, summary model.DailySummary) error {
	apps := make([]topAppJSON, 0, len(summary.TopApps))
	for _, app := range summary.TopApps {
		apps = append(apps, topAppJSON{Name: app.AppName, Seconds: app.Seconds})
	}
	encoded, err := json.Marshal(apps)
	if err != nil {
		return fmt.Errorf("save daily summary: %w", err)
	}

	_, err = database.db.ExecContext(ctx,
		`INSERT INTO daily_summary (date, total_screen_time, top_apps) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_screen_time = excluded.total_screen_time,
			top_apps = excluded.top_apps,
			created_at = CURRENT_TIMESTAMP`,
		summary.Date, summary.TotalSeconds, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("save daily summary: %w", err)
	}
	return nil
}

// StoredSummary returns the saved summary for day. The boolean is false when
// no summary was saved.
func (database *Database) StoredSummary(ctx context.Context, day time.Time) (model.DailySummary, bool, error) {
	var rows []summaryRow
	err := database.db.SelectContext(ctx, &rows,
		`SELECT date, total_screen_time, top_apps FROM daily_summary WHERE date = ?`,
		dateOf(day),
	)
	if err != nil {
		return model.DailySummary{}, false, fmt.Errorf("stored summary: %w", err)
	}
	if len(rows) == 0 {
		return model.DailySummary{}, false, nil
	}

	var apps []topAppJSON
	if err := json.Unmarshal([]byte(rows[0].TopApps), &apps); err != nil {
		return model.DailySummary{}, false, fmt.Errorf("stored summary: decode top apps: %w", err)
	}
	summary := model.DailySummary{Date: rows[0].Date, TotalSeconds: rows[0].TotalScreenTime}
	for _, app := range apps {
		summary.TopApps = append(summary.TopApps, model.AppUsage{AppName: app.Name, Seconds: app.Seconds})
	}
	return summary, true, nil
}
