package storage

import (
	"context"
	"fmt"
	"time"

	"workbuddy/internal/core/model"
)

// RecordFocusSession stores an ended focus or break interval.
func (database *Database) RecordFocusSession(ctx context.Context, record model.FocusRecord) error {
	_, err := database.db.ExecContext(ctx,
		`INSERT INTO focus_sessions
			(session_type, planned_duration, actual_duration, completed, start_time, end_time, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(record.Kind),
		int64(record.Planned/time.Second),
		int64(record.Actual/time.Second),
		record.Completed,
		timestampOf(record.StartTime),
		timestampOf(record.EndTime),
		dateOf(record.StartTime),
	)
	if err != nil {
		return fmt.Errorf("record focus session: %w", err)
	}
	return nil
}

// FocusStats summarises the focus intervals of day. Breaks are not counted.
func (database *Database) FocusStats(ctx context.Context, day time.Time) (model.FocusStats, error) {
	var stats model.FocusStats
	err := database.db.GetContext(ctx, &stats,
		`SELECT
			COALESCE(SUM(actual_duration), 0) AS total_focus,
			COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed,
			COUNT(*) AS total,
			CAST(COALESCE(AVG(actual_duration), 0) AS INTEGER) AS average
		FROM focus_sessions
		WHERE date = ? AND session_type = ?`,
		dateOf(day), string(model.FocusWork),
	)
	if err != nil {
		return model.FocusStats{}, fmt.Errorf("focus stats: %w", err)
	}
	return stats, nil
}
