package storage

import (
	"context"
	"fmt"
	"time"

	"workbuddy/internal/core/model"
)

// AppendReminderLog records that a reminder of kind was presented at sentAt.
func (database *Database) AppendReminderLog(ctx context.Context, kind model.ReminderKind, sentAt time.Time) error {
	_, err := database.db.ExecContext(ctx,
		`INSERT INTO reminders_log (reminder_type, sent_at, date) VALUES (?, ?, ?)`,
		string(kind), timestampOf(sentAt), dateOf(sentAt),
	)
	if err != nil {
		return fmt.Errorf("append reminder log: %w", err)
	}
	return nil
}

type reminderCountRow struct {
	Kind  string `db:"reminder_type"`
	Count int    `db:"count"`
}

// ReminderCounts returns how many reminders of each kind were presented on day.
func (database *Database) ReminderCounts(ctx context.Context, day time.Time) (map[model.ReminderKind]int, error) {
	var rows []reminderCountRow
	err := database.db.SelectContext(ctx, &rows,
		`SELECT reminder_type, COUNT(*) AS count FROM reminders_log WHERE date = ? GROUP BY reminder_type`,
		dateOf(day),
	)
	if err != nil {
		return nil, fmt.Errorf("reminder counts: %w", err)
	}

	counts := make(map[model.ReminderKind]int, len(rows))
	for _, row := range rows {
		counts[model.ReminderKind(row.Kind)] = row.Count
	}
	return counts, nil
}
