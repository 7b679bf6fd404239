package storage

import (
	"context"
	"fmt"
	"time"
)

// CleanupResult counts the rows removed per table.
type CleanupResult struct {
	Sessions  int64
	Reminders int64
	Energy    int64
}

// Cleanup deletes usage, reminder and energy rows dated before now minus
// daysToKeep. Daily summaries and focus sessions are kept.
func (database *Database) Cleanup(ctx context.Context, now time.Time, daysToKeep int) (CleanupResult, error) {
	if daysToKeep <= 0 {
		return CleanupResult{}, fmt.Errorf("cleanup: days to keep must be positive, got %d", daysToKeep)
	}
	cutoff := dateOf(now.AddDate(0, 0, -daysToKeep))

	tx, err := database.db.BeginTxx(ctx, nil)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("cleanup: begin: %w", err)
	}
	defer tx.Rollback()

	var result CleanupResult
	targets := []struct {
		table string
		count *int64
	}{
		{table: "app_usage", count: &result.Sessions},
		{table: "reminders_log", count: &result.Reminders},
		{table: "energy_levels", count: &result.Energy},
	}
	for _, target := range targets {
		res, err := tx.ExecContext(ctx, `DELETE FROM `+target.table+` WHERE date < ?`, cutoff)
		if err != nil {
			return CleanupResult{}, fmt.Errorf("cleanup %s: %w", target.table, err)
		}
		if *target.count, err = res.RowsAffected(); err != nil {
			return CleanupResult{}, fmt.Errorf("cleanup %s: %w", target.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return CleanupResult{}, fmt.Errorf("cleanup: commit: %w", err)
	}
	database.logger.Info("old data removed", "before", cutoff,
		"sessions", result.Sessions, "reminders", result.Reminders, "energy", result.Energy)
	return result, nil
}
