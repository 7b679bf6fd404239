package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workbuddy/internal/core/model"
)

// ErrInvalidEnergyLevel indicates a level outside 1..10.
var ErrInvalidEnergyLevel = errors.New("energy level must be between 1 and 10")

const (
	minEnergyLevel = 1
	maxEnergyLevel = 10
)

// LogEnergy stores a self-reported energy level.
func (database *Database) LogEnergy(ctx context.Context, level int, notes string, at time.Time) error {
	if level < minEnergyLevel || level > maxEnergyLevel {
		return fmt.Errorf("log energy %d: %w", level, ErrInvalidEnergyLevel)
	}
	_, err := database.db.ExecContext(ctx,
		`INSERT INTO energy_levels (energy_level, notes, timestamp, date, hour) VALUES (?, ?, ?, ?, ?)`,
		level, strings.TrimSpace(notes), timestampOf(at), dateOf(at), at.Hour(),
	)
	if err != nil {
		return fmt.Errorf("log energy: %w", err)
	}
	return nil
}

type energyRow struct {
	Level int `db:"energy_level"`
	Hour  int `db:"hour"`
}

// EnergyStats summarises the energy check-ins of day. The earliest entry wins
// ties for the peak and low hour.
func (database *Database) EnergyStats(ctx context.Context, day time.Time) (model.EnergyStats, error) {
	var rows []energyRow
	err := database.db.SelectContext(ctx, &rows,
		`SELECT energy_level, hour FROM energy_levels WHERE date = ? ORDER BY timestamp ASC, id ASC`,
		dateOf(day),
	)
	if err != nil {
		return model.EnergyStats{}, fmt.Errorf("energy stats: %w", err)
	}

	var stats model.EnergyStats
	if len(rows) == 0 {
		return stats, nil
	}

	total := 0
	stats.Peak, stats.PeakHour = rows[0].Level, rows[0].Hour
	stats.Low, stats.LowHour = rows[0].Level, rows[0].Hour
	for _, row := range rows {
		total += row.Level
		if row.Level > stats.Peak {
			stats.Peak, stats.PeakHour = row.Level, row.Hour
		}
		if row.Level < stats.Low {
			stats.Low, stats.LowHour = row.Level, row.Hour
		}
	}
	stats.Entries = len(rows)
	stats.Average = float64(total) / float64(len(rows))
	return stats, nil
}
