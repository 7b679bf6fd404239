package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DatabaseFileName is the name of the usage database inside the data directory.
const DatabaseFileName = "workbuddy.db"

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Database stores tracked sessions, reminder history and daily statistics.
type Database struct {
	db     *sqlx.DB
	logger hclog.Logger
}

// DatabasePath returns the database location inside dataDir.
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, DatabaseFileName)
}

// Open opens or creates the SQLite database at path and applies migrations.
func Open(ctx context.Context, path string, logger hclog.Logger) (*Database, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	conn.SetMaxOpenConns(1)

	database := &Database{db: conn, logger: logger.Named("storage")}
	if err := database.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return database, nil
}

// Close releases the database handle.
func (database *Database) Close() error {
	return database.db.Close()
}

// SchemaVersion returns the applied migration count.
func (database *Database) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := database.db.GetContext(ctx, &version, `SELECT version FROM schema_version LIMIT 1`); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func (database *Database) migrate(ctx context.Context) error {
	tx, err := database.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("migrate: create schema_version: %w", err)
	}

	var rows int
	if err := tx.GetContext(ctx, &rows, `SELECT COUNT(*) FROM schema_version`); err != nil {
		return fmt.Errorf("migrate: count schema_version: %w", err)
	}
	if rows == 0 {
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("migrate: seed schema_version: %w", err)
		}
	}

	var version int
	if err := tx.GetContext(ctx, &version, `SELECT version FROM schema_version LIMIT 1`); err != nil {
		return fmt.Errorf("migrate: read version: %w", err)
	}

	for index := version; index < len(migrations); index++ {
		for _, statement := range migrations[index] {
			if _, err := tx.ExecContext(ctx, statement); err != nil {
				return fmt.Errorf("migrate: version %d: %w", index+1, err)
			}
		}
		database.logger.Info("schema migrated", "version", index+1)
	}
	if version < len(migrations) {
		if _, err := tx.ExecContext(ctx, `UPDATE schema_version SET version = ?`, len(migrations)); err != nil {
			return fmt.Errorf("migrate: update version: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}

// migrations are applied in order. Entries are never edited once released.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS app_usage (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			app_name TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			date TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_app_usage_date ON app_usage(date)`,
		`CREATE TABLE IF NOT EXISTS reminders_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reminder_type TEXT NOT NULL,
			sent_at TEXT NOT NULL,
			date TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_log_date ON reminders_log(date)`,
		`CREATE TABLE IF NOT EXISTS daily_summary (
			date TEXT PRIMARY KEY,
			total_screen_time INTEGER NOT NULL,
			top_apps TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		`CREATE TABLE IF NOT EXISTS focus_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_type TEXT NOT NULL,
			planned_duration INTEGER NOT NULL,
			actual_duration INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			date TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_focus_sessions_date ON focus_sessions(date)`,
		`CREATE TABLE IF NOT EXISTS energy_levels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			energy_level INTEGER NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			timestamp TEXT NOT NULL,
			date TEXT NOT NULL,
			hour INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_energy_levels_date ON energy_levels(date)`,
	},
}

func dateOf(t time.Time) string {
	return t.Format(dateLayout)
}

func timestampOf(t time.Time) string {
	return t.Format(timestampLayout)
}
