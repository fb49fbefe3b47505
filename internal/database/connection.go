package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Options selects the database to connect to
type Options struct {
	// Driver is DriverSQLite or DriverPostgres
	Driver string
	// DSN is a file path for SQLite or a connection URL for Postgres
	DSN string
}

// Connect establishes a connection to the database and creates the schema
func Connect(opts Options) (*sqlx.DB, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	var dsn string
	switch driver {
	case DriverSQLite:
		if opts.DSN == "" {
			return nil, fmt.Errorf("database path is empty")
		}
		// Create data directory if it doesn't exist
		if opts.DSN != ":memory:" && !strings.HasPrefix(opts.DSN, "file:") {
			if err := os.MkdirAll(filepath.Dir(opts.DSN), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		dsn = opts.DSN
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("database URL is empty")
		}
		dsn = opts.DSN
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// Ждём освобождения блокировки вместо немедленной ошибки
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []struct {
	name string
	stmt string
}{
	{"item_records table", `
		CREATE TABLE IF NOT EXISTS item_records (
			item_id TEXT PRIMARY KEY,
			times_seen INTEGER NOT NULL DEFAULT 0,
			times_correct INTEGER NOT NULL DEFAULT 0,
			easiness_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
			interval_days DOUBLE PRECISION NOT NULL DEFAULT 0,
			consecutive_correct INTEGER NOT NULL DEFAULT 0,
			last_seen_at TIMESTAMP,
			next_review_at TIMESTAMP,
			last_selected_at TIMESTAMP
		)
	`},
	{"next review index", `CREATE INDEX IF NOT EXISTS idx_item_records_next_review ON item_records(next_review_at)`},
	{"quiz_history table", `
		CREATE TABLE IF NOT EXISTS quiz_history (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL,
			correct BOOLEAN NOT NULL,
			quiz_type TEXT NOT NULL,
			answered_at TIMESTAMP NOT NULL
		)
	`},
	{"answered_at index", `CREATE INDEX IF NOT EXISTS idx_quiz_history_answered ON quiz_history(answered_at)`},
	{"item_id index", `CREATE INDEX IF NOT EXISTS idx_quiz_history_item ON quiz_history(item_id)`},
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	for _, s := range schema {
		if _, err := db.Exec(s.stmt); err != nil {
			return fmt.Errorf("failed to create %s: %w", s.name, err)
		}
	}
	return nil
}
