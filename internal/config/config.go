package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/example/vocabdrill/internal/database"
)

// Config represents the configuration of the vocabulary trainer
type Config struct {
	// Database driver: sqlite3 or postgres
	DBDriver string `env:"VOCAB_DB_DRIVER" envDefault:"sqlite3"`
	// SQLite database file
	DBPath string `env:"VOCAB_DB_PATH" envDefault:"data/vocab_progress.db"`
	// Postgres connection URL, used when DBDriver is postgres
	DatabaseURL string `env:"VOCAB_DATABASE_URL"`

	// Vocabulary workbook (.xlsx) or CSV file
	VocabularyFile string `env:"VOCAB_FILE" envDefault:"vocabulary.xlsx"`
	// Sheet to read; empty means the first sheet
	SheetName string `env:"VOCAB_SHEET"`
	// Default number of words per session
	SessionSize int `env:"VOCAB_SESSION_SIZE" envDefault:"10"`

	// Telegram bot token and chat for due reminders; reminders are logged when unset
	TelegramToken  string `env:"VOCAB_TELEGRAM_TOKEN"`
	TelegramChatID int64  `env:"VOCAB_TELEGRAM_CHAT_ID"`

	// Time between reminder checks
	ReminderInterval time.Duration `env:"VOCAB_REMINDER_INTERVAL" envDefault:"1h"`
	// Reminders are only sent between these hours (inclusive, UTC)
	NotificationStartHour int `env:"VOCAB_NOTIFICATION_START_HOUR" envDefault:"8"`
	NotificationEndHour   int `env:"VOCAB_NOTIFICATION_END_HOUR" envDefault:"22"`
}

// Load reads an optional .env file and then the environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the settings are usable
func (c *Config) Validate() error {
	switch c.DBDriver {
	case database.DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("VOCAB_DB_PATH is required for %s", c.DBDriver)
		}
	case database.DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("VOCAB_DATABASE_URL is required for %s", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}

	if c.SessionSize < 1 {
		return fmt.Errorf("session size must be positive, got %d", c.SessionSize)
	}
	if c.ReminderInterval <= 0 {
		return fmt.Errorf("reminder interval must be positive, got %s", c.ReminderInterval)
	}
	for _, h := range []int{c.NotificationStartHour, c.NotificationEndHour} {
		if h < 0 || h > 23 {
			return fmt.Errorf("notification hour %d is out of range 0-23", h)
		}
	}
	if c.NotificationStartHour > c.NotificationEndHour {
		return fmt.Errorf("notification start hour %d is after end hour %d", c.NotificationStartHour, c.NotificationEndHour)
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("VOCAB_TELEGRAM_CHAT_ID is required when a Telegram token is set")
	}
	return nil
}

// DatabaseOptions returns the connection options for the configured driver
func (c *Config) DatabaseOptions() database.Options {
	if c.DBDriver == database.DriverPostgres {
		return database.Options{Driver: c.DBDriver, DSN: c.DatabaseURL}
	}
	return database.Options{Driver: c.DBDriver, DSN: c.DBPath}
}
