// Package cli implements the vocabdrill commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/config"
	"github.com/example/vocabdrill/internal/database"
	"github.com/example/vocabdrill/internal/excel"
	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

var (
	dbPath     string
	dbDriver   string
	vocabFile  string
	sheetName  string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "vocabdrill",
	Short: "Spaced-repetition vocabulary drills",
	Long: "Practise a vocabulary list with SM-2 scheduling. Sessions mix new, weak and review words;\n" +
		"every answer updates the word's schedule. Settings come from VOCAB_* variables or a .env file.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database file, or URL for postgres (default: $VOCAB_DB_PATH)")
	RootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Database driver: sqlite3 or postgres (default: $VOCAB_DB_DRIVER)")
	RootCmd.PersistentFlags().StringVar(&vocabFile, "vocab", "", "Vocabulary .xlsx or .csv file (default: $VOCAB_FILE)")
	RootCmd.PersistentFlags().StringVar(&sheetName, "sheet", "", "Workbook sheet (default: first sheet)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
}

// loadConfig reads the environment and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.DBDriver = dbDriver
	}
	if flags.Changed("db") {
		if cfg.DBDriver == database.DriverPostgres {
			cfg.DatabaseURL = dbPath
		} else {
			cfg.DBPath = dbPath
		}
	}
	if flags.Changed("vocab") {
		cfg.VocabularyFile = vocabFile
	}
	if flags.Changed("sheet") {
		cfg.SheetName = sheetName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app bundles the services a command works with
type app struct {
	cfg   *config.Config
	repo  *database.ItemRecordRepository
	sched *spaced_repetition.Scheduler
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.DatabaseOptions())
	if err != nil {
		return nil, err
	}
	repo := database.NewItemRecordRepository(db)

	sched, err := spaced_repetition.New(spaced_repetition.Config{Store: repo})
	if err != nil {
		repo.Close()
		return nil, err
	}
	return &app{cfg: cfg, repo: repo, sched: sched}, nil
}

func (a *app) Close() error {
	return a.repo.Close()
}

func (a *app) vocabulary() ([]models.VocabularyItem, error) {
	return excel.LoadVocabulary(a.cfg.VocabularyFile, a.cfg.SheetName)
}

func wantJSON() bool {
	return formatFlag == "json"
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
