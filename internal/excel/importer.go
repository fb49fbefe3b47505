package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabdrill/pkg/models"
)

var (
	// ErrNoVocabulary is returned when a file holds no usable rows
	ErrNoVocabulary = errors.New("excel: no vocabulary items found")
	// ErrDuplicateWord is returned by AppendWord for a term that is already listed
	ErrDuplicateWord = errors.New("excel: word already exists")
)

// Column layout shared by the xlsx and csv formats
const (
	termColumn = iota
	translationColumn
	categoryColumn
	difficultyColumn
)

var header = []string{"term", "translation", "category", "difficulty"}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath  string // Path to the Excel or CSV file
	SheetName string // Sheet to read; empty means the first sheet
	StartRow  int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration for a file
func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath: path,
		StartRow: 2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	Items          []models.VocabularyItem
	TotalProcessed int
	Skipped        int
	Duplicates     int
	Errors         []string
}

// LoadVocabulary reads every usable item from an .xlsx or .csv file
func LoadVocabulary(path, sheet string) ([]models.VocabularyItem, error) {
	config := DefaultImportConfig(path)
	config.SheetName = sheet

	result, err := ImportWords(config)
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoVocabulary, path)
	}
	return result.Items, nil
}

// ImportWords imports words from an Excel or CSV file
func ImportWords(config ImportConfig) (*ImportResult, error) {
	if config.StartRow < 1 {
		config.StartRow = 1
	}

	var (
		rows [][]string
		err  error
	)
	if isCSV(config.FilePath) {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	seen := make(map[string]bool)

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		if blank(row) {
			continue
		}
		result.TotalProcessed++

		item, err := processRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		// The first row of a term wins
		if seen[item.ID] {
			result.Duplicates++
			continue
		}
		seen[item.ID] = true
		result.Items = append(result.Items, item)
	}

	return result, nil
}

// readExcel returns the rows of a workbook sheet
func readExcel(path, sheet string) ([][]string, error) {
	// Open Excel file
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns the records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processRow turns one row into a vocabulary item, applying the defaults
func processRow(row []string) (models.VocabularyItem, error) {
	term := cell(row, termColumn)
	translation := cell(row, translationColumn)

	if term == "" {
		return models.VocabularyItem{}, fmt.Errorf("word cannot be empty")
	}
	if translation == "" {
		return models.VocabularyItem{}, fmt.Errorf("translation cannot be empty")
	}

	category := strings.ToLower(cell(row, categoryColumn))
	if category == "" {
		category = models.DefaultCategory
	}

	return models.VocabularyItem{
		ID:          term,
		Translation: translation,
		Category:    category,
		Difficulty:  parseIntOrDefault(cell(row, difficultyColumn), models.MinDifficulty, models.MaxDifficulty, models.DefaultDifficulty),
	}, nil
}

// AppendWord adds a row for item at the end of the vocabulary file, creating the file if needed
func AppendWord(config ImportConfig, item models.VocabularyItem) error {
	item.ID = strings.TrimSpace(item.ID)
	item.Translation = strings.TrimSpace(item.Translation)
	if item.ID == "" || item.Translation == "" {
		return fmt.Errorf("word and translation cannot be empty")
	}
	item.Category = strings.ToLower(strings.TrimSpace(item.Category))
	if item.Category == "" {
		item.Category = models.DefaultCategory
	}
	if item.Difficulty == 0 {
		item.Difficulty = models.DefaultDifficulty
	}
	if item.Difficulty < models.MinDifficulty || item.Difficulty > models.MaxDifficulty {
		return fmt.Errorf("difficulty must be between %d and %d", models.MinDifficulty, models.MaxDifficulty)
	}

	if _, err := os.Stat(config.FilePath); err == nil {
		existing, err := ImportWords(config)
		if err != nil {
			return err
		}
		for _, w := range existing.Items {
			if w.ID == item.ID {
				return fmt.Errorf("%w: %s", ErrDuplicateWord, item.ID)
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check vocabulary file: %w", err)
	}

	if isCSV(config.FilePath) {
		return appendCSV(config.FilePath, item)
	}
	return appendExcel(config, item)
}

func appendExcel(config ImportConfig, item models.VocabularyItem) error {
	var f *excelize.File
	created := false

	if _, err := os.Stat(config.FilePath); errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		created = true
	} else {
		f, err = excelize.OpenFile(config.FilePath)
		if err != nil {
			return fmt.Errorf("failed to open Excel file: %w", err)
		}
	}
	defer f.Close()

	sheet := config.SheetName
	if created {
		if sheet != "" && sheet != f.GetSheetName(0) {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to name sheet: %w", err)
			}
		}
		sheet = f.GetSheetName(0)
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	} else if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}

	cellRef, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("failed to address new row: %w", err)
	}
	values := []interface{}{item.ID, item.Translation, item.Category, item.Difficulty}
	if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	if created {
		if dir := filepath.Dir(config.FilePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		}
		err = f.SaveAs(config.FilePath)
	} else {
		err = f.Save()
	}
	if err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func appendCSV(path string, item models.VocabularyItem) error {
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, os.ErrNotExist)
	if created {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if created {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := w.Write([]string{item.ID, item.Translation, item.Category, strconv.Itoa(item.Difficulty)}); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

func isCSV(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".csv"
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Helper function to parse integer within a range
func parseIntInRange(s string, min, max int) (int, error) {
	val, err := strconv.Atoi(strings.TrimSuffix(s, ".0"))
	if err != nil {
		return min, err
	}
	if val < min {
		return min, nil
	}
	if val > max {
		return max, nil
	}
	return val, nil
}

// Helper function to parse integer with default value
func parseIntOrDefault(s string, min, max, defaultVal int) int {
	if val, err := parseIntInRange(s, min, max); err == nil {
		return val
	}
	return defaultVal
}
