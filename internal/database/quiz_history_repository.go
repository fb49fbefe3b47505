package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// History returns the quiz history entries answered at or after since, oldest first
func (r *ItemRecordRepository) History(ctx context.Context, since time.Time) ([]models.QuizHistoryEntry, error) {
	var entries []models.QuizHistoryEntry
	query := r.db.Rebind(`
		SELECT id, item_id, correct, quiz_type, answered_at
		FROM quiz_history
		WHERE answered_at >= ?
		ORDER BY answered_at ASC, id ASC
	`)
	if err := r.db.SelectContext(ctx, &entries, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("failed to get quiz history: %w", err)
	}
	return entries, nil
}

// HistorySummary returns totals over the whole quiz history and per-day figures since the given time
func (r *ItemRecordRepository) HistorySummary(ctx context.Context, since time.Time) (*models.HistorySummary, error) {
	summary := &models.HistorySummary{Since: since}

	var totals struct {
		Attempts int `db:"attempts"`
		Correct  int `db:"correct"`
	}
	err := r.db.GetContext(ctx, &totals, `
		SELECT COUNT(*) AS attempts,
		       COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0) AS correct
		FROM quiz_history
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count quiz history: %w", err)
	}
	summary.TotalAttempts = totals.Attempts
	summary.TotalCorrect = totals.Correct

	var types []models.QuizTypeStats
	err = r.db.SelectContext(ctx, &types, `
		SELECT quiz_type,
		       COUNT(*) AS count,
		       COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0) AS correct
		FROM quiz_history
		GROUP BY quiz_type
		ORDER BY quiz_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz type statistics: %w", err)
	}
	summary.QuizTypes = withAccuracy(types)

	// Group by day in Go: SQLite and Postgres disagree on date functions
	entries, err := r.History(ctx, since)
	if err != nil {
		return nil, err
	}
	summary.Daily = dailyPerformance(entries)

	return summary, nil
}

// dailyPerformance groups entries by UTC calendar day, oldest day first
func dailyPerformance(entries []models.QuizHistoryEntry) []models.DailyPerformance {
	byDate := make(map[string]*models.DailyPerformance)
	for _, e := range entries {
		date := e.AnsweredAt.UTC().Format("2006-01-02")
		day, ok := byDate[date]
		if !ok {
			day = &models.DailyPerformance{Date: date}
			byDate[date] = day
		}
		day.Attempts++
		if e.Correct {
			day.Correct++
		}
	}

	days := make([]models.DailyPerformance, 0, len(byDate))
	for _, day := range byDate {
		day.Accuracy = float64(day.Correct) / float64(day.Attempts) * 100
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func withAccuracy(types []models.QuizTypeStats) []models.QuizTypeStats {
	out := make([]models.QuizTypeStats, 0, len(types))
	for _, t := range types {
		if t.Count > 0 {
			t.Accuracy = float64(t.Correct) / float64(t.Count) * 100
		}
		out = append(out, t)
	}
	return out
}
