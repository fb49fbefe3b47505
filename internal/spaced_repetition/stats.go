package spaced_repetition

import (
	"context"
	"math"
	"sort"

	"github.com/example/vocabdrill/pkg/models"
)

const (
	// statsListLimit caps the top-performing and weakest lists
	statsListLimit = 10
	// topPerformingMinSeen is how often an item must be answered to rank as top performing
	topPerformingMinSeen = 3
	// statsHistoryDays is the window of the daily performance report
	statsHistoryDays = 30
)

// AggregateStats reports progress across every answered item. It never changes scheduling state.
func (s *Scheduler) AggregateStats(ctx context.Context) (*models.AggregateStats, error) {
	now := s.clock.Now()

	records, err := s.store.All(ctx)
	if err != nil {
		return nil, storageError("load records", "", err)
	}
	summary, err := s.store.HistorySummary(ctx, now.AddDate(0, 0, -statsHistoryDays))
	if err != nil {
		return nil, storageError("summarise history", "", err)
	}

	stats := &models.AggregateStats{
		TotalAttempts:    summary.TotalAttempts,
		TotalCorrect:     summary.TotalCorrect,
		DailyPerformance: summary.Daily,
		QuizTypes:        summary.QuizTypes,
		TopPerforming:    []models.ItemPerformance{},
		Weakest:          []models.ItemPerformance{},
	}
	if summary.TotalAttempts > 0 {
		stats.Accuracy = float64(summary.TotalCorrect) / float64(summary.TotalAttempts) * 100
	}

	tracked := make([]models.ItemRecord, 0, len(records))
	streakSum := 0
	for _, rec := range records {
		// Records created by selection alone have no answers to report
		if rec.TimesSeen == 0 {
			continue
		}
		tracked = append(tracked, rec)
		streakSum += rec.ConsecutiveCorrect
		if rec.ConsecutiveCorrect > stats.BestStreak {
			stats.BestStreak = rec.ConsecutiveCorrect
		}
		if rec.IsDue(now) {
			stats.DueForReview++
		}
	}
	stats.TotalItemsTracked = len(tracked)
	if len(tracked) > 0 {
		stats.AverageStreak = math.Round(float64(streakSum)/float64(len(tracked))*10) / 10
	}

	// Top performing: best rate, then longest streak
	var top []models.ItemPerformance
	for _, rec := range tracked {
		if rec.TimesSeen >= topPerformingMinSeen {
			top = append(top, performanceOf(rec))
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].SuccessRate != top[j].SuccessRate {
			return top[i].SuccessRate > top[j].SuccessRate
		}
		if top[i].Streak != top[j].Streak {
			return top[i].Streak > top[j].Streak
		}
		return top[i].ItemID < top[j].ItemID
	})
	stats.TopPerforming = append(stats.TopPerforming, limitPerformance(top)...)

	// Weakest: worst rate, then most attempts
	weakest := make([]models.ItemPerformance, 0, len(tracked))
	for _, rec := range tracked {
		weakest = append(weakest, performanceOf(rec))
	}
	sort.SliceStable(weakest, func(i, j int) bool {
		if weakest[i].SuccessRate != weakest[j].SuccessRate {
			return weakest[i].SuccessRate < weakest[j].SuccessRate
		}
		if weakest[i].TimesSeen != weakest[j].TimesSeen {
			return weakest[i].TimesSeen > weakest[j].TimesSeen
		}
		return weakest[i].ItemID < weakest[j].ItemID
	})
	stats.Weakest = append(stats.Weakest, limitPerformance(weakest)...)

	return stats, nil
}

func performanceOf(rec models.ItemRecord) models.ItemPerformance {
	ratio, _ := rec.SuccessRatio()
	return models.ItemPerformance{
		ItemID:         rec.ItemID,
		TimesSeen:      rec.TimesSeen,
		TimesCorrect:   rec.TimesCorrect,
		SuccessRate:    ratio * 100,
		EasinessFactor: rec.EasinessFactor,
		Streak:         rec.ConsecutiveCorrect,
	}
}

func limitPerformance(list []models.ItemPerformance) []models.ItemPerformance {
	if len(list) > statsListLimit {
		return list[:statsListLimit]
	}
	return list
}
