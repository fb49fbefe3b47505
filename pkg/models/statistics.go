package models

import "time"

// AggregateStats is the read-only progress report across all tracked items
type AggregateStats struct {
	TotalItemsTracked int                `json:"total_items_tracked"`
	TotalAttempts     int                `json:"total_attempts"`
	TotalCorrect      int                `json:"total_correct"`
	Accuracy          float64            `json:"accuracy"` // percent
	DueForReview      int                `json:"due_for_review"`
	BestStreak        int                `json:"best_streak"`
	AverageStreak     float64            `json:"average_streak"`
	TopPerforming     []ItemPerformance  `json:"top_performing"`
	Weakest           []ItemPerformance  `json:"weakest"`
	DailyPerformance  []DailyPerformance `json:"daily_performance"`
	QuizTypes         []QuizTypeStats    `json:"quiz_types"`
}

// ItemPerformance summarises one item for the top/weakest lists
type ItemPerformance struct {
	ItemID         string  `json:"item_id"`
	TimesSeen      int     `json:"times_seen"`
	TimesCorrect   int     `json:"times_correct"`
	SuccessRate    float64 `json:"success_rate"` // percent
	EasinessFactor float64 `json:"easiness_factor"`
	Streak         int     `json:"streak"`
}

// DailyPerformance holds the answers given on one calendar day (UTC)
type DailyPerformance struct {
	Date     string  `json:"date"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// QuizTypeStats holds the answers recorded under one quiz tag
type QuizTypeStats struct {
	Tag      string  `json:"tag" db:"quiz_type"`
	Count    int     `json:"count" db:"count"`
	Correct  int     `json:"correct" db:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// HistorySummary is what the store reports about the quiz history log
type HistorySummary struct {
	TotalAttempts int
	TotalCorrect  int
	Since         time.Time
	Daily         []DailyPerformance
	QuizTypes     []QuizTypeStats
}

// RecordFilter selects item records by scheduling state.
// DueBefore and RatioBelow are alternatives: a record matches when either
// applies. MinSeen is always required. Zero values disable a clause.
type RecordFilter struct {
	DueBefore  time.Time
	RatioBelow float64
	MinSeen    int
}
