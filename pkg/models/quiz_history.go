package models

import "time"

// Quiz tags recorded with every answer
const (
	TagStandard       = "standard"
	TagReverse        = "reverse"
	TagMultipleChoice = "multiple-choice"
	TagFlashcard      = "flashcard"
	TagRetry          = "retry"
)

// QuizHistoryEntry is an append-only log line for a single answer.
// It feeds reporting only; scheduling decisions never read it.
type QuizHistoryEntry struct {
	ID         string    `json:"id" db:"id"`
	ItemID     string    `json:"item_id" db:"item_id"`
	Correct    bool      `json:"correct" db:"correct"`
	Tag        string    `json:"tag" db:"quiz_type"` // e.g., "standard", "multiple-choice", "flashcard", "retry"
	AnsweredAt time.Time `json:"answered_at" db:"answered_at"`
}
