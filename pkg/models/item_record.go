package models

import "time"

// InitialEasinessFactor is the EF every record starts with
const InitialEasinessFactor = 2.5

// ItemRecord tracks the learning progress of a single vocabulary item using the SM-2 algorithm
type ItemRecord struct {
	ItemID             string     `json:"item_id" db:"item_id"`
	TimesSeen          int        `json:"times_seen" db:"times_seen"`
	TimesCorrect       int        `json:"times_correct" db:"times_correct"`
	EasinessFactor     float64    `json:"easiness_factor" db:"easiness_factor"`         // SM-2 EF parameter
	IntervalDays       float64    `json:"interval_days" db:"interval_days"`             // Current interval in days
	ConsecutiveCorrect int        `json:"consecutive_correct" db:"consecutive_correct"` // Current streak
	LastSeenAt         *time.Time `json:"last_seen_at,omitempty" db:"last_seen_at"`
	NextReviewAt       *time.Time `json:"next_review_at,omitempty" db:"next_review_at"`
	LastSelectedAt     *time.Time `json:"last_selected_at,omitempty" db:"last_selected_at"` // Last inclusion in a session
}

// NewItemRecord returns a zero-activity record for the given item
func NewItemRecord(itemID string) ItemRecord {
	return ItemRecord{
		ItemID:         itemID,
		EasinessFactor: InitialEasinessFactor,
	}
}

// SuccessRatio returns TimesCorrect/TimesSeen.
// The boolean is false when the item has never been answered.
func (r ItemRecord) SuccessRatio() (float64, bool) {
	if r.TimesSeen == 0 {
		return 0, false
	}
	return float64(r.TimesCorrect) / float64(r.TimesSeen), true
}

// IsDue reports whether the next review is at or before now.
// A record without a scheduled review is due.
func (r ItemRecord) IsDue(now time.Time) bool {
	return r.NextReviewAt == nil || !r.NextReviewAt.After(now)
}

// Clone returns a copy that shares no pointers with r
func (r ItemRecord) Clone() ItemRecord {
	out := r
	out.LastSeenAt = cloneTime(r.LastSeenAt)
	out.NextReviewAt = cloneTime(r.NextReviewAt)
	out.LastSelectedAt = cloneTime(r.LastSelectedAt)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
