package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// Day is the length of one scheduling day
const Day = 24 * time.Hour

// SM2 implements the SuperMemo-2 algorithm for spaced repetition together with
// the bucket thresholds used to compose practice sessions
type SM2 struct {
	// Bounds of the easiness factor
	MinEasinessFactor float64
	MaxEasinessFactor float64
	// Intervals in days after the first and second consecutive correct answers
	FirstInterval  float64
	SecondInterval float64
	// Interval in days after a wrong answer
	LapseInterval float64
	// Success ratio below which an answered item is weak
	MasteryRatio float64
	// How long a mastered item rests after being offered before it may be offered again
	ReselectCooldown time.Duration
	// Session composition ratios for the New and Weak buckets; Review takes the rest
	NewShare  float64
	WeakShare float64
}

// NewSM2 creates a new SM2 instance with default settings
func NewSM2() *SM2 {
	return &SM2{
		MinEasinessFactor: 1.3,
		MaxEasinessFactor: 2.5,
		FirstInterval:     1,
		SecondInterval:    6,
		LapseInterval:     1,
		MasteryRatio:      0.7,
		ReselectCooldown:  24 * time.Hour,
		NewShare:          0.3,
		WeakShare:         0.4,
	}
}

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// QualityFor maps a pass/fail answer to a fixed SM-2 quality.
// Answers are not user-graded, so only two qualities ever occur.
func QualityFor(correct bool) QualityResponse {
	if correct {
		return QualityPerfect
	}
	return QualityIncorrectFamiliar
}

// NextEasinessFactor applies the SM-2 EF update and clamps the result to [Min, Max]
func (sm *SM2) NextEasinessFactor(ef float64, quality QualityResponse) float64 {
	q := 5.0 - float64(quality)
	ef = ef + (0.1 - q*(0.08+q*0.02))
	return math.Min(sm.MaxEasinessFactor, math.Max(sm.MinEasinessFactor, ef))
}

// Process applies one answer to the record at time now.
// The record is updated in place; a zero-valued EF is treated as a fresh record.
func (sm *SM2) Process(rec *models.ItemRecord, correct bool, now time.Time) {
	if rec.EasinessFactor == 0 {
		rec.EasinessFactor = models.InitialEasinessFactor
	}

	rec.TimesSeen++
	if correct {
		rec.TimesCorrect++
		rec.ConsecutiveCorrect++
	} else {
		rec.ConsecutiveCorrect = 0
	}

	rec.EasinessFactor = sm.NextEasinessFactor(rec.EasinessFactor, QualityFor(correct))

	switch {
	case !correct:
		rec.IntervalDays = sm.LapseInterval
	case rec.ConsecutiveCorrect == 1:
		rec.IntervalDays = sm.FirstInterval
	case rec.ConsecutiveCorrect == 2:
		rec.IntervalDays = sm.SecondInterval
	default:
		rec.IntervalDays = rec.IntervalDays * rec.EasinessFactor
	}

	next := now.Add(daysToDuration(rec.IntervalDays))
	seen := now
	rec.NextReviewAt = &next
	rec.LastSeenAt = &seen
}

// IsMastered reports whether the item is answered well enough to leave the Weak bucket
func (sm *SM2) IsMastered(rec models.ItemRecord) bool {
	ratio, ok := rec.SuccessRatio()
	return ok && ratio >= sm.MasteryRatio
}

func daysToDuration(days float64) time.Duration {
	return time.Duration(days * float64(Day))
}
