package spaced_repetition

import (
	"math"
	"testing"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNextEasinessFactor(t *testing.T) {
	sm := NewSM2()

	tests := []struct {
		name    string
		ef      float64
		quality QualityResponse
		want    float64
	}{
		{"perfect at max stays at max", 2.5, QualityPerfect, 2.5},
		{"perfect raises", 2.0, QualityPerfect, 2.1},
		{"wrong lowers", 2.5, QualityIncorrectFamiliar, 2.18},
		{"wrong clamps at min", 1.5, QualityIncorrectFamiliar, 1.3},
		{"min stays at min", 1.3, QualityIncorrectFamiliar, 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sm.NextEasinessFactor(tt.ef, tt.quality); !approx(got, tt.want) {
				t.Errorf("NextEasinessFactor(%v, %d) = %v, want %v", tt.ef, tt.quality, got, tt.want)
			}
		})
	}
}

func TestQualityFor(t *testing.T) {
	if QualityFor(true) != 5 {
		t.Errorf("QualityFor(true) = %d, want 5", QualityFor(true))
	}
	if QualityFor(false) != 2 {
		t.Errorf("QualityFor(false) = %d, want 2", QualityFor(false))
	}
}

func TestProcessIntervalProgression(t *testing.T) {
	sm := NewSM2()
	rec := models.NewItemRecord("casa")

	wantIntervals := []float64{1, 6, 15, 37.5}
	now := t0
	for i, want := range wantIntervals {
		sm.Process(&rec, true, now)
		if !approx(rec.IntervalDays, want) {
			t.Fatalf("answer %d: interval = %v, want %v", i+1, rec.IntervalDays, want)
		}
		if rec.ConsecutiveCorrect != i+1 {
			t.Fatalf("answer %d: streak = %d", i+1, rec.ConsecutiveCorrect)
		}
		wantNext := now.Add(time.Duration(want * float64(Day)))
		if !rec.NextReviewAt.Equal(wantNext) {
			t.Fatalf("answer %d: next review = %v, want %v", i+1, rec.NextReviewAt, wantNext)
		}
		if !rec.LastSeenAt.Equal(now) {
			t.Fatalf("answer %d: last seen = %v, want %v", i+1, rec.LastSeenAt, now)
		}
		now = *rec.NextReviewAt
	}
	if rec.EasinessFactor != 2.5 {
		t.Errorf("EF = %v, want 2.5", rec.EasinessFactor)
	}
}

func TestProcessSeededMasteredRecord(t *testing.T) {
	sm := NewSM2()
	rec := models.ItemRecord{
		ItemID:             "casa",
		TimesSeen:          3,
		TimesCorrect:       3,
		EasinessFactor:     2.5,
		IntervalDays:       6,
		ConsecutiveCorrect: 2,
	}

	sm.Process(&rec, true, t0)

	if rec.TimesSeen != 4 || rec.TimesCorrect != 4 {
		t.Errorf("counters = %d/%d, want 4/4", rec.TimesCorrect, rec.TimesSeen)
	}
	if rec.ConsecutiveCorrect != 3 {
		t.Errorf("streak = %d, want 3", rec.ConsecutiveCorrect)
	}
	if !approx(rec.IntervalDays, 15) {
		t.Errorf("interval = %v, want 15", rec.IntervalDays)
	}
	if rec.EasinessFactor != 2.5 {
		t.Errorf("EF = %v, want 2.5", rec.EasinessFactor)
	}
	if want := t0.Add(15 * Day); rec.NextReviewAt == nil || !rec.NextReviewAt.Equal(want) {
		t.Errorf("next review = %v, want %v", rec.NextReviewAt, want)
	}
}

func TestProcessWrongAnswerResets(t *testing.T) {
	sm := NewSM2()
	rec := models.NewItemRecord("cane")

	sm.Process(&rec, true, t0)
	sm.Process(&rec, true, t0)
	sm.Process(&rec, false, t0)

	if rec.ConsecutiveCorrect != 0 {
		t.Errorf("streak = %d, want 0", rec.ConsecutiveCorrect)
	}
	if rec.IntervalDays != 1 {
		t.Errorf("interval = %v, want 1", rec.IntervalDays)
	}
	if !approx(rec.EasinessFactor, 2.18) {
		t.Errorf("EF = %v, want 2.18", rec.EasinessFactor)
	}
	if rec.TimesSeen != 3 || rec.TimesCorrect != 2 {
		t.Errorf("counters = %d/%d, want 2/3", rec.TimesCorrect, rec.TimesSeen)
	}
	if want := t0.Add(Day); !rec.NextReviewAt.Equal(want) {
		t.Errorf("next review = %v, want %v", rec.NextReviewAt, want)
	}
}

func TestProcessFirstAnswerWrong(t *testing.T) {
	sm := NewSM2()
	rec := models.NewItemRecord("gatto")

	sm.Process(&rec, false, t0)

	if rec.IntervalDays != 1 {
		t.Errorf("interval = %v, want 1", rec.IntervalDays)
	}
	if rec.TimesSeen != 1 || rec.TimesCorrect != 0 {
		t.Errorf("counters = %d/%d, want 0/1", rec.TimesCorrect, rec.TimesSeen)
	}
}

func TestProcessEasinessFactorStaysInBounds(t *testing.T) {
	sm := NewSM2()
	rec := models.NewItemRecord("x")

	for i := 0; i < 20; i++ {
		sm.Process(&rec, i%3 == 0, t0)
		if rec.EasinessFactor < 1.3 || rec.EasinessFactor > 2.5 {
			t.Fatalf("answer %d: EF %v out of bounds", i, rec.EasinessFactor)
		}
		if rec.TimesCorrect > rec.TimesSeen {
			t.Fatalf("answer %d: correct %d > seen %d", i, rec.TimesCorrect, rec.TimesSeen)
		}
	}
}

func TestProcessZeroEasinessFactor(t *testing.T) {
	sm := NewSM2()
	rec := models.ItemRecord{ItemID: "x"}

	sm.Process(&rec, true, t0)
	if rec.EasinessFactor != 2.5 {
		t.Errorf("EF = %v, want 2.5", rec.EasinessFactor)
	}
}

func TestIsMastered(t *testing.T) {
	sm := NewSM2()

	tests := []struct {
		seen, correct int
		want          bool
	}{
		{0, 0, false},
		{10, 7, true},
		{10, 6, false},
		{1, 1, true},
	}
	for _, tt := range tests {
		rec := models.ItemRecord{TimesSeen: tt.seen, TimesCorrect: tt.correct}
		if got := sm.IsMastered(rec); got != tt.want {
			t.Errorf("IsMastered(%d/%d) = %v, want %v", tt.correct, tt.seen, got, tt.want)
		}
	}
}
