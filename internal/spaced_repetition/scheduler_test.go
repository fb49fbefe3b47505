package spaced_repetition

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/example/vocabdrill/internal/database"
	"github.com/example/vocabdrill/pkg/models"
)

// fakeClock is a settable clock for tests
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func mustScheduler(t *testing.T, store Store, clock Clock) *Scheduler {
	t.Helper()
	s, err := New(Config{Store: store, Clock: clock, Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without a store")
	}
}

func TestRecordOutcomeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	clock := &fakeClock{now: t0}
	s := mustScheduler(t, store, clock)

	if err := s.RecordOutcome(ctx, "casa", true, ""); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	rec, ok, err := s.Record(ctx, "casa")
	if err != nil || !ok {
		t.Fatalf("Record: ok=%v err=%v", ok, err)
	}
	if rec.TimesSeen != 1 || rec.TimesCorrect != 1 || rec.ConsecutiveCorrect != 1 {
		t.Errorf("unexpected counters %+v", rec)
	}
	if rec.IntervalDays != 1 || !rec.NextReviewAt.Equal(t0.Add(Day)) {
		t.Errorf("unexpected schedule interval=%v next=%v", rec.IntervalDays, rec.NextReviewAt)
	}

	history, err := store.History(ctx, t0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Tag != models.TagStandard || history[0].ID == "" {
		t.Errorf("unexpected history %+v", history)
	}
}

func TestRecordOutcomeMasteredWord(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: t0}
	s := mustScheduler(t, database.NewMemoryStore(), clock)

	for i := 0; i < 3; i++ {
		if err := s.RecordOutcome(ctx, "casa", true, models.TagStandard); err != nil {
			t.Fatalf("RecordOutcome: %v", err)
		}
		clock.Advance(Day)
	}

	rec, _, _ := s.Record(ctx, "casa")
	if rec.IntervalDays != 15 || rec.EasinessFactor != 2.5 || rec.ConsecutiveCorrect != 3 {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestRecordOutcomeStrugglingWord(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: t0}
	s := mustScheduler(t, database.NewMemoryStore(), clock)

	outcomes := []bool{false, true, false, false, false, false}
	for _, correct := range outcomes {
		if err := s.RecordOutcome(ctx, "cane", correct, ""); err != nil {
			t.Fatalf("RecordOutcome: %v", err)
		}
	}

	rec, _, _ := s.Record(ctx, "cane")
	if rec.TimesSeen != 6 || rec.TimesCorrect != 1 {
		t.Errorf("counters = %d/%d, want 1/6", rec.TimesCorrect, rec.TimesSeen)
	}
	if rec.EasinessFactor != 1.3 {
		t.Errorf("EF = %v, want 1.3", rec.EasinessFactor)
	}

	clock.Advance(2 * Day)
	b, err := s.Classify(ctx, []models.VocabularyItem{{ID: "cane"}})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(b.Weak) != 1 {
		t.Errorf("expected cane in Weak, got %+v", b)
	}
}

func TestRecordOutcomeInvalidItem(t *testing.T) {
	s := mustScheduler(t, database.NewMemoryStore(), &fakeClock{now: t0})

	for _, id := range []string{"", "   "} {
		if err := s.RecordOutcome(context.Background(), id, true, ""); !errors.Is(err, ErrInvalidItem) {
			t.Errorf("RecordOutcome(%q) = %v, want ErrInvalidItem", id, err)
		}
	}
}

func TestRecordOutcomeConcurrent(t *testing.T) {
	ctx := context.Background()
	s := mustScheduler(t, database.NewMemoryStore(), &fakeClock{now: t0})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.RecordOutcome(ctx, "casa", i%2 == 0, ""); err != nil {
				t.Errorf("RecordOutcome: %v", err)
			}
		}(i)
	}
	wg.Wait()

	rec, _, _ := s.Record(ctx, "casa")
	if rec.TimesSeen != 50 || rec.TimesCorrect != 25 {
		t.Errorf("counters = %d/%d, want 25/50", rec.TimesCorrect, rec.TimesSeen)
	}
}

func TestSelectSessionMarksSelected(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	s := mustScheduler(t, store, &fakeClock{now: t0})
	vocab := makeVocab(10)

	session, err := s.SelectSession(ctx, vocab, 10)
	if err != nil {
		t.Fatalf("SelectSession: %v", err)
	}
	if len(session) != 10 {
		t.Fatalf("got %d items, want 10", len(session))
	}

	for _, item := range session {
		rec, ok, _ := store.Get(ctx, item.ID)
		if !ok {
			t.Fatalf("no record for %s", item.ID)
		}
		if rec.LastSelectedAt == nil || !rec.LastSelectedAt.Equal(t0) {
			t.Errorf("%s: LastSelectedAt = %v, want %v", item.ID, rec.LastSelectedAt, t0)
		}
		if rec.TimesSeen != 0 {
			t.Errorf("%s: TimesSeen = %d, want 0", item.ID, rec.TimesSeen)
		}
	}

	// Selection alone must not move items out of New
	b, err := s.Classify(ctx, vocab)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(b.New) != 10 {
		t.Errorf("expected 10 new items after selection, got %d", len(b.New))
	}
}

func TestSelectSessionEmpty(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{}
	s := mustScheduler(t, store, &fakeClock{now: t0})

	got, err := s.SelectSession(ctx, nil, 10)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("empty vocabulary: got %v, %v", got, err)
	}
	got, err = s.SelectSession(ctx, makeVocab(3), 0)
	if err != nil || len(got) != 0 {
		t.Errorf("n=0: got %v, %v", got, err)
	}
}

func TestSelectSessionReviewCooldown(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	clock := &fakeClock{now: t0}
	s := mustScheduler(t, store, clock)

	later := t0.Add(10 * Day)
	if err := store.Upsert(ctx, models.ItemRecord{ItemID: "casa", TimesSeen: 4, TimesCorrect: 4, EasinessFactor: 2.5, IntervalDays: 15, NextReviewAt: &later}); err != nil {
		t.Fatal(err)
	}
	vocab := []models.VocabularyItem{{ID: "casa"}}

	if err := s.MarkSelected(ctx, []string{"casa"}); err != nil {
		t.Fatalf("MarkSelected: %v", err)
	}
	b, _ := s.Classify(ctx, vocab)
	if len(b.Review) != 0 {
		t.Errorf("casa should rest after being selected, got %+v", b)
	}

	clock.Advance(25 * time.Hour)
	b, _ = s.Classify(ctx, vocab)
	if len(b.Review) != 1 {
		t.Errorf("casa should be back in Review, got %+v", b)
	}
}

func TestRecordOutcomeKeepsLastSelected(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	clock := &fakeClock{now: t0}
	s := mustScheduler(t, store, clock)

	if _, err := s.SelectSession(ctx, []models.VocabularyItem{{ID: "gatto"}}, 1); err != nil {
		t.Fatalf("SelectSession: %v", err)
	}
	clock.Advance(time.Minute)
	if err := s.RecordOutcome(ctx, "gatto", true, ""); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	rec, _, _ := store.Get(ctx, "gatto")
	if rec.LastSelectedAt == nil || !rec.LastSelectedAt.Equal(t0) {
		t.Errorf("LastSelectedAt = %v, want %v", rec.LastSelectedAt, t0)
	}
	if rec.TimesSeen != 1 {
		t.Errorf("TimesSeen = %d, want 1", rec.TimesSeen)
	}
}

func TestDueCountAndWeakRecords(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	clock := &fakeClock{now: t0}
	s := mustScheduler(t, store, clock)

	for _, correct := range []bool{true, false, false} {
		if err := s.RecordOutcome(ctx, "cane", correct, ""); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := s.RecordOutcome(ctx, "casa", true, ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.RecordOutcome(ctx, "libro", true, ""); err != nil {
		t.Fatal(err)
	}
	clock.Advance(2 * Day)

	vocab := []models.VocabularyItem{{ID: "cane"}, {ID: "casa"}, {ID: "libro"}, {ID: "gatto"}}
	count, err := s.DueCount(ctx, vocab)
	if err != nil {
		t.Fatalf("DueCount: %v", err)
	}
	// cane is poor and due, libro is due, casa rests for 15 days, gatto is new
	if count != 2 {
		t.Errorf("DueCount = %d, want 2", count)
	}

	weak, err := s.WeakRecords(ctx, 0)
	if err != nil {
		t.Fatalf("WeakRecords: %v", err)
	}
	if len(weak) != 2 || weak[0].ItemID != "cane" || weak[1].ItemID != "libro" {
		t.Errorf("unexpected weak records %+v", weak)
	}

	weak, _ = s.WeakRecords(ctx, 1)
	if len(weak) != 1 {
		t.Errorf("limit ignored: %+v", weak)
	}
}

func TestAggregateStats(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: t0}
	s := mustScheduler(t, database.NewMemoryStore(), clock)

	for i := 0; i < 4; i++ {
		if err := s.RecordOutcome(ctx, "casa", true, models.TagStandard); err != nil {
			t.Fatal(err)
		}
	}
	for _, correct := range []bool{false, true, false} {
		if err := s.RecordOutcome(ctx, "cane", correct, models.TagMultipleChoice); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.MarkSelected(ctx, []string{"gatto"}); err != nil {
		t.Fatal(err)
	}

	stats, err := s.AggregateStats(ctx)
	if err != nil {
		t.Fatalf("AggregateStats: %v", err)
	}
	if stats.TotalItemsTracked != 2 {
		t.Errorf("TotalItemsTracked = %d, want 2", stats.TotalItemsTracked)
	}
	if stats.TotalAttempts != 7 || stats.TotalCorrect != 5 {
		t.Errorf("totals = %d/%d, want 5/7", stats.TotalCorrect, stats.TotalAttempts)
	}
	if stats.BestStreak != 4 || stats.AverageStreak != 2 {
		t.Errorf("streaks best=%d avg=%v, want 4 and 2", stats.BestStreak, stats.AverageStreak)
	}
	if len(stats.TopPerforming) != 2 || stats.TopPerforming[0].ItemID != "casa" {
		t.Errorf("unexpected top performing %+v", stats.TopPerforming)
	}
	if len(stats.Weakest) != 2 || stats.Weakest[0].ItemID != "cane" {
		t.Errorf("unexpected weakest %+v", stats.Weakest)
	}
	if len(stats.DailyPerformance) != 1 || stats.DailyPerformance[0].Attempts != 7 {
		t.Errorf("unexpected daily performance %+v", stats.DailyPerformance)
	}
	if len(stats.QuizTypes) != 2 {
		t.Errorf("unexpected quiz types %+v", stats.QuizTypes)
	}
}

// failingStore fails every call
type failingStore struct{}

var errBackend = errors.New("disk full")

func (failingStore) Get(context.Context, string) (models.ItemRecord, bool, error) {
	return models.ItemRecord{}, false, errBackend
}
func (failingStore) Upsert(context.Context, models.ItemRecord) error { return errBackend }
func (failingStore) All(context.Context) ([]models.ItemRecord, error) {
	return nil, errBackend
}
func (failingStore) QueryIDs(context.Context, models.RecordFilter) ([]string, error) {
	return nil, errBackend
}
func (failingStore) SaveOutcome(context.Context, models.ItemRecord, models.QuizHistoryEntry) error {
	return errBackend
}
func (failingStore) MarkSelected(context.Context, []string, time.Time) error { return errBackend }
func (failingStore) HistorySummary(context.Context, time.Time) (*models.HistorySummary, error) {
	return nil, errBackend
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	s := mustScheduler(t, failingStore{}, &fakeClock{now: t0})
	vocab := makeVocab(5)

	checks := map[string]func() error{
		"RecordOutcome":  func() error { return s.RecordOutcome(ctx, "casa", true, "") },
		"SelectSession":  func() error { _, err := s.SelectSession(ctx, vocab, 3); return err },
		"MarkSelected":   func() error { return s.MarkSelected(ctx, []string{"casa"}) },
		"Classify":       func() error { _, err := s.Classify(ctx, vocab); return err },
		"WeakRecords":    func() error { _, err := s.WeakRecords(ctx, 0); return err },
		"AggregateStats": func() error { _, err := s.AggregateStats(ctx); return err },
	}
	for name, call := range checks {
		err := call()
		if !errors.Is(err, ErrStorage) {
			t.Errorf("%s: err = %v, want ErrStorage", name, err)
		}
		if !errors.Is(err, errBackend) {
			t.Errorf("%s: err = %v, want wrapped backend error", name, err)
		}
	}
}

func TestMarkSelectedIgnoresBlankIDs(t *testing.T) {
	s := mustScheduler(t, failingStore{}, &fakeClock{now: t0})

	// Nothing to mark, so the failing store is never reached
	if err := s.MarkSelected(context.Background(), []string{"", " "}); err != nil {
		t.Errorf("MarkSelected: %v", err)
	}
}
