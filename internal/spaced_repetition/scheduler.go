package spaced_repetition

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/example/vocabdrill/pkg/models"
)

// Store is the durable record backend the scheduler reads and writes.
// Implementations must make SaveOutcome and MarkSelected all-or-nothing.
type Store interface {
	// Get returns the record for an item; the boolean is false when none exists
	Get(ctx context.Context, itemID string) (models.ItemRecord, bool, error)

	// Upsert creates or replaces a record as a whole
	Upsert(ctx context.Context, rec models.ItemRecord) error

	// All returns a snapshot of every record
	All(ctx context.Context) ([]models.ItemRecord, error)

	// QueryIDs returns the ids of records matching the filter
	QueryIDs(ctx context.Context, filter models.RecordFilter) ([]string, error)

	// SaveOutcome appends the history entry and writes the outcome fields of
	// the record in one transaction. LastSelectedAt is left as stored.
	SaveOutcome(ctx context.Context, rec models.ItemRecord, entry models.QuizHistoryEntry) error

	// MarkSelected sets LastSelectedAt for every id, creating missing records
	MarkSelected(ctx context.Context, itemIDs []string, at time.Time) error

	// HistorySummary reports totals over the whole log and per-day figures since the given time
	HistorySummary(ctx context.Context, since time.Time) (*models.HistorySummary, error)
}

// Clock is the time source of the scheduler
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in UTC
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

// Config configures a Scheduler.
// Zero values produce defaults; only Store is required.
type Config struct {
	Store Store
	Clock Clock      // nil → SystemClock
	Rand  *rand.Rand // nil → seeded from the clock
	SM2   *SM2       // nil → NewSM2()
}

// Scheduler records quiz outcomes and composes practice sessions
type Scheduler struct {
	store Store
	clock Clock
	sm2   *SM2
	locks *itemLocks

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a Scheduler from the given config
func New(cfg Config) (*Scheduler, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("spaced_repetition: store is required")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock
	}
	sm := cfg.SM2
	if sm == nil {
		sm = NewSM2()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(clock.Now().UnixNano()))
	}

	return &Scheduler{
		store: cfg.Store,
		clock: clock,
		sm2:   sm,
		locks: newItemLocks(),
		rng:   rng,
	}, nil
}

// RecordOutcome applies one answer to the item's record and appends it to the quiz history.
// Unknown items get a fresh record. Calls for the same item are applied in submission order.
func (s *Scheduler) RecordOutcome(ctx context.Context, itemID string, correct bool, tag string) error {
	if strings.TrimSpace(itemID) == "" {
		return ErrInvalidItem
	}
	if tag == "" {
		tag = models.TagStandard
	}

	unlock := s.locks.lock(itemID)
	defer unlock()

	now := s.clock.Now()

	rec, ok, err := s.store.Get(ctx, itemID)
	if err != nil {
		return storageError("load record", itemID, err)
	}
	if !ok {
		rec = models.NewItemRecord(itemID)
	}

	s.sm2.Process(&rec, correct, now)

	entry := models.QuizHistoryEntry{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		ItemID:     itemID,
		Correct:    correct,
		Tag:        tag,
		AnsweredAt: now,
	}
	if err := s.store.SaveOutcome(ctx, rec, entry); err != nil {
		return storageError("save outcome", itemID, err)
	}
	return nil
}

// Record returns the current record of an item
func (s *Scheduler) Record(ctx context.Context, itemID string) (models.ItemRecord, bool, error) {
	rec, ok, err := s.store.Get(ctx, itemID)
	if err != nil {
		return models.ItemRecord{}, false, storageError("load record", itemID, err)
	}
	return rec, ok, nil
}

// Classify partitions the vocabulary into buckets at the current time
func (s *Scheduler) Classify(ctx context.Context, vocabulary []models.VocabularyItem) (Buckets, error) {
	records, err := s.snapshot(ctx)
	if err != nil {
		return Buckets{}, err
	}
	return s.sm2.Classify(vocabulary, records, s.clock.Now()), nil
}

// SelectSession draws a shuffled practice set of at most n distinct items and
// marks every selected item as offered now
func (s *Scheduler) SelectSession(ctx context.Context, vocabulary []models.VocabularyItem, n int) ([]models.VocabularyItem, error) {
	if n <= 0 || len(vocabulary) == 0 {
		return []models.VocabularyItem{}, nil
	}

	records, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	buckets := s.sm2.Classify(vocabulary, records, now)

	s.rngMu.Lock()
	selected := s.sm2.Select(buckets, n, s.rng)
	s.rngMu.Unlock()

	ids := make([]string, len(selected))
	for i, item := range selected {
		ids[i] = item.ID
	}
	if err := s.markSelectedAt(ctx, ids, now); err != nil {
		return nil, err
	}
	return selected, nil
}

// DueCount returns the number of vocabulary items in the Weak bucket
func (s *Scheduler) DueCount(ctx context.Context, vocabulary []models.VocabularyItem) (int, error) {
	b, err := s.Classify(ctx, vocabulary)
	if err != nil {
		return 0, err
	}
	return len(b.Weak), nil
}

// WeakRecords lists answered records that are due or below the mastery ratio,
// earliest review first and then lowest ratio. limit <= 0 returns all of them.
func (s *Scheduler) WeakRecords(ctx context.Context, limit int) ([]models.ItemRecord, error) {
	ids, err := s.store.QueryIDs(ctx, models.RecordFilter{
		DueBefore:  s.clock.Now(),
		RatioBelow: s.sm2.MasteryRatio,
		MinSeen:    1,
	})
	if err != nil {
		return nil, storageError("query weak records", "", err)
	}

	records, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	weak := make([]models.ItemRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := records[id]; ok {
			weak = append(weak, rec)
		}
	}

	sort.SliceStable(weak, func(i, j int) bool {
		ti, tj := weak[i].NextReviewAt, weak[j].NextReviewAt
		if ti != nil && tj != nil && !ti.Equal(*tj) {
			return ti.Before(*tj)
		}
		ri, _ := weak[i].SuccessRatio()
		rj, _ := weak[j].SuccessRatio()
		if ri != rj {
			return ri < rj
		}
		return weak[i].ItemID < weak[j].ItemID
	})

	if limit > 0 && len(weak) > limit {
		weak = weak[:limit]
	}
	return weak, nil
}

func (s *Scheduler) snapshot(ctx context.Context) (map[string]models.ItemRecord, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, storageError("load records", "", err)
	}
	records := make(map[string]models.ItemRecord, len(all))
	for _, rec := range all {
		records[rec.ItemID] = rec
	}
	return records, nil
}

func storageError(op, itemID string, err error) error {
	if itemID == "" {
		return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
	}
	return fmt.Errorf("%w: %s for %q: %w", ErrStorage, op, itemID, err)
}
