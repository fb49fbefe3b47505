package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// MemoryStore keeps item records and quiz history in process memory.
// It satisfies the same contract as ItemRecordRepository and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.ItemRecord
	history []models.QuizHistoryEntry
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.ItemRecord)}
}

// Get returns the record for a specific item
func (m *MemoryStore) Get(_ context.Context, itemID string) (models.ItemRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[itemID]
	if !ok {
		return models.ItemRecord{}, false, nil
	}
	return rec.Clone(), true, nil
}

// Upsert creates or replaces a record
func (m *MemoryStore) Upsert(_ context.Context, rec models.ItemRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.ItemID] = rec.Clone()
	return nil
}

// All returns every record ordered by item id
func (m *MemoryStore) All(_ context.Context) ([]models.ItemRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ItemRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

// QueryIDs returns the ids of records matching the filter, ordered by item id
func (m *MemoryStore) QueryIDs(_ context.Context, filter models.RecordFilter) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, rec := range m.records {
		if matches(rec, filter) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// SaveOutcome appends the history entry and stores the outcome fields of the record
func (m *MemoryStore) SaveOutcome(_ context.Context, rec models.ItemRecord, entry models.QuizHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := rec.Clone()
	saved.LastSelectedAt = nil
	if prev, ok := m.records[rec.ItemID]; ok {
		saved.LastSelectedAt = prev.LastSelectedAt
	}
	m.records[rec.ItemID] = saved
	m.history = append(m.history, entry)
	return nil
}

// MarkSelected sets LastSelectedAt for every id, creating zero-activity records as needed
func (m *MemoryStore) MarkSelected(_ context.Context, itemIDs []string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range itemIDs {
		rec, ok := m.records[id]
		if !ok {
			rec = models.NewItemRecord(id)
		}
		t := at
		rec.LastSelectedAt = &t
		m.records[id] = rec
	}
	return nil
}

// HistorySummary returns totals over the whole quiz history and per-day figures since the given time
func (m *MemoryStore) HistorySummary(_ context.Context, since time.Time) (*models.HistorySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := &models.HistorySummary{Since: since}
	byTag := make(map[string]*models.QuizTypeStats)
	var recent []models.QuizHistoryEntry

	for _, e := range m.history {
		summary.TotalAttempts++
		t, ok := byTag[e.Tag]
		if !ok {
			t = &models.QuizTypeStats{Tag: e.Tag}
			byTag[e.Tag] = t
		}
		t.Count++
		if e.Correct {
			summary.TotalCorrect++
			t.Correct++
		}
		if !e.AnsweredAt.Before(since) {
			recent = append(recent, e)
		}
	}

	types := make([]models.QuizTypeStats, 0, len(byTag))
	for _, t := range byTag {
		types = append(types, *t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Tag < types[j].Tag })

	summary.QuizTypes = withAccuracy(types)
	summary.Daily = dailyPerformance(recent)
	return summary, nil
}

// History returns the quiz history entries answered at or after since, oldest first
func (m *MemoryStore) History(_ context.Context, since time.Time) ([]models.QuizHistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.QuizHistoryEntry
	for _, e := range m.history {
		if !e.AnsweredAt.Before(since) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AnsweredAt.Before(out[j].AnsweredAt) })
	return out, nil
}

// matches mirrors the WHERE clause of ItemRecordRepository.QueryIDs
func matches(rec models.ItemRecord, filter models.RecordFilter) bool {
	if rec.TimesSeen < filter.MinSeen {
		return false
	}

	checked := false
	if !filter.DueBefore.IsZero() {
		checked = true
		if rec.NextReviewAt != nil && !rec.NextReviewAt.After(filter.DueBefore) {
			return true
		}
	}
	if filter.RatioBelow > 0 {
		checked = true
		if rec.TimesSeen > 0 && float64(rec.TimesCorrect) < filter.RatioBelow*float64(rec.TimesSeen) {
			return true
		}
	}
	return !checked
}
