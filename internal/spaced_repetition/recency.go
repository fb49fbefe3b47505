package spaced_repetition

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MarkSelected records that the items were offered in a session now.
// Missing records are created with no activity; blank and repeated ids are ignored.
func (s *Scheduler) MarkSelected(ctx context.Context, itemIDs []string) error {
	return s.markSelectedAt(ctx, itemIDs, s.clock.Now())
}

func (s *Scheduler) markSelectedAt(ctx context.Context, itemIDs []string, at time.Time) error {
	ids := uniqueIDs(itemIDs)
	if len(ids) == 0 {
		return nil
	}

	unlock := s.locks.lockAll(ids)
	defer unlock()

	if err := s.store.MarkSelected(ctx, ids, at); err != nil {
		return storageError("mark selected", "", err)
	}
	return nil
}

// uniqueIDs drops blank and repeated ids and returns the rest sorted
func uniqueIDs(itemIDs []string) []string {
	seen := make(map[string]bool, len(itemIDs))
	ids := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		if strings.TrimSpace(id) == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// itemLocks hands out one mutex per item id
type itemLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newItemLocks() *itemLocks {
	return &itemLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *itemLocks) get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

func (l *itemLocks) lock(id string) func() {
	m := l.get(id)
	m.Lock()
	return m.Unlock
}

// lockAll locks ids in the given order, which must be sorted to avoid deadlocks
func (l *itemLocks) lockAll(ids []string) func() {
	held := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		m := l.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
