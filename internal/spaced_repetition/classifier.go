package spaced_repetition

import (
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// Bucket is one of the selection pools a session is composed from
type Bucket int

const (
	// BucketNone holds mastered items offered too recently to be offered again
	BucketNone Bucket = iota
	// BucketNew holds items that have never been answered
	BucketNew
	// BucketWeak holds items that are due or answered poorly
	BucketWeak
	// BucketReview holds mastered items that are not due yet but may be revisited
	BucketReview
)

func (b Bucket) String() string {
	switch b {
	case BucketNew:
		return "new"
	case BucketWeak:
		return "weak"
	case BucketReview:
		return "review"
	default:
		return "none"
	}
}

// Buckets partitions a vocabulary by scheduling state.
// Each slice preserves vocabulary order and no id appears twice.
type Buckets struct {
	New    []models.VocabularyItem
	Weak   []models.VocabularyItem
	Review []models.VocabularyItem
	// Rest holds items that belong to no bucket
	Rest []models.VocabularyItem
}

// Len returns the number of distinct items that were classified
func (b Buckets) Len() int {
	return len(b.New) + len(b.Weak) + len(b.Review) + len(b.Rest)
}

// BucketOf classifies a single item. rec is nil when the item has no record.
func (sm *SM2) BucketOf(rec *models.ItemRecord, now time.Time) Bucket {
	// Selection-only records were never answered and still count as new
	if rec == nil || rec.TimesSeen == 0 {
		return BucketNew
	}

	if rec.IsDue(now) || !sm.IsMastered(*rec) {
		return BucketWeak
	}

	if rec.LastSelectedAt == nil || now.Sub(*rec.LastSelectedAt) > sm.ReselectCooldown {
		return BucketReview
	}
	return BucketNone
}

// Classify partitions the vocabulary into New, Weak and Review buckets.
// records is keyed by item id; duplicate vocabulary ids keep their first occurrence.
func (sm *SM2) Classify(vocabulary []models.VocabularyItem, records map[string]models.ItemRecord, now time.Time) Buckets {
	var b Buckets
	for _, item := range dedupe(vocabulary) {
		var rec *models.ItemRecord
		if r, ok := records[item.ID]; ok {
			rec = &r
		}

		switch sm.BucketOf(rec, now) {
		case BucketNew:
			b.New = append(b.New, item)
		case BucketWeak:
			b.Weak = append(b.Weak, item)
		case BucketReview:
			b.Review = append(b.Review, item)
		default:
			b.Rest = append(b.Rest, item)
		}
	}
	return b
}

// dedupe drops repeated ids, keeping the first occurrence
func dedupe(vocabulary []models.VocabularyItem) []models.VocabularyItem {
	seen := make(map[string]bool, len(vocabulary))
	out := make([]models.VocabularyItem, 0, len(vocabulary))
	for _, item := range vocabulary {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}
