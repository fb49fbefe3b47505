package spaced_repetition

import (
	"math"
	"math/rand"

	"github.com/example/vocabdrill/pkg/models"
)

// Targets holds how many items a session of size n draws from each bucket
type Targets struct {
	New    int
	Weak   int
	Review int
}

// Targets computes the bucket quotas for a session of n items.
// New and Weak always ask for at least one item; Review takes what is left.
func (sm *SM2) Targets(n int) Targets {
	if n <= 0 {
		return Targets{}
	}
	t := Targets{
		New:  max(1, int(math.Floor(sm.NewShare*float64(n)))),
		Weak: max(1, int(math.Floor(sm.WeakShare*float64(n)))),
	}
	t.Review = max(0, n-t.New-t.Weak)
	return t
}

// Select draws a practice set of at most n items from the buckets.
// Bucket draws are uniform without replacement; a short draw is filled from
// the remaining items, and the result is shuffled to interleave difficulty.
func (sm *SM2) Select(b Buckets, n int, rng *rand.Rand) []models.VocabularyItem {
	if n <= 0 || b.Len() == 0 {
		return []models.VocabularyItem{}
	}

	t := sm.Targets(n)
	selected := make([]models.VocabularyItem, 0, n+2)
	taken := make(map[string]bool, n+2)

	take := func(pool []models.VocabularyItem, count int) {
		for _, item := range sample(pool, count, rng) {
			if taken[item.ID] {
				continue
			}
			taken[item.ID] = true
			selected = append(selected, item)
		}
	}

	take(b.New, t.New)
	take(b.Weak, t.Weak)
	take(b.Review, t.Review)

	// Fallback fill from everything not selected yet
	if len(selected) < n {
		var rest []models.VocabularyItem
		for _, pool := range [][]models.VocabularyItem{b.New, b.Weak, b.Review, b.Rest} {
			for _, item := range pool {
				if !taken[item.ID] {
					rest = append(rest, item)
				}
			}
		}
		take(rest, n-len(selected))
	}

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	// Minimum quotas may overshoot a very small n
	if len(selected) > n {
		selected = selected[:n]
	}
	return selected
}

// sample returns up to count items from pool chosen uniformly without replacement.
// pool is not modified.
func sample(pool []models.VocabularyItem, count int, rng *rand.Rand) []models.VocabularyItem {
	if count <= 0 || len(pool) == 0 {
		return nil
	}
	if count > len(pool) {
		count = len(pool)
	}

	idx := rng.Perm(len(pool))[:count]
	out := make([]models.VocabularyItem, count)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}
