package excel

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/example/vocabdrill/pkg/models"
)

// Filter returns the items of a category and difficulty.
// An empty category or a zero difficulty matches everything.
func Filter(items []models.VocabularyItem, category string, difficulty int) []models.VocabularyItem {
	category = fold(category)

	out := make([]models.VocabularyItem, 0, len(items))
	for _, item := range items {
		if category != "" && fold(item.Category) != category {
			continue
		}
		if difficulty != 0 && item.Difficulty != difficulty {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Lookup finds items whose term or translation contains the given text, ignoring case
func Lookup(items []models.VocabularyItem, term string) []models.VocabularyItem {
	needle := fold(term)
	if needle == "" {
		return nil
	}

	var out []models.VocabularyItem
	for _, item := range items {
		if strings.Contains(fold(item.ID), needle) || strings.Contains(fold(item.Translation), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order
func Categories(items []models.VocabularyItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
