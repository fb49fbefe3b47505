package models

// Default values applied when a vocabulary row leaves the optional columns empty
const (
	DefaultCategory   = "other"
	DefaultDifficulty = 2
	MinDifficulty     = 1
	MaxDifficulty     = 5
)

// VocabularyItem is one source-language term with its translation.
// ID is the source term itself and is the join key to ItemRecord, so it is
// compared case-sensitively and must stay stable across sessions.
type VocabularyItem struct {
	ID          string `json:"id"`
	Translation string `json:"translation"`
	Category    string `json:"category,omitempty"`
	Difficulty  int    `json:"difficulty,omitempty"` // 1-5 scale, 2 when unset
}
