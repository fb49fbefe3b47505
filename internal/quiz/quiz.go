package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/example/vocabdrill/pkg/models"
)

// ErrNotEnoughWords is returned when a multiple choice quiz has too few words for distractors
var ErrNotEnoughWords = errors.New("quiz: not enough words for multiple choice")

// Mode represents different types of quizzes.
// The value doubles as the tag stored with each answer.
type Mode string

const (
	// Standard asks for the translation of a term
	Standard Mode = models.TagStandard
	// Reverse asks for the term of a translation
	Reverse Mode = models.TagReverse
	// MultipleChoice offers the translation among distractors
	MultipleChoice Mode = models.TagMultipleChoice
	// Flashcard shows both sides and lets the learner judge the answer
	Flashcard Mode = models.TagFlashcard
)

// DistractorCount is the number of wrong options in a multiple choice question
const DistractorCount = 3

// ParseMode converts a mode name to a Mode
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Standard, Reverse, MultipleChoice, Flashcard:
		return m, nil
	case "":
		return Standard, nil
	case "mc", "multiple_choice":
		return MultipleChoice, nil
	default:
		return "", fmt.Errorf("unknown quiz mode %q", s)
	}
}

// Question represents a single quiz question
type Question struct {
	Item         models.VocabularyItem // The word being asked
	Mode         Mode                  // Type of question
	Prompt       string                // Side shown to the learner
	Answer       string                // Expected answer
	Options      []string              // Possible answers (for multiple choice)
	CorrectIndex int                   // Index of correct answer in options
}

// Module generates quiz questions
type Module struct {
	rnd *rand.Rand
}

// NewModule creates a new quiz module drawing randomness from rnd
func NewModule(rnd *rand.Rand) *Module {
	return &Module{rnd: rnd}
}

// CreateQuestions builds one question per item. pool is the vocabulary
// distractors are drawn from; it usually holds more than items.
func (m *Module) CreateQuestions(items, pool []models.VocabularyItem, mode Mode) ([]Question, error) {
	if mode == MultipleChoice && len(distinctTranslations(pool)) < DistractorCount+1 {
		return nil, fmt.Errorf("%w: need at least %d", ErrNotEnoughWords, DistractorCount+1)
	}

	questions := make([]Question, 0, len(items))
	for _, item := range items {
		question := Question{
			Item:   item,
			Mode:   mode,
			Prompt: item.ID,
			Answer: item.Translation,
		}

		switch mode {
		case Reverse:
			question.Prompt, question.Answer = item.Translation, item.ID

		case MultipleChoice:
			// Add correct option and shuffle
			allOptions := append(m.incorrectOptions(item, pool, DistractorCount), item.Translation)
			correctIndex := len(allOptions) - 1

			m.rnd.Shuffle(len(allOptions), func(i, j int) {
				if i == correctIndex {
					correctIndex = j
				} else if j == correctIndex {
					correctIndex = i
				}
				allOptions[i], allOptions[j] = allOptions[j], allOptions[i]
			})

			question.Options = allOptions
			question.CorrectIndex = correctIndex
		}

		questions = append(questions, question)
	}

	return questions, nil
}

// incorrectOptions picks count distinct wrong translations, same category first
func (m *Module) incorrectOptions(item models.VocabularyItem, pool []models.VocabularyItem, count int) []string {
	options := make([]string, 0, count)
	used := map[string]bool{fold(item.Translation): true}

	var sameCategory, others []models.VocabularyItem
	for _, w := range pool {
		if w.ID == item.ID {
			continue
		}
		if w.Category == item.Category {
			sameCategory = append(sameCategory, w)
		} else {
			others = append(others, w)
		}
	}

	for _, group := range [][]models.VocabularyItem{sameCategory, others} {
		for _, i := range m.rnd.Perm(len(group)) {
			if len(options) == count {
				return options
			}
			key := fold(group[i].Translation)
			if used[key] {
				continue
			}
			used[key] = true
			options = append(options, group[i].Translation)
		}
	}
	return options
}

// CheckAnswer reports whether input answers the question.
// Multiple choice expects a 1-based option number; flashcards expect y or yes.
func CheckAnswer(q Question, input string) bool {
	input = strings.TrimSpace(input)

	switch q.Mode {
	case MultipleChoice:
		choice, err := strconv.Atoi(input)
		return err == nil && choice-1 == q.CorrectIndex
	case Flashcard:
		answer := strings.ToLower(input)
		return answer == "y" || answer == "yes"
	default:
		return input != "" && fold(input) == fold(q.Answer)
	}
}

func distinctTranslations(pool []models.VocabularyItem) map[string]bool {
	out := make(map[string]bool, len(pool))
	for _, w := range pool {
		out[fold(w.Translation)] = true
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
