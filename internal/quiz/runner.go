package quiz

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/vocabdrill/pkg/models"
)

// Recorder stores the outcome of an answer
type Recorder interface {
	RecordOutcome(ctx context.Context, itemID string, correct bool, tag string) error
}

// Summary holds the result of a quiz run
type Summary struct {
	Asked        int
	Correct      int
	Retried      int
	RetryCorrect int
	Quit         bool // the learner stopped before the end
}

// Runner asks questions on a text stream and records every answer
type Runner struct {
	recorder Recorder
	in       *bufio.Scanner
	out      io.Writer
}

// NewRunner creates a runner reading answers from in and writing prompts to out
func NewRunner(recorder Recorder, in io.Reader, out io.Writer) *Runner {
	return &Runner{
		recorder: recorder,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run asks every question once, then repeats the missed ones a single time.
// It stops early when input ends or the learner types q. A failed record aborts the run.
func (r *Runner) Run(ctx context.Context, questions []Question) (*Summary, error) {
	summary := &Summary{}
	if len(questions) == 0 {
		fmt.Fprintln(r.out, "No words to practise!")
		return summary, nil
	}

	r.banner(questions[0].Mode, len(questions))

	var missed []Question
	for i, q := range questions {
		correct, ok, err := r.ask(ctx, i+1, len(questions), q, string(q.Mode))
		if err != nil {
			return summary, err
		}
		if !ok {
			summary.Quit = true
			break
		}
		summary.Asked++
		if correct {
			summary.Correct++
		} else {
			missed = append(missed, q)
		}
	}

	if len(missed) > 0 && !summary.Quit {
		fmt.Fprintf(r.out, "\nLet's try the %d missed word(s) once more.\n\n", len(missed))
		for i, q := range missed {
			correct, ok, err := r.ask(ctx, i+1, len(missed), q, models.TagRetry)
			if err != nil {
				return summary, err
			}
			if !ok {
				summary.Quit = true
				break
			}
			summary.Retried++
			if correct {
				summary.RetryCorrect++
			}
		}
	}

	r.score(summary)
	return summary, nil
}

func (r *Runner) banner(mode Mode, n int) {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(r.out, line)
	switch mode {
	case Reverse:
		fmt.Fprintf(r.out, "Quiz: %d words (translation → term)\n", n)
	case MultipleChoice:
		fmt.Fprintf(r.out, "Multiple Choice Quiz: %d words\n", n)
	case Flashcard:
		fmt.Fprintf(r.out, "Flashcard Mode: %d words\n", n)
		fmt.Fprintln(r.out, "Commands: [enter]=flip, 'y'=know it, 'n'=need review, 'q'=quit")
	default:
		fmt.Fprintf(r.out, "Quiz: %d words (term → translation)\n", n)
	}
	fmt.Fprintln(r.out, line)
	fmt.Fprintln(r.out)
}

// ask shows one question and records the answer under tag.
// ok is false when the run should stop.
func (r *Runner) ask(ctx context.Context, num, total int, q Question, tag string) (correct, ok bool, err error) {
	var answer string

	switch q.Mode {
	case MultipleChoice:
		fmt.Fprintf(r.out, "%d. %s\n", num, q.Prompt)
		for idx, opt := range q.Options {
			fmt.Fprintf(r.out, "   %d) %s\n", idx+1, opt)
		}
		fmt.Fprintf(r.out, "\nYour answer (1-%d): ", len(q.Options))
		if answer, ok = r.readLine(); !ok {
			return false, false, nil
		}

	case Flashcard:
		fmt.Fprintf(r.out, "Card %d/%d\n\n   %s\n\n[press enter to flip] ", num, total, q.Prompt)
		if answer, ok = r.readLine(); !ok {
			return false, false, nil
		}
		fmt.Fprintf(r.out, "\n   → %s\n\nKnow it? (y/n): ", q.Answer)
		if answer, ok = r.readLine(); !ok {
			return false, false, nil
		}

	default:
		fmt.Fprintf(r.out, "%d. %s = ", num, q.Prompt)
		if answer, ok = r.readLine(); !ok {
			return false, false, nil
		}
	}

	correct = CheckAnswer(q, answer)
	if err := r.recorder.RecordOutcome(ctx, q.Item.ID, correct, tag); err != nil {
		return false, false, fmt.Errorf("failed to record answer for %q: %w", q.Item.ID, err)
	}

	switch {
	case q.Mode == Flashcard && correct:
		fmt.Fprint(r.out, "✓ Marked as known\n\n")
	case q.Mode == Flashcard:
		fmt.Fprint(r.out, "✗ Will review later\n\n")
	case correct:
		fmt.Fprint(r.out, "✓ Correct!\n\n")
	default:
		fmt.Fprintf(r.out, "✗ Wrong. Correct answer: %s\n\n", q.Answer)
	}
	return correct, true, nil
}

// readLine returns the next input line; ok is false on end of input or q
func (r *Runner) readLine() (string, bool) {
	if !r.in.Scan() {
		return "", false
	}
	line := strings.TrimSpace(r.in.Text())
	if strings.EqualFold(line, "q") {
		return "", false
	}
	return line, true
}

func (r *Runner) score(s *Summary) {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(r.out, line)
	if s.Asked > 0 {
		fmt.Fprintf(r.out, "Score: %d/%d (%d%%)\n", s.Correct, s.Asked, s.Correct*100/s.Asked)
	}
	if s.Retried > 0 {
		fmt.Fprintf(r.out, "Retry: %d/%d\n", s.RetryCorrect, s.Retried)
	}
	fmt.Fprintln(r.out, line)
}
