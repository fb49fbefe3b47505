package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/excel"
	"github.com/example/vocabdrill/internal/quiz"
)

func init() {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Practise a session of words interactively",
		Long: "Select a session of new, weak and review words and quiz them one by one.\n" +
			"Missed words are asked once more at the end. Type q to stop early.",
		Args: cobra.NoArgs,
		RunE: runDrill,
	}

	cmd.Flags().IntP("number", "n", 0, "Words per session (default: $VOCAB_SESSION_SIZE)")
	cmd.Flags().StringP("mode", "m", "standard", "Quiz mode: standard, reverse, multiple-choice or flashcard")
	cmd.Flags().StringP("category", "c", "", "Only words of this category")
	cmd.Flags().Int("difficulty", 0, "Only words of this difficulty")
	cmd.Flags().Int64("seed", 0, "Random seed (default: current time)")

	RootCmd.AddCommand(cmd)
}

func runDrill(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("number")
	modeName, _ := cmd.Flags().GetString("mode")
	category, _ := cmd.Flags().GetString("category")
	difficulty, _ := cmd.Flags().GetInt("difficulty")
	seed, _ := cmd.Flags().GetInt64("seed")

	mode, err := quiz.ParseMode(modeName)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	vocab, err := a.vocabulary()
	if err != nil {
		return err
	}
	words := excel.Filter(vocab, category, difficulty)
	if len(words) == 0 {
		return fmt.Errorf("no words match the filters")
	}

	// Distractors may come from outside the filter when it leaves too few
	distractors := words
	if mode == quiz.MultipleChoice && len(distractors) <= quiz.DistractorCount {
		distractors = vocab
	}
	if mode == quiz.MultipleChoice && len(distractors) <= quiz.DistractorCount {
		return fmt.Errorf("%w: need at least %d", quiz.ErrNotEnoughWords, quiz.DistractorCount+1)
	}

	if n <= 0 {
		n = a.cfg.SessionSize
	}
	session, err := a.sched.SelectSession(cmd.Context(), words, n)
	if err != nil {
		return err
	}

	questions, err := quiz.NewModule(rand.New(rand.NewSource(seed))).CreateQuestions(session, distractors, mode)
	if err != nil {
		return err
	}

	_, err = quiz.NewRunner(a.sched, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context(), questions)
	return err
}
