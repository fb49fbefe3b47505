package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/pkg/models"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.sched.AggregateStats(cmd.Context())
	if err != nil {
		return err
	}

	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), stats)
	}
	printStats(cmd.OutOrStdout(), stats)
	return nil
}

func printStats(out io.Writer, s *models.AggregateStats) {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "Learning statistics")
	fmt.Fprintln(out, line)

	if s.TotalItemsTracked == 0 {
		fmt.Fprintln(out, "No words practised yet.")
		return
	}

	fmt.Fprintf(out, "Words practised:   %d\n", s.TotalItemsTracked)
	fmt.Fprintf(out, "Answers:           %d (%d correct, %.1f%%)\n", s.TotalAttempts, s.TotalCorrect, s.Accuracy)
	fmt.Fprintf(out, "Due for review:    %d\n", s.DueForReview)
	fmt.Fprintf(out, "Best streak:       %d\n", s.BestStreak)
	fmt.Fprintf(out, "Average streak:    %.1f\n", s.AverageStreak)

	if len(s.QuizTypes) > 0 {
		fmt.Fprintln(out, "\nBy quiz type:")
		for _, t := range s.QuizTypes {
			fmt.Fprintf(out, "  %-16s %4d answers  %5.1f%%\n", t.Tag, t.Count, t.Accuracy)
		}
	}

	if len(s.TopPerforming) > 0 {
		fmt.Fprintln(out, "\nStrongest words:")
		printPerformance(out, s.TopPerforming)
	}
	if len(s.Weakest) > 0 {
		fmt.Fprintln(out, "\nWeakest words:")
		printPerformance(out, s.Weakest)
	}

	if len(s.DailyPerformance) > 0 {
		fmt.Fprintln(out, "\nLast 30 days:")
		for _, d := range s.DailyPerformance {
			fmt.Fprintf(out, "  %s  %3d answers  %5.1f%%\n", d.Date, d.Attempts, d.Accuracy)
		}
	}
}

func printPerformance(out io.Writer, list []models.ItemPerformance) {
	for _, p := range list {
		fmt.Fprintf(out, "  %-20s %d/%d  %5.1f%%  streak %d\n", p.ItemID, p.TimesCorrect, p.TimesSeen, p.SuccessRate, p.Streak)
	}
}
