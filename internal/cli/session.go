package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/excel"
	"github.com/example/vocabdrill/pkg/models"
)

func init() {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Select a practice session and mark it as offered",
		Args:  cobra.NoArgs,
		RunE:  runSession,
	}
	sessionCmd.Flags().IntP("number", "n", 0, "Words per session (default: $VOCAB_SESSION_SIZE)")
	sessionCmd.Flags().StringP("category", "c", "", "Only words of this category")
	sessionCmd.Flags().Int("difficulty", 0, "Only words of this difficulty")

	recordCmd := &cobra.Command{
		Use:   "record <word>",
		Short: "Record the outcome of one answer",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecord,
	}
	recordCmd.Flags().Bool("correct", false, "The answer was correct")
	recordCmd.Flags().String("tag", models.TagStandard, "Quiz type stored with the answer")

	dueCmd := &cobra.Command{
		Use:   "due",
		Short: "Count the words that need practice",
		Args:  cobra.NoArgs,
		RunE:  runDue,
	}

	weakCmd := &cobra.Command{
		Use:   "weak",
		Short: "List words that are due or answered poorly",
		Args:  cobra.NoArgs,
		RunE:  runWeak,
	}
	weakCmd.Flags().IntP("limit", "l", 20, "Maximum words to list (0 for all)")

	RootCmd.AddCommand(sessionCmd, recordCmd, dueCmd, weakCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("number")
	category, _ := cmd.Flags().GetString("category")
	difficulty, _ := cmd.Flags().GetInt("difficulty")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	vocab, err := a.vocabulary()
	if err != nil {
		return err
	}
	if n <= 0 {
		n = a.cfg.SessionSize
	}

	session, err := a.sched.SelectSession(cmd.Context(), excel.Filter(vocab, category, difficulty), n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if wantJSON() {
		return printJSON(out, session)
	}
	for i, item := range session {
		fmt.Fprintf(out, "%d. %s = %s\n", i+1, item.ID, item.Translation)
	}
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	correct, _ := cmd.Flags().GetBool("correct")
	tag, _ := cmd.Flags().GetString("tag")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.sched.RecordOutcome(cmd.Context(), args[0], correct, tag); err != nil {
		return err
	}

	rec, _, err := a.sched.Record(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if wantJSON() {
		return printJSON(out, rec)
	}
	fmt.Fprintf(out, "%s: %d/%d correct, streak %d, next review in %g day(s)\n",
		rec.ItemID, rec.TimesCorrect, rec.TimesSeen, rec.ConsecutiveCorrect, rec.IntervalDays)
	return nil
}

func runDue(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	vocab, err := a.vocabulary()
	if err != nil {
		return err
	}
	count, err := a.sched.DueCount(cmd.Context(), vocab)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if wantJSON() {
		return printJSON(out, map[string]int{"due": count})
	}
	fmt.Fprintf(out, "%d words due for review\n", count)
	return nil
}

func runWeak(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	weak, err := a.sched.WeakRecords(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if wantJSON() {
		return printJSON(out, weak)
	}
	if len(weak) == 0 {
		fmt.Fprintln(out, "No weak words. Well done!")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORD\tCORRECT\tSEEN\tRATE\tNEXT REVIEW")
	for _, rec := range weak {
		ratio, _ := rec.SuccessRatio()
		next := "-"
		if rec.NextReviewAt != nil {
			next = rec.NextReviewAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\t%s\n", rec.ItemID, rec.TimesCorrect, rec.TimesSeen, ratio*100, next)
	}
	return w.Flush()
}
