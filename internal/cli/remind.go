package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/bot"
	"github.com/example/vocabdrill/internal/scheduler"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send reminders when words are due",
		Long: "Check for due words every $VOCAB_REMINDER_INTERVAL inside notification hours and send a reminder\n" +
			"through Telegram when VOCAB_TELEGRAM_TOKEN is set, or to the log otherwise. Runs until interrupted.",
		Args: cobra.NoArgs,
		RunE: runRemind,
	}
	cmd.Flags().Bool("once", false, "Check once, ignoring notification hours, and exit")

	RootCmd.AddCommand(cmd)
}

func runRemind(cmd *cobra.Command, args []string) error {
	once, _ := cmd.Flags().GetBool("once")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var notifier scheduler.Notifier = scheduler.LogNotifier{}
	if a.cfg.TelegramToken != "" {
		tg, err := bot.New(a.cfg.TelegramToken, a.cfg.TelegramChatID)
		if err != nil {
			return err
		}
		notifier = tg
	}

	s := scheduler.New(a.sched, a.vocabulary, notifier, scheduler.Options{
		Interval:  a.cfg.ReminderInterval,
		StartHour: a.cfg.NotificationStartHour,
		EndHour:   a.cfg.NotificationEndHour,
	})

	if once {
		count, err := s.RunManualCheck(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s due for review\n", scheduler.ReminderText(count))
		return nil
	}

	if err := s.Start(cmd.Context()); err != nil {
		return err
	}
	<-cmd.Context().Done()
	log.Println("Stopping reminder scheduler...")
	s.Stop()
	return nil
}
