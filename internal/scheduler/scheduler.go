package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabdrill/pkg/models"
)

// Default notification settings
const (
	DefaultNotificationStartHour = 8  // First hour reminders may be sent
	DefaultNotificationEndHour   = 22 // Last hour reminders may be sent
	DefaultInterval              = time.Hour
)

// Notifier sends due-word reminders
type Notifier interface {
	SendReminders(ctx context.Context, count int) error
}

// DueCounter reports how many vocabulary items need practice
type DueCounter interface {
	DueCount(ctx context.Context, vocabulary []models.VocabularyItem) (int, error)
}

// VocabularySource loads the current vocabulary. It is called on every check
// so edits to the vocabulary file are picked up.
type VocabularySource func() ([]models.VocabularyItem, error)

// Options configures the reminder job. A zero Interval or Now is replaced with
// its default; the notification hours are used as given, so 0-0 means midnight only.
type Options struct {
	Interval  time.Duration
	StartHour int
	EndHour   int
	// Now returns the current time; nil means time.Now in UTC
	Now func() time.Time
}

// DefaultOptions returns the default interval and notification hours
func DefaultOptions() Options {
	return Options{
		Interval:  DefaultInterval,
		StartHour: DefaultNotificationStartHour,
		EndHour:   DefaultNotificationEndHour,
	}
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler  *gocron.Scheduler
	counter    DueCounter
	vocabulary VocabularySource
	notifier   Notifier
	opts       Options
}

// New creates a new scheduler instance
func New(counter DueCounter, vocabulary VocabularySource, notifier Notifier, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:  s,
		counter:    counter,
		vocabulary: vocabulary,
		notifier:   notifier,
		opts:       opts,
	}
}

// Start begins running all scheduled tasks. The first check runs immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.scheduler.Every(s.opts.Interval).Do(s.checkAndSendReminders, ctx); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	log.Printf("Reminder scheduler started (every %s, hours %d-%d)", s.opts.Interval, s.opts.StartHour, s.opts.EndHour)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	log.Println("Reminder scheduler stopped")
}

// checkAndSendReminders sends a reminder when words are due inside notification hours
func (s *Scheduler) checkAndSendReminders(ctx context.Context) {
	currentHour := s.opts.Now().Hour()

	if currentHour < s.opts.StartHour || currentHour > s.opts.EndHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, s.opts.StartHour, s.opts.EndHour)
		return
	}

	if _, err := s.RunManualCheck(ctx); err != nil {
		log.Printf("Error checking due words: %v", err)
	}
}

// RunManualCheck counts due words and sends a reminder when there are any,
// regardless of notification hours. It returns the due count.
func (s *Scheduler) RunManualCheck(ctx context.Context) (int, error) {
	vocab, err := s.vocabulary()
	if err != nil {
		return 0, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	count, err := s.counter.DueCount(ctx, vocab)
	if err != nil {
		return 0, fmt.Errorf("failed to count due words: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.notifier.SendReminders(ctx, count); err != nil {
		return count, fmt.Errorf("failed to send reminder: %w", err)
	}
	return count, nil
}

// LogNotifier writes reminders to the standard logger
type LogNotifier struct{}

// SendReminders implements Notifier
func (LogNotifier) SendReminders(_ context.Context, count int) error {
	log.Printf("Reminder: %s due for practice", ReminderText(count))
	return nil
}

// ReminderText formats the due count, e.g. "1 word" or "3 words"
func ReminderText(count int) string {
	if count == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", count)
}
