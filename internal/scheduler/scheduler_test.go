package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

type fakeCounter struct {
	count int
	err   error
	calls int
}

func (f *fakeCounter) DueCount(_ context.Context, _ []models.VocabularyItem) (int, error) {
	f.calls++
	return f.count, f.err
}

type fakeNotifier struct {
	sent []int
	err  error
}

func (f *fakeNotifier) SendReminders(_ context.Context, count int) error {
	f.sent = append(f.sent, count)
	return f.err
}

func staticVocabulary() ([]models.VocabularyItem, error) {
	return []models.VocabularyItem{{ID: "casa"}}, nil
}

func at(hour int) func() time.Time {
	return func() time.Time { return time.Date(2025, 6, 15, hour, 30, 0, 0, time.UTC) }
}

// defaultsAt returns the default options with the clock fixed at hour
func defaultsAt(hour int) Options {
	opts := DefaultOptions()
	opts.Now = at(hour)
	return opts
}

func TestCheckRespectsNotificationHours(t *testing.T) {
	tests := []struct {
		hour     int
		wantSent bool
	}{
		{7, false},
		{8, true},
		{15, true},
		{22, true},
		{23, false},
	}
	for _, tt := range tests {
		counter := &fakeCounter{count: 4}
		notifier := &fakeNotifier{}
		s := New(counter, staticVocabulary, notifier, defaultsAt(tt.hour))

		s.checkAndSendReminders(context.Background())

		if got := len(notifier.sent) == 1; got != tt.wantSent {
			t.Errorf("hour %d: sent = %v, want %v", tt.hour, got, tt.wantSent)
		}
		if tt.wantSent && notifier.sent[0] != 4 {
			t.Errorf("hour %d: count = %d, want 4", tt.hour, notifier.sent[0])
		}
	}
}

func TestCheckSkipsWhenNothingDue(t *testing.T) {
	counter := &fakeCounter{}
	notifier := &fakeNotifier{}
	s := New(counter, staticVocabulary, notifier, defaultsAt(12))

	s.checkAndSendReminders(context.Background())

	if counter.calls != 1 || len(notifier.sent) != 0 {
		t.Errorf("calls=%d sent=%v, want one count and no reminder", counter.calls, notifier.sent)
	}
}

func TestRunManualCheckIgnoresHours(t *testing.T) {
	notifier := &fakeNotifier{}
	s := New(&fakeCounter{count: 2}, staticVocabulary, notifier, defaultsAt(3))

	count, err := s.RunManualCheck(context.Background())
	if err != nil {
		t.Fatalf("RunManualCheck: %v", err)
	}
	if count != 2 || len(notifier.sent) != 1 {
		t.Errorf("count=%d sent=%v", count, notifier.sent)
	}
}

func TestRunManualCheckErrors(t *testing.T) {
	backend := errors.New("boom")
	ctx := context.Background()

	failingVocab := func() ([]models.VocabularyItem, error) { return nil, backend }
	if _, err := New(&fakeCounter{}, failingVocab, &fakeNotifier{}, Options{}).RunManualCheck(ctx); !errors.Is(err, backend) {
		t.Errorf("vocabulary error = %v", err)
	}
	if _, err := New(&fakeCounter{err: backend}, staticVocabulary, &fakeNotifier{}, Options{}).RunManualCheck(ctx); !errors.Is(err, backend) {
		t.Errorf("counter error = %v", err)
	}
	if _, err := New(&fakeCounter{count: 1}, staticVocabulary, &fakeNotifier{err: backend}, Options{}).RunManualCheck(ctx); !errors.Is(err, backend) {
		t.Errorf("notifier error = %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(&fakeCounter{}, staticVocabulary, LogNotifier{}, Options{StartHour: 9, EndHour: 17})
	if s.opts.Interval != DefaultInterval || s.opts.Now == nil {
		t.Errorf("unexpected defaults %+v", s.opts)
	}
	if s.opts.StartHour != 9 || s.opts.EndHour != 17 {
		t.Errorf("hours = %d-%d, want 9-17", s.opts.StartHour, s.opts.EndHour)
	}

	d := DefaultOptions()
	if d.StartHour != DefaultNotificationStartHour || d.EndHour != DefaultNotificationEndHour {
		t.Errorf("DefaultOptions hours = %d-%d", d.StartHour, d.EndHour)
	}
}

func TestMidnightOnlyWindow(t *testing.T) {
	for hour, wantSent := range map[int]bool{0: true, 1: false, 8: false, 23: false} {
		notifier := &fakeNotifier{}
		s := New(&fakeCounter{count: 2}, staticVocabulary, notifier, Options{StartHour: 0, EndHour: 0, Now: at(hour)})

		s.checkAndSendReminders(context.Background())

		if got := len(notifier.sent) == 1; got != wantSent {
			t.Errorf("hour %d: sent = %v, want %v", hour, got, wantSent)
		}
	}
}

func TestReminderText(t *testing.T) {
	if got := ReminderText(1); got != "1 word" {
		t.Errorf("ReminderText(1) = %q", got)
	}
	if got := ReminderText(5); got != "5 words" {
		t.Errorf("ReminderText(5) = %q", got)
	}
}
