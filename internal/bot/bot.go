package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabdrill/internal/scheduler"
)

// Sender delivers messages to Telegram. *tgbotapi.BotAPI implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends due-word reminders to a Telegram chat
type Notifier struct {
	api    Sender
	chatID int64
}

// New creates a notifier that talks to the Bot API with the given token
func New(token string, chatID int64) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is not set")
	}

	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	return NewWithSender(botAPI, chatID), nil
}

// NewWithSender creates a notifier on top of an existing sender
func NewWithSender(api Sender, chatID int64) *Notifier {
	return &Notifier{api: api, chatID: chatID}
}

// SendReminders implements the scheduler.Notifier interface
func (n *Notifier) SendReminders(ctx context.Context, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text := fmt.Sprintf("You have %s to review! Run `vocabdrill drill` to start practising.", scheduler.ReminderText(count))
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.api.Send(msg); err != nil {
		log.Printf("Error sending reminder to chat %d: %v", n.chatID, err)
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	log.Printf("Successfully sent reminder to chat %d for %d words", n.chatID, count)
	return nil
}
