package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/flashbank/internal/session"
	"github.com/example/flashbank/pkg/models"
)

// Callback data of the card buttons
const (
	callbackFlip      = "flip"
	callbackCorrect   = "correct"
	callbackIncorrect = "incorrect"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// frontButtons are shown under a card's front
func frontButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "🔄 Flip", CallbackData: callbackFlip}},
	}
}

// backButtons are shown under a card's back
func backButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "❌", CallbackData: callbackIncorrect},
			{Text: "✅", CallbackData: callbackCorrect},
		},
	}
}

// Session is the part of the session controller the bot drives
type Session interface {
	StartRound() error
	Reveal() error
	Judge(correct bool) error
	Abandon() error
	Shutdown(ctx context.Context) error
	Stats() models.BankStats
	Rounds() (started, judged int)
}

// sender is the subset of *tgbotapi.BotAPI used to talk to Telegram
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot presents a drill session in one Telegram chat. Rounds are driven by
// inline buttons; the card flips on its own after the reveal delay.
type Bot struct {
	client  *tgbotapi.BotAPI
	api     sender
	session Session
	config  *BotConfig
	log     *slog.Logger

	mu        sync.Mutex
	chatID    int64
	started   bool
	front     string
	cardMsgID int

	stopOnce sync.Once
	stopErr  error
	done     chan struct{}
}

// New connects to Telegram with config.Token
func New(config *BotConfig, logger *slog.Logger) (*Bot, error) {
	if config.Token == "" {
		return nil, errors.New("telegram bot token is not set")
	}

	client, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}

	b := newBot(client, config, logger)
	b.client = client
	b.log.Info("authorized on account", "username", client.Self.UserName)
	return b, nil
}

func newBot(api sender, config *BotConfig, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:    api,
		config: config,
		log:    logger,
		chatID: config.ChatID,
		done:   make(chan struct{}),
	}
}

// Attach connects the bot to the session it presents
func (b *Bot) Attach(s Session) {
	b.session = s
}

// Run polls Telegram for updates until ctx is cancelled or the user sends
// /stop. The session is shut down either way and the save error returned.
func (b *Bot) Run(ctx context.Context) error {
	if b.client == nil {
		return errors.New("bot is not connected")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = int(b.config.UpdateTimeout / time.Second)

	updates := b.client.GetUpdatesChan(updateConfig)
	defer b.client.StopReceivingUpdates()

	return b.serve(ctx, updates)
}

// serve handles updates one at a time; the session never sees two events at once
func (b *Bot) serve(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			b.log.Info("stopping bot", "reason", ctx.Err())
			return b.stop()
		case <-b.done:
			return b.stopErr
		case update, ok := <-updates:
			if !ok {
				return b.stop()
			}
			b.handleUpdate(update)
		}
	}
}

// stop shuts the session down once and records the save result
func (b *Bot) stop() error {
	b.stopOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.config.ShutdownTimeout)
		defer cancel()

		err := b.session.Shutdown(ctx)
		if errors.Is(err, session.ErrClosed) {
			err = nil
		}
		b.stopErr = err
		close(b.done)
	})
	return b.stopErr
}

// ShowFront implements session.Presenter
func (b *Bot) ShowFront(term string) {
	chatID := b.currentChat()

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🃏 %s", term))
	msg.ReplyMarkup = createKeyboard(frontButtons())

	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Error("failed to send card", "chat_id", chatID, "error", err)
		return
	}

	b.mu.Lock()
	b.front = term
	b.cardMsgID = sent.MessageID
	b.mu.Unlock()
}

// ShowBack implements session.Presenter
func (b *Bot) ShowBack(term string) {
	b.mu.Lock()
	chatID, msgID, front := b.chatID, b.cardMsgID, b.front
	b.mu.Unlock()

	text := fmt.Sprintf("🃏 %s\n\n➡️ %s", front, term)
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, createKeyboard(backButtons()))
	if _, err := b.api.Send(edit); err != nil {
		b.log.Error("failed to reveal card", "chat_id", chatID, "error", err)
	}
}

// ArmReveal implements session.Presenter
func (b *Bot) ArmReveal(delay time.Duration, reveal func()) session.Timer {
	return session.AfterFunc(delay, reveal)
}

// currentCard returns the chat and message of the card in play
func (b *Bot) currentCard() (chatID int64, msgID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chatID, b.cardMsgID
}

// clearButtons removes the keyboard from a card that is no longer in play
func (b *Bot) clearButtons(chatID int64, msgID int) {
	if msgID == 0 {
		return
	}
	empty := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	if _, err := b.api.Send(tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, empty)); err != nil {
		b.log.Warn("failed to clear card buttons", "message_id", msgID, "error", err)
	}
}

func (b *Bot) currentChat() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chatID
}

// send sends a plain text message to chatID, logging failures
func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}
