package bot

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/flashbank/internal/selector"
	"github.com/example/flashbank/internal/session"
)

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		if !b.authorize(update.Message.Chat.ID, update.Message.IsCommand() && update.Message.Command() == "start") {
			b.send(update.Message.Chat.ID, "This bot is busy with another chat.")
			return
		}
		if update.Message.IsCommand() {
			b.handleCommand(update.Message)
			return
		}
		b.send(update.Message.Chat.ID, "Use the buttons under the card, or /help.")
	} else if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		if !b.authorize(update.CallbackQuery.Message.Chat.ID, false) {
			b.answer(update.CallbackQuery, "Not your session.")
			return
		}
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

// authorize reports whether chatID may use the bot. With no configured chat,
// the first /start binds the bot to its chat.
func (b *Bot) authorize(chatID int64, isStart bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.chatID == 0 && isStart {
		b.chatID = chatID
		b.log.Info("bound to chat", "chat_id", chatID)
	}
	return b.chatID == chatID
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "stats":
		b.handleStats(message)
	case "skip":
		b.handleSkip(message)
	case "stop":
		b.handleStop(message)
	default:
		b.send(message.Chat.ID, "Unknown command. Use /help to see the commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	select {
	case <-b.done:
		b.send(message.Chat.ID, "This session has ended.")
		return
	default:
	}

	b.mu.Lock()
	already := b.started
	b.started = true
	b.mu.Unlock()

	if already {
		b.send(message.Chat.ID, "A session is already running. Answer the card above, or /stop.")
		return
	}

	if err := b.session.StartRound(); err != nil {
		b.log.Error("failed to start session", "error", err)
		if errors.Is(err, selector.ErrEmptyBank) {
			b.send(message.Chat.ID, "The word bank is empty.")
			return
		}
		b.send(message.Chat.ID, fmt.Sprintf("❌ Could not start: %v", err))
	}
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	helpText := `Flashcards 🎓

/start - Start drilling
/skip - Skip the current card
/stats - Show your progress
/stop - Save and end the session

Each card shows a word. Tap Flip (or wait) to see the translation, then tell me whether you knew it.`
	b.send(message.Chat.ID, helpText)
}

func (b *Bot) handleStats(message *tgbotapi.Message) {
	stats := b.session.Stats()
	started, judged := b.session.Rounds()

	statsText := fmt.Sprintf(`📊 Statistics

Words: %d
Mastered: %d
Learning: %d
Not yet seen: %d
Accuracy: %.0f%% (%d/%d)
This session: %d cards, %d answered`,
		stats.Total, stats.Mastered, stats.Learning, stats.Unattempted,
		stats.Accuracy()*100, stats.Correct, stats.Correct+stats.Incorrect,
		started, judged)
	b.send(message.Chat.ID, statsText)
}

// handleSkip drops the current card without a judgment and deals a new one
func (b *Bot) handleSkip(message *tgbotapi.Message) {
	b.mu.Lock()
	started := b.started
	b.mu.Unlock()
	if !started {
		b.send(message.Chat.ID, "Send /start first.")
		return
	}

	chatID, msgID := b.currentCard()
	if err := b.session.Abandon(); err != nil {
		if errors.Is(err, session.ErrClosed) {
			b.send(message.Chat.ID, "This session has ended.")
			return
		}
		b.log.Error("failed to skip card", "error", err)
		b.send(message.Chat.ID, fmt.Sprintf("❌ Could not skip: %v", err))
		return
	}
	b.clearButtons(chatID, msgID)

	if err := b.session.StartRound(); err != nil {
		b.log.Error("failed to deal next card", "error", err)
		b.send(message.Chat.ID, fmt.Sprintf("❌ Could not deal the next card: %v", err))
	}
}

func (b *Bot) handleStop(message *tgbotapi.Message) {
	if err := b.stop(); err != nil {
		b.send(message.Chat.ID, fmt.Sprintf("⚠️ Failed to save progress: %v", err))
		return
	}
	b.send(message.Chat.ID, "Data updated! See you next time 👋")
}

// handleCallbackQuery handles callback queries from the card buttons
func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	chatID, msgID := b.currentCard()
	if callback.Message.MessageID != msgID {
		b.answer(callback, "That card is no longer active.")
		return
	}

	var err error
	switch callback.Data {
	case callbackFlip:
		err = b.session.Reveal()
	case callbackCorrect:
		err = b.session.Judge(true)
	case callbackIncorrect:
		err = b.session.Judge(false)
	default:
		b.log.Warn("unknown callback", "data", callback.Data)
		b.answer(callback, "")
		return
	}

	switch {
	case err == nil:
		if callback.Data != callbackFlip {
			b.clearButtons(chatID, msgID)
		}
		b.answer(callback, "")
	case errors.Is(err, session.ErrClosed):
		b.answer(callback, "This session has ended.")
	case errors.Is(err, session.ErrInvalidState):
		b.answer(callback, "That card is no longer active.")
	default:
		b.log.Error("callback failed", "data", callback.Data, "error", err)
		b.answer(callback, "Something went wrong.")
	}
}

// answer acknowledges a callback query so the client stops its spinner
func (b *Bot) answer(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		b.log.Warn("failed to answer callback", "error", err)
	}
}
