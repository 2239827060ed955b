// Package telegram implements the long-polling Telegram adapter.
package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/ashureev/ron-bot/internal/responder"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// greeting is the /start response.
const greeting = "Ron yaha hai. Hinglish mein baat karte hain 😅"

// replyTimeout bounds one reply generation (primary completion plus the
// optional rewrite pass).
const replyTimeout = 3 * time.Minute

// Bot polls Telegram for updates and answers text messages.
type Bot struct {
	api       *tgbotapi.BotAPI
	responder *responder.Responder
}

// New creates a bot for the given BotFather token.
func New(token string, r *responder.Responder) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, responder: r}, nil
}

// Run polls for updates until ctx is cancelled. Each update is handled in
// its own goroutine; the session store serializes same-user messages.
func (b *Bot) Run(ctx context.Context) {
	slog.Info("telegram bot polling", "username", b.api.Self.UserName)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.handle(ctx, update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.send(msg.Chat.ID, greeting)
		}
		return
	}

	userID := msg.Chat.ID
	slog.Info("telegram message", "user_id", userID)

	replyCtx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	out, err := b.responder.Reply(replyCtx, msg.Text, tgUserID(userID))
	if err != nil {
		slog.Error("reply generation failed", "channel", "telegram", "user_id", userID, "error", err)
		out = responder.Apology
	}
	b.send(msg.Chat.ID, out)
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.Warn("telegram send failed", "chat_id", chatID, "error", err)
	}
}

// tgUserID namespaces Telegram chat ids so they cannot collide with
// WhatsApp sender ids in the shared session store.
func tgUserID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
