// Package telegram provides a Telegram bot channel for promptrelay. Every
// text message is relayed as one prompt; nothing is remembered between
// messages.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"goa.design/clue/log"

	"github.com/jxucoder/promptrelay/pkg/completion"
)

// Completer relays one validated prompt. *completion.Service implements it.
type Completer interface {
	Complete(ctx context.Context, req completion.PromptRequest) (completion.Result, error)
}

// sender is the subset of tgbotapi.BotAPI used to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var helpCommands = []string{"/start", "/help"}

const helpText = "Send me any text and I will reply with a completion for it.\n\n" +
	"Each message is handled on its own; there is no conversation history."

// Bot is the Telegram bot for promptrelay.
type Bot struct {
	api     *tgbotapi.BotAPI
	send    sender
	service Completer
	timeout time.Duration
}

// NewBot creates a new Telegram bot. timeout bounds each relayed prompt.
func NewBot(ctx context.Context, token string, service Completer, timeout time.Duration) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating Telegram bot: %w", err)
	}

	log.Printf(ctx, "Telegram bot authorized as @%s", api.Self.UserName)

	return &Bot{
		api:     api,
		send:    api,
		service: service,
		timeout: timeout,
	}, nil
}

// Name returns the channel name.
func (b *Bot) Name() string { return "telegram" }

// Run starts the long-polling loop. Blocks until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	log.Printf(ctx, "Telegram bot listening for messages...")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil {
				go b.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	ctx = log.With(ctx, log.KV{K: "chat-id", V: chatID})

	// Photos, stickers and the like carry no text to relay.
	if msg.Text == "" {
		b.sendReply(ctx, chatID, msg.MessageID, helpText)
		return
	}

	if text := strings.TrimSpace(msg.Text); strings.HasPrefix(text, "/") {
		cmd := strings.ToLower(strings.Fields(text)[0])
		if at := strings.Index(cmd, "@"); at >= 0 {
			cmd = cmd[:at]
		}
		if lo.Contains(helpCommands, cmd) {
			b.sendReply(ctx, chatID, msg.MessageID, helpText)
			return
		}
	}

	b.sendChatAction(ctx, chatID)
	b.sendReply(ctx, chatID, msg.MessageID, b.relay(ctx, msg.Text))
}

// relay completes prompt and renders the outcome the way every other
// front-end does: the text on success, "Error: <message>" otherwise.
func (b *Bot) relay(ctx context.Context, prompt string) string {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	res, err := b.service.Complete(ctx, completion.PromptRequest{Prompt: prompt})
	if err != nil {
		return "Error: " + completion.EnvelopeFor(err).Message
	}
	if res.Text == "" {
		// Telegram rejects empty messages.
		return "(empty completion)"
	}
	return res.Text
}

func (b *Bot) sendChatAction(ctx context.Context, chatID int64) {
	if _, err := b.send.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Debug(ctx, log.KV{K: "msg", V: "failed to send chat action"}, log.KV{K: "err", V: err.Error()})
	}
}

func (b *Bot) sendReply(ctx context.Context, chatID int64, replyTo int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo

	if _, err := b.send.Send(msg); err != nil {
		log.Error(ctx, err, log.KV{K: "msg", V: "Telegram: failed to send message"})
	}
}
