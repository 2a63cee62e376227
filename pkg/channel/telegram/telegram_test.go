package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jxucoder/promptrelay/pkg/completion"
	"github.com/jxucoder/promptrelay/pkg/llm"
)

// recordingSender captures every message the bot sends.
type recordingSender struct {
	mu   sync.Mutex
	msgs []tgbotapi.MessageConfig
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		s.msgs = append(s.msgs, m)
	}
	return tgbotapi.Message{}, nil
}

func newTestBot(up llm.Client) (*Bot, *recordingSender) {
	rec := &recordingSender{}
	return &Bot{
		send:    rec,
		service: completion.NewService(up, 0),
	}, rec
}

func incoming(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 42,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: 7},
	}
}

// ---- relay ----

func TestHandleMessage_RelaysPrompt(t *testing.T) {
	var got string
	bot, rec := newTestBot(llm.ClientFunc(func(_ context.Context, prompt string) (string, error) {
		got = prompt
		return "Hello, world!", nil
	}))

	bot.handleMessage(context.Background(), incoming("Say hi"))

	require.Equal(t, "Say hi", got)
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, int64(7), rec.msgs[0].ChatID)
	assert.Equal(t, 42, rec.msgs[0].ReplyToMessageID)
	assert.Equal(t, "Hello, world!", rec.msgs[0].Text)
}

func TestHandleMessage_UpstreamFailureHidesDetail(t *testing.T) {
	bot, rec := newTestBot(llm.ClientFunc(func(context.Context, string) (string, error) {
		return "", errors.New("openai API (429): quota exceeded")
	}))

	bot.handleMessage(context.Background(), incoming("p"))

	require.Len(t, rec.msgs, 1)
	assert.Equal(t, "Error: "+completion.MsgUpstreamFailed, rec.msgs[0].Text)
	assert.NotContains(t, rec.msgs[0].Text, "quota")
}

func TestHandleMessage_EmptyCompletion(t *testing.T) {
	bot, rec := newTestBot(llm.ClientFunc(func(context.Context, string) (string, error) {
		return "", nil
	}))

	bot.handleMessage(context.Background(), incoming("p"))

	require.Len(t, rec.msgs, 1)
	assert.NotEmpty(t, rec.msgs[0].Text)
}

// ---- commands ----

func TestHandleMessage_HelpCommands(t *testing.T) {
	for _, text := range []string{"/start", "/help", "/HELP", "/help@promptrelay_bot"} {
		t.Run(text, func(t *testing.T) {
			bot, rec := newTestBot(llm.ClientFunc(func(context.Context, string) (string, error) {
				t.Fatal("commands must not reach the upstream")
				return "", nil
			}))

			bot.handleMessage(context.Background(), incoming(text))

			require.Len(t, rec.msgs, 1)
			assert.Equal(t, helpText, rec.msgs[0].Text)
		})
	}
}

func TestHandleMessage_WhitespaceIsRelayed(t *testing.T) {
	var got string
	bot, rec := newTestBot(llm.ClientFunc(func(_ context.Context, prompt string) (string, error) {
		got = prompt
		return "ok", nil
	}))

	bot.handleMessage(context.Background(), incoming("   "))

	assert.Equal(t, "   ", got)
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, "ok", rec.msgs[0].Text)
}

func TestHandleMessage_NoTextGetsHelp(t *testing.T) {
	bot, rec := newTestBot(llm.ClientFunc(func(context.Context, string) (string, error) {
		t.Fatal("messages without text must not reach the upstream")
		return "", nil
	}))

	bot.handleMessage(context.Background(), incoming(""))

	require.Len(t, rec.msgs, 1)
	assert.Equal(t, helpText, rec.msgs[0].Text)
}

func TestName(t *testing.T) {
	assert.Equal(t, "telegram", (&Bot{}).Name())
}
