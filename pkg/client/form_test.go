package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jxucoder/promptrelay/pkg/client"
	"github.com/jxucoder/promptrelay/pkg/llm"
)

// gatedCompleter blocks each call until release receives the outcome.
type gatedCompleter struct {
	started chan string
	release chan outcome
}

type outcome struct {
	text string
	err  error
}

func newGated() *gatedCompleter {
	return &gatedCompleter{started: make(chan string, 1), release: make(chan outcome)}
}

func (g *gatedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	g.started <- prompt
	o := <-g.release
	return o.text, o.err
}

func TestForm_InitialState(t *testing.T) {
	f := client.NewForm()
	require.Equal(t, client.Idle, f.State())
	require.True(t, f.CanSubmit())
	require.Empty(t, f.Result())
	require.NoError(t, f.Err())
}

func TestForm_SubmitSuccess(t *testing.T) {
	f := client.NewForm()

	got, err := f.Submit(context.Background(), llm.ClientFunc(func(context.Context, string) (string, error) {
		require.Equal(t, client.Pending, f.State())
		require.False(t, f.CanSubmit())
		return "Hello, world!", nil
	}), "Say hi")

	require.NoError(t, err)
	require.Equal(t, "Hello, world!", got)
	require.Equal(t, client.Settled, f.State())
	require.True(t, f.CanSubmit())
}

func TestForm_PendingClearsResultAndBlocksSubmit(t *testing.T) {
	for _, tc := range []struct {
		name string
		out  outcome
		want string
	}{
		{name: "success", out: outcome{text: "second"}, want: "second"},
		{name: "gateway error", out: outcome{err: &client.APIError{StatusCode: 500, Message: "Failed to fetch response from OpenAI"}}, want: "Error: Failed to fetch response from OpenAI"},
		{name: "transport error", out: outcome{err: &client.TransportError{Err: errors.New("dial tcp: refused")}}, want: "Error: " + client.MsgTransportFailed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := client.NewForm()
			require.NoError(t, f.Begin())
			f.Settle("first", nil)
			require.Equal(t, "first", f.Result())

			g := newGated()
			done := make(chan string)
			go func() {
				res, _ := f.Submit(context.Background(), g, "p")
				done <- res
			}()

			require.Equal(t, "p", <-g.started)
			require.Equal(t, client.Pending, f.State())
			require.Empty(t, f.Result(), "pending must clear the previous result")
			require.False(t, f.CanSubmit())
			require.ErrorIs(t, f.Begin(), client.ErrPending)

			g.release <- tc.out
			require.Equal(t, tc.want, <-done)
			require.Equal(t, client.Settled, f.State())
			require.True(t, f.CanSubmit())
			require.Equal(t, tc.want, f.Result())
		})
	}
}

func TestForm_SubmitWhilePending(t *testing.T) {
	f := client.NewForm()
	require.NoError(t, f.Begin())

	_, err := f.Submit(context.Background(), llm.ClientFunc(func(context.Context, string) (string, error) {
		t.Fatal("must not be called while pending")
		return "", nil
	}), "p")
	require.ErrorIs(t, err, client.ErrPending)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
		want string
	}{
		{name: "success", text: "  verbatim\n", want: "  verbatim\n"},
		{name: "api error", err: &client.APIError{StatusCode: 400, Message: "Prompt is required"}, want: "Error: Prompt is required"},
		{name: "wrapped api error", err: errors.Join(errors.New("x"), &client.APIError{Message: "Method not allowed"}), want: "Error: Method not allowed"},
		{name: "transport error", err: &client.TransportError{Err: errors.New("no such host")}, want: "Error: Failed to reach the completion gateway"},
		{name: "context error", err: context.Canceled, want: "Error: Failed to reach the completion gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, client.Render(tt.text, tt.err))
		})
	}
}

func TestState_String(t *testing.T) {
	require.Equal(t, "idle", client.Idle.String())
	require.Equal(t, "pending", client.Pending.String())
	require.Equal(t, "settled", client.Settled.String())
}
