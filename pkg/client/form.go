package client

import (
	"context"
	"errors"
	"sync"
)

// MsgTransportFailed is shown for any failure to reach the gateway. The
// underlying error is kept on the Form for logging but never rendered.
const MsgTransportFailed = "Failed to reach the completion gateway"

// ErrPending is returned when a submission is attempted while another one
// is still in flight.
var ErrPending = errors.New("a submission is already pending")

// State is a Form's submission state.
type State int

const (
	// Idle: nothing submitted yet; submit enabled.
	Idle State = iota
	// Pending: one call in flight; submit disabled; no result shown.
	Pending
	// Settled: the last call finished; its outcome is shown; submit enabled.
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Completer produces a completion for a prompt. *Client implements it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Form is the single-prompt submission state machine:
//
//	Idle -> Pending -> Settled -> Pending -> ...
//
// Overlapping submissions are blocked: Begin fails with ErrPending while a
// call is in flight. Form is safe for concurrent use.
type Form struct {
	mu     sync.Mutex
	state  State
	result string
	err    error
}

// NewForm returns an Idle form.
func NewForm() *Form {
	return &Form{}
}

// State returns the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// CanSubmit reports whether a submission would be accepted.
func (f *Form) CanSubmit() bool {
	return f.State() != Pending
}

// Result returns the rendered outcome of the last settled submission, or ""
// while idle or pending.
func (f *Form) Result() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Err returns the error of the last settled submission, if any.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Begin moves the form to Pending and clears any previous outcome.
func (f *Form) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Pending {
		return ErrPending
	}
	f.state = Pending
	f.result = ""
	f.err = nil
	return nil
}

// Settle records the outcome of the pending call and re-enables submission.
func (f *Form) Settle(text string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Settled
	f.result = Render(text, err)
	f.err = err
}

// Submit runs one full Pending -> Settled cycle against c and returns the
// rendered outcome.
func (f *Form) Submit(ctx context.Context, c Completer, prompt string) (string, error) {
	if err := f.Begin(); err != nil {
		return "", err
	}
	text, err := c.Complete(ctx, prompt)
	f.Settle(text, err)
	return f.Result(), err
}

// Render formats a call outcome for display: the text on success, the
// gateway's message for gateway errors, and a fixed message otherwise.
func Render(text string, err error) string {
	if err == nil {
		return text
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return "Error: " + apiErr.Message
	}
	return "Error: " + MsgTransportFailed
}
