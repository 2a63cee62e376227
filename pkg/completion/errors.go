package completion

import (
	"errors"
	"fmt"
)

// Kind classifies a relay failure.
type Kind int

const (
	// KindValidation is a malformed or missing prompt.
	KindValidation Kind = iota + 1
	// KindMethod is a request made with a verb other than POST.
	KindMethod
	// KindUpstream is any failure contacting or parsing the upstream service.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMethod:
		return "method"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is a classified relay failure. Message is safe to show to callers;
// Err carries the detail and is only meant for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrMethodNotAllowed is returned for any verb other than POST.
var ErrMethodNotAllowed = &Error{Kind: KindMethod, Message: MsgMethodNotAllowed}

// InvalidInput wraps err as a validation failure.
func InvalidInput(err error) *Error {
	return &Error{Kind: KindValidation, Message: MsgPromptRequired, Err: err}
}

// UpstreamFailure wraps err as an upstream failure.
func UpstreamFailure(err error) *Error {
	return &Error{Kind: KindUpstream, Message: MsgUpstreamFailed, Err: err}
}

// KindOf reports the kind of err. Errors that were never classified are
// treated as upstream failures so their detail is never exposed.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// EnvelopeFor returns the caller-facing envelope for err.
func EnvelopeFor(err error) ErrorEnvelope {
	var e *Error
	if errors.As(err, &e) {
		return ErrorEnvelope{Message: e.Message}
	}
	return ErrorEnvelope{Message: MsgUpstreamFailed}
}
