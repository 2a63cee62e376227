// Package llm defines the upstream completion client interface for promptrelay.
package llm

import (
	"context"
	"errors"
)

// Client completes a single prompt against an upstream text-generation
// service. Implementations return the first candidate's text verbatim.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

func (f ClientFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var (
	// ErrNoCandidates is returned when the upstream answered without any
	// candidate completions.
	ErrNoCandidates = errors.New("no candidates in response")

	// ErrMalformedResponse is returned when the upstream answered with a
	// candidate that carries no text.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrMissingCredential is returned for every call made without an API key.
	ErrMissingCredential = errors.New("API key not set")
)
