// Package openai implements llm.Client using the OpenAI legacy Completions API
// through github.com/openai/openai-go.
package openai

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jxucoder/promptrelay/pkg/llm"
)

const (
	// DefaultModel is the completions model used when none is configured.
	DefaultModel = "gpt-3.5-turbo-instruct"
	// DefaultMaxTokens caps the length of each completion.
	DefaultMaxTokens = 150
)

// CompletionCreator captures the subset of the openai-go client used by the
// adapter.
type CompletionCreator interface {
	New(ctx context.Context, body sdk.CompletionNewParams, opts ...option.RequestOption) (*sdk.Completion, error)
}

// Options configures the adapter.
type Options struct {
	Completions CompletionCreator
	Model       string
	MaxTokens   int64
}

// Client implements llm.Client via the OpenAI Completions API.
type Client struct {
	completions CompletionCreator
	model       string
	maxTokens   int64
}

// New builds a client from opts. Model and MaxTokens fall back to the
// package defaults when unset.
func New(opts Options) (*Client, error) {
	if opts.Completions == nil {
		return nil, errors.New("openai completions client is required")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", opts.MaxTokens)
	}
	return &Client{completions: opts.Completions, model: opts.Model, maxTokens: opts.MaxTokens}, nil
}

// NewFromAPIKey constructs a client backed by the default openai-go HTTP
// client with retries disabled. An empty apiKey is accepted: every call then
// fails with llm.ErrMissingCredential instead of the process refusing to start.
func NewFromAPIKey(apiKey, model string, maxTokens int64, extra ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return New(Options{Completions: missingCredential{}, Model: model, MaxTokens: maxTokens})
	}
	opts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, extra...)
	c := sdk.NewClient(opts...)
	return New(Options{Completions: &c.Completions, Model: model, MaxTokens: maxTokens})
}

// Complete requests one completion for prompt and returns the first
// candidate's text verbatim. A first candidate whose text is missing or null
// is an error, not an empty completion.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.completions.New(ctx, sdk.CompletionNewParams{
		Model:     sdk.CompletionNewParamsModel(c.model),
		Prompt:    sdk.CompletionNewParamsPromptUnion{OfString: sdk.String(prompt)},
		MaxTokens: sdk.Int(c.maxTokens),
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai API (%d): %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("openai API: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai API: %w", llm.ErrNoCandidates)
	}
	first := resp.Choices[0]
	if !first.JSON.Text.Valid() {
		return "", fmt.Errorf("openai API: first choice has no text: %w", llm.ErrMalformedResponse)
	}
	return first.Text, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// MaxTokens returns the configured completion length cap.
func (c *Client) MaxTokens() int64 { return c.maxTokens }

type missingCredential struct{}

func (missingCredential) New(context.Context, sdk.CompletionNewParams, ...option.RequestOption) (*sdk.Completion, error) {
	return nil, llm.ErrMissingCredential
}
