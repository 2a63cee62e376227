// Package client talks to a promptrelay gateway and models the submission
// state machine shared by the interactive front-ends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultServerURL is the gateway address used when none is configured.
const DefaultServerURL = "http://localhost:7080"

// CompletionPath is the gateway route serving completions.
const CompletionPath = "/api/completion"

// Client calls the gateway's completion endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the gateway at baseURL. A nil httpClient gets a
// default client with a timeout longer than the gateway's upstream timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

// APIError is a non-2xx response from the gateway. Message is the gateway's
// error envelope text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway error (%d): %s", e.StatusCode, e.Message)
}

// TransportError is a failure to reach the gateway or to read its response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "gateway unreachable: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

type completionResponse struct {
	Result *string `json:"result"`
	Error  string  `json:"error"`
}

// Complete sends prompt to the gateway and returns the completion text.
// Prompts are not validated locally; the gateway is the sole validator.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+CompletionPath, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("reading response: %w", err)}
	}

	var out completionResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", &TransportError{Err: fmt.Errorf("parsing response: %w", decodeErr)}
	}
	if out.Result == nil {
		return "", &TransportError{Err: fmt.Errorf("parsing response: missing result")}
	}
	return *out.Result, nil
}
