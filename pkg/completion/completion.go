// Package completion defines the prompt relay contract: the typed request and
// response envelopes, the error kinds a relay can fail with, and the Service
// that forwards one prompt to an upstream completion client.
package completion

// Client-facing messages. These are the only strings a caller ever sees for a
// failed relay; upstream error detail stays in the server logs.
const (
	MsgPromptRequired   = "Prompt is required"
	MsgMethodNotAllowed = "Method not allowed"
	MsgUpstreamFailed   = "Failed to fetch response from OpenAI"
)

// PromptRequest is a validated relay request. Use DecodePromptRequest to build
// one from untrusted input.
type PromptRequest struct {
	Prompt string
}

// Result is the success envelope returned to the caller.
type Result struct {
	Text string `json:"result"`
}

// ErrorEnvelope is the failure envelope returned to the caller.
type ErrorEnvelope struct {
	Message string `json:"error"`
}
