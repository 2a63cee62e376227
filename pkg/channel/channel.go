// Package channel defines the Channel interface for promptrelay chat transports.
package channel

import "context"

// Channel represents a chat transport (Telegram, etc.) that relays each
// incoming message as a prompt and replies with the outcome.
type Channel interface {
	Name() string
	Run(ctx context.Context) error
}
