// promptrelay
//
// A small gateway that relays a single text prompt to the OpenAI completions
// API and returns the generated text.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jxucoder/promptrelay/internal/config"
	"github.com/jxucoder/promptrelay/pkg/client"
)

var (
	version   = "dev"
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "promptrelay",
	Short: "promptrelay - prompt completion gateway",
	Long: `promptrelay relays a single text prompt to the OpenAI completions API
and returns the generated text.

  promptrelay config set OPENAI_API_KEY sk-...    Store the API key (first time)
  promptrelay serve                               Start the gateway
  promptrelay ask "write a haiku"                 Send one prompt
  promptrelay tui                                 Interactive prompt form`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("PROMPTRELAY_SERVER", client.DefaultServerURL), "promptrelay gateway URL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// resolveServerURL returns the gateway URL for client commands. An explicit
// --server wins; otherwise the value comes from the environment, then the
// config file, then the default.
func resolveServerURL(cmd *cobra.Command) (string, error) {
	if f := cmd.Flags().Lookup("server"); f != nil && f.Changed {
		return serverURL, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.ServerURL, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
