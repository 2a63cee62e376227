// Package config provides configuration management for promptrelay.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codingconcepts/env"
)

// Config holds all configuration for the promptrelay gateway and its clients.
// It is loaded once at process start and treated as read-only afterwards.
type Config struct {
	// ServerAddr is the address the HTTP gateway listens on (e.g., ":7080").
	ServerAddr string `env:"PROMPTRELAY_ADDR" default:":7080"`

	// OpenAIAPIKey is the upstream credential. It may be empty: requests then
	// fail as upstream errors rather than the process refusing to start.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	// Model is the upstream completions model identifier.
	Model string `env:"PROMPTRELAY_MODEL" default:"gpt-3.5-turbo-instruct"`

	// MaxTokens caps the length of each completion. Default: 150.
	MaxTokens int64 `env:"PROMPTRELAY_MAX_TOKENS" default:"150"`

	// UpstreamTimeout bounds each upstream call. Default: 30 seconds.
	UpstreamTimeout time.Duration `env:"PROMPTRELAY_UPSTREAM_TIMEOUT" default:"30s"`

	// UpstreamBaseURL overrides the OpenAI API base URL (proxies, tests).
	UpstreamBaseURL string `env:"PROMPTRELAY_UPSTREAM_BASE_URL"`

	// LogFormat is one of "auto", "json", "text" or "terminal".
	LogFormat string `env:"PROMPTRELAY_LOG_FORMAT" default:"auto"`

	// Debug enables debug logs.
	Debug bool `env:"PROMPTRELAY_DEBUG"`

	// ServerURL is the gateway URL used by the ask and tui clients.
	ServerURL string `env:"PROMPTRELAY_SERVER" default:"http://localhost:7080"`

	// TelegramBotToken enables the Telegram channel when set (optional).
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
}

// UpstreamConfig is the process-wide upstream configuration handed to the
// completion client. Its String form never includes the credential.
type UpstreamConfig struct {
	ModelID         string
	MaxOutputTokens int64
	Credential      string
	Timeout         time.Duration
	BaseURL         string
}

func (u UpstreamConfig) String() string {
	return fmt.Sprintf("model=%s max_tokens=%d timeout=%s credential=%s",
		u.ModelID, u.MaxOutputTokens, u.Timeout, MaskSecret(u.Credential))
}

// Load creates a Config from the config file and environment variables.
// Values are resolved in order: environment variable > config file > default.
func Load() (*Config, error) {
	// Existing env vars take precedence (loadConfigFile only sets unset vars).
	if err := loadConfigFile(FilePath()); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := env.Set(&cfg); err != nil {
		return nil, fmt.Errorf("setting variables from environment: %w", err)
	}
	return &cfg, nil
}

// loadConfigFile sets any values from path that are not already present in
// the environment. A missing file is not an error.
func loadConfigFile(path string) error {
	values, err := ReadFile(path)
	if err != nil {
		return err
	}
	for key, value := range values {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	return nil
}

// Validate checks that the configuration is usable. A missing credential is
// deliberately not an error.
func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("PROMPTRELAY_ADDR must not be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("PROMPTRELAY_MODEL must not be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("PROMPTRELAY_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("PROMPTRELAY_UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	switch c.LogFormat {
	case "auto", "json", "text", "terminal":
	default:
		return fmt.Errorf("PROMPTRELAY_LOG_FORMAT must be one of auto, json, text, terminal; got %q", c.LogFormat)
	}
	return nil
}

// HasCredential returns true if an upstream API key is configured.
func (c *Config) HasCredential() bool {
	return c.OpenAIAPIKey != ""
}

// TelegramEnabled returns true if the Telegram channel is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

// Upstream returns the read-only upstream configuration.
func (c *Config) Upstream() UpstreamConfig {
	return UpstreamConfig{
		ModelID:         c.Model,
		MaxOutputTokens: c.MaxTokens,
		Credential:      c.OpenAIAPIKey,
		Timeout:         c.UpstreamTimeout,
		BaseURL:         c.UpstreamBaseURL,
	}
}

// Dir returns the promptrelay home directory ($PROMPTRELAY_HOME or
// ~/.promptrelay).
func Dir() string {
	if v := os.Getenv("PROMPTRELAY_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".promptrelay"
	}
	return filepath.Join(home, ".promptrelay")
}

// FilePath returns the path of the config.env file.
func FilePath() string {
	return filepath.Join(Dir(), "config.env")
}
