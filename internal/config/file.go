package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Key describes a single configuration value.
type Key struct {
	Name   string
	Desc   string
	Secret bool
	Prefix string // expected prefix for validation (e.g. "sk-"), empty = no check
}

// Keys lists every configurable value in display order.
var Keys = []Key{
	{"OPENAI_API_KEY", "OpenAI API key", true, "sk-"},
	{"PROMPTRELAY_ADDR", "Gateway listen address", false, ""},
	{"PROMPTRELAY_MODEL", "Upstream completions model", false, ""},
	{"PROMPTRELAY_MAX_TOKENS", "Maximum tokens per completion", false, ""},
	{"PROMPTRELAY_UPSTREAM_TIMEOUT", "Upstream call timeout (e.g. 30s)", false, ""},
	{"PROMPTRELAY_UPSTREAM_BASE_URL", "Upstream API base URL override", false, ""},
	{"PROMPTRELAY_LOG_FORMAT", "Log format (auto, json, text, terminal)", false, ""},
	{"PROMPTRELAY_DEBUG", "Enable debug logs (true/false)", false, ""},
	{"PROMPTRELAY_SERVER", "Gateway URL used by ask and tui", false, ""},
	{"TELEGRAM_BOT_TOKEN", "Telegram bot token (from @BotFather)", true, ""},
}

// FindKey returns the known key with the given name.
func FindKey(name string) (Key, bool) {
	for _, k := range Keys {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// ReadFile reads KEY=VALUE pairs from path. Empty lines and lines starting
// with # are skipped; surrounding quotes are removed from values. A missing
// file yields an empty map.
func ReadFile(path string) (map[string]string, error) {
	values := make(map[string]string)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		values[key] = unquote(strings.TrimSpace(value))
	}
	return values, scanner.Err()
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' && v[len(v)-1] == '"' || v[0] == '\'' && v[len(v)-1] == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}

// WriteFile writes KEY=VALUE pairs to path with owner-only permissions.
// Known keys come first in display order, then any extras sorted by name.
func WriteFile(path string, values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# promptrelay configuration")
	fmt.Fprintln(w, "# Managed by: promptrelay config")
	fmt.Fprintln(w, "# Environment variables override these values.")
	fmt.Fprintln(w)

	written := make(map[string]bool)
	for _, k := range Keys {
		if v, ok := values[k.Name]; ok && v != "" {
			fmt.Fprintf(w, "%s=%s\n", k.Name, v)
			written[k.Name] = true
		}
	}

	var extras []string
	for k, v := range values {
		if !written[k] && v != "" {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		fmt.Fprintf(w, "%s=%s\n", k, values[k])
	}

	return w.Flush()
}

// EffectiveValue returns the current value for a key, preferring env vars
// over the config file.
func EffectiveValue(key string, fileValues map[string]string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fileValues[key]
}

// MaskSecret masks a secret string, showing only the first 4 and last 4
// characters.
func MaskSecret(s string) string {
	if len(s) <= 12 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
