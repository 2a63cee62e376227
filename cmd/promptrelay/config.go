package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jxucoder/promptrelay/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage promptrelay configuration",
	Long: `Manage promptrelay configuration (API key, model, limits, etc.).

Configuration is stored in ~/.promptrelay/config.env (or $PROMPTRELAY_HOME)
and can be overridden by environment variables.

  promptrelay config set KEY VALUE      Set a single config value
  promptrelay config show               Show current configuration
  promptrelay config path               Print config file path`,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a config value",
	Long: `Set a single configuration value. Example:
  promptrelay config set OPENAI_API_KEY sk-xxxxxxxxxxxx`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfigValue(cmd.OutOrStdout(), config.FilePath(), args[0], args[1])
	},
}

var showYAML bool

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display all configured values. Secrets are masked.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout(), config.FilePath(), showYAML)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.FilePath())
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&showYAML, "yaml", false, "Print the effective configuration as YAML")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// setConfigValue stores key=value in the config file at path.
func setConfigValue(w io.Writer, path, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}

	fileValues, err := config.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	k, known := config.FindKey(key)
	if !known {
		color.New(color.FgYellow).Fprintf(w, "! %s is not a known promptrelay key; storing it anyway\n", key)
	}
	if known && k.Prefix != "" && !strings.HasPrefix(value, k.Prefix) {
		color.New(color.FgYellow).Fprintf(w, "! %s usually starts with %q\n", key, k.Prefix)
	}

	fileValues[key] = value
	if err := config.WriteFile(path, fileValues); err != nil {
		return err
	}

	display := value
	if k.Secret {
		display = config.MaskSecret(value)
	}
	fmt.Fprintf(w, "Set %s = %s\n", key, display)
	return nil
}

// configEntry is one row of config show.
type configEntry struct {
	Key    string `yaml:"key"`
	Value  string `yaml:"value,omitempty"`
	Source string `yaml:"source"`
}

// effectiveConfig lists every known key with its masked effective value and
// where it came from.
func effectiveConfig(fileValues map[string]string) []configEntry {
	entries := make([]configEntry, 0, len(config.Keys))
	for _, k := range config.Keys {
		value := config.EffectiveValue(k.Name, fileValues)
		source := "unset"
		if os.Getenv(k.Name) != "" {
			source = "env"
		} else if fileValues[k.Name] != "" {
			source = "file"
		}
		if k.Secret {
			value = config.MaskSecret(value)
		}
		entries = append(entries, configEntry{Key: k.Name, Value: value, Source: source})
	}
	return entries
}

// showConfig prints the effective configuration.
func showConfig(w io.Writer, path string, asYAML bool) error {
	fileValues, err := config.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	entries := effectiveConfig(fileValues)

	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any{"file": path, "values": entries}); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return enc.Close()
	}

	fmt.Fprintf(w, "Config file: %s\n\n", path)
	for _, e := range entries {
		display := e.Value
		if display == "" {
			display = color.New(color.FgRed).Sprint("(not set)")
		}
		source := ""
		if e.Source != "unset" {
			source = " (from " + e.Source + ")"
		}
		fmt.Fprintf(w, "  %-30s %s%s\n", e.Key, display, source)
	}
	return nil
}
