package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jxucoder/promptrelay/internal/tui"
	"github.com/jxucoder/promptrelay/pkg/client"
)

var tuiTimeout time.Duration

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive prompt form",
	Long:  "Open an interactive terminal form that submits prompts to the gateway.",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := resolveServerURL(cmd)
		if err != nil {
			return err
		}
		m := tui.New(client.New(url, nil), tuiTimeout)
		_, err = tea.NewProgram(m).Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().DurationVar(&tuiTimeout, "timeout", 2*time.Minute, "Maximum time to wait for each response")
	rootCmd.AddCommand(tuiCmd)
}
