package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"goa.design/clue/log"

	"github.com/jxucoder/promptrelay/pkg/client"
)

// errReported signals a failure that has already been printed.
var errReported = errors.New("reported")

var (
	askTimeout time.Duration
	askDebug   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Send one prompt to the gateway",
	Long: `Send one prompt to the gateway and print the completion.
With no arguments (or "-") the prompt is read from stdin.

  promptrelay ask "write a haiku about Go"
  echo "write a haiku" | promptrelay ask`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "Maximum time to wait for the gateway")
	askCmd.Flags().BoolVar(&askDebug, "debug", false, "Log the underlying error on failure")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	url, err := resolveServerURL(cmd)
	if err != nil {
		return err
	}

	ctx := newLogContext("auto", askDebug, cmd.ErrOrStderr())
	c := client.New(url, nil)
	form := client.NewForm()

	out, err := form.Submit(ctx, timeoutCompleter{c, askTimeout}, prompt)
	if err != nil {
		log.Debug(ctx, log.KV{K: "msg", V: "completion failed"}, log.KV{K: "err", V: err.Error()})
		color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), out)
		return errReported
	}
	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// readPrompt joins args into a prompt, or reads stdin when there are none.
// The prompt is sent as-is; the gateway decides whether it is valid.
func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading prompt from stdin: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

// timeoutCompleter bounds each call to c.
type timeoutCompleter struct {
	c       client.Completer
	timeout time.Duration
}

func (t timeoutCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.c.Complete(ctx, prompt)
}
