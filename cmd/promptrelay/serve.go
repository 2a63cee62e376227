package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openai/openai-go/v3/option"
	"github.com/spf13/cobra"
	"goa.design/clue/log"
	"golang.org/x/sync/errgroup"

	"github.com/jxucoder/promptrelay/internal/config"
	"github.com/jxucoder/promptrelay/internal/gateway"
	"github.com/jxucoder/promptrelay/pkg/channel"
	"github.com/jxucoder/promptrelay/pkg/channel/telegram"
	"github.com/jxucoder/promptrelay/pkg/completion"
	"github.com/jxucoder/promptrelay/pkg/llm/openai"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the promptrelay gateway",
	Long: `Start the HTTP gateway serving POST /api/completion and the web page at /.
When TELEGRAM_BOT_TOKEN is set, the Telegram channel runs alongside it.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(newLogContext(cfg.LogFormat, cfg.Debug, os.Stderr), os.Interrupt, syscall.SIGTERM)
	defer stop()

	up := cfg.Upstream()
	var extra []option.RequestOption
	if up.BaseURL != "" {
		extra = append(extra, option.WithBaseURL(up.BaseURL))
	}
	llmClient, err := openai.NewFromAPIKey(up.Credential, up.ModelID, up.MaxOutputTokens, extra...)
	if err != nil {
		return fmt.Errorf("creating OpenAI client: %w", err)
	}
	if !cfg.HasCredential() {
		log.Printf(ctx, "WARNING: OPENAI_API_KEY is not set; every completion will fail until it is configured")
	}
	log.Print(ctx, log.KV{K: "upstream", V: up.String()})

	service := completion.NewService(llmClient, up.Timeout)

	channels := []channel.Channel{}
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(ctx, cfg.TelegramBotToken, service, up.Timeout)
		if err != nil {
			return err
		}
		channels = append(channels, bot)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gateway.New(ctx, cfg, service).Start(ctx)
	})
	for _, ch := range channels {
		g.Go(func() error {
			if err := ch.Run(ctx); err != nil {
				return fmt.Errorf("%s channel: %w", ch.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
