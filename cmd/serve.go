package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AddisenK/ai-assistant/pkg/assistant"
	"github.com/AddisenK/ai-assistant/pkg/channel/discord"
	"github.com/AddisenK/ai-assistant/pkg/channel/imessage"
	"github.com/AddisenK/ai-assistant/pkg/channel/whatsapp"
	"github.com/AddisenK/ai-assistant/pkg/config"
	"github.com/AddisenK/ai-assistant/pkg/dispatch"
	"github.com/AddisenK/ai-assistant/pkg/gateway"
	"github.com/AddisenK/ai-assistant/pkg/logger"
	"github.com/AddisenK/ai-assistant/pkg/lookup"
	"github.com/AddisenK/ai-assistant/pkg/reminder"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the messaging gateway",
	Long:  "Starts the webhook server, the Discord bot when configured, and the reminder poll loop.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			return
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.serve")

		client, err := assistant.New(cfg.Assistant)
		if err != nil {
			log.Error("Assistant configuration invalid", "error", err)
			return
		}
		if !client.Configured() {
			log.Warn("Assistant backend has no credentials; replies will say so", "mode", cfg.Assistant.Mode)
		}

		scheduler := reminder.NewScheduler(log)
		responder := dispatch.NewResponder(
			client,
			lookup.NewEmailService(cfg.Lookups, log),
			lookup.NewCalendarService(cfg.Lookups, log),
			scheduler,
			log,
		)

		deps := gateway.Deps{
			Assistant: client,
			Caps:      responder,
			Scheduler: scheduler,
			WhatsApp:  whatsapp.NewAdapter(cfg.Channels.WhatsApp, responder, log),
			IMessage:  imessage.NewAdapter(cfg.Channels.IMessage, responder, log),
		}

		if cfg.Channels.Discord.Enabled() {
			adapter, err := discord.NewAdapter(cfg.Channels.Discord, responder, log)
			if err != nil {
				log.Error("Discord configuration invalid", "error", err)
				return
			}
			deps.Discord = adapter
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := gateway.NewService(cfg, deps, log)
		if err != nil {
			log.Error("Failed to initialize gateway service", "error", err)
			return
		}

		log.Info("Gateway started",
			"host", cfg.Gateway.Host,
			"port", cfg.Gateway.Port,
			"assistant_mode", cfg.Assistant.Mode,
			"discord_enabled", cfg.Channels.Discord.Enabled(),
			"whatsapp_enabled", cfg.Channels.WhatsApp.Enabled(),
		)
		if err := svc.Run(runCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Gateway runtime failed", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
