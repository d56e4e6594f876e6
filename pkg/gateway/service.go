// Package gateway is the inbound edge of the assistant: a webhook router
// that normalizes provider callbacks into channel adapters, a liveness
// and readiness surface, and the reminder poll loop.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/AddisenK/ai-assistant/pkg/assistant"
	"github.com/AddisenK/ai-assistant/pkg/channel"
	"github.com/AddisenK/ai-assistant/pkg/channel/discord"
	"github.com/AddisenK/ai-assistant/pkg/channel/imessage"
	"github.com/AddisenK/ai-assistant/pkg/channel/whatsapp"
	"github.com/AddisenK/ai-assistant/pkg/config"
	"github.com/AddisenK/ai-assistant/pkg/reminder"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = 8000
)

// Deps carries every collaborator the service needs. Everything is
// constructed once at startup and injected; the gateway owns nothing
// except the HTTP server itself.
type Deps struct {
	Assistant assistant.Client
	Caps      channel.Capabilities
	Scheduler *reminder.Scheduler
	WhatsApp  *whatsapp.Adapter
	IMessage  *imessage.Adapter
	Discord   *discord.Adapter // nil when the bot token is absent
}

type Service struct {
	cfg       *config.Config
	log       *slog.Logger
	assistant assistant.Client
	caps      channel.Capabilities
	scheduler *reminder.Scheduler
	whatsapp  *whatsapp.Adapter
	imessage  *imessage.Adapter
	discord   *discord.Adapter

	mu            sync.RWMutex
	startedAt     time.Time
	channelStates map[string]channelState
}

type channelState struct {
	Running bool   `json:"running"`
	Error   string `json:"error,omitempty"`
}

func NewService(cfg *config.Config, deps Deps, log *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if deps.Assistant == nil || deps.Caps == nil || deps.Scheduler == nil {
		return nil, errors.New("assistant, capabilities and scheduler are required")
	}
	if deps.WhatsApp == nil || deps.IMessage == nil {
		return nil, errors.New("whatsapp and imessage adapters are required")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		cfg:       cfg,
		log:       log.With("component", "gateway.service"),
		assistant: deps.Assistant,
		caps:      deps.Caps,
		scheduler: deps.Scheduler,
		whatsapp:  deps.WhatsApp,
		imessage:  deps.IMessage,
		discord:   deps.Discord,
		channelStates: map[string]channelState{
			channel.PlatformWhatsApp: {Running: true},
			channel.PlatformIMessage: {Running: true},
		},
	}

	// Due reminders route back out through each adapter's send
	// primitive, keyed by platform.
	deps.Scheduler.RegisterSender(channel.PlatformWhatsApp, deps.WhatsApp.SendText)
	deps.Scheduler.RegisterSender(channel.PlatformIMessage, deps.IMessage.SendText)
	if deps.Discord != nil {
		deps.Scheduler.RegisterSender(channel.PlatformDiscord, deps.Discord.SendText)
		s.channelStates[channel.PlatformDiscord] = channelState{}
	}

	return s, nil
}

// Run starts the webhook server, the Discord bot when configured, and
// the periodic reminder poll. It blocks until ctx is cancelled or a
// component fails.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	s.startedAt = time.Now().UTC()
	s.mu.Unlock()

	serverErrors := make(chan error, 1)
	go s.runHTTPServer(ctx, serverErrors)

	if s.discord != nil {
		go func() {
			s.setChannelState(channel.PlatformDiscord, channelState{Running: true})
			err := s.discord.Run(ctx)
			s.setChannelState(channel.PlatformDiscord, channelState{Running: false, Error: errorString(err)})
			if err != nil && !errors.Is(err, context.Canceled) {
				s.log.Error("Discord channel stopped", "error", err)
			}
		}()
	}

	if seconds := s.cfg.Reminders.PollSeconds; seconds > 0 {
		ticker := time.NewTicker(time.Duration(seconds) * time.Second)
		defer ticker.Stop()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					s.scheduler.CheckAndSend(ctx)
				}
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErrors:
		return err
	}
}

func (s *Service) runHTTPServer(ctx context.Context, errCh chan<- error) {
	host := strings.TrimSpace(s.cfg.Gateway.Host)
	if host == "" {
		host = defaultHost
	}

	port := s.cfg.Gateway.Port
	if port <= 0 {
		port = defaultPort
	}

	addr := host + ":" + strconv.Itoa(port)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("Gateway server started", "address", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errCh <- fmt.Errorf("start gateway server: %w", err)
	}
}

// Router builds the webhook route table.
func (s *Service) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.requestIDMiddleware, s.loggingMiddleware)

	router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	router.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	router.HandleFunc("/discord/interactions", s.handleDiscordInteractions).Methods(http.MethodPost)
	router.HandleFunc("/webhooks/whatsapp", s.handleWhatsAppVerify).Methods(http.MethodGet)
	router.HandleFunc("/webhooks/whatsapp", s.handleWhatsAppMessage).Methods(http.MethodPost)
	router.HandleFunc("/webhooks/imessage", s.handleIMessageMessage).Methods(http.MethodPost)
	router.HandleFunc("/reminders/check", s.handleRemindersCheck).Methods(http.MethodPost)

	return router
}

func (s *Service) setChannelState(name string, state channelState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelStates[name] = state
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
