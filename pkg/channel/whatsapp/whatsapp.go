// Package whatsapp bridges Twilio WhatsApp webhooks into the gateway.
// Inbound payloads are normalized from the provider's From/Body form
// fields; replies go back out through the Twilio message-create call.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/AddisenK/ai-assistant/pkg/channel"
	"github.com/AddisenK/ai-assistant/pkg/config"
	"github.com/AddisenK/ai-assistant/pkg/dispatch"
)

// WhatsApp replies are capped at the provider's message length limit.
const messageLimit = 1000

// Adapter handles the WhatsApp channel. It is constructed even without
// Twilio credentials so inbound dispatch keeps working; only outbound
// sends fail in that state.
type Adapter struct {
	cfg    config.WhatsAppConfig
	caps   channel.Capabilities
	client *twilio.RestClient
	log    *slog.Logger
}

func NewAdapter(cfg config.WhatsAppConfig, caps channel.Capabilities, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "channel.whatsapp")

	var client *twilio.RestClient
	if cfg.Enabled() {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
	} else {
		log.Warn("Twilio credentials not configured; outbound sends disabled")
	}

	return &Adapter{
		cfg:    cfg,
		caps:   caps,
		client: client,
		log:    log,
	}
}

func (a *Adapter) Name() string {
	return channel.PlatformWhatsApp
}

// HandleMessage normalizes one webhook delivery, runs keyword dispatch,
// and relays the reply back to the sender.
func (a *Adapter) HandleMessage(ctx context.Context, from string, body string) error {
	msg := channel.InboundMessage{
		Channel:  channel.PlatformWhatsApp,
		SenderID: from,
		Content:  body,
	}
	a.log.Info("Received message", "sender_id", from, "content_length", len(body))

	reply := dispatch.Respond(ctx, a.caps, msg, messageLimit)
	if strings.TrimSpace(reply) == "" {
		return nil
	}

	return a.SendText(ctx, from, reply)
}

// SendText delivers one outbound WhatsApp message through Twilio.
func (a *Adapter) SendText(_ context.Context, to string, text string) error {
	if a.client == nil {
		return errors.New("twilio client is not configured")
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetBody(text)
	params.SetFrom(a.cfg.FromNumber)
	params.SetTo(to)

	if _, err := a.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}

	a.log.Info("Sent message", "to", to, "content_length", len(text))
	return nil
}
