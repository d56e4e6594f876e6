package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Gateway.Host != defaultHost || cfg.Gateway.Port != defaultPort {
		t.Fatalf("gateway = %+v", cfg.Gateway)
	}
	if cfg.Assistant.Mode != ModeBridge {
		t.Fatalf("mode = %q, want %q", cfg.Assistant.Mode, ModeBridge)
	}
	if cfg.Assistant.Model != defaultModel {
		t.Fatalf("model = %q", cfg.Assistant.Model)
	}
	if cfg.Channels.Discord.CommandPrefix != defaultCommandPrefix {
		t.Fatalf("prefix = %q", cfg.Channels.Discord.CommandPrefix)
	}
	if cfg.Reminders.PollSeconds != defaultPollSeconds {
		t.Fatalf("poll seconds = %d", cfg.Reminders.PollSeconds)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AI_MODE", "API")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GATEWAY_PORT", "9090")
	t.Setenv("REMINDER_POLL_SECONDS", "15")
	t.Setenv("WEBHOOK_VERIFY_TOKEN", " secret ")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Assistant.Mode != ModeAPI {
		t.Fatalf("mode = %q, want lowercased %q", cfg.Assistant.Mode, ModeAPI)
	}
	if cfg.Gateway.Port != 9090 {
		t.Fatalf("port = %d", cfg.Gateway.Port)
	}
	if cfg.Reminders.PollSeconds != 15 {
		t.Fatalf("poll seconds = %d", cfg.Reminders.PollSeconds)
	}
	if cfg.Channels.VerifyToken != "secret" {
		t.Fatalf("verify token = %q, want trimmed", cfg.Channels.VerifyToken)
	}
	if !cfg.Channels.WhatsApp.Enabled() {
		t.Fatal("whatsapp should be enabled with sid and token set")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("GATEWAY_PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("accepted invalid GATEWAY_PORT")
	}

	t.Setenv("GATEWAY_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatal("accepted out-of-range GATEWAY_PORT")
	}

	t.Setenv("GATEWAY_PORT", "8000")
	t.Setenv("REMINDER_POLL_SECONDS", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("accepted negative REMINDER_POLL_SECONDS")
	}

	t.Setenv("REMINDER_POLL_SECONDS", "60")
	t.Setenv("AI_MODE", "telepathy")
	if _, err := Load(); err == nil {
		t.Fatal("accepted unsupported AI_MODE")
	}
}

func TestEnabled(t *testing.T) {
	if (DiscordConfig{}).Enabled() {
		t.Fatal("discord enabled without token")
	}
	if !(DiscordConfig{BotToken: "token"}).Enabled() {
		t.Fatal("discord disabled with token")
	}

	if (WhatsAppConfig{AccountSID: "AC123"}).Enabled() {
		t.Fatal("whatsapp enabled without auth token")
	}
	if !(WhatsAppConfig{AccountSID: "AC123", AuthToken: "tok"}).Enabled() {
		t.Fatal("whatsapp disabled with full credentials")
	}
}
