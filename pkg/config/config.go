package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Assistant backend modes selected by AI_MODE.
const (
	ModeBridge = "bridge"
	ModeAPI    = "api"
)

const (
	defaultHost              = "0.0.0.0"
	defaultPort              = 8000
	defaultModel             = "gpt-4o-mini"
	defaultCommandPrefix     = "!"
	defaultPollSeconds       = 60
	defaultRequestTimeoutSec = 30
)

// Config is the root runtime configuration, assembled from the environment.
type Config struct {
	Gateway   GatewayConfig
	Logging   LoggingConfig
	Assistant AssistantConfig
	Channels  ChannelsConfig
	Lookups   LookupsConfig
	Reminders RemindersConfig
}

// GatewayConfig configures HTTP bind settings for the webhook router.
type GatewayConfig struct {
	Host string
	Port int
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string
	Level     string
	AddSource bool
}

// AssistantConfig selects and configures exactly one assistant backend.
type AssistantConfig struct {
	Mode                  string
	BridgeURL             string
	OpenAIAPIKey          string
	Model                 string
	RequestTimeoutSeconds int
}

// ChannelsConfig stores per-platform adapter settings plus the shared
// webhook verification token.
type ChannelsConfig struct {
	VerifyToken string
	Discord     DiscordConfig
	WhatsApp    WhatsAppConfig
	IMessage    IMessageConfig
}

// DiscordConfig configures the Discord bot integration.
type DiscordConfig struct {
	BotToken      string
	CommandPrefix string
}

// Enabled reports whether the Discord bot can be started.
func (c DiscordConfig) Enabled() bool {
	return strings.TrimSpace(c.BotToken) != ""
}

// WhatsAppConfig configures the Twilio-backed WhatsApp integration.
type WhatsAppConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Enabled reports whether outbound WhatsApp sends are possible.
func (c WhatsAppConfig) Enabled() bool {
	return strings.TrimSpace(c.AccountSID) != "" && strings.TrimSpace(c.AuthToken) != ""
}

// IMessageConfig configures the AppleScript-backed iMessage integration.
type IMessageConfig struct {
	OSAScriptPath string
}

// LookupsConfig carries mail/calendar account credentials. The lookup
// services only check these for presence; real provider integration is
// deliberately absent.
type LookupsConfig struct {
	GmailAddress       string
	GmailAppPassword   string
	OutlookAddress     string
	OutlookAppPassword string
	AppleID            string
	AppleAppPassword   string
}

// RemindersConfig controls the periodic due-reminder poll.
type RemindersConfig struct {
	PollSeconds int
}

// Load reads .env files when present and assembles configuration from
// environment variables.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		Gateway: GatewayConfig{
			Host: getEnv("GATEWAY_HOST", defaultHost),
			Port: defaultPort,
		},
		Logging: LoggingConfig{
			Format:    getEnv("ASSISTANT_LOG_FORMAT", ""),
			Level:     getEnv("ASSISTANT_LOG_LEVEL", ""),
			AddSource: parseBool(getEnv("ASSISTANT_LOG_ADD_SOURCE", "")),
		},
		Assistant: AssistantConfig{
			Mode:                  strings.ToLower(getEnv("AI_MODE", ModeBridge)),
			BridgeURL:             getEnv("BRIDGE_URL", ""),
			OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
			Model:                 getEnv("ASSISTANT_MODEL", defaultModel),
			RequestTimeoutSeconds: defaultRequestTimeoutSec,
		},
		Channels: ChannelsConfig{
			VerifyToken: getEnv("WEBHOOK_VERIFY_TOKEN", ""),
			Discord: DiscordConfig{
				BotToken:      getEnv("DISCORD_BOT_TOKEN", ""),
				CommandPrefix: getEnv("DISCORD_COMMAND_PREFIX", defaultCommandPrefix),
			},
			WhatsApp: WhatsAppConfig{
				AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
				AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
				FromNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
			},
			IMessage: IMessageConfig{
				OSAScriptPath: getEnv("OSASCRIPT_PATH", "osascript"),
			},
		},
		Lookups: LookupsConfig{
			GmailAddress:       getEnv("GMAIL_EMAIL", ""),
			GmailAppPassword:   getEnv("GMAIL_APP_PASSWORD", ""),
			OutlookAddress:     getEnv("OUTLOOK_EMAIL", ""),
			OutlookAppPassword: getEnv("OUTLOOK_APP_PASSWORD", ""),
			AppleID:            getEnv("APPLE_ID", ""),
			AppleAppPassword:   getEnv("APPLE_APP_PASSWORD", ""),
		},
		Reminders: RemindersConfig{
			PollSeconds: defaultPollSeconds,
		},
	}

	if raw := getEnv("GATEWAY_PORT", ""); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid GATEWAY_PORT %q", raw)
		}
		cfg.Gateway.Port = port
	}

	if raw := getEnv("REMINDER_POLL_SECONDS", ""); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("invalid REMINDER_POLL_SECONDS %q", raw)
		}
		cfg.Reminders.PollSeconds = seconds
	}

	if cfg.Assistant.Mode != ModeBridge && cfg.Assistant.Mode != ModeAPI {
		return nil, fmt.Errorf("unsupported AI_MODE %q (expected %q or %q)", cfg.Assistant.Mode, ModeBridge, ModeAPI)
	}

	return cfg, nil
}

// loadDotEnv loads the first .env file found. Absence is not an error;
// plain environment variables are the primary configuration surface.
func loadDotEnv() {
	for _, path := range []string{".env", "../.env"} {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseBool(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
