// Package discord runs the Discord side of the gateway: a bot session
// for guild commands and direct messages, plus the interactions webhook
// handshake. Direct messages skip keyword dispatch and go straight to
// the assistant; guild messages use explicit prefixed commands instead
// of substring sniffing.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/AddisenK/ai-assistant/pkg/assistant"
	"github.com/AddisenK/ai-assistant/pkg/channel"
	"github.com/AddisenK/ai-assistant/pkg/config"
)

const (
	// Discord rejects messages above 2000 characters.
	messageLimit = 2000

	commandListLimit = 5
	defaultEmailArg  = 5
	defaultDaysArg   = 7

	interactionAckContent = "Hello from AI Assistant!"
)

type Adapter struct {
	cfg     config.DiscordConfig
	caps    channel.Capabilities
	session *discordgo.Session
	log     *slog.Logger
}

// NewAdapter builds the bot session up front, before any goroutine can
// reach it; Run only opens and closes it. Session construction needs no
// network.
func NewAdapter(cfg config.DiscordConfig, caps channel.Capabilities, log *slog.Logger) (*Adapter, error) {
	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		return nil, errors.New("discord bot token is required")
	}
	if log == nil {
		log = slog.Default()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("initialize discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	a := &Adapter{
		cfg:     cfg,
		caps:    caps,
		session: session,
		log:     log.With("component", "channel.discord"),
	}
	session.AddHandler(a.onMessageCreate)

	return a, nil
}

func (a *Adapter) Name() string {
	return channel.PlatformDiscord
}

// Run opens the bot session and blocks until ctx is cancelled.
func (a *Adapter) Run(ctx context.Context) error {
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	a.log.Info("Discord channel started")

	<-ctx.Done()
	return a.session.Close()
}

func (a *Adapter) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}

	ctx := context.Background()

	// Guild messages require an explicit command; DMs talk to the
	// assistant directly.
	var reply string
	if m.GuildID == "" {
		text, err := a.caps.Ask(ctx, content, "")
		reply = assistant.Text(text, err)
	} else {
		name, args, ok := parseCommand(a.cfg.CommandPrefix, content)
		if !ok {
			return
		}
		reply = a.executeCommand(ctx, name, args, m.Author.ID)
	}

	reply = truncate(reply, messageLimit)
	if reply == "" {
		return
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		a.log.Error("Failed to send discord message", "channel_id", m.ChannelID, "error", err)
	}
}

// executeCommand runs one explicit bot command and returns the reply.
// Unknown commands return an empty reply and are ignored.
func (a *Adapter) executeCommand(ctx context.Context, name string, args []string, authorID string) string {
	switch name {
	case "ask":
		question := strings.Join(args, " ")
		if strings.TrimSpace(question) == "" {
			return "Usage: " + a.cfg.CommandPrefix + "ask <question>"
		}
		text, err := a.caps.Ask(ctx, question, "")
		return assistant.Text(text, err)

	case "emails":
		count := intArg(args, 0, defaultEmailArg)
		return bulletList(a.caps.RecentEmails(count), "No emails found")

	case "calendar":
		days := intArg(args, 0, defaultDaysArg)
		return bulletList(a.caps.UpcomingEvents(days), "No events found")

	case "remind":
		if len(args) < 2 {
			return "Usage: " + a.cfg.CommandPrefix + "remind <time> <message>"
		}
		timeSpec := args[0]
		message := strings.Join(args[1:], " ")
		if !a.caps.ScheduleReminder(timeSpec, message, channel.PlatformDiscord, authorID) {
			return "Couldn't parse reminder time. Use format: 30m, 2h or 1d"
		}
		return "Reminder set for " + timeSpec

	default:
		return ""
	}
}

// SendText delivers text to a user over a direct-message channel. REST
// calls need only the token, so this works before Run opens the gateway
// connection.
func (a *Adapter) SendText(_ context.Context, userID string, text string) error {
	dm, err := a.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}

	if _, err := a.session.ChannelMessageSend(dm.ID, truncate(text, messageLimit)); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}

	return nil
}

// inboundInteraction is the minimal slice of the interactions payload the
// handshake needs.
type inboundInteraction struct {
	Type int `json:"type"`
}

// HandleInteraction answers the interactions webhook. A liveness ping
// (type 1) is answered with a bare pong and nothing else; every other
// interaction type gets a fixed channel-message acknowledgment.
func HandleInteraction(payload []byte) (*discordgo.InteractionResponse, error) {
	var interaction inboundInteraction
	if err := json.Unmarshal(payload, &interaction); err != nil {
		return nil, fmt.Errorf("decode interaction: %w", err)
	}

	if interaction.Type == int(discordgo.InteractionPing) {
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}, nil
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: interactionAckContent},
	}, nil
}

// parseCommand splits "<prefix><name> arg arg..." into its parts. ok is
// false when content does not start with the prefix.
func parseCommand(prefix string, content string) (name string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}

	return strings.ToLower(fields[0]), fields[1:], true
}

func intArg(args []string, index int, fallback int) int {
	if index >= len(args) {
		return fallback
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}

func bulletList(entries []string, emptyReply string) string {
	if len(entries) == 0 {
		return emptyReply
	}
	if len(entries) > commandListLimit {
		entries = entries[:commandListLimit]
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, "- "+entry)
	}

	return strings.Join(lines, "\n")
}

// truncate caps text at limit bytes without cutting a rune in half.
func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}

	end := limit
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	return text[:end]
}
