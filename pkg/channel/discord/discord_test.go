package discord

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/AddisenK/ai-assistant/pkg/config"
)

type fakeCaps struct {
	askReply   string
	askErr     error
	emails     []string
	events     []string
	scheduleOK bool
	scheduled  [][4]string
}

func (f *fakeCaps) Ask(context.Context, string, string) (string, error) {
	return f.askReply, f.askErr
}

func (f *fakeCaps) RecentEmails(int) []string   { return f.emails }
func (f *fakeCaps) UpcomingEvents(int) []string { return f.events }

func (f *fakeCaps) ScheduleReminder(timeSpec, message, platform, userID string) bool {
	f.scheduled = append(f.scheduled, [4]string{timeSpec, message, platform, userID})
	return f.scheduleOK
}

func testAdapter(t *testing.T, caps *fakeCaps) *Adapter {
	t.Helper()

	adapter, err := NewAdapter(config.DiscordConfig{BotToken: "token", CommandPrefix: "!"}, caps, nil)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	return adapter
}

func TestNewAdapterRequiresToken(t *testing.T) {
	if _, err := NewAdapter(config.DiscordConfig{}, &fakeCaps{}, nil); err == nil {
		t.Fatal("expected error without bot token")
	}
}

// The session must exist before Run starts so the reminder delivery
// path never races a session assignment.
func TestNewAdapterBuildsSession(t *testing.T) {
	adapter := testAdapter(t, &fakeCaps{})

	if adapter.session == nil {
		t.Fatal("session not constructed by NewAdapter")
	}
	if adapter.session.Identify.Intents&discordgo.IntentMessageContent == 0 {
		t.Fatal("message content intent not set")
	}
}

func TestHandleInteractionPing(t *testing.T) {
	response, err := HandleInteraction([]byte(`{"type": 1}`))
	if err != nil {
		t.Fatalf("HandleInteraction: %v", err)
	}

	encoded, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `{"type":1}` {
		t.Fatalf("ping response = %s, want {\"type\":1}", encoded)
	}
}

func TestHandleInteractionCommand(t *testing.T) {
	response, err := HandleInteraction([]byte(`{"type": 2, "data": {"name": "ask"}}`))
	if err != nil {
		t.Fatalf("HandleInteraction: %v", err)
	}

	if response.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Fatalf("response type = %d, want %d", response.Type, discordgo.InteractionResponseChannelMessageWithSource)
	}
	if response.Data == nil || response.Data.Content == "" {
		t.Fatal("expected acknowledgment content")
	}
}

func TestHandleInteractionMalformed(t *testing.T) {
	if _, err := HandleInteraction([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestParseCommand(t *testing.T) {
	name, args, ok := parseCommand("!", "!ask what is Go?")
	if !ok || name != "ask" {
		t.Fatalf("parseCommand = %q, %v", name, ok)
	}
	if strings.Join(args, " ") != "what is Go?" {
		t.Fatalf("args = %v", args)
	}

	if _, _, ok := parseCommand("!", "plain message"); ok {
		t.Fatal("expected no match without prefix")
	}
	if _, _, ok := parseCommand("!", "!"); ok {
		t.Fatal("expected no match for bare prefix")
	}

	name, _, ok = parseCommand("!", "!ASK hi")
	if !ok || name != "ask" {
		t.Fatalf("parseCommand uppercase = %q, %v", name, ok)
	}
}

func TestExecuteAskCommand(t *testing.T) {
	caps := &fakeCaps{askReply: "Go is a language"}
	adapter := testAdapter(t, caps)

	reply := adapter.executeCommand(context.Background(), "ask", []string{"what", "is", "Go?"}, "u1")
	if reply != "Go is a language" {
		t.Fatalf("reply = %q", reply)
	}

	reply = adapter.executeCommand(context.Background(), "ask", nil, "u1")
	if !strings.HasPrefix(reply, "Usage:") {
		t.Fatalf("reply = %q, want usage", reply)
	}
}

func TestExecuteEmailsCommand(t *testing.T) {
	caps := &fakeCaps{emails: []string{"a", "b", "c", "d", "e", "f"}}
	adapter := testAdapter(t, caps)

	reply := adapter.executeCommand(context.Background(), "emails", nil, "u1")
	lines := strings.Split(reply, "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	if lines[0] != "- a" {
		t.Fatalf("first line = %q", lines[0])
	}

	adapter = testAdapter(t, &fakeCaps{})
	if reply := adapter.executeCommand(context.Background(), "emails", nil, "u1"); reply != "No emails found" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestExecuteCalendarCommand(t *testing.T) {
	adapter := testAdapter(t, &fakeCaps{events: []string{"standup"}})

	if reply := adapter.executeCommand(context.Background(), "calendar", []string{"3"}, "u1"); reply != "- standup" {
		t.Fatalf("reply = %q", reply)
	}

	adapter = testAdapter(t, &fakeCaps{})
	if reply := adapter.executeCommand(context.Background(), "calendar", nil, "u1"); reply != "No events found" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestExecuteRemindCommand(t *testing.T) {
	caps := &fakeCaps{scheduleOK: true}
	adapter := testAdapter(t, caps)

	reply := adapter.executeCommand(context.Background(), "remind", []string{"30m", "buy", "milk"}, "u42")
	if reply != "Reminder set for 30m" {
		t.Fatalf("reply = %q", reply)
	}

	got := caps.scheduled[0]
	if got[0] != "30m" || got[1] != "buy milk" || got[2] != "discord" || got[3] != "u42" {
		t.Fatalf("scheduled = %v", got)
	}

	reply = adapter.executeCommand(context.Background(), "remind", []string{"30m"}, "u42")
	if !strings.HasPrefix(reply, "Usage:") {
		t.Fatalf("reply = %q, want usage", reply)
	}

	caps = &fakeCaps{scheduleOK: false}
	adapter = testAdapter(t, caps)
	reply = adapter.executeCommand(context.Background(), "remind", []string{"soonish", "call", "home"}, "u42")
	if !strings.Contains(reply, "Couldn't parse reminder time") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	adapter := testAdapter(t, &fakeCaps{})

	if reply := adapter.executeCommand(context.Background(), "dance", nil, "u1"); reply != "" {
		t.Fatalf("reply = %q, want silence for unknown command", reply)
	}
}

func TestIntArg(t *testing.T) {
	if got := intArg([]string{"3"}, 0, 5); got != 3 {
		t.Fatalf("intArg = %d, want 3", got)
	}
	if got := intArg(nil, 0, 5); got != 5 {
		t.Fatalf("intArg fallback = %d, want 5", got)
	}
	if got := intArg([]string{"zero"}, 0, 5); got != 5 {
		t.Fatalf("intArg invalid = %d, want 5", got)
	}
	if got := intArg([]string{"-2"}, 0, 5); got != 5 {
		t.Fatalf("intArg negative = %d, want 5", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", messageLimit+100)
	if got := truncate(long, messageLimit); len(got) != messageLimit {
		t.Fatalf("len = %d, want %d", len(got), messageLimit)
	}
	if got := truncate("short", messageLimit); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}

	// A cap landing inside a multi-byte rune backs up to the boundary:
	// three-byte runes start at multiples of 3, so the 2000-byte cap
	// trims to 1998.
	long = strings.Repeat("日", messageLimit)
	got := truncate(long, messageLimit)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8")
	}
	if len(got) != messageLimit-2 {
		t.Fatalf("len = %d, want %d", len(got), messageLimit-2)
	}
}
