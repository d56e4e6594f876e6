// Package imessage relays messages through the local Messages app on a
// Mac via AppleScript. There is no keyword branching here: every inbound
// message goes straight to the assistant and the reply is sent back
// untruncated.
package imessage

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/AddisenK/ai-assistant/pkg/assistant"
	"github.com/AddisenK/ai-assistant/pkg/channel"
	"github.com/AddisenK/ai-assistant/pkg/config"
)

// runFunc executes one osascript invocation; swapped out in tests.
type runFunc func(ctx context.Context, name string, args ...string) error

type Adapter struct {
	cfg  config.IMessageConfig
	caps channel.Capabilities
	run  runFunc
	log  *slog.Logger
}

func NewAdapter(cfg config.IMessageConfig, caps channel.Capabilities, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}

	return &Adapter{
		cfg:  cfg,
		caps: caps,
		run:  runCommand,
		log:  log.With("component", "channel.imessage"),
	}
}

func (a *Adapter) Name() string {
	return channel.PlatformIMessage
}

// HandleMessage forwards the body to the assistant and sends the reply
// back to the originating contact.
func (a *Adapter) HandleMessage(ctx context.Context, from string, body string) error {
	a.log.Info("Received message", "sender_id", from, "content_length", len(body))

	reply, err := a.caps.Ask(ctx, body, "")
	return a.SendText(ctx, from, assistant.Text(reply, err))
}

// SendText tells the local Messages app to deliver text to a contact.
func (a *Adapter) SendText(ctx context.Context, to string, text string) error {
	script := buildScript(to, text)

	path := strings.TrimSpace(a.cfg.OSAScriptPath)
	if path == "" {
		path = "osascript"
	}

	if err := a.run(ctx, path, "-e", script); err != nil {
		return fmt.Errorf("send imessage: %w", err)
	}

	a.log.Info("Sent message", "to", to, "content_length", len(text))
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// buildScript renders the Messages send script with to/text escaped for
// AppleScript string literals.
func buildScript(to string, text string) string {
	return fmt.Sprintf(`tell application "Messages"
	send "%s" to buddy "%s"
end tell`, escape(text), escape(to))
}

func escape(input string) string {
	escaped := strings.ReplaceAll(input, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	return escaped
}
