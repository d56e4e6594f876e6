package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AddisenK/ai-assistant/pkg/config"
)

// Error kinds surfaced by assistant backends. Callers can branch on these
// internally; at the platform hand-off everything collapses to text via Text.
var (
	// ErrNotConfigured means the selected backend is missing its URL or
	// credential and no call was attempted.
	ErrNotConfigured = errors.New("assistant not configured")
	// ErrUnavailable means the backend was called and failed (transport
	// error, non-2xx status, malformed body).
	ErrUnavailable = errors.New("assistant unavailable")
	// ErrNoReply means the backend answered but carried no reply text.
	ErrNoReply = errors.New("assistant returned no reply")
)

// Fixed reply strings forwarded verbatim to users.
const (
	TextNotConfigured = "The assistant is not configured"
	TextNoReply       = "No response received"
)

// Client answers free-text questions through exactly one backend chosen
// at startup.
type Client interface {
	// Ask sends a question with optional extra context and returns the
	// reply text. Failures come back as error kinds defined above.
	Ask(ctx context.Context, question string, extra string) (string, error)
	// Configured reports whether the backend has what it needs to make
	// a real call.
	Configured() bool
}

// New resolves the backend from config: "bridge" forwards to a local
// relay, "api" calls the hosted completion API directly.
func New(cfg config.AssistantConfig) (Client, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = config.ModeBridge
	}

	slog.Default().With("component", "assistant.factory").Debug("Resolving assistant backend", "mode", mode)

	switch mode {
	case config.ModeBridge:
		return newBridgeClient(cfg), nil
	case config.ModeAPI:
		return newAPIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported assistant mode: %s", mode)
	}
}

// Text collapses an Ask result into the single string every channel
// forwards. Error detail is kept human-readable; nothing raises past here.
func Text(reply string, err error) string {
	switch {
	case err == nil:
		return reply
	case errors.Is(err, ErrNotConfigured):
		return TextNotConfigured
	case errors.Is(err, ErrNoReply):
		return TextNoReply
	default:
		return "Error getting assistant response: " + err.Error()
	}
}
