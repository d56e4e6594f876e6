package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AddisenK/ai-assistant/pkg/config"
)

const defaultBridgeTimeout = 30 * time.Second

// bridgeClient forwards questions to a local relay process that talks to
// a chat-style assistant on this machine's behalf. Single blocking call,
// no retries, no streaming.
type bridgeClient struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

type bridgeRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

type bridgeResponse struct {
	Response string `json:"response"`
}

func newBridgeClient(cfg config.AssistantConfig) *bridgeClient {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultBridgeTimeout
	}

	return &bridgeClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BridgeURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        slog.Default().With("component", "assistant.bridge"),
	}
}

func (c *bridgeClient) Configured() bool {
	return c.baseURL != ""
}

func (c *bridgeClient) Ask(ctx context.Context, question string, extra string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: bridge URL is not set", ErrNotConfigured)
	}

	payload, err := json.Marshal(bridgeRequest{Message: question, Context: extra})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrUnavailable, err)
	}

	startedAt := time.Now()
	c.log.Debug("bridge request started", "question_length", len(question))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("bridge request failed", "duration_ms", time.Since(startedAt).Milliseconds(), "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("bridge request failed", "duration_ms", time.Since(startedAt).Milliseconds(), "status", resp.StatusCode)
		return "", fmt.Errorf("%w: bridge returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var body bridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn("bridge response malformed", "duration_ms", time.Since(startedAt).Milliseconds(), "error", err)
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	if strings.TrimSpace(body.Response) == "" {
		return "", ErrNoReply
	}

	c.log.Debug("bridge request completed", "duration_ms", time.Since(startedAt).Milliseconds(), "response_length", len(body.Response))
	return body.Response, nil
}
