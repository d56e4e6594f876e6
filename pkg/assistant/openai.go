package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	osdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"github.com/AddisenK/ai-assistant/pkg/config"
)

// apiClient calls the hosted completion API directly through the
// Responses endpoint. Single-shot: no session, no streaming.
type apiClient struct {
	client osdk.Client
	apiKey string
	model  string
	log    *slog.Logger
}

func newAPIClient(cfg config.AssistantConfig) *apiClient {
	apiKey := strings.TrimSpace(cfg.OpenAIAPIKey)

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second; timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	return &apiClient{
		client: osdk.NewClient(opts...),
		apiKey: apiKey,
		model:  strings.TrimSpace(cfg.Model),
		log:    slog.Default().With("component", "assistant.openai"),
	}
}

func (c *apiClient) Configured() bool {
	return c.apiKey != ""
}

func (c *apiClient) Ask(ctx context.Context, question string, extra string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: API key is not set", ErrNotConfigured)
	}

	startedAt := time.Now()
	c.log.Debug("completion request started", "model", c.model, "question_length", len(question))

	params := responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{OfString: osdk.String(question)},
	}
	if strings.TrimSpace(extra) != "" {
		params.Instructions = osdk.String(extra)
	}

	response, err := c.client.Responses.New(ctx, params)
	if err != nil {
		c.log.Warn("completion request failed", "duration_ms", time.Since(startedAt).Milliseconds(), "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text := strings.TrimSpace(response.OutputText())
	if text == "" {
		c.log.Warn("completion returned no text", "duration_ms", time.Since(startedAt).Milliseconds())
		return "", ErrNoReply
	}

	c.log.Debug("completion request completed", "duration_ms", time.Since(startedAt).Milliseconds(), "response_length", len(text))
	return text, nil
}
