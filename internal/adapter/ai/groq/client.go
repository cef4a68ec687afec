// Package groq implements the completion client against Groq's
// OpenAI-compatible chat-completions API.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/observability"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/config"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

// Fixed sampling parameters. One round trip per call: no retry, no backoff,
// no streaming.
const (
	temperature = 0.7
	maxTokens   = 4096
	topP        = 1
)

// Client implements domain.CompletionClient.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Groq client. The API key must already be validated by the
// caller; an empty key fails every call.
func New(cfg config.Config) *Client {
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Timeout:   cfg.CompletionTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one chat-completion round trip and returns the raw message
// content. Transport failures and empty bodies surface as upstream errors.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.GroqAPIKey == "" {
		return "", fmt.Errorf("%w: GROQ_API_KEY missing", domain.ErrInvalidArgument)
	}

	body, _ := json.Marshal(chatRequest{
		Model:       c.cfg.GroqModel,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        topP,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	dur := time.Since(start)
	observability.ObserveCompletion("chat", dur, err)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrUpstreamFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("completion call failed",
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", dur),
			slog.String("model", c.cfg.GroqModel))
		return "", fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: malformed response body: %v", domain.ErrUpstreamFailure, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUpstreamFailure, out.Error.Message)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstreamFailure)
	}

	slog.Debug("completion ok",
		slog.String("model", c.cfg.GroqModel),
		slog.Duration("duration", dur),
		slog.Int("content_len", len(out.Choices[0].Message.Content)))
	return out.Choices[0].Message.Content, nil
}
