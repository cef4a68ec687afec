// Package zerogpt calls the ZeroGPT text classifier to estimate how likely a
// piece of text is machine-generated.
package zerogpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

// Texts shorter than this are not worth classifying.
const minTextLen = 10

// Client implements domain.ContentDetector.
type Client struct {
	url    string
	apiKey string
	hc     *http.Client
}

// New constructs a ZeroGPT client. timeout bounds the whole call; the
// detection feature degrades to a zero result on any failure.
func New(url, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{url: url, apiKey: apiKey, hc: &http.Client{Timeout: timeout}}
}

type detectResponse struct {
	Data json.RawMessage `json:"data"`
	// Some deployments return the payload at the top level.
	FakePercentage *float64 `json:"fakePercentage"`
	IsHuman        *float64 `json:"isHuman"`
}

type detectPayload struct {
	FakePercentage *float64 `json:"fakePercentage"`
	AIPercentage   *float64 `json:"ai_percentage"`
	IsHuman        *float64 `json:"isHuman"`
}

// Detect classifies text and returns the AI-likelihood percentage.
func (c *Client) Detect(ctx context.Context, text string) (domain.AIDetection, error) {
	if len(strings.TrimSpace(text)) < minTextLen {
		return domain.AIDetection{Confidence: "N/A", Error: "text too short"}, nil
	}

	body, _ := json.Marshal(map[string]string{"input_text": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domain.AIDetection{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("ApiKey", c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return domain.AIDetection{}, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.AIDetection{}, fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.AIDetection{}, fmt.Errorf("%w: read body: %v", domain.ErrUpstreamFailure, err)
	}

	var out detectResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.AIDetection{}, fmt.Errorf("%w: malformed body: %v", domain.ErrUpstreamFailure, err)
	}

	var payload detectPayload
	if len(out.Data) > 0 {
		_ = json.Unmarshal(out.Data, &payload)
	}
	if payload.FakePercentage == nil && payload.AIPercentage == nil && payload.IsHuman == nil {
		payload = detectPayload{FakePercentage: out.FakePercentage, IsHuman: out.IsHuman}
	}

	pct := 0.0
	switch {
	case payload.IsHuman != nil:
		// isHuman 20 means 80% AI.
		pct = 100 - *payload.IsHuman
	case payload.FakePercentage != nil:
		pct = *payload.FakePercentage
	case payload.AIPercentage != nil:
		pct = *payload.AIPercentage
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	confidence := "Low"
	if pct > 70 {
		confidence = "High"
	} else if pct > 40 {
		confidence = "Medium"
	}

	return domain.AIDetection{
		IsAIGenerated: pct > 50,
		AIPercentage:  pct,
		Confidence:    confidence,
	}, nil
}
