// Package ai talks to the OpenRouter completion API and turns its replies
// into validated board mutations.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"pmboard/internal/config"
)

// ModelName is the completion model every request uses.
const ModelName = "openai/gpt-oss-120b"

const chatCompletionsURL = "https://openrouter.ai/api/v1/chat/completions"

var (
	// ErrNotConfigured means OPENROUTER_API_KEY is missing.
	ErrNotConfigured = errors.New("OPENROUTER_API_KEY is not configured")

	// ErrTimeout means the upstream call exceeded the client timeout.
	ErrTimeout = errors.New("openrouter request timed out")

	// ErrUpstream covers transport failures and non-2xx upstream replies.
	ErrUpstream = errors.New("openrouter request failed")
)

// Completer is the outbound completion call, narrowed for tests.
type Completer interface {
	Query(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	apiKey  string
	referer string
	title   string
	baseURL string
	http    *http.Client
}

var _ Completer = (*Client)(nil)

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:  cfg.OpenRouterAPIKey,
		referer: cfg.OpenRouterReferer,
		title:   cfg.OpenRouterTitle,
		baseURL: chatCompletionsURL,
		http:    &http.Client{Timeout: cfg.AITimeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Query sends a single-message prompt and returns the trimmed completion
// text. Failures are never retried.
func (c *Client) Query(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model:    ModelName,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: response did not include choices", ErrUpstream)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: response content was empty", ErrUpstream)
	}
	return content, nil
}
