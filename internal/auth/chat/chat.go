// Package chat relays conversations to an OpenAI-compatible chat
// completion endpoint (Groq by default) on behalf of authenticated
// users, prefixing the platform system prompt.
package chat

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
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"

	completionTemperature = 0.7
	completionMaxTokens   = 1024
)

// ErrNotConfigured is returned when no API key is present.
var ErrNotConfigured = errors.New("chat relay not configured")

// ErrUpstream wraps failures talking to the completion endpoint.
var ErrUpstream = errors.New("chat upstream failure")

// Config holds relay settings.
type Config struct {
	APIKey  string
	BaseURL string // defaults to the Groq endpoint
	Model   string
}

// Message is one turn of conversation history. Clients historically send
// assistant turns with role "model", which is normalised before relay.
type Message struct {
	Role  string
	Parts string
}

// Relay answers user messages through the upstream model.
type Relay interface {
	Send(ctx context.Context, message string, history []Message) (string, error)
}

// Client implements Relay over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 60 * time.Second},
		log:  log,
	}
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages    []apiMessage `json:"messages"`
	Model       string       `json:"model"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
	TopP        float64      `json:"top_p"`
	Stream      bool         `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Send relays a message plus prior history and returns the model reply.
func (c *Client) Send(ctx context.Context, message string, history []Message) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	messages := make([]apiMessage, 0, len(history)+2)
	messages = append(messages, apiMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		role := m.Role
		if role == "model" {
			role = "assistant"
		}
		messages = append(messages, apiMessage{Role: role, Content: m.Parts})
	}
	messages = append(messages, apiMessage{Role: "user", Content: message})

	body, err := json.Marshal(completionRequest{
		Messages:    messages,
		Model:       c.cfg.Model,
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
		TopP:        1,
		Stream:      false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.ErrorContext(ctx, "chat completion request failed",
			"status", resp.StatusCode,
			"body", string(snippet),
		)
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "I apologize, but I could not generate a response.", nil
	}
	return out.Choices[0].Message.Content, nil
}
