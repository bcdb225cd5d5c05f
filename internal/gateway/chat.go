package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/lorenzotomasdiez/llm-mafia/internal/openrouter"
)

// ChatCompleter is the part of openrouter.Client the chat gateway needs.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, req openrouter.ChatRequest) (*openrouter.ChatResponse, error)
}

// Chat talks to an OpenAI-compatible chat completions API.
type Chat struct {
	client ChatCompleter
}

// NewChat creates a Chat gateway around client.
func NewChat(client ChatCompleter) *Chat {
	return &Chat{client: client}
}

// Generate sends system and prompt as a two-message conversation.
func (c *Chat) Generate(ctx context.Context, model, system, prompt string, temperature float64) (string, error) {
	req := openrouter.ChatRequest{
		Model: model,
		Messages: []openrouter.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: &temperature,
	}
	resp, err := c.client.ChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("gateway: %w", err)
	}
	text, err := resp.Content()
	if err != nil {
		return "", fmt.Errorf("gateway: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
