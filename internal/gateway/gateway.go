// Package gateway connects players to text-generation backends: any
// OpenAI-compatible chat API (OpenRouter, Ollama) or Gemini. Decorators add
// a circuit breaker and a request rate limit.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lorenzotomasdiez/llm-mafia/internal/config"
	"github.com/lorenzotomasdiez/llm-mafia/internal/openrouter"
)

// ErrEmptyReply is returned when a backend answers with no text at all.
var ErrEmptyReply = errors.New("gateway: empty reply")

// Default model refs for backends that do not pick models from a registry.
const (
	DefaultOllamaModel = "llama3.2:3b"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Generator produces one reply for a system prompt and a user prompt.
type Generator interface {
	Generate(ctx context.Context, model, system, prompt string, temperature float64) (string, error)
}

// DefaultModel returns the model players get on backend when none is set.
// OpenRouter has no fixed default; its models come from the free registry.
func DefaultModel(backend string) string {
	switch backend {
	case config.BackendOllama:
		return DefaultOllamaModel
	case config.BackendGemini:
		return DefaultGeminiModel
	default:
		return ""
	}
}

// New builds the generator for cfg: the backend adapter behind a circuit
// breaker, and behind a rate limiter when cfg.RateLimit is set.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Generator, error) {
	var (
		gen  Generator
		name string
	)
	switch cfg.Backend {
	case config.BackendOllama:
		gen = NewChat(openrouter.NewClientWithBaseURL("", baseURL(cfg.BaseURL, openrouter.OllamaBaseURL)))
		name = "ollama"
	case config.BackendOpenRouter:
		gen = NewChat(openrouter.NewClientWithBaseURL(cfg.APIKey, baseURL(cfg.BaseURL, openrouter.DefaultBaseURL)))
		name = "openrouter"
	case config.BackendGemini:
		g, err := NewGemini(ctx, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		gen = g
		name = "gemini"
	default:
		return nil, fmt.Errorf("gateway: unknown backend %q", cfg.Backend)
	}

	gen = NewBreaker(gen, name, BreakerConfig{}, logger)
	if cfg.RateLimit > 0 {
		gen = NewLimiter(gen, cfg.RateLimit, 1)
	}
	return gen, nil
}

func baseURL(override, def string) string {
	if override != "" {
		return override
	}
	return def
}
