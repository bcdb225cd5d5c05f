// Package models picks backend models for players that do not name one.
package models

import (
	"context"
	"log/slog"

	"github.com/lorenzotomasdiez/llm-mafia/internal/openrouter"
)

// Lister is the part of the OpenRouter client the registry needs.
type Lister interface {
	ListModels(ctx context.Context) ([]openrouter.Model, error)
}

// Registry holds the free models players can be seated on.
type Registry struct {
	free []openrouter.Model
}

// NewRegistry keeps only free models. Models with nil Pricing are excluded.
func NewRegistry(models []openrouter.Model) *Registry {
	var free []openrouter.Model
	for _, m := range models {
		if m.IsFree() {
			free = append(free, m)
		}
	}
	return &Registry{free: free}
}

// Discover lists live models and falls back to DefaultFreeModels when the
// listing fails or contains nothing free.
func Discover(ctx context.Context, l Lister, logger *slog.Logger) *Registry {
	all, err := l.ListModels(ctx)
	if err != nil {
		logger.Warn("could not fetch models, using defaults", "error", err)
		return NewRegistry(DefaultFreeModels())
	}
	r := NewRegistry(all)
	if len(r.free) == 0 {
		logger.Warn("no free models listed, using defaults")
		return NewRegistry(DefaultFreeModels())
	}
	return r
}

// FreeModels returns all free models in the registry.
func (r *Registry) FreeModels() []openrouter.Model {
	return r.free
}

// Seat returns n model IDs, one per player, cycling through the free list.
func (r *Registry) Seat(n int) []string {
	if len(r.free) == 0 {
		return nil
	}
	ids := make([]string, n)
	for i := range n {
		ids[i] = r.free[i%len(r.free)].ID
	}
	return ids
}

// DefaultFreeModels returns a hardcoded fallback list of known free models.
func DefaultFreeModels() []openrouter.Model {
	free := &openrouter.Pricing{Prompt: "0", Completion: "0"}
	return []openrouter.Model{
		{ID: "meta-llama/llama-3.3-70b-instruct:free", Name: "Llama 3.3 70B Instruct", Pricing: free},
		{ID: "qwen/qwen3-235b-a22b:free", Name: "Qwen3 235B A22B", Pricing: free},
		{ID: "google/gemma-3-27b-it:free", Name: "Gemma 3 27B", Pricing: free},
		{ID: "mistralai/mistral-small-3.2-24b-instruct:free", Name: "Mistral Small 3.2 24B", Pricing: free},
		{ID: "openai/gpt-oss-120b:free", Name: "GPT OSS 120B", Pricing: free},
	}
}
