package gateway

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini talks to the Gemini API through the Google Gen AI SDK.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini gateway. baseURL is only set in tests.
func NewGemini(ctx context.Context, apiKey, baseURL string) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gateway: create genai client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// Generate sends prompt as the user turn with system as the system
// instruction.
func (g *Gemini) Generate(ctx context.Context, model, system, prompt string, temperature float64) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(float32(temperature)),
	}
	resp, err := g.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, cfg)
	if err != nil {
		return "", fmt.Errorf("gateway: gemini: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
