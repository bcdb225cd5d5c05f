package openrouter

import "errors"

// ErrNoChoices is returned when a completion carries no choices.
var ErrNoChoices = errors.New("openrouter: response has no choices")

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completions endpoint.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// ChatResponse represents a response from the chat completions endpoint.
type ChatResponse struct {
	ID      string   `json:"id,omitempty"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Content returns the text of the first choice.
func (r *ChatResponse) Content() (string, error) {
	if r == nil || len(r.Choices) == 0 {
		return "", ErrNoChoices
	}
	return r.Choices[0].Message.Content, nil
}

// Choice represents a single completion choice.
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Usage reports token counts when the backend provides them.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Model represents an OpenRouter model.
type Model struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Pricing *Pricing `json:"pricing"`
}

// IsFree reports whether both prompt and completion are priced at zero.
func (m Model) IsFree() bool {
	return m.Pricing != nil && m.Pricing.Prompt == "0" && m.Pricing.Completion == "0"
}

// Pricing represents model pricing information.
type Pricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// ModelsResponse represents the response from the models endpoint.
type ModelsResponse struct {
	Data []Model `json:"data"`
}
