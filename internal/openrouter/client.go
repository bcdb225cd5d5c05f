// Package openrouter is a small client for OpenAI-compatible chat completion
// APIs. It talks to OpenRouter by default and to a local Ollama server through
// its /v1 compatibility endpoint.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	maxRetries = 3

	// DefaultBaseURL is the OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// OllamaBaseURL is the OpenAI-compatible root of a local Ollama server.
	OllamaBaseURL = "http://localhost:11434/v1"
)

// Client is an OpenAI-compatible chat completions client.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	backoffFunc func(attempt int) time.Duration
	newID       func() string
}

func defaultBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// NewClient creates a new Client with the default OpenRouter base URL.
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, DefaultBaseURL)
}

// NewClientWithBaseURL creates a new Client with a custom base URL. An empty
// apiKey sends no Authorization header, which is what Ollama expects.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 5 * time.Minute},
		apiKey:      apiKey,
		baseURL:     baseURL,
		backoffFunc: defaultBackoff,
		newID:       uuid.NewString,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ChatCompletion sends a chat completion request with retry for transient failures.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}

	// One request ID per logical call so retries can be correlated upstream.
	requestID := c.newID()
	resp, err := c.doWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		c.setHeaders(httpReq)
		httpReq.Header.Set("X-Request-ID", requestID)
		return c.httpClient.Do(httpReq)
	})
	if err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	defer resp.Body.Close()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	return &chatResp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
}

func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func (c *Client) doWithRetry(ctx context.Context, do func(context.Context) (*http.Response, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, c.backoffFunc(attempt-1)); err != nil {
				return nil, err
			}
		}

		resp, err := do(ctx)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
		if !isRetryable(resp.StatusCode) {
			return nil, lastErr
		}

		// Retry-After is waited on top of the backoff. Zero backoff means test mode.
		if resp.StatusCode == http.StatusTooManyRequests && c.backoffFunc(0) > 0 {
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
				if err := sleep(ctx, time.Duration(secs)*time.Second); err != nil {
					return nil, err
				}
			}
		}
	}
	return nil, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ListModels retrieves available models.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openrouter: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var modelsResp ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	return modelsResp.Data, nil
}
