package gateway

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter caps how many requests per second reach the backend, shared by
// every player. Hosted free tiers reject bursts, so parallel phases wait
// here instead.
type Limiter struct {
	inner   Generator
	limiter *rate.Limiter
}

// NewLimiter wraps inner with a token bucket of perSecond requests and the
// given burst.
func NewLimiter(inner Generator, perSecond float64, burst int) *Limiter {
	return &Limiter{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), max(1, burst)),
	}
}

// Generate waits for a token and then calls the wrapped generator.
func (l *Limiter) Generate(ctx context.Context, model, system, prompt string, temperature float64) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("gateway: rate limit: %w", err)
	}
	return l.inner.Generate(ctx, model, system, prompt, temperature)
}
