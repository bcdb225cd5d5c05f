package gateway

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	defaultBreakerFailures uint32 = 5
	defaultBreakerTimeout         = 30 * time.Second
	defaultBreakerInterval        = 60 * time.Second
)

// BreakerConfig tunes the circuit breaker. Zero fields take defaults.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before a probe is let through.
	Timeout time.Duration
	// Interval clears failure counts while the circuit is closed.
	Interval time.Duration
}

// Breaker stops calling a model that keeps failing. Each model ref gets its
// own circuit, so one broken model does not silence the others. While a
// circuit is open calls fail fast with gobreaker.ErrOpenState, which the
// engine turns into a placeholder reply like any other failure.
type Breaker struct {
	inner  Generator
	name   string
	cfg    BreakerConfig
	logger *slog.Logger

	mu       sync.Mutex
	circuits map[string]*gobreaker.CircuitBreaker[string]
}

// NewBreaker wraps inner. name prefixes the circuit names in logs.
func NewBreaker(inner Generator, name string, cfg BreakerConfig, logger *slog.Logger) *Breaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = defaultBreakerFailures
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultBreakerTimeout
	}
	if cfg.Interval == 0 {
		cfg.Interval = defaultBreakerInterval
	}
	return &Breaker{
		inner:    inner,
		name:     name,
		cfg:      cfg,
		logger:   logger,
		circuits: make(map[string]*gobreaker.CircuitBreaker[string]),
	}
}

// Generate routes the call through the circuit of model.
func (b *Breaker) Generate(ctx context.Context, model, system, prompt string, temperature float64) (string, error) {
	return b.circuit(model).Execute(func() (string, error) {
		return b.inner.Generate(ctx, model, system, prompt, temperature)
	})
}

// State reports the circuit state of model.
func (b *Breaker) State(model string) gobreaker.State {
	return b.circuit(model).State()
}

func (b *Breaker) circuit(model string) *gobreaker.CircuitBreaker[string] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.circuits[model]; ok {
		return cb
	}
	maxFailures := b.cfg.MaxFailures
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        b.name + ":" + model,
		MaxRequests: 1,
		Interval:    b.cfg.Interval,
		Timeout:     b.cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		// A cancelled game says nothing about the backend.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})
	b.circuits[model] = cb
	return cb
}
