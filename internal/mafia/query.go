package mafia

import (
	"context"
	"strings"
	"time"

	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
	"github.com/lorenzotomasdiez/llm-mafia/internal/tracer"
)

// reply is what a player said. Usable is false when Text is a moderator
// placeholder rather than the player's own words.
type reply struct {
	Text   string
	Usable bool
}

// ask queries a player once, retrying a single time with a stricter suffix
// when the sanitized answer is empty or shorter than minWords. Gateway
// failures become a placeholder; only cancellation is returned as an error.
func (e *Engine) ask(ctx context.Context, a *roster.Agent, task, history string, minWords int) (reply, error) {
	ctx, span := tracer.StartSpan(ctx, "mafia.query",
		tracer.StringAttr("agent", a.Name),
		tracer.StringAttr("model", a.Model),
	)
	defer span.End()

	system := e.systemPrompt(a, e.contextFor(a.Name, history))

	text, err := e.generate(ctx, a, system, taskPrompt(task))
	if err != nil {
		return e.failed(ctx, a, err)
	}
	if tooShort(text, minWords) {
		e.logger.Debug("retrying short reply", "agent", a.Name, "reply", text, "min_words", minWords)
		text, err = e.generate(ctx, a, system, retryPrompt(task, minWords))
		if err != nil {
			return e.failed(ctx, a, err)
		}
	}
	if tooShort(text, minWords) {
		e.logger.Debug("no usable reply", "agent", a.Name, "reply", text)
		return reply{Text: silentPlaceholder(a.Name)}, nil
	}
	return reply{Text: text, Usable: true}, nil
}

func (e *Engine) generate(ctx context.Context, a *roster.Agent, system, prompt string) (string, error) {
	if e.opts.Throttle != nil {
		if err := e.opts.Throttle.Wait(ctx); err != nil {
			return "", err
		}
	}
	start := time.Now()
	raw, err := e.gateway.Generate(ctx, a.Model, system, prompt, e.opts.Temperature)
	if err != nil {
		return "", err
	}
	elapsed := time.Since(start)
	// Rough token estimate, as most local backends do not report usage.
	tokens := float64(len(strings.Fields(raw))) * 1.3
	tps := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		tps = tokens / secs
	}
	e.logger.Debug("query done", "agent", a.Name, "model", a.Model,
		"elapsed", elapsed.Round(100*time.Millisecond), "tok_per_sec", int(tps))
	return e.sanitizer.Sanitize(a.Name, raw), nil
}

func (e *Engine) failed(ctx context.Context, a *roster.Agent, err error) (reply, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return reply{}, ctxErr
	}
	e.logger.Warn("gateway failed", "agent", a.Name, "model", a.Model, "error", err)
	return reply{Text: mumblePlaceholder(a.Name, err)}, nil
}

func tooShort(text string, minWords int) bool {
	if text == "" {
		return true
	}
	return minWords > 0 && len(strings.Fields(text)) < minWords
}
