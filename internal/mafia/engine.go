package mafia

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/lorenzotomasdiez/llm-mafia/internal/mafia/textparse"
	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
	"github.com/lorenzotomasdiez/llm-mafia/internal/tracer"
)

// Engine moderates one game.
type Engine struct {
	agents    []*roster.Agent
	gateway   Gateway
	session   *Session
	sanitizer *textparse.Sanitizer
	opts      Options
	logger    *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewEngine prepares a game for agents. Agents that have no role yet are
// dealt one when Run starts. onEvent receives every log event, public or
// not; callers decide what to show.
func NewEngine(agents []*roster.Agent, gw Gateway, opts Options, onEvent func(Event)) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		agents:    agents,
		gateway:   gw,
		session:   NewSession(onEvent),
		sanitizer: textparse.NewSanitizer(roster.Names(agents)),
		opts:      opts,
		logger:    opts.Logger,
		rng:       opts.Rand,
	}
}

// Session exposes the game state, mostly for inspection after Run.
func (e *Engine) Session() *Session { return e.session }

// Run plays until a side wins, the day limit is reached or ctx is cancelled.
// The returned Result is never nil, so the log gathered so far can always be
// persisted.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if len(e.agents) == 0 {
		return e.result(NoWinner, false), roster.ErrEmptyRoster
	}
	ctx, span := tracer.StartSpan(ctx, "mafia.game",
		tracer.StringAttr("game.id", e.session.ID),
		tracer.IntAttr("game.players", len(e.agents)),
	)
	defer span.End()

	e.session.Announce(KindBanner, "WELCOME TO LLM MAFIA")
	e.session.Announce(KindInfo, "Players: %d", len(e.agents))
	e.dealRoles()

	winner, err := e.loop(ctx)
	interrupted := err != nil
	if interrupted {
		tracer.RecordError(span, err)
		e.logger.Warn("game interrupted", "day", e.session.Day(), "error", err)
	}
	e.closeGame(winner, interrupted)
	span.SetAttributes(tracer.StringAttr("game.winner", winner.String()))
	return e.result(winner, interrupted), err
}

func (e *Engine) loop(ctx context.Context) (Winner, error) {
	for e.session.Day() < e.opts.MaxDays {
		if err := e.dayPhase(ctx); err != nil {
			return NoWinner, err
		}
		// Day talk cannot kill, but the check is cheap and keeps the
		// cycle uniform.
		if w := Evaluate(e.agents); w != NoWinner {
			return w, nil
		}
		if _, err := e.votingPhase(ctx); err != nil {
			return NoWinner, err
		}
		if w := Evaluate(e.agents); w != NoWinner {
			return w, nil
		}
		if err := e.nightPhase(ctx); err != nil {
			return NoWinner, err
		}
		if w := Evaluate(e.agents); w != NoWinner {
			return w, nil
		}
	}
	return NoWinner, nil
}

func (e *Engine) dealRoles() {
	dealt := true
	for _, a := range e.agents {
		if a.Role == roster.Unassigned {
			dealt = false
			break
		}
	}
	if !dealt {
		e.withRand(func(r *rand.Rand) { roster.AssignRoles(e.agents, r) })
	}
	e.session.Announce(KindBanner, "ROLES ASSIGNED")
	for _, a := range e.agents {
		e.session.Record(KindSecret, "  %s: %s", a.Name, a.Role)
	}
}

func (e *Engine) closeGame(winner Winner, interrupted bool) {
	e.session.setPhase(PhaseOver)
	e.session.Announce(KindBanner, "GAME OVER")
	switch {
	case winner == Town:
		e.session.Announce(KindVictory, "TOWN WINS! All mafia eliminated!")
	case winner == MafiaWin:
		e.session.Announce(KindDefeat, "MAFIA WINS! They control the town!")
	case interrupted:
		e.session.Announce(KindInfo, "Game interrupted before a winner was decided")
	default:
		e.session.Announce(KindInfo, "Game ended due to day limit")
	}
	e.session.Announce(KindHeading, "FINAL ROLES:")
	for _, a := range e.agents {
		status := "alive"
		if !a.Alive {
			status = "dead"
		}
		e.session.Announce(KindInfo, "  [%s] %s: %s", status, a.Name, a.Role)
	}
}

func (e *Engine) result(winner Winner, interrupted bool) *Result {
	roles := make(map[string]string, len(e.agents))
	alive := make(map[string]bool, len(e.agents))
	for _, a := range e.agents {
		roles[a.Name] = a.Role.String()
		alive[a.Name] = a.Alive
	}
	return &Result{
		ID:          e.session.ID,
		Winner:      winner,
		Day:         e.session.Day(),
		Interrupted: interrupted,
		Log:         e.session.Snapshot(),
		Events:      e.session.Events(),
		Roles:       roles,
		Alive:       alive,
	}
}

// eliminate marks a player dead and reveals their role publicly.
func (e *Engine) eliminate(a *roster.Agent, format string) {
	a.Alive = false
	e.session.Announce(KindDeath, format, a.Name, a.Role)
}

func (e *Engine) withRand(fn func(*rand.Rand)) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	fn(e.rng)
}

func (e *Engine) pick(names []string) string {
	var out string
	e.withRand(func(r *rand.Rand) { out = names[r.IntN(len(names))] })
	return out
}

func (e *Engine) shuffled(agents []*roster.Agent) []*roster.Agent {
	out := make([]*roster.Agent, len(agents))
	copy(out, agents)
	e.withRand(func(r *rand.Rand) {
		r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	})
	return out
}

func (e *Engine) sample(names []string, k int) []string {
	out := make([]string, len(names))
	copy(out, names)
	e.withRand(func(r *rand.Rand) {
		r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	})
	return out[:min(k, len(out))]
}

func eliminatedNames(agents []*roster.Agent) []string {
	return roster.Names(roster.Dead(agents))
}

func phaseError(phase Phase, err error) error {
	return fmt.Errorf("mafia: %s phase: %w", phase, err)
}

func joinNames(names []string) string { return strings.Join(names, ", ") }
