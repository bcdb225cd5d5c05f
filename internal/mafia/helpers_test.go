package mafia

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/lorenzotomasdiez/llm-mafia/internal/logger"
	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
)

const idleReply = "I have nothing to add right now."

type fakeCall struct {
	Agent  string
	System string
	Prompt string
}

// fakeGateway answers by agent (the model ref equals the agent name) and
// prompt text. It is safe for concurrent use.
type fakeGateway struct {
	mu    sync.Mutex
	calls []fakeCall
	reply func(agent, prompt string) (string, error)
}

func (f *fakeGateway) Generate(_ context.Context, model, system, prompt string, _ float64) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{Agent: model, System: system, Prompt: prompt})
	f.mu.Unlock()
	if f.reply == nil {
		return idleReply, nil
	}
	return f.reply(model, prompt)
}

func (f *fakeGateway) count(agent, substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if (agent == "" || c.Agent == agent) && strings.Contains(c.Prompt, substr) {
			n++
		}
	}
	return n
}

func (f *fakeGateway) last(agent string) fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Agent == agent {
			return f.calls[i]
		}
	}
	return fakeCall{}
}

type seat struct {
	name string
	role roster.Role
}

func seats(pairs ...any) []seat {
	var out []seat
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, seat{name: pairs[i].(string), role: pairs[i+1].(roster.Role)})
	}
	return out
}

func newAgents(ss []seat) []*roster.Agent {
	agents := make([]*roster.Agent, len(ss))
	for i, s := range ss {
		agents[i] = &roster.Agent{
			Name:        s.name,
			Model:       s.name,
			Role:        s.role,
			Alive:       true,
			Personality: "A careful player.",
		}
	}
	return agents
}

func newTestEngine(t *testing.T, agents []*roster.Agent, gw Gateway, seed uint64, mutate ...func(*Options)) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewPCG(seed, seed+1))
	opts.Logger = logger.Discard()
	for _, m := range mutate {
		m(&opts)
	}
	return NewEngine(agents, gw, opts, nil)
}

// standardTable is the four player table used by most night tests.
func standardTable() []*roster.Agent {
	return newAgents(seats(
		"Alice", roster.Mafia,
		"Bruno", roster.Detective,
		"Carla", roster.Doctor,
		"Dario", roster.Villager,
	))
}

func publicContains(e *Engine, substr string) bool {
	for _, line := range e.session.Snapshot().PublicLog {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func fullContains(e *Engine, substr string) bool {
	for _, line := range e.session.Snapshot().GameLog {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
