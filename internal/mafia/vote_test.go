package mafia

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
)

func villagers(names ...string) []*roster.Agent {
	var ss []seat
	for _, n := range names {
		ss = append(ss, seat{name: n, role: roster.Villager})
	}
	return newAgents(ss)
}

func TestLeaders(t *testing.T) {
	assert.Equal(t, []string{"B"}, leaders([]string{"A", "B", "B"}))
	assert.Equal(t, []string{"B", "A"}, leaders([]string{"B", "A", "", "A", "B"}))
	assert.Empty(t, leaders([]string{"", ""}))
}

func TestVotingEliminatesMajority(t *testing.T) {
	gw := &fakeGateway{reply: func(agent, prompt string) (string, error) {
		if agent == "Carla" {
			return "I vote for Bruno.", nil
		}
		return "Carla has been dodging questions, so Carla.", nil
	}}
	agents := villagers("Alice", "Bruno", "Carla", "Dario")
	e := newTestEngine(t, agents, gw, 7)
	e.session.nextDay()

	out, err := e.votingPhase(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Carla", out.Name)
	assert.False(t, agents[2].Alive)
	assert.True(t, publicContains(e, "Carla has been eliminated! They were: Villager"))
	assert.True(t, publicContains(e, "Carla votes: Bruno"))
}

func TestVotingCandidatesExcludeSelf(t *testing.T) {
	gw := &fakeGateway{reply: func(string, string) (string, error) { return "Dario", nil }}
	agents := villagers("Alice", "Bruno", "Carla", "Dario")
	e := newTestEngine(t, agents, gw, 3)
	e.session.nextDay()

	_, err := e.votingPhase(context.Background())
	require.NoError(t, err)

	prompt := gw.last("Dario").Prompt
	available := prompt[strings.Index(prompt, "Available:"):]
	assert.NotContains(t, available, "Dario")
	// Dario is not a candidate on their own ballot, so the vote is a default.
	assert.True(t, publicContains(e, "Dario votes:"))
	assert.True(t, publicContains(e, "(default)"))
}

func TestVotingDefaultsWhenUnparseable(t *testing.T) {
	gw := &fakeGateway{reply: func(agent, prompt string) (string, error) {
		if agent == "Alice" {
			return "", errors.New("backend down")
		}
		return "No idea honestly.", nil
	}}
	agents := villagers("Alice", "Bruno", "Carla", "Dario")
	e := newTestEngine(t, agents, gw, 11)
	e.session.nextDay()

	out, err := e.votingPhase(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)

	defaults := 0
	for _, line := range e.session.Snapshot().PublicLog {
		if strings.HasSuffix(line, "(default)") {
			defaults++
		}
	}
	assert.Equal(t, 4, defaults, "every voter still casts a vote")
	assert.Len(t, roster.Alive(agents), 3)
}

func TestVotingTieBreakIsRandom(t *testing.T) {
	choice := map[string]string{
		"Alice": "Carla",
		"Bruno": "Dario",
		"Carla": "Dario",
		"Dario": "Carla",
	}
	seen := map[string]int{}
	for seed := uint64(1); seed <= 40; seed++ {
		gw := &fakeGateway{reply: func(agent, _ string) (string, error) { return choice[agent], nil }}
		agents := villagers("Alice", "Bruno", "Carla", "Dario")
		e := newTestEngine(t, agents, gw, seed)
		e.session.nextDay()

		out, err := e.votingPhase(context.Background())
		require.NoError(t, err)
		require.Contains(t, []string{"Carla", "Dario"}, out.Name)
		seen[out.Name]++
	}
	assert.Positive(t, seen["Carla"])
	assert.Positive(t, seen["Dario"])
}
