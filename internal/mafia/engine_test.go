package mafia

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorenzotomasdiez/llm-mafia/internal/logger"
	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
)

// voteAgainst makes every player vote for target, and target vote for
// fallback.
func voteAgainst(target, fallback string) func(agent, prompt string) (string, error) {
	return func(agent, prompt string) (string, error) {
		if !strings.Contains(prompt, "Vote to eliminate") {
			return idleReply, nil
		}
		if agent == target {
			return fallback, nil
		}
		return "I vote for " + target + ".", nil
	}
}

func TestRunTownWinsOnDayOne(t *testing.T) {
	for _, workers := range []int{1, 4} {
		gw := &fakeGateway{reply: voteAgainst("Alice", "Bruno")}
		e := newTestEngine(t, standardTable(), gw, 3, func(o *Options) { o.Workers = workers })

		res, err := e.Run(context.Background())
		require.NoError(t, err, "workers=%d", workers)
		assert.Equal(t, Town, res.Winner)
		assert.Equal(t, 1, res.Day)
		assert.False(t, res.Interrupted)
		assert.False(t, res.Alive["Alice"])
		assert.Equal(t, "Mafia", res.Roles["Alice"])
		assert.Contains(t, res.Log.PublicLog, "Alice has been eliminated! They were: Mafia")
		assert.Contains(t, res.Log.PublicLog, "TOWN WINS! All mafia eliminated!")
		assert.Equal(t, 0, gw.count("", "Choose ONE player to investigate"), "no night after a town win")
	}
}

func TestRunMafiaWins(t *testing.T) {
	agents := newAgents(seats(
		"Alice", roster.Mafia,
		"Bruno", roster.Villager,
		"Carla", roster.Villager,
	))
	gw := &fakeGateway{reply: voteAgainst("Bruno", "Carla")}
	e := newTestEngine(t, agents, gw, 5)

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MafiaWin, res.Winner)
	assert.Contains(t, res.Log.PublicLog, "MAFIA WINS! They control the town!")
	assert.Contains(t, res.Log.PublicLog, "  [alive] Alice: Mafia")
	assert.Contains(t, res.Log.PublicLog, "  [dead] Bruno: Villager")
}

func TestRunStopsAtDayLimit(t *testing.T) {
	agents := newAgents(seats(
		"Alice", roster.Mafia,
		"Bruno", roster.Doctor,
		"Carla", roster.Villager,
		"Dario", roster.Villager,
		"Elena", roster.Villager,
		"Fabio", roster.Villager,
	))
	vote := voteAgainst("Carla", "Dario")
	gw := &fakeGateway{reply: func(agent, prompt string) (string, error) {
		if strings.Contains(prompt, "NO_KILL") {
			return "NO_KILL", nil
		}
		return vote(agent, prompt)
	}}
	e := newTestEngine(t, agents, gw, 9, func(o *Options) { o.MaxDays = 1 })

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoWinner, res.Winner)
	assert.Equal(t, 1, res.Day)
	assert.Contains(t, res.Log.PublicLog, "No one died during the night.")
	assert.Contains(t, res.Log.PublicLog, "Game ended due to day limit")
}

func TestRunInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gw := &fakeGateway{reply: func(_, prompt string) (string, error) {
		if strings.Contains(prompt, "Vote to eliminate") {
			cancel()
			return "", context.Canceled
		}
		return idleReply, nil
	}}
	e := newTestEngine(t, standardTable(), gw, 1)

	res, err := e.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.True(t, res.Interrupted)
	assert.Equal(t, NoWinner, res.Winner)
	assert.Contains(t, res.Log.PublicLog, "Game interrupted before a winner was decided")
	assert.Contains(t, res.Log.PublicLog, "VOTING PHASE")
	assert.True(t, res.Alive["Alice"])
}

func TestRunDealsMissingRoles(t *testing.T) {
	agents := newAgents(seats(
		"Alice", roster.Unassigned,
		"Bruno", roster.Unassigned,
		"Carla", roster.Unassigned,
		"Dario", roster.Unassigned,
		"Elena", roster.Unassigned,
	))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newTestEngine(t, agents, &fakeGateway{}, 2)

	res, err := e.Run(ctx)
	require.Error(t, err)

	mafia := 0
	for _, a := range agents {
		assert.NotEqual(t, roster.Unassigned, a.Role, a.Name)
		if a.IsMafia() {
			mafia++
		}
	}
	assert.Equal(t, roster.CountsFor(len(agents)).Mafia, mafia)
	assert.Equal(t, "ROLES ASSIGNED", res.Log.PublicLog[2])
	for _, line := range res.Log.PublicLog {
		assert.False(t, strings.HasPrefix(line, "  Alice: "), "roles stay private: %q", line)
	}
	assert.True(t, fullContains(e, "  Alice: "))
}

func TestRunRejectsEmptyTable(t *testing.T) {
	e := newTestEngine(t, nil, &fakeGateway{}, 1)
	res, err := e.Run(context.Background())
	assert.ErrorIs(t, err, roster.ErrEmptyRoster)
	assert.NotNil(t, res)
}

func TestRunEmitsEveryEvent(t *testing.T) {
	var seen []Event
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewPCG(4, 5))
	opts.Logger = logger.Discard()
	gw := &fakeGateway{reply: voteAgainst("Alice", "Bruno")}
	e := NewEngine(standardTable(), gw, opts, func(ev Event) { seen = append(seen, ev) })

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, seen, len(res.Events))
	assert.Equal(t, len(res.Log.GameLog), len(seen))
	assert.Equal(t, PhaseOver, seen[len(seen)-1].Phase)
}
