package mafia

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
)

func TestDayOneUsesFirstImpressions(t *testing.T) {
	gw := &fakeGateway{}
	e := newTestEngine(t, standardTable(), gw, 7)

	require.NoError(t, e.dayPhase(context.Background()))

	assert.Equal(t, 4, gw.count("", "first impressions"))
	assert.Equal(t, 0, gw.count("", "Reference specific past behavior"))
	assert.True(t, publicContains(e, "Initial Impressions"))
	assert.True(t, publicContains(e, "DAY 1 - TOWN MEETING"))
}

func TestDayRunsQuestionRoundsAndNotes(t *testing.T) {
	gw := &fakeGateway{reply: func(agent, prompt string) (string, error) {
		if strings.Contains(prompt, "ONE direct question") {
			return "Why did you stay so quiet?", nil
		}
		return idleReply, nil
	}}
	e := newTestEngine(t, standardTable(), gw, 11)

	require.NoError(t, e.dayPhase(context.Background()))

	assert.Equal(t, 8, gw.count("", "ONE direct question"))
	assert.Equal(t, 8, gw.count("", "just asked you: 'Why did you stay so quiet?'"))
	assert.Equal(t, 4, gw.count("", "Who should be eliminated TODAY"))
	assert.True(t, publicContains(e, "Questioning Round 2/2"))
	assert.True(t, publicContains(e, "Final Accusations"))

	for _, a := range e.agents {
		notes := e.session.Notes(a.Name)
		require.NotEmpty(t, notes, a.Name)
		assert.Equal(t, "Day 1 opening: "+idleReply, notes[0])

		var asked, answered int
		for _, n := range notes {
			if strings.HasPrefix(n, "Day 1: Asked ") {
				asked++
			}
			if strings.Contains(n, " answered me: ") {
				answered++
			}
		}
		assert.Equal(t, 2, asked, a.Name)
		assert.Equal(t, 2, answered, a.Name)
	}
}

func TestLaterDaysShowEliminatedPlayers(t *testing.T) {
	agents := standardTable()
	gw := &fakeGateway{}
	e := newTestEngine(t, agents, gw, 13)
	e.session.nextDay()
	roster.Find(agents, "Dario").Alive = false

	require.NoError(t, e.dayPhase(context.Background()))

	assert.Equal(t, 3, gw.count("", "Day 2. ELIMINATED (DO NOT ACCUSE): Dario."))
	assert.Equal(t, 3, gw.count("", "DEAD/ELIMINATED: Dario."))
	assert.Equal(t, 0, gw.count("Dario", ""))
	assert.Equal(t, 2, e.session.Day())
}
