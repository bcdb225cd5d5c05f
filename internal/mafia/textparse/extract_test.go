package textparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var targets = []string{"RICO", "ARIA", "SAGE", "DR. VANCE"}

func TestExtractVoteExactName(t *testing.T) {
	for _, name := range targets {
		got, ok := ExtractVote(name, targets)
		assert.True(t, ok)
		assert.Equal(t, name, got)
	}
	got, ok := ExtractVote("aria", targets)
	assert.True(t, ok)
	assert.Equal(t, "ARIA", got)
}

func TestExtractVoteLastMentionWins(t *testing.T) {
	got, ok := ExtractVote("RICO seems suspicious, but I'll go with SAGE.", targets)
	assert.True(t, ok)
	assert.Equal(t, "SAGE", got)

	got, _ = ExtractVote("sage, then rico, then aria... final answer rico", targets)
	assert.Equal(t, "RICO", got)
}

func TestExtractVoteExplicitPattern(t *testing.T) {
	got, ok := ExtractVote("I vote for Aria even though SAGE was loud.", targets)
	assert.True(t, ok)
	assert.Equal(t, "ARIA", got)

	got, _ = ExtractVote("My vote: sag. Not RICO.", targets)
	assert.Equal(t, "SAGE", got)

	got, _ = ExtractVote("VOTE -> dr. vance, sorry RICO", targets)
	assert.Equal(t, "DR. VANCE", got)
}

func TestExtractVoteExplicitPrefixFollowsCallerOrder(t *testing.T) {
	valid := []string{"Sam", "Sammy"}
	got, _ := ExtractVote("vote sam", valid)
	assert.Equal(t, "Sam", got)

	valid = []string{"Sammy", "Sam"}
	got, _ = ExtractVote("vote sam", valid)
	assert.Equal(t, "Sammy", got)
}

func TestExtractVoteExplicitMissFallsThrough(t *testing.T) {
	got, ok := ExtractVote("I vote wisely: ARIA", targets)
	assert.True(t, ok)
	assert.Equal(t, "ARIA", got)
}

func TestExtractVoteWholeWordOnly(t *testing.T) {
	_, ok := ExtractVote("The sagebrush and the ricochet", targets)
	assert.False(t, ok)
}

func TestExtractVoteNoMatch(t *testing.T) {
	_, ok := ExtractVote("I have no idea.", targets)
	assert.False(t, ok)
	_, ok = ExtractVote("RICO", nil)
	assert.False(t, ok)
}

func TestParseVote(t *testing.T) {
	assert.Equal(t, Decision{Kind: Chosen, Target: "SAGE"}, ParseVote("SAGE!", targets))
	d := ParseVote("hmm", targets)
	assert.False(t, d.OK())
	assert.Equal(t, Unparseable, d.Kind)
}

func TestParseMafiaChoiceNoKill(t *testing.T) {
	for _, text := range []string{
		"NO_KILL",
		"No kill tonight, RICO is harmless",
		"We should skip. ARIA though...",
		"Let's kill nobody",
		"None of them. Or maybe SAGE.",
		"Don't kill anyone",
	} {
		assert.Equal(t, NoAction, ParseMafiaChoice(text, targets).Kind, "text %q", text)
	}
}

func TestParseMafiaChoiceTarget(t *testing.T) {
	d := ParseMafiaChoice("Take out ARIA.", targets)
	assert.True(t, d.OK())
	assert.Equal(t, "ARIA", d.Target)

	assert.Equal(t, Unparseable, ParseMafiaChoice("hmm", targets).Kind)
}
