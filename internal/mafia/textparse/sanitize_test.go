package textparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var players = []string{"RICO", "ARIA", "SAGE", "DR. VANCE", "Bob"}

func TestSanitizeStripsDayHeading(t *testing.T) {
	s := NewSanitizer(players)
	got := s.Sanitize("SAGE", "Day 3 - Town Meeting\n\nI think Bob is suspicious.")
	assert.Equal(t, "I think Bob is suspicious.", got)
}

func TestSanitizeHeadings(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"**Day 2 — Discussion**", true},
		{"Night 1 - whispers", true},
		{"## Town Meeting", true},
		{"The town meeting is a farce and I will not be silenced today", false},
		{"Voting Phase", true},
		{"discussion", true},
		{"Voting for Bob now", false},
		{"I think RICO lied.", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsHeading(tt.line), "line %q", tt.line)
	}
}

func TestSanitizeSelfPrefix(t *testing.T) {
	s := NewSanitizer(players)
	assert.Equal(t, "Bob is lying.", s.Sanitize("RICO", "RICO: Bob is lying."))
	assert.Equal(t, "Bob is lying.", s.Sanitize("RICO", "rico - Bob is lying."))
	assert.Equal(t, "Why did you vote Bob?", s.Sanitize("SAGE", "SAGE asks: Why did you vote Bob?"))
	assert.Equal(t, "I trust ARIA.", s.Sanitize("DR. VANCE", "Dr. Vance replies: I trust ARIA."))
}

func TestSanitizeCutsOtherSpeaker(t *testing.T) {
	s := NewSanitizer(players)
	raw := "I have my doubts about Bob.\nARIA: Well I think RICO is the one.\nBob: No way."
	assert.Equal(t, "I have my doubts about Bob.", s.Sanitize("SAGE", raw))
}

func TestSanitizeKeepsOwnNameLineMidText(t *testing.T) {
	s := NewSanitizer(players)
	raw := "Fine.\nSAGE: and another thing"
	assert.Equal(t, "Fine. SAGE: and another thing", s.Sanitize("SAGE", raw))
}

func TestSanitizeFirstParagraphOnly(t *testing.T) {
	s := NewSanitizer(players)
	raw := "First thought here.\nStill first.\n\nSecond paragraph."
	assert.Equal(t, "First thought here. Still first.", s.Sanitize("RICO", raw))
}

func TestSanitizeQuotesAndWhitespace(t *testing.T) {
	s := NewSanitizer(players)
	assert.Equal(t, "Bob is quiet.", s.Sanitize("RICO", "  \"Bob   is\tquiet.\"  "))
	assert.Equal(t, "ARIA", s.Sanitize("RICO", "`ARIA`"))
}

func TestSanitizeSentenceLimit(t *testing.T) {
	s := NewSanitizer(players)
	five := "One. Two! Three? Four. Five."
	assert.Equal(t, five, s.Sanitize("RICO", five))

	six := "One. Two! Three? Four. Five. Six."
	assert.Equal(t, "One. Two! Three? Four.", s.Sanitize("RICO", six))
}

func TestSanitizeEmpty(t *testing.T) {
	s := NewSanitizer(players)
	assert.Empty(t, s.Sanitize("RICO", ""))
	assert.Empty(t, s.Sanitize("RICO", " \n\t "))
	assert.Empty(t, s.Sanitize("RICO", "Day 1 - Town Meeting\n\n"))
}

func TestSanitizeIdempotent(t *testing.T) {
	s := NewSanitizer(players)
	inputs := []string{
		"I think Bob is suspicious.",
		"Vote: ARIA",
		"Honestly, I'm not sure about anyone yet!",
		"SAGE has been very quiet today",
	}
	for _, in := range inputs {
		once := s.Sanitize("RICO", in)
		assert.Equal(t, once, s.Sanitize("RICO", once), "input %q", in)
	}
}

func TestSanitizeUnknownSpeaker(t *testing.T) {
	s := NewSanitizer(players)
	got := s.Sanitize("Moderator", "Moderator: Bob seems off.\nRICO: hey")
	assert.Equal(t, "Bob seems off.", got)
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t, []string{"A.", "B!", "C?", "D"}, SplitSentences("A. B!  C?\nD"))
	assert.Equal(t, []string{"Dr.Vance is here."}, SplitSentences("Dr.Vance is here."))
	assert.Equal(t, []string{""}, SplitSentences(""))
}
