package mafia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSeparatesPublicAndPrivate(t *testing.T) {
	var seen []Event
	s := NewSession(func(ev Event) { seen = append(seen, ev) })
	s.nextDay()
	s.Announce(KindBanner, "DAY %d - TOWN MEETING", 1)
	s.Record(KindSecret, "%s investigated %s", "Bruno", "Alice")
	s.Announce(KindSpeech, "Alice: hello")

	snap := s.Snapshot()
	assert.Equal(t, []string{"DAY 1 - TOWN MEETING", "Bruno investigated Alice", "Alice: hello"}, snap.GameLog)
	assert.Equal(t, []string{"DAY 1 - TOWN MEETING", "Alice: hello"}, snap.PublicLog)
	assert.Equal(t, 1, snap.Day)

	require.Len(t, seen, 3)
	assert.False(t, seen[1].Public)
	assert.Equal(t, 3, seen[2].Seq)
	assert.Equal(t, 1, seen[2].Day)
}

func TestSessionRecentPublic(t *testing.T) {
	s := NewSession(nil)
	for _, line := range []string{"a", "b", "c"} {
		s.Announce(KindInfo, "%s", line)
	}
	s.Record(KindSecret, "hidden")
	assert.Equal(t, "b\nc", s.RecentPublic(2))
	assert.Equal(t, "a\nb\nc", s.RecentPublic(40))
}

func TestSessionNotesAreCopies(t *testing.T) {
	s := NewSession(nil)
	s.AddNote("Alice", "one")
	notes := s.Notes("Alice")
	notes[0] = "changed"
	assert.Equal(t, []string{"one"}, s.Notes("Alice"))
	assert.Empty(t, s.Notes("Bruno"))
}

func TestSessionIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewSession(nil).ID, NewSession(nil).ID)
	assert.Len(t, NewSession(nil).ID, 26)
}
