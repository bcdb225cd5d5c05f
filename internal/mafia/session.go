package mafia

import (
	"crypto/rand"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Session is the shared state of one game. Logs and notes are append-only,
// and every mutation goes through the session lock so concurrent queries
// can report results safely.
type Session struct {
	ID string

	mu      sync.Mutex
	day     int
	phase   Phase
	events  []Event
	public  []string
	notes   map[string][]string
	onEvent func(Event)
	now     func() time.Time
}

// NewSession starts an empty session. onEvent, if set, sees every event in
// log order; it runs under the session lock and must not call back into the
// session.
func NewSession(onEvent func(Event)) *Session {
	return &Session{
		ID:      ulid.MustNew(ulid.Now(), rand.Reader).String(),
		notes:   make(map[string][]string),
		onEvent: onEvent,
		now:     time.Now,
	}
}

// Day returns the current day number. It is 0 before the first day.
func (s *Session) Day() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

// Phase returns the phase currently running.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) nextDay() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.day++
	return s.day
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// Announce appends a public event.
func (s *Session) Announce(kind EventKind, format string, args ...any) {
	s.record(kind, true, fmt.Sprintf(format, args...))
}

// Record appends a moderator-only event to the full log.
func (s *Session) Record(kind EventKind, format string, args ...any) {
	s.record(kind, false, fmt.Sprintf(format, args...))
}

func (s *Session) record(kind EventKind, public bool, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := Event{
		Seq:    len(s.events) + 1,
		Day:    s.day,
		Phase:  s.phase,
		Kind:   kind,
		Text:   text,
		Public: public,
		Time:   s.now(),
	}
	s.events = append(s.events, ev)
	if public {
		s.public = append(s.public, text)
	}
	if s.onEvent != nil {
		s.onEvent(ev)
	}
}

// AddNote appends a private note for the named player.
func (s *Session) AddNote(name, note string) {
	s.mu.Lock()
	s.notes[name] = append(s.notes[name], note)
	s.mu.Unlock()
}

// Notes returns a copy of the named player's notes.
func (s *Session) Notes(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes[name])
}

// RecentPublic joins the last n public entries with newlines.
func (s *Session) RecentPublic(n int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := max(0, len(s.public)-n)
	return strings.Join(s.public[start:], "\n")
}

// Events returns a copy of the full event list.
func (s *Session) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

// Snapshot returns the persisted form of the session so far.
func (s *Session) Snapshot() Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	full := make([]string, len(s.events))
	for i, ev := range s.events {
		full[i] = ev.Text
	}
	return Log{
		GameLog:   full,
		PublicLog: append([]string{}, s.public...),
		Day:       s.day,
	}
}
