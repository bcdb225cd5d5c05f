package roster

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
)

// Role is an agent's secret game role.
type Role int

const (
	Unassigned Role = iota
	Mafia
	Doctor
	Detective
	Villager
)

func (r Role) String() string {
	switch r {
	case Mafia:
		return "Mafia"
	case Doctor:
		return "Doctor"
	case Detective:
		return "Detective"
	case Villager:
		return "Villager"
	default:
		return "Unassigned"
	}
}

// MarshalText lets roles appear by name in JSON and YAML.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

var (
	ErrEmptyRoster   = errors.New("roster: no players")
	ErrDuplicateName = errors.New("roster: duplicate player name")
	ErrInvalidName   = errors.New("roster: invalid player name")
)

// Agent is a single game participant.
type Agent struct {
	Name        string `json:"name"`
	Model       string `json:"model"` // backend model ref
	Role        Role   `json:"role"`
	Alive       bool   `json:"alive"`
	Personality string `json:"personality"`
}

// IsMafia reports whether the agent is a member of the mafia.
func (a *Agent) IsMafia() bool { return a.Role == Mafia }

// Entry is one player definition as supplied by a roster file.
type Entry struct {
	Name        string `json:"name" yaml:"name"`
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`
	Personality string `json:"personality" yaml:"personality"`
}

// Build turns entries into fresh, alive, unassigned agents. Entries without
// a model get defaultModel.
func Build(entries []Entry, defaultModel string) ([]*Agent, error) {
	if err := Validate(entries); err != nil {
		return nil, err
	}
	agents := make([]*Agent, len(entries))
	for i, e := range entries {
		model := e.Model
		if model == "" {
			model = defaultModel
		}
		agents[i] = &Agent{
			Name:        strings.TrimSpace(e.Name),
			Model:       model,
			Alive:       true,
			Personality: e.Personality,
		}
	}
	return agents, nil
}

// Validate checks that the roster is non-empty and that every name is unique
// (case-insensitively) and starts and ends with a letter or digit, so it can
// be recognized as a whole word inside free text.
func Validate(entries []Entry) error {
	if len(entries) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if !validName(name) {
			return fmt.Errorf("%w: %q", ErrInvalidName, e.Name)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[key] = true
	}
	return nil
}

func validName(name string) bool {
	if name == "" || strings.ContainsAny(name, ":\n\r") {
		return false
	}
	runes := []rune(name)
	return isWordRune(runes[0]) && isWordRune(runes[len(runes)-1])
}

func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// ClampCount bounds a requested player count to [4, available]. When fewer
// than four players are available all of them play.
func ClampCount(requested, available int) int {
	n := max(4, requested)
	return min(n, available)
}

// Counts is the role distribution for a given number of players.
type Counts struct {
	Mafia     int
	Detective int
	Doctor    int
	Villager  int
}

// CountsFor returns how many of each role a game of n players gets.
func CountsFor(n int) Counts {
	var c Counts
	switch {
	case n >= 10:
		c.Mafia = 3
	case n >= 7:
		c.Mafia = 2
	default:
		c.Mafia = 1
	}
	if n >= 5 {
		c.Detective = 1
	}
	if n >= 7 {
		c.Doctor = 1
	}
	c.Villager = max(0, n-c.Mafia-c.Detective-c.Doctor)
	return c
}

// AssignRoles shuffles the agents and deals roles according to CountsFor.
// Agents keep their position in the slice.
func AssignRoles(agents []*Agent, rng *rand.Rand) {
	shuffled := make([]*Agent, len(agents))
	copy(shuffled, agents)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	c := CountsFor(len(agents))
	deal := make([]Role, 0, len(agents))
	for range c.Mafia {
		deal = append(deal, Mafia)
	}
	for range c.Detective {
		deal = append(deal, Detective)
	}
	for range c.Doctor {
		deal = append(deal, Doctor)
	}
	for i, a := range shuffled {
		a.Role = Villager
		if i < len(deal) {
			a.Role = deal[i]
		}
	}
}

// Names returns agent names in slice order.
func Names(agents []*Agent) []string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name
	}
	return names
}

// Alive returns the agents still in the game, in roster order.
func Alive(agents []*Agent) []*Agent {
	var alive []*Agent
	for _, a := range agents {
		if a.Alive {
			alive = append(alive, a)
		}
	}
	return alive
}

// Dead returns the eliminated agents, in roster order.
func Dead(agents []*Agent) []*Agent {
	var dead []*Agent
	for _, a := range agents {
		if !a.Alive {
			dead = append(dead, a)
		}
	}
	return dead
}

// AliveWithRole returns alive agents holding role, in roster order.
func AliveWithRole(agents []*Agent, role Role) []*Agent {
	var out []*Agent
	for _, a := range agents {
		if a.Alive && a.Role == role {
			out = append(out, a)
		}
	}
	return out
}

// Find returns the agent with the given name, or nil.
func Find(agents []*Agent, name string) *Agent {
	for _, a := range agents {
		if a.Name == name {
			return a
		}
	}
	return nil
}
