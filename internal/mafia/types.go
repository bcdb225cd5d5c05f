// Package mafia runs a game of Mafia between language-model players: it
// deals roles, drives the day, voting and night phases, and reads decisions
// out of free-text replies until one side wins.
package mafia

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Gateway produces a reply for one player. model is the player's backend
// model ref.
type Gateway interface {
	Generate(ctx context.Context, model, system, prompt string, temperature float64) (string, error)
}

// Throttle may block before a query is issued, e.g. while memory is low.
type Throttle interface {
	Wait(ctx context.Context) error
}

// Phase is the part of the game cycle currently running.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseDay
	PhaseVoting
	PhaseNight
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseDay:
		return "day"
	case PhaseVoting:
		return "voting"
	case PhaseNight:
		return "night"
	case PhaseOver:
		return "over"
	default:
		return "setup"
	}
}

// Winner is the outcome of the win check.
type Winner int

const (
	NoWinner Winner = iota
	Town
	MafiaWin
)

func (w Winner) String() string {
	switch w {
	case Town:
		return "town"
	case MafiaWin:
		return "mafia"
	default:
		return "none"
	}
}

// MarshalText lets winners appear by name in JSON.
func (w Winner) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// EventKind tells printers how to present an event.
type EventKind int

const (
	KindBanner EventKind = iota
	KindHeading
	KindInfo
	KindSpeech
	KindQuestion
	KindAccusation
	KindVote
	KindDeath
	KindSaved
	KindCalm
	KindSecret
	KindWhisper
	KindVictory
	KindDefeat
)

var kindNames = [...]string{
	KindBanner:     "banner",
	KindHeading:    "heading",
	KindInfo:       "info",
	KindSpeech:     "speech",
	KindQuestion:   "question",
	KindAccusation: "accusation",
	KindVote:       "vote",
	KindDeath:      "death",
	KindSaved:      "saved",
	KindCalm:       "calm",
	KindSecret:     "secret",
	KindWhisper:    "whisper",
	KindVictory:    "victory",
	KindDefeat:     "defeat",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Event is one entry of the game log.
type Event struct {
	Seq    int       `json:"seq"`
	Day    int       `json:"day"`
	Phase  Phase     `json:"-"`
	Kind   EventKind `json:"-"`
	Text   string    `json:"text"`
	Public bool      `json:"public"`
	Time   time.Time `json:"time"`
}

// Log is the persisted shape of a game.
type Log struct {
	GameLog   []string `json:"game_log"`
	PublicLog []string `json:"public_log"`
	Day       int      `json:"day"`
}

// Result is what Run hands back, even when the game was interrupted.
type Result struct {
	ID          string
	Winner      Winner
	Day         int
	Interrupted bool
	Log         Log
	Events      []Event
	Roles       map[string]string
	Alive       map[string]bool
}

// Options tunes a game. Zero fields take the values from DefaultOptions.
type Options struct {
	MaxDays           int
	MafiaRetries      int
	NoteLimit         int
	OpeningHistory    int
	QuestionHistory   int
	AccusationHistory int
	VotingHistory     int
	NightHistory      int
	QuestionRounds    int
	MafiaChatRounds   int
	Workers           int
	Temperature       float64

	// SystemPrompt is the shared preamble of every player's system prompt.
	SystemPrompt string

	Rand     *rand.Rand
	Throttle Throttle
	Logger   *slog.Logger
}

// DefaultOptions returns the standard game settings.
func DefaultOptions() Options {
	return Options{
		MaxDays:           10,
		MafiaRetries:      3,
		NoteLimit:         25,
		OpeningHistory:    40,
		QuestionHistory:   30,
		AccusationHistory: 20,
		VotingHistory:     30,
		NightHistory:      30,
		QuestionRounds:    2,
		MafiaChatRounds:   2,
		Workers:           1,
		Temperature:       0.7,
		SystemPrompt:      DefaultSystemPrompt,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	fill := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&o.MaxDays, d.MaxDays)
	fill(&o.MafiaRetries, d.MafiaRetries)
	fill(&o.NoteLimit, d.NoteLimit)
	fill(&o.OpeningHistory, d.OpeningHistory)
	fill(&o.QuestionHistory, d.QuestionHistory)
	fill(&o.AccusationHistory, d.AccusationHistory)
	fill(&o.VotingHistory, d.VotingHistory)
	fill(&o.NightHistory, d.NightHistory)
	fill(&o.QuestionRounds, d.QuestionRounds)
	fill(&o.MafiaChatRounds, d.MafiaChatRounds)
	fill(&o.Workers, d.Workers)
	if o.Temperature == 0 {
		o.Temperature = d.Temperature
	}
	if o.SystemPrompt == "" {
		o.SystemPrompt = d.SystemPrompt
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
