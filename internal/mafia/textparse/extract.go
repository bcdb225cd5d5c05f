package textparse

import (
	"regexp"
	"strings"
)

// DecisionKind classifies what was read out of a reply.
type DecisionKind int

const (
	// Unparseable means no valid choice was found.
	Unparseable DecisionKind = iota
	// Chosen means Decision.Target holds a valid name.
	Chosen
	// NoAction is the mafia "no kill" sentinel.
	NoAction
)

// Decision is a structured choice read from free text.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// OK reports whether the decision names a target.
func (d Decision) OK() bool { return d.Kind == Chosen }

var explicitVoteRe = regexp.MustCompile(`\bvote(?:\s+for)?[^a-zA-Z0-9]+([a-z][a-z']+)`)

// noKillMarkers are matched as plain substrings of the lowercased reply.
var noKillMarkers = []string{
	"no kill",
	"no_kill",
	"nokill",
	"skip",
	"pass",
	"nobody",
	"no one",
	"none",
	"dont kill",
	"don't kill",
}

// ExtractVote finds the valid target a reply most probably chooses.
//
// An explicit "vote [for] <fragment>" wins first: the fragment is matched as
// a prefix against valid in the order given. Otherwise every whole-word
// mention of every valid name is collected and the one mentioned last wins,
// since replies tend to discuss several names before concluding.
func ExtractVote(text string, valid []string) (string, bool) {
	if len(valid) == 0 {
		return "", false
	}
	lower := strings.ToLower(text)
	keys, byKey := nameIndex(valid)

	if m := explicitVoteRe.FindStringSubmatch(lower); m != nil {
		fragment := m[1]
		for _, key := range keys {
			if strings.HasPrefix(key, fragment) {
				return byKey[key], true
			}
		}
	}

	best, bestPos := "", -1
	for _, key := range keys {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`)
		for _, loc := range re.FindAllStringIndex(lower, -1) {
			// Equal positions resolve to the later name, like a stable sort.
			if loc[0] >= bestPos {
				best, bestPos = byKey[key], loc[0]
			}
		}
	}
	if bestPos < 0 {
		return "", false
	}
	return best, true
}

// nameIndex maps lowercased names back to their display form, keeping the
// caller's order and the first position of any case-insensitive duplicate.
func nameIndex(valid []string) ([]string, map[string]string) {
	keys := make([]string, 0, len(valid))
	byKey := make(map[string]string, len(valid))
	for _, name := range valid {
		key := strings.ToLower(name)
		if _, seen := byKey[key]; !seen {
			keys = append(keys, key)
		}
		byKey[key] = name
	}
	return keys, byKey
}

// ParseVote wraps ExtractVote as a Decision.
func ParseVote(text string, valid []string) Decision {
	if name, ok := ExtractVote(text, valid); ok {
		return Decision{Kind: Chosen, Target: name}
	}
	return Decision{}
}

// ParseMafiaChoice reads a night kill choice. Any "no kill" style phrase
// short-circuits to NoAction before names are considered.
func ParseMafiaChoice(text string, valid []string) Decision {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, marker := range noKillMarkers {
		if strings.Contains(lower, marker) {
			return Decision{Kind: NoAction}
		}
	}
	return ParseVote(text, valid)
}
