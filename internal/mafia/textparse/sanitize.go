// Package textparse turns raw model replies into clean utterances and
// structured decisions.
package textparse

import (
	"regexp"
	"strings"
)

const maxSentences = 5

var (
	leadingNonWordRe = regexp.MustCompile(`^\W+`)
	dayHeadingRe     = regexp.MustCompile(`^(day|night)\s*\d+\s*[-–—]`)
	phaseHeadingRe   = regexp.MustCompile(`^(discussion|voting)\s*(phase)?$`)
)

// IsHeading reports whether a line is a heading the model invented, such as
// "Day 3 - Town Meeting" or "Voting Phase". Blank lines count as headings.
func IsHeading(line string) bool {
	l := strings.TrimSpace(line)
	if l == "" {
		return true
	}
	l = strings.ToLower(strings.TrimSpace(leadingNonWordRe.ReplaceAllString(l, "")))
	if l == "" {
		return true
	}
	if dayHeadingRe.MatchString(l) {
		return true
	}
	words := len(strings.Fields(l))
	if strings.Contains(l, "town meeting") && words <= 6 {
		return true
	}
	return phaseHeadingRe.MatchString(l) && words <= 3
}

// Sanitizer cleans replies for one game. It knows every player name so it
// can cut replies where the model starts speaking for someone else.
type Sanitizer struct {
	speakers map[string]speakerPatterns
}

type speakerPatterns struct {
	prefixes []*regexp.Regexp
	others   *regexp.Regexp // nil when the speaker is alone
}

// NewSanitizer creates a Sanitizer for the given player names.
func NewSanitizer(names []string) *Sanitizer {
	s := &Sanitizer{speakers: make(map[string]speakerPatterns, len(names))}
	for _, name := range names {
		s.speakers[name] = compileSpeaker(name, names)
	}
	return s
}

func compileSpeaker(speaker string, names []string) speakerPatterns {
	var p speakerPatterns
	if speaker != "" {
		name := regexp.QuoteMeta(speaker)
		p.prefixes = []*regexp.Regexp{
			regexp.MustCompile(`(?i)^\s*` + name + `\s*[:\-–—]\s*`),
			regexp.MustCompile(`(?i)^\s*` + name + `\s+(?:says|said|asks|responds|replies)\s*:\s*`),
		}
	}
	var others []string
	for _, n := range names {
		if n != speaker {
			others = append(others, regexp.QuoteMeta(n))
		}
	}
	if len(others) > 0 {
		p.others = regexp.MustCompile(`(?im)^\s*(?:` + strings.Join(others, "|") + `)\s*:`)
	}
	return p
}

func (s *Sanitizer) patterns(speaker string) speakerPatterns {
	if p, ok := s.speakers[speaker]; ok {
		return p
	}
	names := make([]string, 0, len(s.speakers))
	for n := range s.speakers {
		names = append(names, n)
	}
	return compileSpeaker(speaker, names)
}

// Sanitize reduces raw to a single clean utterance spoken by speaker. An
// empty result means the reply held nothing usable.
func (s *Sanitizer) Sanitize(speaker, raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	text = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	for len(lines) > 0 && IsHeading(lines[0]) {
		lines = lines[1:]
	}
	text = strings.TrimSpace(strings.Join(lines, "\n"))

	p := s.patterns(speaker)
	for _, re := range p.prefixes {
		text = strings.TrimSpace(re.ReplaceAllString(text, ""))
	}
	if p.others != nil {
		if loc := p.others.FindStringIndex(text); loc != nil {
			text = strings.TrimRight(text[:loc[0]], " \t\r\n")
		}
	}

	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	text = strings.Trim(strings.TrimSpace(text), " \t\\\"'`")
	text = strings.Join(strings.Fields(text), " ")

	sentences := SplitSentences(text)
	if len(sentences) > maxSentences {
		return strings.TrimSpace(strings.Join(sentences[:maxSentences-1], " "))
	}
	return text
}

// SplitSentences splits text after '.', '!' or '?' when followed by
// whitespace. The terminator stays with its sentence.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 1; i < len(runes); i++ {
		if !isSpace(runes[i]) || !isTerminator(runes[i-1]) {
			continue
		}
		j := i
		for j < len(runes) && isSpace(runes[j]) {
			j++
		}
		sentences = append(sentences, string(runes[start:i]))
		start = j
		i = j
	}
	return append(sentences, string(runes[start:]))
}

func isTerminator(r rune) bool { return r == '.' || r == '!' || r == '?' }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}
