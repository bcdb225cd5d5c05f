// Package output prints game events to the console and persists game logs.
package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/lorenzotomasdiez/llm-mafia/internal/mafia"
)

const bannerWidth = 60

type styles struct {
	banner  lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	vote    lipgloss.Style
	death   lipgloss.Style
	saved   lipgloss.Style
	calm    lipgloss.Style
	secret  lipgloss.Style
	victory lipgloss.Style
	defeat  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		name:    r.NewStyle().Bold(true),
		vote:    r.NewStyle().Foreground(lipgloss.Color("4")),
		death:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		saved:   r.NewStyle().Foreground(lipgloss.Color("2")),
		calm:    r.NewStyle().Faint(true),
		secret:  r.NewStyle().Italic(true).Foreground(lipgloss.Color("5")),
		victory: r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		defeat:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

// Printer writes events as they happen. Moderator-only events are skipped
// unless reveal is set. It is safe for concurrent use.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	reveal bool
	st     styles
}

// NewPrinter creates a Printer writing to w. Colors follow what w supports.
func NewPrinter(w io.Writer, reveal bool) *Printer {
	return &Printer{
		w:      w,
		reveal: reveal,
		st:     newStyles(lipgloss.NewRenderer(w)),
	}
}

// PrintEvent prints ev. It has the shape of the engine's event hook.
func (p *Printer) PrintEvent(ev mafia.Event) {
	if !ev.Public && !p.reveal {
		return
	}
	line := p.render(ev)
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, line)
}

func (p *Printer) render(ev mafia.Event) string {
	st := p.st
	switch ev.Kind {
	case mafia.KindBanner:
		rule := strings.Repeat("=", bannerWidth)
		return st.banner.Render("\n" + rule + "\n" + ev.Text + "\n" + rule)
	case mafia.KindHeading:
		return st.heading.Render("\n--- " + ev.Text + " ---")
	case mafia.KindSpeech, mafia.KindQuestion, mafia.KindAccusation:
		return p.speaker(ev.Text)
	case mafia.KindVote:
		return st.vote.Render(ev.Text)
	case mafia.KindDeath:
		return st.death.Render(ev.Text)
	case mafia.KindSaved:
		return st.saved.Render(ev.Text)
	case mafia.KindCalm:
		return st.calm.Render(ev.Text)
	case mafia.KindSecret, mafia.KindWhisper:
		return st.secret.Render("[private] " + ev.Text)
	case mafia.KindVictory:
		return st.victory.Render(ev.Text)
	case mafia.KindDefeat:
		return st.defeat.Render(ev.Text)
	default:
		return ev.Text
	}
}

// speaker bolds the "NAME:" or "ASKER -> TARGET:" prefix of a line.
func (p *Printer) speaker(text string) string {
	who, said, ok := strings.Cut(text, ": ")
	if !ok {
		return text
	}
	return p.st.name.Render(who+":") + " " + said
}
