package mafia

import "strings"

const notesMarker = "Your private notes (not shared):"

// BuildContext appends the most recent limit notes to base. Without notes
// base is returned unchanged.
func BuildContext(base string, notes []string, limit int) string {
	if len(notes) == 0 {
		return base
	}
	if limit > 0 && len(notes) > limit {
		notes = notes[len(notes)-limit:]
	}
	return base + "\n\n" + notesMarker + "\n" + strings.Join(notes, "\n")
}

func (e *Engine) contextFor(name, base string) string {
	return BuildContext(base, e.session.Notes(name), e.opts.NoteLimit)
}
