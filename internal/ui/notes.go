package ui

import (
	"fmt"

	"github.com/idilsaglam/notes/internal/model"
)

const (
	maxNameWidth = 60
	shortIDLen   = 8
)

// Header is the counts line shown above a note list.
func Header(notes []model.Note) []string {
	t := Current()
	d, p := model.Stats(notes)
	return []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			C(t.Title, "Notes"),
			C(t.Success, t.SymDone), d,
			C(t.Pending, t.SymPending), p,
			C(t.Accent, "Total"), len(notes),
		),
		C(t.Muted, ProgressBar(d, d+p, 28)),
	}
}

// NoteLines renders one numbered line per note plus an indented description.
// Numbers are 1-based positions in notes, the ones `done` and `rm` accept.
func NoteLines(notes []model.Note) []string {
	t := Current()
	if len(notes) == 0 {
		return []string{C(t.Muted, "no notes")}
	}
	out := make([]string, 0, 2*len(notes))
	for i, n := range notes {
		box, color := t.BoxUnchecked, t.Muted
		if n.Completed {
			box, color = t.BoxChecked, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s %s",
			Dim(fmt.Sprintf("%2d.", i+1)), C(color, box), Truncate(n.Name, maxNameWidth), C(t.Muted, ShortID(n.ID))))
		out = append(out, "      "+C(t.Muted, Truncate(n.Description, maxNameWidth)))
	}
	return out
}

// GroupLines renders pending notes, then completed ones.
func GroupLines(notes []model.Note) []string {
	t := Current()
	var pend, done []model.Note
	for _, n := range notes {
		if n.Completed {
			done = append(done, n)
		} else {
			pend = append(pend, n)
		}
	}
	section := func(title string, ns []model.Note) []string {
		lines := []string{C(t.Accent, title)}
		if len(ns) == 0 {
			return append(lines, C(t.Muted, "(none)"))
		}
		return append(lines, NoteLines(ns)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Completed", done)...)
}

// ShortID is the id prefix shown next to a note.
func ShortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// Truncate cuts s to limit runes, ending with "..." when cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
