package ui

import (
	"sort"
	"strings"

	"github.com/idilsaglam/notes/internal/config"
)

// Border is the set of glyphs Panel frames with.
type Border struct {
	TL, TR, BL, BR string
	H, V           string
}

var (
	squareBorder = Border{TL: "┌", TR: "┐", BL: "└", BR: "┘", H: "─", V: "│"}
	roundBorder  = Border{TL: "╭", TR: "╮", BL: "╰", BR: "╯", H: "─", V: "│"}
	asciiBorder  = Border{TL: "+", TR: "+", BL: "+", BR: "+", H: "-", V: "|"}
)

// Theme is how `notes ls` and the status lines look under one ui.theme value.
type Theme struct {
	Name string
	// NoColor turns C into a no-op whatever the output is.
	NoColor bool

	Title, Muted, Accent, Success, Error, Pending string

	// Note markers: the checkbox in a note line and the counters in the header.
	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string

	Border Border
}

// themes is keyed by the values config accepts for ui.theme.
var themes = map[string]Theme{
	config.ThemeClassic: {
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•",
		Border: squareBorder,
	},
	config.ThemeNeon: {
		Title: "\033[95m", Muted: fgGray, Accent: "\033[96m",
		Success: fgGreen, Error: fgRed, Pending: "\033[93m",
		BoxUnchecked: "◻", BoxChecked: "◼",
		SymDone: "✔", SymPending: "•",
		Border: roundBorder,
	},
	config.ThemeMono: {
		NoColor:      true,
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymDone: "x", SymPending: "-",
		Border: asciiBorder,
	},
}

var current Theme

func init() { SetTheme(config.ThemeClassic) }

// Themes lists the selectable theme names.
func Themes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetTheme selects a theme by name. Unknown names fall back to classic and
// report false.
func SetTheme(name string) bool {
	name = strings.ToLower(name)
	t, ok := themes[name]
	if !ok {
		name, t = config.ThemeClassic, themes[config.ThemeClassic]
	}
	t.Name = name
	current = t
	return ok
}

// Current returns the active theme.
func Current() Theme { return current }
