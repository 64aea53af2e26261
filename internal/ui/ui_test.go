package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/notes/internal/config"
	"github.com/idilsaglam/notes/internal/model"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
	assert.True(t, strings.HasPrefix(ProgressBar(9, 3, 5), "█████ "), "filled part is capped at width")
}

func TestPanelPadsToWidestLine(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	Panel(&buf, []string{"ab", "abcd"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "+------+", lines[0])
	assert.Equal(t, "| ab   |", lines[1])
	assert.Equal(t, "| abcd |", lines[2])
	assert.Equal(t, "+------+", lines[3])
}

func TestPanelMeasuresCellWidth(t *testing.T) {
	SetTheme(config.ThemeMono)
	defer SetTheme(config.ThemeClassic)

	var buf bytes.Buffer
	Panel(&buf, []string{"買い物リスト", "abc", fgRed + "red" + reset})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "+--------------+", lines[0])
	assert.Equal(t, "| 買い物リスト |", lines[1])
	assert.Equal(t, "| abc          |", lines[2])
	for _, ln := range lines {
		assert.Equal(t, 16, lipgloss.Width(ln), ln)
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme(config.ThemeClassic)

	assert.Equal(t, []string{config.ThemeClassic, config.ThemeMono, config.ThemeNeon}, Themes())

	require.True(t, SetTheme("NEON"))
	assert.Equal(t, config.ThemeNeon, Current().Name)
	assert.Equal(t, "╭", Current().Border.TL)

	assert.False(t, SetTheme("sepia"))
	assert.Equal(t, config.ThemeClassic, Current().Name)

	SetColorForcing(true, false)
	defer SetColorForcing(false, false)
	SetTheme(config.ThemeMono)
	assert.Equal(t, "x", C(fgRed, "x"))
}

func TestNoteLines(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	lines := NoteLines([]model.Note{
		{ID: "0123456789", Name: "milk", Description: "2 litres"},
		{ID: "abc", Name: "bread", Description: "rye", Completed: true},
	})
	require.Len(t, lines, 4)
	assert.Equal(t, " 1. [ ] milk 01234567", lines[0])
	assert.Equal(t, "      2 litres", lines[1])
	assert.Equal(t, " 2. [x] bread abc", lines[2])

	assert.Equal(t, []string{"no notes"}, NoteLines(nil))
}

func TestGroupLines(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	lines := GroupLines([]model.Note{{ID: "1", Name: "a", Completed: true}})
	assert.Equal(t, "Pending", lines[0])
	assert.Equal(t, "(none)", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "Completed", lines[3])
	assert.Contains(t, lines[4], "[x] a")
}

func TestHeaderCounts(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	h := Header([]model.Note{{Completed: true}, {}, {}})
	assert.Equal(t, "Notes  x 1  - 2  Total 3", h[0])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "héllo w...", Truncate("héllo wörld!", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestColorOnlyForTerminals(t *testing.T) {
	SetTheme("classic")
	var buf bytes.Buffer
	Target(&buf)
	defer Target(os.Stdout)
	OK(&buf, "saved")
	assert.Equal(t, "✔ saved\n", buf.String())

	SetColorForcing(true, false)
	defer SetColorForcing(false, false)
	assert.Equal(t, fgRed+"x"+reset, C(fgRed, "x"))
}
