package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	maxw := 0
	for _, ln := range lines {
		if vw := lipgloss.Width(ln); vw > maxw {
			maxw = vw
		}
	}
	pad := func(s string) string {
		if vis := lipgloss.Width(s); vis < maxw {
			s = s + strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	b := Current().Border
	fmt.Fprintln(w, b.TL+strings.Repeat(b.H, maxw+2)+b.TR)
	for _, ln := range lines {
		fmt.Fprintln(w, b.V+" "+pad(ln)+" "+b.V)
	}
	fmt.Fprintln(w, b.BL+strings.Repeat(b.H, maxw+2)+b.BR)
}
