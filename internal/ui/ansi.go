package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
	// colorOut decides TTY detection for C; set by OK, Fail and Panel.
	colorOut io.Writer = os.Stdout
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when the output is a terminal or color is forced.
func C(color, s string) string {
	if disableColor || current.NoColor || color == "" {
		return s
	}
	if forceColor || isTTY(colorOut) {
		return color + s + reset
	}
	return s
}

// Dim renders s faint.
func Dim(s string) string { return C(dim, s) }

// Target sets the writer whose TTY-ness decides coloring.
func Target(w io.Writer) { colorOut = w }

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(Current().Success, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(Current().Error, symCross+" "+msg)) }
