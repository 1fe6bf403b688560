package term

import (
	"io"
	"os"

	xterm "golang.org/x/term"

	"github.com/aretw0/notesctl/pkg/core"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiDim    = "\x1b[2m"
)

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}

// ColorEnabled reports whether coloured output should be written to w.
func ColorEnabled(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return IsTerminal(w)
}

func levelColor(l core.Level) string {
	switch l {
	case core.LevelSuccess:
		return ansiGreen
	case core.LevelWarning:
		return ansiYellow
	case core.LevelError:
		return ansiRed
	default:
		return ansiCyan
	}
}

func paint(enabled bool, color, s string) string {
	if !enabled {
		return s
	}
	return color + s + ansiReset
}
