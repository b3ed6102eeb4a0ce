package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

// logWriter is where logs go. Stdout carries the command output.
var logWriter io.Writer = os.Stderr

// IsTerminal reports whether w is an interactive terminal, which enables colors.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
