package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Interactive reports whether both stdin and stderr are terminals, which
// pickers and prompts need.
func Interactive() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stderr)
}
