package cli

import (
	"os"

	"golang.org/x/term"
)

// isInteractive reports whether prompts can be shown. Overridden in tests.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
