package ui

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

var (
	outMu       sync.Mutex
	out         io.Writer = os.Stdout
	interactive           = isTerminal(os.Stdout)
)

// SetOutput redirects console output, e.g. to a buffer in tests. A nil writer
// restores os.Stdout.
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
	interactive = false
	if f, ok := w.(*os.File); ok {
		interactive = isTerminal(f)
	}
}

// Interactive reports whether output goes to a terminal.
func Interactive() bool {
	outMu.Lock()
	defer outMu.Unlock()
	return interactive
}

func writer() io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	return out
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
