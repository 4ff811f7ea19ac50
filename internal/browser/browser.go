// Package browser opens URLs with the platform's default handler.
package browser

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tr2ge/devup/internal/execx"
)

// OpenerCommand returns the command that opens url on goos.
//
// Parameters:
//   - goos: runtime.GOOS or a substitute in tests
//   - url: The URL to open
//
// Returns:
//   - execx.Command: The opener invocation
//   - error: Any error for unsupported platforms
func OpenerCommand(goos, url string) (execx.Command, error) {
	switch goos {
	case "darwin":
		return execx.Command{Name: "open", Args: []string{url}}, nil
	case "windows":
		// The empty argument is start's window title; without it a quoted URL
		// would be taken as the title.
		return execx.Command{Name: "cmd", Args: []string{"/c", "start", "", url}}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return execx.Command{Name: "xdg-open", Args: []string{url}}, nil
	default:
		return execx.Command{}, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// Opener opens a list of URLs one after another.
type Opener struct {
	goos   string
	runner execx.Runner
	logger *log.Logger
}

// NewOpener creates an Opener for goos.
func NewOpener(goos string, runner execx.Runner, logger *log.Logger) *Opener {
	return &Opener{goos: goos, runner: runner, logger: logger}
}

// OpenAll opens every URL synchronously. A failure is logged against its URL
// and the remaining URLs are still opened.
//
// Returns:
//   - []string: URLs that failed to open
func (o *Opener) OpenAll(ctx context.Context, urls []string) []string {
	var failed []string

	for _, url := range urls {
		logger := o.logger.With("url", url)

		cmd, err := OpenerCommand(o.goos, url)
		if err != nil {
			logger.Error("Failed to open browser", "error", err)
			failed = append(failed, url)
			continue
		}

		code, err := o.runner.RunSync(ctx, cmd)
		if err == nil && code != 0 {
			err = fmt.Errorf("%s exited with code %d", cmd.Name, code)
		}
		if err != nil {
			logger.Error("Failed to open browser", "error", err)
			failed = append(failed, url)
			continue
		}
		logger.Info("Opened")
	}

	return failed
}
