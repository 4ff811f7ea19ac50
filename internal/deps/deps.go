// Package deps installs each discovered project's package dependencies.
package deps

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/tr2ge/devup/internal/execx"
	"github.com/tr2ge/devup/internal/workspace"
)

// Report summarizes an install pass.
type Report struct {
	Installed []string
	Failed    map[string]error
}

// Installer runs the install command in every discovered project, one at a time.
type Installer struct {
	runner  execx.Runner
	fs      workspace.FS
	root    string
	command string
	logger  *log.Logger
}

// NewInstaller creates an Installer.
//
// Parameters:
//   - runner: Process-execution collaborator
//   - fs: Filesystem collaborator used for discovery
//   - root: Workspace root
//   - command: Install command line, e.g. "npm install -f"
//   - logger: Logger for per-project outcomes
func NewInstaller(runner execx.Runner, fs workspace.FS, root, command string, logger *log.Logger) *Installer {
	return &Installer{runner: runner, fs: fs, root: root, command: command, logger: logger}
}

// InstallAll discovers projects and installs each one sequentially. A failure
// in one project is logged and does not stop the others.
//
// Returns:
//   - *Report: Per-project outcome
//   - error: Only a discovery failure (missing workspace root) or cancellation
func (i *Installer) InstallAll(ctx context.Context) (*Report, error) {
	projects, err := workspace.Discover(i.fs, i.root)
	if err != nil {
		return nil, err
	}

	report := &Report{Failed: make(map[string]error)}
	for _, name := range projects {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		dir := filepath.Join(i.root, name)
		logger := i.logger.With("project", name)
		logger.Info("Installing dependencies", "dir", dir)

		code, err := i.runner.RunSync(ctx, execx.Shell(i.command).In(dir).Inherit())
		if err == nil && code != 0 {
			err = fmt.Errorf("%s exited with code %d", i.command, code)
		}
		if err != nil {
			logger.Error("Dependency install failed", "error", err)
			report.Failed[name] = err
			continue
		}

		logger.Info("Dependencies installed")
		report.Installed = append(report.Installed, name)
	}

	return report, nil
}
