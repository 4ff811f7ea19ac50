// Package tools makes sure the global command-line tools the workspace needs
// are installed.
package tools

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tr2ge/devup/internal/config"
	"github.com/tr2ge/devup/internal/execx"
)

// InstallError reports a tool whose install command failed.
type InstallError struct {
	// Tool is the requirement's name.
	Tool string

	// Command is the install command that was run.
	Command string

	// ExitCode is the install command's exit code (-1 if it could not run).
	ExitCode int

	// Err is set when the command could not be run at all.
	Err error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("installing %s (%s): %v", e.Tool, e.Command, e.Err)
	}
	return fmt.Sprintf("installing %s (%s) exited with code %d", e.Tool, e.Command, e.ExitCode)
}

// Unwrap returns the underlying run error, if any.
func (e *InstallError) Unwrap() error { return e.Err }

// Provisioner probes for each required tool and installs missing ones.
type Provisioner struct {
	runner execx.Runner
	logger *log.Logger
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(runner execx.Runner, logger *log.Logger) *Provisioner {
	return &Provisioner{runner: runner, logger: logger}
}

// Ensure checks every requirement in order. A probe that exits non-zero (or
// cannot be run) triggers the install command. The first failed install
// aborts the remaining requirements.
//
// Parameters:
//   - ctx: Context for cancellation
//   - reqs: Tool requirements
//
// Returns:
//   - []string: Names of tools that were installed
//   - error: *InstallError for the first failed install
func (p *Provisioner) Ensure(ctx context.Context, reqs []config.ToolRequirement) ([]string, error) {
	var installed []string

	for _, req := range reqs {
		logger := p.logger.With("tool", req.Name)

		code, err := p.runner.RunSync(ctx, execx.Shell(req.Probe).Inherit())
		if err == nil && code == 0 {
			logger.Debug("Tool present")
			continue
		}
		if ctx.Err() != nil {
			return installed, ctx.Err()
		}

		logger.Info("Installing globally", "command", req.Install)
		code, err = p.runner.RunSync(ctx, execx.Shell(req.Install).Inherit())
		if err != nil || code != 0 {
			return installed, &InstallError{Tool: req.Name, Command: req.Install, ExitCode: code, Err: err}
		}
		installed = append(installed, req.Name)
	}

	return installed, nil
}
