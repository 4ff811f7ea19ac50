// Package datastore starts the workspace's backing datastore through the
// container runtime.
package datastore

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tr2ge/devup/internal/config"
	"github.com/tr2ge/devup/internal/execx"
)

// PreconditionError reports that the current user cannot reach the container
// runtime. It is not a stage failure: the program stops immediately.
type PreconditionError struct {
	// Command is the info command that failed.
	Command string

	// ExitCode is the info command's exit code.
	ExitCode int

	// Hint tells the user how to fix it.
	Hint string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("container runtime not accessible (%s exited with code %d)", e.Command, e.ExitCode)
}

// StartError reports a non-zero exit from the datastore start command.
type StartError struct {
	Command  string
	Dir      string
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *StartError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("starting datastore (%s in %s): %v", e.Command, e.Dir, e.Err)
	}
	return fmt.Sprintf("starting datastore (%s in %s) exited with code %d", e.Command, e.Dir, e.ExitCode)
}

// Unwrap returns the underlying run error, if any.
func (e *StartError) Unwrap() error { return e.Err }

// Launcher runs the datastore's access check and start command.
type Launcher struct {
	cfg    config.DatastoreConfig
	runner execx.Runner
	logger *log.Logger
}

// NewLauncher creates a Launcher.
func NewLauncher(cfg config.DatastoreConfig, runner execx.Runner, logger *log.Logger) *Launcher {
	return &Launcher{cfg: cfg, runner: runner, logger: logger}
}

// Enabled reports whether a datastore is configured.
func (l *Launcher) Enabled() bool {
	return l.cfg.StartCommand != ""
}

// CheckAccess verifies the current user can invoke the container runtime.
//
// Returns:
//   - error: *PreconditionError when the info command fails
func (l *Launcher) CheckAccess(ctx context.Context) error {
	code, err := l.runner.RunSync(ctx, execx.Shell(l.cfg.InfoCommand))
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil && code == 0 {
		return nil
	}
	return &PreconditionError{
		Command:  l.cfg.InfoCommand,
		ExitCode: code,
		Hint:     remediationHint(l.cfg.Group),
	}
}

// Start runs the start command in the service directory and blocks until the
// command returns. It does not wait for the service to become ready.
//
// Returns:
//   - error: *StartError on a non-zero exit
func (l *Launcher) Start(ctx context.Context) error {
	l.logger.Info("Starting datastore", "command", l.cfg.StartCommand, "dir", l.cfg.ServiceDir)

	code, err := l.runner.RunSync(ctx, execx.Shell(l.cfg.StartCommand).In(l.cfg.ServiceDir).Inherit())
	if err != nil || code != 0 {
		l.logger.Error("Datastore failed to start", "exit_code", code, "error", err,
			"hint", "check the compose output above and that the service definition exists in "+l.cfg.ServiceDir)
		return &StartError{Command: l.cfg.StartCommand, Dir: l.cfg.ServiceDir, ExitCode: code, Err: err}
	}

	l.logger.Info("Datastore started")
	return nil
}

func remediationHint(group string) string {
	if group == "" {
		group = "docker"
	}
	return fmt.Sprintf(`Your user cannot talk to the container runtime. Add it to the %q group:
  sudo usermod -aG %s $USER

Then log out and back in (or run: newgrp %s) and try again.`, group, group, group)
}
