// Package execx runs the child processes devup orchestrates.
//
// Two shapes are supported: synchronous runs whose exit code the caller acts
// on, and detached spawns the caller never waits for.
package execx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Command describes a single process invocation.
type Command struct {
	// Name is the executable.
	Name string

	// Args are the arguments passed to Name.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// InheritIO connects the child to this process's stdin, stdout and stderr.
	InheritIO bool

	// Line is the original shell line for commands built with Shell.
	// Used for display and log output only.
	Line string
}

// String returns a human-readable form of the command.
func (c Command) String() string {
	if c.Line != "" {
		return c.Line
	}
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// In returns a copy of the command with its working directory set.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

// Inherit returns a copy of the command that inherits the terminal's streams.
func (c Command) Inherit() Command {
	c.InheritIO = true
	return c
}

// Shell wraps a command line in the platform shell.
//
// Parameters:
//   - line: The command line (may include shell operators)
//
// Returns:
//   - Command: A command running line through /bin/sh -c, or cmd /C on Windows
func Shell(line string) Command {
	return shellFor(runtime.GOOS, line)
}

func shellFor(goos, line string) Command {
	if goos == "windows" {
		return Command{Name: "cmd", Args: []string{"/C", line}, Line: line}
	}
	return Command{Name: "/bin/sh", Args: []string{"-c", line}, Line: line}
}

// Runner is the process-execution collaborator.
type Runner interface {
	// RunSync runs the command to completion and returns its exit code.
	// The error is non-nil only when the process could not be run at all.
	RunSync(ctx context.Context, cmd Command) (int, error)

	// SpawnDetached starts the command in its own process group and returns
	// without observing its exit.
	SpawnDetached(cmd Command) error
}

// OSRunner executes commands with os/exec.
type OSRunner struct{}

// NewOSRunner returns a Runner backed by real processes.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// RunSync implements Runner.
func (r *OSRunner) RunSync(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.InheritIO {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	return -1, fmt.Errorf("failed to run %s: %w", c, err)
}

// SpawnDetached implements Runner.
func (r *OSRunner) SpawnDetached(c Command) error {
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir
	setProcGroup(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn %s: %w", c, err)
	}

	// Reap in the background so the child never lingers as a zombie while
	// devup is still running.
	go func() { _ = cmd.Wait() }()
	return nil
}
