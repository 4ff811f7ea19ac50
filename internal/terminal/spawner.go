package terminal

import (
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/tr2ge/devup/internal/execx"
	"github.com/tr2ge/devup/internal/workspace"
)

// StartCommands resolves a project name to its start command.
type StartCommands interface {
	StartCommandFor(name string) (string, bool)
}

// Report summarizes a launch pass.
type Report struct {
	// Spawned lists projects whose terminal session was spawned.
	Spawned []string

	// Skipped lists discovered directories with no configured start command.
	Skipped []string

	// Failed maps project names to spawn errors (including an unsupported platform).
	Failed map[string]error
}

// Spawner launches a terminal session for every launchable discovered project.
type Spawner struct {
	launcher Launcher
	platErr  error
	runner   execx.Runner
	fs       workspace.FS
	root     string
	commands StartCommands
	logger   *log.Logger
}

// NewSpawner creates a Spawner. launcher may be nil when platErr explains why
// no launcher exists for this platform; every launchable project is then
// logged as an error and skipped.
//
// Parameters:
//   - launcher: Platform launcher from ForPlatform
//   - platErr: Error from ForPlatform, or nil
//   - runner: Process-execution collaborator
//   - fs: Filesystem collaborator used for discovery
//   - root: Workspace root
//   - commands: Start command lookup
//   - logger: Logger for per-project outcomes
func NewSpawner(launcher Launcher, platErr error, runner execx.Runner, fs workspace.FS, root string, commands StartCommands, logger *log.Logger) *Spawner {
	return &Spawner{
		launcher: launcher,
		platErr:  platErr,
		runner:   runner,
		fs:       fs,
		root:     root,
		commands: commands,
		logger:   logger,
	}
}

// LaunchAll discovers projects and spawns a detached terminal for each one
// that has a start command. Nothing is awaited.
//
// Returns:
//   - *Report: Per-project outcome
//   - error: Only a discovery failure
func (s *Spawner) LaunchAll() (*Report, error) {
	projects, err := workspace.Discover(s.fs, s.root)
	if err != nil {
		return nil, err
	}

	report := &Report{Failed: make(map[string]error)}
	for _, name := range projects {
		startCommand, ok := s.commands.StartCommandFor(name)
		if !ok {
			s.logger.Debug("No start command configured, skipping", "project", name)
			report.Skipped = append(report.Skipped, name)
			continue
		}

		logger := s.logger.With("project", name)
		if s.launcher == nil {
			logger.Error("Cannot open a terminal", "error", s.platErr)
			report.Failed[name] = s.platErr
			continue
		}

		cmd := s.launcher.Command(filepath.Join(s.root, name), startCommand)
		if err := s.runner.SpawnDetached(cmd); err != nil {
			logger.Error("Failed to open terminal", "terminal", s.launcher.Name(), "error", err)
			report.Failed[name] = err
			continue
		}

		logger.Info("Launched", "terminal", s.launcher.Name(), "command", startCommand)
		report.Spawned = append(report.Spawned, name)
	}

	return report, nil
}
