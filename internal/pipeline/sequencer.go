package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tr2ge/devup/internal/browser"
	"github.com/tr2ge/devup/internal/config"
	"github.com/tr2ge/devup/internal/datastore"
	"github.com/tr2ge/devup/internal/deps"
	"github.com/tr2ge/devup/internal/execx"
	"github.com/tr2ge/devup/internal/reposync"
	"github.com/tr2ge/devup/internal/terminal"
	"github.com/tr2ge/devup/internal/tools"
	"github.com/tr2ge/devup/internal/vcs"
	"github.com/tr2ge/devup/internal/workspace"
)

// Reports collects per-stage outcomes for the run summary.
type Reports struct {
	ToolsInstalled []string
	Sync           *reposync.Report
	Install        *deps.Report
	Launch         *terminal.Report
	BrowserFailed  []string
}

// RunContext is shared by every stage of one run.
type RunContext struct {
	Config  *config.Config
	Logger  *log.Logger
	RunID   string
	Reports Reports
}

// Collaborators are the external systems the pipeline drives.
type Collaborators struct {
	Runner execx.Runner
	Git    vcs.Client
	FS     workspace.FS

	// GOOS selects the terminal and browser mechanisms.
	GOOS string

	Logger *log.Logger
}

// Sequencer composes the bootstrap components into the canonical pipeline.
type Sequencer struct {
	cfg    *config.Config
	collab Collaborators

	launcher terminal.Launcher
	platErr  error

	provisioner *tools.Provisioner
	datastore   *datastore.Launcher
	sync        *reposync.Synchronizer
	installer   *deps.Installer
	spawner     *terminal.Spawner
	opener      *browser.Opener
}

// New builds a Sequencer. The terminal launcher is selected here, once.
//
// Parameters:
//   - cfg: Workspace configuration, treated as immutable
//   - c: External collaborators
//
// Returns:
//   - *Sequencer: A sequencer ready to Run
func New(cfg *config.Config, c Collaborators) *Sequencer {
	if c.Logger == nil {
		c.Logger = log.Default()
	}

	s := &Sequencer{cfg: cfg, collab: c}
	s.launcher, s.platErr = terminal.ForPlatform(c.GOOS)
	s.wire(c.Logger)
	return s
}

// wire (re)builds the stage components around logger. Run calls it with the
// run-scoped logger so every component line carries the run id.
func (s *Sequencer) wire(logger *log.Logger) {
	c, cfg := s.collab, s.cfg
	s.provisioner = tools.NewProvisioner(c.Runner, logger)
	s.datastore = datastore.NewLauncher(cfg.Datastore, c.Runner, logger)
	s.sync = reposync.New(c.Git, c.FS, cfg.WorkspaceRoot, cfg.Sync, logger)
	s.installer = deps.NewInstaller(c.Runner, c.FS, cfg.WorkspaceRoot, cfg.Install.Command, logger)
	s.spawner = terminal.NewSpawner(s.launcher, s.platErr, c.Runner, c.FS, cfg.WorkspaceRoot, cfg, logger)
	s.opener = browser.NewOpener(c.GOOS, c.Runner, logger)
}

// Stages returns the ordered stage list.
func (s *Sequencer) Stages() []Stage {
	return []Stage{
		{Name: "Provisioning global tools", State: StateProvisioning, Run: s.provision},
		{Name: "Starting datastore", State: StateStartingDatastore, Run: s.startDatastore},
		{Name: "Synchronizing repositories", State: StateSyncing, Run: s.syncRepos},
		{Name: "Installing dependencies", State: StateInstalling, Run: s.install},
		{Name: "Launching dev servers", State: StateLaunching, Run: s.launch},
		{Name: "Opening browser", State: StateOpeningBrowser, Run: s.openBrowser},
	}
}

// Run executes the pipeline once.
//
// Parameters:
//   - ctx: Context for cancellation
//   - hooks: Progress observers
//
// Returns:
//   - *Result: The final state
//   - *RunContext: The run's context, including per-stage reports
func (s *Sequencer) Run(ctx context.Context, hooks Hooks) (*Result, *RunContext) {
	runID := uuid.NewString()
	rc := &RunContext{
		Config: s.cfg,
		Logger: s.collab.Logger.With("run", runID[:8]),
		RunID:  runID,
	}
	s.wire(rc.Logger)

	result := NewDriver(s.Stages(), hooks).Run(ctx, rc)
	if result.Err != nil {
		rc.Logger.Error("Setup failed", "stage", result.FailedStage, "error", result.Err)
	}
	return result, rc
}

// WaitForBackgroundPulls blocks until best-effort pulls issued by the most
// recent run have returned.
func (s *Sequencer) WaitForBackgroundPulls() {
	s.sync.WaitForPulls()
}

func (s *Sequencer) provision(ctx context.Context, rc *RunContext) error {
	installed, err := s.provisioner.Ensure(ctx, s.cfg.Tools)
	rc.Reports.ToolsInstalled = installed
	return err
}

func (s *Sequencer) startDatastore(ctx context.Context, rc *RunContext) error {
	if !s.datastore.Enabled() {
		rc.Logger.Info("No datastore configured, skipping")
		return nil
	}
	if err := s.datastore.CheckAccess(ctx); err != nil {
		return err
	}
	return s.datastore.Start(ctx)
}

func (s *Sequencer) syncRepos(ctx context.Context, rc *RunContext) error {
	if err := workspace.EnsureRoot(s.cfg.WorkspaceRoot); err != nil {
		return err
	}
	rc.Reports.Sync = s.sync.Sync(ctx, s.cfg.Projects)
	if n := len(rc.Reports.Sync.Failed); n > 0 {
		rc.Logger.Warn("Some repositories failed to sync", "count", n)
	}
	return ctx.Err()
}

func (s *Sequencer) install(ctx context.Context, rc *RunContext) error {
	report, err := s.installer.InstallAll(ctx)
	rc.Reports.Install = report
	return err
}

func (s *Sequencer) launch(ctx context.Context, rc *RunContext) error {
	report, err := s.spawner.LaunchAll()
	rc.Reports.Launch = report
	return err
}

func (s *Sequencer) openBrowser(ctx context.Context, rc *RunContext) error {
	rc.Reports.BrowserFailed = s.opener.OpenAll(ctx, s.cfg.URLs)
	return ctx.Err()
}

// IsPrecondition reports whether err is a fatal precondition failure rather
// than an ordinary stage failure.
func IsPrecondition(err error) bool {
	var pe *datastore.PreconditionError
	return errors.As(err, &pe) || errors.Is(err, workspace.ErrWorkspaceMissing)
}

// Remediation returns the user-facing fix for a precondition failure, or an
// empty string when err is not one.
func (s *Sequencer) Remediation(err error) string {
	var pe *datastore.PreconditionError
	if errors.As(err, &pe) {
		return pe.Hint
	}
	if errors.Is(err, workspace.ErrWorkspaceMissing) {
		return fmt.Sprintf("Create the workspace directory and run devup again:\n  mkdir -p %s", s.cfg.WorkspaceRoot)
	}
	return ""
}
