// Package reposync makes sure every configured project has a local checkout.
//
// Missing checkouts are cloned and existing ones are pulled. All projects are
// handled concurrently and the stage completes when every clone has returned.
// A failure in one project never affects its siblings and never fails the
// stage.
package reposync

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tr2ge/devup/internal/config"
	"github.com/tr2ge/devup/internal/vcs"
	"github.com/tr2ge/devup/internal/workspace"
)

// Report summarizes a synchronization pass.
type Report struct {
	// Cloned lists projects cloned successfully.
	Cloned []string

	// Pulled lists projects whose checkout already existed and was pulled.
	// Under the best-effort policy this only means a pull was issued.
	Pulled []string

	// Failed maps project names to the clone (or awaited pull) error.
	Failed map[string]error
}

// Synchronizer clones or pulls every configured project.
type Synchronizer struct {
	git    vcs.Client
	fs     workspace.FS
	root   string
	sync   config.SyncConfig
	logger *log.Logger

	// pulls tracks best-effort pulls so tests can wait for them. The stage
	// itself never waits on it.
	pulls sync.WaitGroup
}

// New creates a Synchronizer.
//
// Parameters:
//   - git: Version-control collaborator
//   - fs: Filesystem collaborator
//   - root: Workspace root
//   - syncCfg: Remote, branch and pull policy
//   - logger: Logger for per-project outcomes
//
// Returns:
//   - *Synchronizer: A new synchronizer
func New(git vcs.Client, fs workspace.FS, root string, syncCfg config.SyncConfig, logger *log.Logger) *Synchronizer {
	return &Synchronizer{
		git:    git,
		fs:     fs,
		root:   root,
		sync:   syncCfg,
		logger: logger,
	}
}

// Sync synchronizes every project concurrently and returns once all clones
// (and, under the await policy, all pulls) have finished.
//
// Parameters:
//   - ctx: Context for cancellation
//   - projects: Projects to synchronize
//
// Returns:
//   - *Report: Per-project outcome
func (s *Synchronizer) Sync(ctx context.Context, projects []config.ProjectSpec) *Report {
	report := &Report{Failed: make(map[string]error)}
	var mu sync.Mutex

	// Plain errgroup: per-project failures are recorded, never returned, so no
	// sibling is cancelled.
	var g errgroup.Group
	for _, p := range projects {
		p := p
		g.Go(func() error {
			pulled, err := s.syncOne(ctx, p)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failed[p.Name] = err
			case pulled:
				report.Pulled = append(report.Pulled, p.Name)
			default:
				report.Cloned = append(report.Cloned, p.Name)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Cloned)
	sort.Strings(report.Pulled)
	return report
}

// syncOne handles one project. It reports whether the pull path was taken.
func (s *Synchronizer) syncOne(ctx context.Context, p config.ProjectSpec) (bool, error) {
	target := s.targetDir(p.Name)
	logger := s.logger.With("project", p.Name)

	if s.fs.PathExists(target) {
		logger.Info("Checkout exists, pulling latest changes", "remote", s.sync.Remote, "branch", s.sync.Branch)
		return true, s.pull(ctx, logger, target)
	}

	logger.Info("Cloning", "url", p.RepositoryURL, "into", target)
	if err := s.git.Clone(ctx, p.RepositoryURL, target); err != nil {
		logger.Error("Clone failed", "error", err)
		return false, err
	}
	logger.Info("Cloned")
	return false, nil
}

func (s *Synchronizer) pull(ctx context.Context, logger *log.Logger, dir string) error {
	if s.sync.PullPolicy == config.PullAwait {
		if err := s.git.Pull(ctx, dir, s.sync.Remote, s.sync.Branch); err != nil {
			logger.Error("Pull failed", "error", err)
			return err
		}
		return nil
	}

	// Best effort: the pull is not awaited and its error is dropped.
	s.pulls.Add(1)
	go func() {
		defer s.pulls.Done()
		if err := s.git.Pull(context.WithoutCancel(ctx), dir, s.sync.Remote, s.sync.Branch); err != nil {
			logger.Debug("Background pull failed", "error", err)
		}
	}()
	return nil
}

// WaitForPulls blocks until every best-effort pull issued so far has returned.
func (s *Synchronizer) WaitForPulls() {
	s.pulls.Wait()
}

func (s *Synchronizer) targetDir(name string) string {
	return filepath.Join(s.root, name)
}
