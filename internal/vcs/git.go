// Package vcs is the version-control collaborator used to materialize and
// refresh project checkouts.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Client clones and updates repositories.
type Client interface {
	// Clone performs a full clone of url into targetDir.
	Clone(ctx context.Context, url, targetDir string) error

	// Pull updates the checkout at dir from remote/branch.
	Pull(ctx context.Context, dir, remote, branch string) error
}

// GitCLI drives the git binary.
type GitCLI struct {
	// Binary is the git executable. Defaults to "git".
	Binary string
}

// NewGitCLI returns a Client backed by the git command line.
func NewGitCLI() *GitCLI {
	return &GitCLI{Binary: "git"}
}

// Clone implements Client.
func (g *GitCLI) Clone(ctx context.Context, url, targetDir string) error {
	return g.run(ctx, "", "clone", url, targetDir)
}

// Pull implements Client. The -C flag targets dir so the pull never touches
// the orchestrator's own working directory.
func (g *GitCLI) Pull(ctx context.Context, dir, remote, branch string) error {
	return g.run(ctx, dir, "pull", remote, branch)
}

func (g *GitCLI) run(ctx context.Context, dir string, args ...string) error {
	binary := g.Binary
	if binary == "" {
		binary = "git"
	}

	fullArgs := args
	if dir != "" {
		fullArgs = append([]string{"-C", dir}, args...)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, fullArgs...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w (stderr: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
