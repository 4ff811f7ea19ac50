package vcs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// PullCall records one Pull invocation on a Fake.
type PullCall struct {
	Dir    string
	Remote string
	Branch string
}

// Fake is an in-memory Client for tests. Clone creates the target directory
// with a marker file unless the URL is listed in CloneErrors.
type Fake struct {
	// CloneErrors maps repository URLs to the error Clone returns for them.
	CloneErrors map[string]error

	// PullErr is returned from every Pull call.
	PullErr error

	// PullStarted, when non-nil, receives a value as each Pull begins.
	PullStarted chan struct{}

	// PullGate, when non-nil, blocks each Pull until it is closed.
	PullGate chan struct{}

	mu     sync.Mutex
	clones []string
	pulls  []PullCall
}

// Clone implements Client.
func (f *Fake) Clone(ctx context.Context, url, targetDir string) error {
	f.mu.Lock()
	f.clones = append(f.clones, url)
	err := f.CloneErrors[url]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(targetDir, "README.md"), []byte(url+"\n"), 0o644)
}

// Pull implements Client.
func (f *Fake) Pull(ctx context.Context, dir, remote, branch string) error {
	f.mu.Lock()
	f.pulls = append(f.pulls, PullCall{Dir: dir, Remote: remote, Branch: branch})
	f.mu.Unlock()

	if f.PullStarted != nil {
		f.PullStarted <- struct{}{}
	}
	if f.PullGate != nil {
		<-f.PullGate
	}
	return f.PullErr
}

// Clones returns the URLs passed to Clone.
func (f *Fake) Clones() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.clones...)
}

// Pulls returns the recorded Pull calls.
func (f *Fake) Pulls() []PullCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PullCall(nil), f.pulls...)
}
