// Package config provides the static workspace configuration for devup.
//
// The configuration is a YAML document embedded into the binary at build time.
// It names the managed projects, the global tools they need, the datastore
// service, and the URLs opened once everything is running.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// PullPolicy controls how the synchronizer treats pulls of existing checkouts.
type PullPolicy string

const (
	// PullBestEffort issues the pull without waiting for it and drops its error.
	PullBestEffort PullPolicy = "best-effort"

	// PullAwait waits for the pull and logs a failure against the project.
	PullAwait PullPolicy = "await"
)

// ProjectSpec describes one managed repository.
type ProjectSpec struct {
	// Name is the project identifier and the name of its directory under the workspace root.
	Name string `yaml:"name"`

	// RepositoryURL is the clone URL.
	RepositoryURL string `yaml:"repository"`

	// StartCommand is the shell command that runs the project's dev server.
	// Empty means the project is not launchable.
	StartCommand string `yaml:"start,omitempty"`
}

// ToolRequirement is a global command-line tool that must be installed.
type ToolRequirement struct {
	// Name is a label used in log output.
	Name string `yaml:"name"`

	// Probe is a shell command that exits 0 when the tool is present.
	Probe string `yaml:"probe"`

	// Install is a shell command that installs the tool.
	Install string `yaml:"install"`
}

// DatastoreConfig describes the backing datastore service.
type DatastoreConfig struct {
	// ServiceDir is the directory holding the service definition (compose file).
	ServiceDir string `yaml:"service_dir"`

	// InfoCommand verifies the current user can talk to the container runtime.
	InfoCommand string `yaml:"info"`

	// StartCommand starts the datastore in the background.
	StartCommand string `yaml:"start"`

	// Group is the OS group that grants container runtime access.
	Group string `yaml:"group,omitempty"`
}

// SyncConfig controls repository synchronization.
type SyncConfig struct {
	Remote     string     `yaml:"remote"`
	Branch     string     `yaml:"branch"`
	PullPolicy PullPolicy `yaml:"pull_policy"`
}

// InstallConfig controls per-project dependency installation.
type InstallConfig struct {
	Command string `yaml:"command"`
}

// Config is the full workspace configuration. Treat it as immutable once loaded.
type Config struct {
	WorkspaceRoot string            `yaml:"workspace_root"`
	Projects      []ProjectSpec     `yaml:"projects"`
	Tools         []ToolRequirement `yaml:"tools"`
	Datastore     DatastoreConfig   `yaml:"datastore"`
	Sync          SyncConfig        `yaml:"sync"`
	Install       InstallConfig     `yaml:"install"`
	URLs          []string          `yaml:"urls"`
}

// Default returns the configuration compiled into the binary.
//
// Relative paths are resolved against the directory containing the running
// executable. A binary built by go run lives under the temp directory, so in
// that case the working directory is used instead.
//
// Returns:
//   - *Config: The validated configuration
//   - error: Any error decoding or validating the embedded document
func Default() (*Config, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to read working directory: %w", err)
	}
	return Parse(defaultsYAML, baseDir(exe, os.TempDir(), wd))
}

// baseDir picks the directory relative config paths resolve against.
func baseDir(exe, tempDir, wd string) string {
	dir := filepath.Dir(exe)
	if within(tempDir, dir) {
		return wd
	}
	resolvedDir, errDir := filepath.EvalSymlinks(dir)
	resolvedTmp, errTmp := filepath.EvalSymlinks(tempDir)
	if errDir == nil && errTmp == nil && within(resolvedTmp, resolvedDir) {
		return wd
	}
	return dir
}

func within(base, p string) bool {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Parse decodes and validates a workspace configuration document.
//
// Parameters:
//   - data: YAML document
//   - baseDir: Directory that relative paths resolve against
//
// Returns:
//   - *Config: The validated configuration
//   - error: Any decode or validation error
func Parse(data []byte, baseDir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse workspace config: %w", err)
	}

	cfg.applyDefaults()
	cfg.WorkspaceRoot = resolve(baseDir, cfg.WorkspaceRoot)
	cfg.Datastore.ServiceDir = resolve(baseDir, cfg.Datastore.ServiceDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Sync.Remote == "" {
		c.Sync.Remote = "origin"
	}
	if c.Sync.Branch == "" {
		c.Sync.Branch = "main"
	}
	if c.Sync.PullPolicy == "" {
		c.Sync.PullPolicy = PullBestEffort
	}
	if c.Install.Command == "" {
		c.Install.Command = "npm install -f"
	}
}

// Validate checks the configuration for missing or conflicting values.
//
// Returns:
//   - error: Validation error or nil if valid
func (c *Config) Validate() error {
	if c.WorkspaceRoot == "" {
		return fmt.Errorf("workspace_root is required")
	}

	seen := make(map[string]bool, len(c.Projects))
	for i, p := range c.Projects {
		if p.Name == "" {
			return fmt.Errorf("projects[%d]: name is required", i)
		}
		if strings.ContainsAny(p.Name, `/\`) || p.Name == "." || p.Name == ".." {
			return fmt.Errorf("projects[%d]: name %q must be a single path segment", i, p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("projects[%d]: duplicate project name %q", i, p.Name)
		}
		seen[p.Name] = true
		if p.RepositoryURL == "" {
			return fmt.Errorf("projects.%s: repository is required", p.Name)
		}
	}

	for i, t := range c.Tools {
		if t.Probe == "" || t.Install == "" {
			return fmt.Errorf("tools[%d]: probe and install are required", i)
		}
	}

	if c.Datastore.StartCommand != "" && c.Datastore.InfoCommand == "" {
		return fmt.Errorf("datastore: info is required when start is set")
	}

	switch c.Sync.PullPolicy {
	case PullBestEffort, PullAwait:
	default:
		return fmt.Errorf("sync.pull_policy: unknown policy %q (supported: %s, %s)",
			c.Sync.PullPolicy, PullBestEffort, PullAwait)
	}

	return nil
}

// StartCommandFor returns the configured start command for a project name.
//
// Parameters:
//   - name: Project name, usually a discovered directory name
//
// Returns:
//   - string: The start command
//   - bool: False when no project by that name has a start command
func (c *Config) StartCommandFor(name string) (string, bool) {
	for _, p := range c.Projects {
		if p.Name == name && p.StartCommand != "" {
			return p.StartCommand, true
		}
	}
	return "", false
}

// ProjectPath returns the checkout directory for a project name.
func (c *Config) ProjectPath(name string) string {
	return filepath.Join(c.WorkspaceRoot, name)
}

func resolve(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
