package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tr2ge/devup/internal/config"
	"github.com/tr2ge/devup/internal/datastore"
	"github.com/tr2ge/devup/internal/execx"
	"github.com/tr2ge/devup/internal/tools"
	"github.com/tr2ge/devup/internal/vcs"
	"github.com/tr2ge/devup/internal/workspace"
)

func testConfig(root string) *config.Config {
	return &config.Config{
		WorkspaceRoot: root,
		Projects: []config.ProjectSpec{
			{Name: "api", RepositoryURL: "git@example.com:api.git", StartCommand: "npm start"},
			{Name: "client", RepositoryURL: "git@example.com:client.git", StartCommand: "npm run dev"},
			{Name: "admin", RepositoryURL: "git@example.com:admin.git", StartCommand: "npm run dev"},
		},
		Tools: []config.ToolRequirement{
			{Name: "vite", Probe: "npm list -g vite", Install: "npm install -g vite"},
		},
		Datastore: config.DatastoreConfig{
			ServiceDir:   root,
			InfoCommand:  "docker info",
			StartCommand: "docker compose up -d",
			Group:        "docker",
		},
		Sync:    config.SyncConfig{Remote: "origin", Branch: "main", PullPolicy: config.PullBestEffort},
		Install: config.InstallConfig{Command: "npm install -f"},
		URLs:    []string{"http://localhost:3000"},
	}
}

type harness struct {
	root   string
	cfg    *config.Config
	runner *execx.Recorder
	git    *vcs.Fake
	seq    *Sequencer
}

func newHarness(t *testing.T, exitCodes map[string]int) *harness {
	t.Helper()
	root := filepath.Join(t.TempDir(), "projects")
	h := &harness{
		root:   root,
		cfg:    testConfig(root),
		runner: execx.NewRecorder(exitCodes),
		git:    &vcs.Fake{},
	}
	h.seq = New(h.cfg, Collaborators{
		Runner: h.runner,
		Git:    h.git,
		FS:     workspace.OSFS{},
		GOOS:   "linux",
		Logger: log.New(io.Discard),
	})
	t.Cleanup(h.seq.WaitForBackgroundPulls)
	return h
}

func (h *harness) countRuns(line string) int {
	n := 0
	for _, c := range h.runner.Runs() {
		if c.String() == line {
			n++
		}
	}
	return n
}

func TestStagesCanonicalOrder(t *testing.T) {
	h := newHarness(t, nil)
	var got []State
	for _, s := range h.seq.Stages() {
		got = append(got, s.State)
	}
	want := []State{
		StateProvisioning, StateStartingDatastore, StateSyncing,
		StateInstalling, StateLaunching, StateOpeningBrowser,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stage order = %v, want %v", got, want)
	}
}

// TestRun_EmptyWorkspaceEndToEnd bootstraps three projects into an empty workspace.
func TestRun_EmptyWorkspaceEndToEnd(t *testing.T) {
	h := newHarness(t, nil)

	result, rc := h.seq.Run(context.Background(), Hooks{})
	if result.State != StateDone {
		t.Fatalf("State = %q, err = %v, want done", result.State, result.Err)
	}
	if rc.RunID == "" {
		t.Error("RunID is empty")
	}

	entries, err := workspace.Discover(workspace.OSFS{}, h.root)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"admin", "api", "client"}; !reflect.DeepEqual(entries, want) {
		t.Errorf("workspace = %v, want %v", entries, want)
	}

	if n := h.countRuns("npm install -f"); n != 3 {
		t.Errorf("install invoked %d times, want 3", n)
	}

	spawns := h.runner.Spawns()
	if len(spawns) != 3 {
		t.Fatalf("spawns = %d, want 3", len(spawns))
	}
	for _, sp := range spawns {
		name := filepath.Base(sp.Dir)
		if sp.Dir != filepath.Join(h.root, name) {
			t.Errorf("spawn dir = %q, want under %q", sp.Dir, h.root)
		}
		startCommand, ok := h.cfg.StartCommandFor(name)
		if !ok {
			t.Fatalf("spawn for unconfigured project %q", name)
		}
		if script := sp.Args[len(sp.Args)-1]; !strings.Contains(script, "&& "+startCommand+";") {
			t.Errorf("%s spawn script = %q, want start command %q", name, script, startCommand)
		}
	}

	if h.countRuns("npm install -g vite") != 0 {
		t.Error("vite install ran although its probe exited 0")
	}
	if h.countRuns("xdg-open http://localhost:3000") != 1 {
		t.Error("browser opener did not run")
	}
}

// TestRun_ContainerRuntimeDenied verifies the precondition halts before any
// clone, install or launch.
func TestRun_ContainerRuntimeDenied(t *testing.T) {
	h := newHarness(t, map[string]int{"docker info": 1})

	result, _ := h.seq.Run(context.Background(), Hooks{})

	if result.State != StateFailed || result.FailedStage != StateStartingDatastore {
		t.Fatalf("Run() = %+v, want failed at %q", result, StateStartingDatastore)
	}
	if !IsPrecondition(result.Err) {
		t.Errorf("IsPrecondition(%v) = false", result.Err)
	}
	if hint := h.seq.Remediation(result.Err); !strings.Contains(hint, "docker") {
		t.Errorf("Remediation() = %q, want docker group hint", hint)
	}
	if len(h.git.Clones()) != 0 {
		t.Errorf("clones = %v, want none", h.git.Clones())
	}
	if h.countRuns("npm install -f") != 0 || h.countRuns("docker compose up -d") != 0 {
		t.Error("install or datastore start ran after failed access check")
	}
	if len(h.runner.Spawns()) != 0 {
		t.Errorf("spawns = %d, want 0", len(h.runner.Spawns()))
	}
}

func TestRun_ToolInstallFailureIsFatal(t *testing.T) {
	h := newHarness(t, map[string]int{
		"npm list -g vite":    1,
		"npm install -g vite": 1,
	})

	result, _ := h.seq.Run(context.Background(), Hooks{})

	if result.FailedStage != StateProvisioning {
		t.Fatalf("FailedStage = %q, want %q", result.FailedStage, StateProvisioning)
	}
	var ie *tools.InstallError
	if !errors.As(result.Err, &ie) {
		t.Errorf("Err = %v, want *tools.InstallError", result.Err)
	}
	if IsPrecondition(result.Err) {
		t.Error("tool install failure reported as precondition")
	}
	if h.countRuns("docker info") != 0 {
		t.Error("datastore stage ran after provisioning failed")
	}
}

func TestRun_DatastoreStartFailureIsFatal(t *testing.T) {
	h := newHarness(t, map[string]int{"docker compose up -d": 1})

	result, _ := h.seq.Run(context.Background(), Hooks{})

	if result.FailedStage != StateStartingDatastore {
		t.Fatalf("FailedStage = %q, want %q", result.FailedStage, StateStartingDatastore)
	}
	var se *datastore.StartError
	if !errors.As(result.Err, &se) {
		t.Errorf("Err = %v, want *datastore.StartError", result.Err)
	}
	if len(h.git.Clones()) != 0 {
		t.Error("repositories synced after datastore failure")
	}
}

// TestRun_PerItemFailuresDegrade verifies clone and install failures do not
// halt the pipeline.
func TestRun_PerItemFailuresDegrade(t *testing.T) {
	h := newHarness(t, nil)
	h.git.CloneErrors = map[string]error{"git@example.com:client.git": errors.New("repository not found")}

	result, rc := h.seq.Run(context.Background(), Hooks{})

	if result.State != StateDone {
		t.Fatalf("State = %q, err = %v, want done", result.State, result.Err)
	}
	if n := h.countRuns("npm install -f"); n != 2 {
		t.Errorf("install invoked %d times, want 2 (client missing)", n)
	}
	if len(h.runner.Spawns()) != 2 {
		t.Errorf("spawns = %d, want 2", len(h.runner.Spawns()))
	}

	rows := SummaryRows(rc)
	got := make(map[string][]string)
	for _, r := range rows {
		got[r[0]] = r[1:]
	}
	if want := []string{"failed", "-", "-"}; !reflect.DeepEqual(got["client"], want) {
		t.Errorf("client summary = %v, want %v", got["client"], want)
	}
	if want := []string{"cloned", "installed", "launched"}; !reflect.DeepEqual(got["api"], want) {
		t.Errorf("api summary = %v, want %v", got["api"], want)
	}
}

// TestRun_UnconfiguredDirectoryInstalledNotLaunched covers a directory on disk
// with no project spec.
func TestRun_UnconfiguredDirectoryInstalledNotLaunched(t *testing.T) {
	h := newHarness(t, nil)
	if err := os.MkdirAll(filepath.Join(h.root, "scratch"), 0o755); err != nil {
		t.Fatal(err)
	}

	result, rc := h.seq.Run(context.Background(), Hooks{})
	if result.State != StateDone {
		t.Fatalf("State = %q, err = %v", result.State, result.Err)
	}
	if n := h.countRuns("npm install -f"); n != 4 {
		t.Errorf("install invoked %d times, want 4", n)
	}
	for _, sp := range h.runner.Spawns() {
		if filepath.Base(sp.Dir) == "scratch" {
			t.Error("spawned a terminal for a directory with no start command")
		}
	}
	if !reflect.DeepEqual(rc.Reports.Launch.Skipped, []string{"scratch"}) {
		t.Errorf("Skipped = %v, want [scratch]", rc.Reports.Launch.Skipped)
	}
}

func TestRemediation_WorkspaceMissing(t *testing.T) {
	h := newHarness(t, nil)
	err := fmt.Errorf("%w: %s", workspace.ErrWorkspaceMissing, h.root)

	if !IsPrecondition(err) {
		t.Error("IsPrecondition(workspace missing) = false")
	}
	if hint := h.seq.Remediation(err); !strings.Contains(hint, "mkdir -p "+h.root) {
		t.Errorf("Remediation() = %q", hint)
	}
	if hint := h.seq.Remediation(errors.New("other")); hint != "" {
		t.Errorf("Remediation(other) = %q, want empty", hint)
	}
}

// lockedBuffer serializes writes from loggers derived with With, which do not
// share a mutex.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// TestRun_EveryLogLineCarriesRunID covers the stage components as well as the
// driver.
func TestRun_EveryLogLineCarriesRunID(t *testing.T) {
	root := filepath.Join(t.TempDir(), "projects")
	cfg := testConfig(root)
	cfg.Projects[0].StartCommand = ""
	if err := os.MkdirAll(filepath.Join(root, "client"), 0o755); err != nil {
		t.Fatal(err)
	}

	var out lockedBuffer
	logger := log.New(&out)
	logger.SetLevel(log.DebugLevel)

	seq := New(cfg, Collaborators{
		Runner: execx.NewRecorder(nil),
		Git:    &vcs.Fake{},
		FS:     workspace.OSFS{},
		GOOS:   "linux",
		Logger: logger,
	})

	result, rc := seq.Run(context.Background(), Hooks{})
	seq.WaitForBackgroundPulls()
	if result.State != StateDone {
		t.Fatalf("State = %q, err = %v", result.State, result.Err)
	}

	tag := "run=" + rc.RunID[:8]
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) < 10 {
		t.Fatalf("only %d log lines captured:\n%s", len(lines), out.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, tag) {
			t.Errorf("log line missing %s: %s", tag, line)
		}
	}
	for _, want := range []string{"Cloning", "Checkout exists", "Installing dependencies", "No start command configured"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("log missing component line %q", want)
		}
	}
}
