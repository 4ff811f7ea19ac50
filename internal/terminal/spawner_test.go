package terminal

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tr2ge/devup/internal/config"
	"github.com/tr2ge/devup/internal/execx"
	"github.com/tr2ge/devup/internal/workspace"
)

var testConfig = &config.Config{
	Projects: []config.ProjectSpec{
		{Name: "api", RepositoryURL: "a", StartCommand: "npm start"},
		{Name: "client", RepositoryURL: "c", StartCommand: "npm run dev"},
	},
}

func makeRoot(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, n := range names {
		if err := os.Mkdir(filepath.Join(root, n), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestLaunchAll_SpawnsLaunchableProjects(t *testing.T) {
	root := makeRoot(t, "api", "client")
	rec := execx.NewRecorder(nil)

	report, err := NewSpawner(LinuxTerminal{}, nil, rec, workspace.OSFS{}, root, testConfig, log.New(io.Discard)).LaunchAll()
	if err != nil {
		t.Fatalf("LaunchAll() error = %v", err)
	}

	spawns := rec.Spawns()
	if len(spawns) != 2 {
		t.Fatalf("spawns = %d, want 2", len(spawns))
	}
	if spawns[0].Dir != filepath.Join(root, "api") || !strings.Contains(spawns[0].Args[3], "&& npm start;") {
		t.Errorf("api spawn = %+v", spawns[0])
	}
	if spawns[1].Dir != filepath.Join(root, "client") || !strings.Contains(spawns[1].Args[3], "&& npm run dev;") {
		t.Errorf("client spawn = %+v", spawns[1])
	}
	if !reflect.DeepEqual(report.Spawned, []string{"api", "client"}) {
		t.Errorf("Spawned = %v", report.Spawned)
	}
	if len(rec.Runs()) != 0 {
		t.Errorf("LaunchAll() ran %d synchronous commands, want none", len(rec.Runs()))
	}
}

// TestLaunchAll_SkipsUnconfiguredDirectory verifies zero spawns for a
// directory without a start command.
func TestLaunchAll_SkipsUnconfiguredDirectory(t *testing.T) {
	root := makeRoot(t, "scratch")
	rec := execx.NewRecorder(nil)

	report, err := NewSpawner(LinuxTerminal{}, nil, rec, workspace.OSFS{}, root, testConfig, log.New(io.Discard)).LaunchAll()
	if err != nil {
		t.Fatalf("LaunchAll() error = %v", err)
	}
	if n := len(rec.Spawns()); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
	if !reflect.DeepEqual(report.Skipped, []string{"scratch"}) {
		t.Errorf("Skipped = %v, want [scratch]", report.Skipped)
	}
}

// TestLaunchAll_UnsupportedPlatform verifies an error is logged and nothing spawns.
func TestLaunchAll_UnsupportedPlatform(t *testing.T) {
	root := makeRoot(t, "api")
	rec := execx.NewRecorder(nil)
	var logs bytes.Buffer

	launcher, platErr := ForPlatform("aix")
	report, err := NewSpawner(launcher, platErr, rec, workspace.OSFS{}, root, testConfig, log.New(&logs)).LaunchAll()
	if err != nil {
		t.Fatalf("LaunchAll() error = %v", err)
	}
	if n := len(rec.Spawns()); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
	if !errors.Is(report.Failed["api"], ErrUnsupportedPlatform) {
		t.Errorf("Failed[api] = %v, want ErrUnsupportedPlatform", report.Failed["api"])
	}
	if !strings.Contains(logs.String(), "unsupported platform") {
		t.Errorf("log output = %q, want unsupported platform error", logs.String())
	}
}

func TestLaunchAll_SpawnErrorContinues(t *testing.T) {
	root := makeRoot(t, "api", "client")
	rec := execx.NewRecorder(nil)
	rec.SpawnErr = errors.New(`exec: "gnome-terminal": executable file not found in $PATH`)

	report, err := NewSpawner(LinuxTerminal{}, nil, rec, workspace.OSFS{}, root, testConfig, log.New(io.Discard)).LaunchAll()
	if err != nil {
		t.Fatalf("LaunchAll() error = %v", err)
	}
	if len(rec.Spawns()) != 2 {
		t.Errorf("spawns = %d, want both attempted", len(rec.Spawns()))
	}
	if len(report.Failed) != 2 {
		t.Errorf("Failed = %v, want both", report.Failed)
	}
}
