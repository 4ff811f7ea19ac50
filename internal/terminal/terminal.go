// Package terminal opens a native terminal session per project running the
// project's dev server.
//
// Sessions are detached: devup never waits on them and does not supervise
// the servers they run.
package terminal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tr2ge/devup/internal/execx"
)

// ErrUnsupportedPlatform is returned by ForPlatform for operating systems
// without a terminal launcher.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Launcher builds the command that opens a terminal session running
// startCommand inside projectPath.
type Launcher interface {
	// Name identifies the mechanism in log output.
	Name() string

	// Command returns the detached command to spawn.
	Command(projectPath, startCommand string) execx.Command
}

// ForPlatform selects the launcher for a GOOS value.
//
// Parameters:
//   - goos: runtime.GOOS or a substitute in tests
//
// Returns:
//   - Launcher: The launcher for that platform
//   - error: ErrUnsupportedPlatform (wrapped) for anything else
func ForPlatform(goos string) (Launcher, error) {
	switch goos {
	case "darwin":
		return MacTerminal{}, nil
	case "linux":
		return LinuxTerminal{}, nil
	case "windows":
		return WindowsConsole{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// MacTerminal scripts Terminal.app through osascript.
type MacTerminal struct{}

// Name implements Launcher.
func (MacTerminal) Name() string { return "Terminal.app" }

// Command implements Launcher.
func (MacTerminal) Command(projectPath, startCommand string) execx.Command {
	script := fmt.Sprintf("cd %s && %s", shellQuote(projectPath), startCommand)
	return execx.Command{
		Name: "osascript",
		Args: []string{"-e", fmt.Sprintf(`tell application "Terminal" to do script "%s"`, appleScriptEscape(script))},
		Dir:  projectPath,
	}
}

// LinuxTerminal opens gnome-terminal running an interactive bash that stays
// open after the start command exits.
type LinuxTerminal struct{}

// Name implements Launcher.
func (LinuxTerminal) Name() string { return "gnome-terminal" }

// Command implements Launcher.
func (LinuxTerminal) Command(projectPath, startCommand string) execx.Command {
	return execx.Command{
		Name: "gnome-terminal",
		Args: []string{"--", "bash", "-c", fmt.Sprintf("cd %s && %s; exec bash", shellQuote(projectPath), startCommand)},
		Dir:  projectPath,
	}
}

// WindowsConsole opens a new console host window with cmd /k.
type WindowsConsole struct{}

// Name implements Launcher.
func (WindowsConsole) Name() string { return "cmd.exe" }

// Command implements Launcher.
//
// The script after /k is a single argument with no embedded quotes. Windows
// argument escaping turns inner quotes into \", which cmd.exe does not
// understand.
func (WindowsConsole) Command(projectPath, startCommand string) execx.Command {
	return execx.Command{
		Name: "cmd.exe",
		Args: []string{"/c", "start", "cmd", "/k", "cd /d " + projectPath + " && " + startCommand},
		Dir:  projectPath,
	}
}

// shellQuote single-quotes s for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// appleScriptEscape escapes s for use inside an AppleScript string literal.
func appleScriptEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
