//go:build !windows

package execx

import (
	"os/exec"
	"syscall"
)

// setProcGroup configures the command to run in its own process group so it
// survives the orchestrator exiting and does not receive its terminal signals.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
