//go:build !windows

package command

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

const (
	defaultShell     = "/bin/sh"
	defaultShellFlag = "-c"
)

// exitStatus is the exit code, or the negated signal number when the process
// was killed by a signal.
func exitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}
	return state.ExitCode()
}

// configureProcess puts the shell in its own process group so that a timeout
// kills everything the command spawned, not just the shell.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
