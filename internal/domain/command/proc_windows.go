package command

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"
)

const (
	defaultShell     = "cmd.exe"
	defaultShellFlag = "/C"

	treeKillTimeout = 5 * time.Second
)

func exitStatus(state *os.ProcessState) int {
	return state.ExitCode()
}

// configureProcess starts the shell in a new process group and kills the
// whole tree on cancel. taskkill walks the descendants of the shell's pid.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), treeKillTimeout)
		defer cancel()
		kill := exec.CommandContext(ctx, "taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
		if err := kill.Run(); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}
