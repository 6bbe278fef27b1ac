//go:build windows

package command

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestConfigureProcess_CancelKillsTree(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("cmd.exe", "/C", "ping -n 30 127.0.0.1 > nul")
	configureProcess(cmd)
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	child := waitChildPID(t, cmd.Process.Pid)
	if err := cmd.Cancel(); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	_ = cmd.Wait()

	deadline := time.Now().Add(5 * time.Second)
	for processRunning(t, child) {
		if time.Now().After(deadline) {
			t.Fatalf("child %d of the shell survived cancel", child)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func waitChildPID(t *testing.T, parent int) int {
	t.Helper()
	query := fmt.Sprintf("(Get-CimInstance Win32_Process -Filter 'ParentProcessId=%d').ProcessId", parent)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		out, err := exec.Command("powershell", "-NoProfile", "-Command", query).Output()
		if err == nil {
			if fields := strings.Fields(string(out)); len(fields) > 0 {
				if pid, err := strconv.Atoi(fields[0]); err == nil {
					return pid
				}
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("no child process of %d appeared", parent)
	return 0
}

func processRunning(t *testing.T, pid int) bool {
	t.Helper()
	out, err := exec.Command("tasklist", "/FI", fmt.Sprintf("PID eq %d", pid), "/NH").Output()
	if err != nil {
		t.Fatalf("tasklist error = %v", err)
	}
	return strings.Contains(string(out), strconv.Itoa(pid))
}
