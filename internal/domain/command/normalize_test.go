package command

import (
	"errors"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestNormalize_SuccessDerivedFromReturnCode(t *testing.T) {
	t.Parallel()

	req := CommandRequest{Command: "true"}
	outcomes := []Outcome{
		{Kind: OutcomeExited, ExitCode: 0},
		{Kind: OutcomeExited, ExitCode: 1},
		{Kind: OutcomeExited, ExitCode: 7},
		{Kind: OutcomeExited, ExitCode: -1},
		{Kind: OutcomeTimedOut, Phase: PhaseExec, Limit: time.Second},
		{Kind: OutcomeTimedOut, Phase: PhaseLaunch, Limit: time.Second},
		{Kind: OutcomeCanceled, Phase: PhaseExec, Err: errors.New("context canceled")},
		{Kind: OutcomeFailed, Phase: PhaseLaunch, Err: errors.New("exec: not found")},
		{Kind: OutcomeFailed},
	}
	for _, out := range outcomes {
		res := Normalize(req, out)
		assert.Equal(t, res.Success, res.ReturnCode == 0, "outcome %+v", out)
		assert.Equal(t, res.Command, "true")
	}
}

func TestNormalize_Exited(t *testing.T) {
	t.Parallel()

	res := Normalize(CommandRequest{Command: "echo hi", WorkingDirectory: "/tmp"}, Outcome{
		Kind:   OutcomeExited,
		Stdout: []byte("hi\n"),
		Stderr: []byte("warn\n"),
	})

	assert.DeepEqual(t, res, CommandResult{
		Stdout:           "hi\n",
		Stderr:           "warn\n",
		ReturnCode:       0,
		Success:          true,
		Command:          "echo hi",
		WorkingDirectory: "/tmp",
	})
}

func TestNormalize_MissingWorkingDirectoryUsesSentinel(t *testing.T) {
	t.Parallel()

	res := Normalize(CommandRequest{Command: "ls"}, Outcome{Kind: OutcomeExited})
	assert.Equal(t, res.WorkingDirectory, CurrentDirectory)
}

func TestNormalize_InvalidUTF8IsReplaced(t *testing.T) {
	t.Parallel()

	res := Normalize(CommandRequest{Command: "x"}, Outcome{
		Kind:   OutcomeExited,
		Stdout: []byte{'a', 0xff, 'b'},
		Stderr: []byte{0xc3},
	})

	assert.Equal(t, res.Stdout, "a\uFFFDb")
	assert.Equal(t, res.Stderr, "\uFFFD")
	assert.Assert(t, res.Success)
}

func TestNormalize_TimeoutShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		phase Phase
		want  string
	}{
		{name: "exec", phase: PhaseExec, want: "Command timed out after 30 seconds"},
		{name: "launch", phase: PhaseLaunch, want: "Command launch timed out after 30 seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Normalize(CommandRequest{Command: "sleep 60"}, Outcome{
				Kind:   OutcomeTimedOut,
				Phase:  tt.phase,
				Limit:  30 * time.Second,
				Stdout: []byte("partial"),
			})
			assert.Equal(t, res.Stderr, tt.want)
			assert.Equal(t, res.Stdout, "")
			assert.Equal(t, res.ReturnCode, FailureReturnCode)
			assert.Assert(t, !res.Success)
		})
	}
}

func TestNormalize_LaunchFailure(t *testing.T) {
	t.Parallel()

	res := Normalize(CommandRequest{Command: "ls"}, Outcome{
		Kind:  OutcomeFailed,
		Phase: PhaseLaunch,
		Err:   errors.New("chdir /nope: no such file or directory"),
	})

	assert.Equal(t, res.ReturnCode, FailureReturnCode)
	assert.Assert(t, is.Contains(res.Stderr, "Error executing command: chdir /nope"))
	assert.Equal(t, res.Stdout, "")
}

func TestFormatSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatSeconds(30*time.Second), "30 seconds")
	assert.Equal(t, FormatSeconds(1500*time.Millisecond), "1.5 seconds")
}

func TestNewCommandRequest(t *testing.T) {
	t.Parallel()

	_, err := NewCommandRequest("   ", "")
	assert.Assert(t, errors.Is(err, ErrEmptyCommand))

	req, err := NewCommandRequest("echo  a ", " /tmp ")
	assert.NilError(t, err)
	assert.Equal(t, req.Command, "echo  a ")
	assert.Equal(t, req.WorkingDirectory, " /tmp ")
	assert.Equal(t, req.DisplayDirectory(), " /tmp ")

	req, err = NewCommandRequest("pwd", "  ")
	assert.NilError(t, err)
	assert.Equal(t, req.WorkingDirectory, "")
	assert.Equal(t, req.DisplayDirectory(), CurrentDirectory)
}
