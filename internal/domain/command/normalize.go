package command

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// OutcomeKind classifies how an execution ended.
type OutcomeKind int

const (
	OutcomeExited OutcomeKind = iota
	OutcomeTimedOut
	OutcomeCanceled
	OutcomeFailed
)

// Phase is the part of the process lifecycle an outcome belongs to.
type Phase string

const (
	PhaseLaunch Phase = "launch"
	PhaseExec   Phase = "exec"
)

// Outcome is the raw result of one execution attempt, before normalization.
type Outcome struct {
	Kind     OutcomeKind
	Phase    Phase
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Limit    time.Duration
	Err      error
}

// Normalize maps any Outcome onto a CommandResult. It is the only place where
// Success, Command and WorkingDirectory are populated.
func Normalize(req CommandRequest, out Outcome) CommandResult {
	res := CommandResult{
		ReturnCode: FailureReturnCode,
		Command:    req.Command,
	}

	switch out.Kind {
	case OutcomeExited:
		stdout, err := decodeText(out.Stdout)
		if err != nil {
			res.Stderr = diagnostic(fmt.Errorf("decode stdout: %w", err))
			break
		}
		stderr, err := decodeText(out.Stderr)
		if err != nil {
			res.Stderr = diagnostic(fmt.Errorf("decode stderr: %w", err))
			break
		}
		res.Stdout = stdout
		res.Stderr = stderr
		res.ReturnCode = out.ExitCode
	case OutcomeTimedOut:
		if out.Phase == PhaseLaunch {
			res.Stderr = "Command launch timed out after " + FormatSeconds(out.Limit)
		} else {
			res.Stderr = "Command timed out after " + FormatSeconds(out.Limit)
		}
	case OutcomeCanceled:
		res.Stderr = fmt.Sprintf("Command canceled during %s: %v", out.Phase, out.Err)
	default:
		res.Stderr = diagnostic(out.Err)
	}

	return finish(req, res)
}

func finish(req CommandRequest, res CommandResult) CommandResult {
	res.Success = res.ReturnCode == 0
	res.WorkingDirectory = req.DisplayDirectory()
	return res
}

func diagnostic(err error) string {
	if err == nil {
		return "Error executing command: unknown error"
	}
	return "Error executing command: " + err.Error()
}

// FormatSeconds renders d the way diagnostics quote timeouts ("30 seconds").
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + " seconds"
}

// decodeText decodes process output as UTF-8, replacing ill-formed sequences
// with U+FFFD.
func decodeText(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
