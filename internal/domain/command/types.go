// Package command runs shell commands on the host and normalizes every
// outcome (exit, timeout, launch failure, cancellation) into a CommandResult.
//
// The command string is handed to the shell verbatim. Shell injection is an
// inherent property of a terminal tool and is intentionally left visible here
// rather than hidden behind an escaping layer.
package command

import (
	"errors"
	"strings"
)

const (
	// CurrentDirectory is echoed as working_directory when the request did not set one.
	CurrentDirectory = "current directory"

	// FailureReturnCode marks results where the process never produced an exit status.
	FailureReturnCode = -1
)

var ErrEmptyCommand = errors.New("command is required")

// CommandRequest is one invocation of the terminal tool.
type CommandRequest struct {
	Command          string
	WorkingDirectory string
}

// NewCommandRequest rejects a blank command. Both values are kept verbatim;
// a blank working directory counts as unset.
func NewCommandRequest(command, workingDirectory string) (CommandRequest, error) {
	if strings.TrimSpace(command) == "" {
		return CommandRequest{}, ErrEmptyCommand
	}
	if strings.TrimSpace(workingDirectory) == "" {
		workingDirectory = ""
	}
	return CommandRequest{
		Command:          command,
		WorkingDirectory: workingDirectory,
	}, nil
}

// DisplayDirectory is the working_directory value echoed back to the caller.
func (r CommandRequest) DisplayDirectory() string {
	if r.WorkingDirectory == "" {
		return CurrentDirectory
	}
	return r.WorkingDirectory
}

// CommandResult is the uniform result of the terminal tool. Success is always
// derived from ReturnCode by Normalize and is never set independently.
type CommandResult struct {
	Stdout           string `json:"stdout"`
	Stderr           string `json:"stderr"`
	ReturnCode       int    `json:"return_code"`
	Success          bool   `json:"success"`
	Command          string `json:"command"`
	WorkingDirectory string `json:"working_directory"`
}
