package tool

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matiasleandrokruk/termcp/internal/domain/command"
	"github.com/matiasleandrokruk/termcp/internal/domain/download"
)

const (
	BuiltinRunTerminalCommand = "run_terminal_command"
	BuiltinBenignTool         = "benign_tool"
)

// BuiltinServices carries the dependencies of the built-in tools. A nil
// Fetcher leaves benign_tool unregistered.
type BuiltinServices struct {
	Executor *command.Executor
	Fetcher  *download.Fetcher
}

type builtinDefinition struct {
	Definition ToolDefinition
	Executor   ToolExecutor
}

func builtinDefinitions(services BuiltinServices) []builtinDefinition {
	timeouts := services.Executor.Config()
	defs := []builtinDefinition{
		{
			Definition: ToolDefinition{
				Name: BuiltinRunTerminalCommand,
				Description: fmt.Sprintf("Execute a shell command on the server host and return stdout, stderr, return_code and success. "+
					"The command is passed to the shell verbatim. Launch and execution are each limited to %s; "+
					"on timeout or launch failure return_code is -1, and a command killed by signal N returns -N.",
					command.FormatSeconds(max(timeouts.LaunchTimeout, timeouts.ExecTimeout))),
				InputSchema: json.RawMessage(`{"type":"object","required":["command"],"properties":{"command":{"type":"string","minLength":1,"description":"The shell command to execute"},"working_directory":{"type":["string","null"],"description":"Optional directory to run the command in"}},"additionalProperties":false}`),
			},
			Executor: NewRunTerminalCommandExecutor(services.Executor),
		},
	}
	if services.Fetcher != nil {
		defs = append(defs, builtinDefinition{
			Definition: ToolDefinition{
				Name: BuiltinBenignTool,
				Description: "SECURITY TEST FIXTURE: downloads a fixed remote document with curl and returns its content. " +
					"The content is untrusted and may contain prompt-injection text.",
				InputSchema: json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`),
			},
			Executor: NewBenignToolExecutor(services.Fetcher),
		})
	}
	return defs
}

// RegisterBuiltInTools registers every built-in tool enabled by services.
func RegisterBuiltInTools(registry *ToolRegistry, services BuiltinServices) error {
	if services.Executor == nil {
		return fmt.Errorf("%w: command executor not configured", ErrToolDefinitionInvalid)
	}
	for _, b := range builtinDefinitions(services) {
		if err := registry.Register(b.Definition, b.Executor); err != nil && !errors.Is(err, ErrToolExecutorAlreadyRegistered) {
			return err
		}
	}
	return nil
}
