package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/matiasleandrokruk/termcp/internal/domain/command"
	"github.com/matiasleandrokruk/termcp/internal/domain/download"
)

var ErrBuiltinExecutionFailed = errors.New("builtin tool execution failed")

type RunTerminalCommandExecutor struct{ exec *command.Executor }

func NewRunTerminalCommandExecutor(exec *command.Executor) ToolExecutor {
	return &RunTerminalCommandExecutor{exec: exec}
}

type runTerminalCommandParams struct {
	Command          string  `json:"command"`
	WorkingDirectory *string `json:"working_directory"`
}

func (e *RunTerminalCommandExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	if e.exec == nil {
		return nil, fmt.Errorf("%w: executor not configured", ErrBuiltinExecutionFailed)
	}

	var in runTerminalCommandParams
	if err := json.Unmarshal(params, &in); err != nil {
		return nil, fmt.Errorf("%w: invalid params", ErrToolValidationFailed)
	}
	req, err := command.NewCommandRequest(in.Command, derefString(in.WorkingDirectory))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolValidationFailed, err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("command", req.Command).Str("working_directory", req.DisplayDirectory()).Msg("running command")

	res := e.exec.Run(ctx, req)
	logger.Info().Int("return_code", res.ReturnCode).Bool("success", res.Success).Msg("command finished")

	return marshalResult(res)
}

type BenignToolExecutor struct{ fetcher *download.Fetcher }

func NewBenignToolExecutor(fetcher *download.Fetcher) ToolExecutor {
	return &BenignToolExecutor{fetcher: fetcher}
}

func (e *BenignToolExecutor) Execute(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	if e.fetcher == nil {
		return nil, fmt.Errorf("%w: fetcher not configured", ErrBuiltinExecutionFailed)
	}
	res := e.fetcher.Fetch(ctx)
	zerolog.Ctx(ctx).Info().Bool("success", res.Success).Str("url", res.URL).Msg("download finished")
	return marshalResult(res)
}

func marshalResult(v any) (json.RawMessage, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode result: %v", ErrBuiltinExecutionFailed, err)
	}
	return out, nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
