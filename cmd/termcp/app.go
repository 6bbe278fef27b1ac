package main

import (
	"context"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/termcp/internal/domain/command"
	"github.com/matiasleandrokruk/termcp/internal/domain/download"
	"github.com/matiasleandrokruk/termcp/internal/domain/resource"
	"github.com/matiasleandrokruk/termcp/internal/domain/tool"
	"github.com/matiasleandrokruk/termcp/internal/infra/config"
	"github.com/matiasleandrokruk/termcp/internal/infra/eventbus"
	"github.com/matiasleandrokruk/termcp/internal/infra/logging"
	"github.com/matiasleandrokruk/termcp/internal/mcpserver"
)

// app is the wired object graph shared by every subcommand.
type app struct {
	cfg       config.Config
	logger    zerolog.Logger
	bus       *eventbus.Bus
	registry  *tool.ToolRegistry
	resources *resource.Accessor
	telemetry *tool.Telemetry
	server    *mcp.Server
}

func newAppFromCommand(cmd *cobra.Command) (*app, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, cmd.ErrOrStderr())
}

func newApp(cfg config.Config, logOut io.Writer) (*app, error) {
	logger := logging.New(cfg.Log, logOut)

	executor := command.NewExecutor(command.Config{
		Shell:         cfg.Shell,
		LaunchTimeout: cfg.LaunchTimeout,
		ExecTimeout:   cfg.ExecTimeout,
		WaitDelay:     cfg.WaitDelay,
	}, logger)

	services := tool.BuiltinServices{Executor: executor}
	if cfg.EnableDownloadDemo {
		logger.Warn().Str("url", download.DemoURL).Msg("download demo tool enabled; it returns untrusted remote content")
		services.Fetcher = download.NewFetcher(executor)
	}

	bus := eventbus.New()
	registry := tool.NewToolRegistry(bus, logger)
	if err := tool.RegisterBuiltInTools(registry, services); err != nil {
		return nil, err
	}

	resources := resource.NewAccessor(resource.Config{Dir: cfg.ReadmeDir, Name: cfg.ReadmeName}, logger)
	srv, err := mcpserver.New(registry, resources, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		bus:       bus,
		registry:  registry,
		resources: resources,
		telemetry: tool.NewTelemetry(logger),
		server:    srv,
	}, nil
}

// startTelemetry consumes invocation events until ctx is done.
func (a *app) startTelemetry(ctx context.Context) {
	go a.telemetry.Run(ctx, a.bus)
}
