package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/termcp/internal/api"
	"github.com/matiasleandrokruk/termcp/internal/mcpserver"
	"github.com/matiasleandrokruk/termcp/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  serveStdioAction,
	}
}

func serveStdioAction(cmd *cobra.Command, _ []string) error {
	a, err := newAppFromCommand(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a.startTelemetry(ctx)

	a.logger.Info().Str("transport", "stdio").Msg("serving MCP")
	err = mcpserver.RunStdio(ctx, a.server)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newServeHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-http",
		Short: "Serve MCP over streamable HTTP together with the REST API",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  serveHTTPAction,
	}
	cmd.Flags().String("addr", "", "listen address (overrides http_addr)")
	return cmd
}

func serveHTTPAction(cmd *cobra.Command, _ []string) error {
	a, err := newAppFromCommand(cmd)
	if err != nil {
		return err
	}
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	if addr == "" {
		addr = a.cfg.HTTPAddr
	}

	ctx := cmd.Context()
	a.startTelemetry(ctx)

	router := api.NewRouter(api.Deps{
		Registry:  a.registry,
		Resources: a.resources,
		Telemetry: a.telemetry,
		MCP:       mcpserver.NewHTTPHandler(a.server),
		Logger:    a.logger,
	})
	cfg := server.DefaultConfig()
	cfg.Addr = addr
	srv := server.NewServer(router, cfg, a.logger)

	served := make(chan error, 1)
	go func() { served <- srv.Start(ctx) }()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-served
}
