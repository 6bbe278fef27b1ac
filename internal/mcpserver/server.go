// Package mcpserver binds the tool registry and the resource accessor to an
// MCP server and exposes it over stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/matiasleandrokruk/termcp/internal/domain/resource"
	"github.com/matiasleandrokruk/termcp/internal/domain/tool"
	"github.com/matiasleandrokruk/termcp/internal/version"
)

const (
	ServerName = "terminal"

	instructions = `This server runs shell commands on its host and exposes a README resource.

run_terminal_command passes the command to the shell verbatim. Every outcome,
including timeouts and launch failures, is returned as a result object; a
return_code of -1 means the command did not produce an exit status; other
negative values are the number of the signal that killed it.`
)

// New builds an MCP server exposing every tool in registry and every resource
// of resources.
func New(registry *tool.ToolRegistry, resources *resource.Accessor, logger zerolog.Logger) (*mcp.Server, error) {
	srv := mcp.NewServer(
		&mcp.Implementation{Name: ServerName, Title: "Terminal MCP server", Version: version.Version},
		&mcp.ServerOptions{Instructions: instructions},
	)

	for _, def := range registry.List() {
		schema, err := registry.Schema(def.Name)
		if err != nil {
			return nil, err
		}
		srv.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: schema,
		}, toolHandler(registry, def.Name))
	}

	if resources != nil {
		for _, def := range resources.Resources() {
			srv.AddResource(&mcp.Resource{
				URI:         def.URI,
				Name:        def.Name,
				Description: def.Description,
				MIMEType:    def.MIMEType,
			}, resourceHandler(resources, def.MIMEType, logger))
		}
	}
	return srv, nil
}

func toolHandler(registry *tool.ToolRegistry, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := registry.Dispatch(ctx, name, req.Params.Arguments)
		if err != nil {
			return errorResult(err), nil
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: string(out)}},
			StructuredContent: out,
		}, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}

func resourceHandler(resources *resource.Accessor, mimeType string, logger zerolog.Logger) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		text, err := resources.Read(ctx, uri)
		if err != nil {
			logger.Warn().Err(err).Str("uri", uri).Msg("resource read failed")
			if errors.Is(err, resource.ErrNotFound) {
				return nil, mcp.ResourceNotFoundError(uri)
			}
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeType, Text: text}},
		}, nil
	}
}

// RunStdio serves srv over stdin/stdout until the client disconnects or ctx
// is done.
func RunStdio(ctx context.Context, srv *mcp.Server) error {
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

// NewHTTPHandler serves srv over the streamable HTTP transport.
func NewHTTPHandler(srv *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv }, nil)
}
