package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Info is the surface a client sees after connecting.
type Info struct {
	Tools     []*mcp.Tool     `json:"tools"`
	Resources []*mcp.Resource `json:"resources"`
}

// Inspect connects an in-memory client to srv and lists its tools and
// resources. Both sessions are closed before it returns.
func Inspect(ctx context.Context, srv *mcp.Server) (_ *Info, err error) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := srv.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = serverSession.Close()
		}
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = clientSession.Close()
		}
	}()

	toolsResult, err := clientSession.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, err
	}
	resourcesResult, err := clientSession.ListResources(ctx, &mcp.ListResourcesParams{})
	if err != nil {
		return nil, err
	}
	if err = clientSession.Close(); err != nil {
		return nil, err
	}
	if err = serverSession.Wait(); err != nil {
		return nil, err
	}
	return &Info{Tools: toolsResult.Tools, Resources: resourcesResult.Resources}, nil
}
