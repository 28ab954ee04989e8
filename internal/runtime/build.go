// Package runtime exposes the dispatcher's tools as a standard MCP server.
package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codex-k8s/astro-mcp-server/internal/audit"
	"github.com/codex-k8s/astro-mcp-server/internal/catalog"
	"github.com/codex-k8s/astro-mcp-server/internal/constants"
	"github.com/codex-k8s/astro-mcp-server/internal/protocol"
)

// Caller runs a single tool call.
type Caller interface {
	Call(ctx context.Context, call protocol.ToolCall) protocol.ToolResult
}

// Builder constructs an MCP server backed by a Caller.
type Builder struct {
	// Caller executes tool calls.
	Caller Caller
	// Logger is used for structured logging.
	Logger *slog.Logger
}

// Build creates an MCP server with one tool per catalog entry.
func (b Builder) Build(cat *catalog.Catalog) (*mcp.Server, error) {
	if b.Caller == nil {
		return nil, errors.New("caller is required")
	}
	if cat == nil {
		return nil, errors.New("catalog is required")
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    constants.ServerName,
		Version: constants.ServerVersion,
	}, nil)

	for _, tool := range cat.Tools() {
		b.addTool(server, tool)
	}
	return server, nil
}

func (b Builder) addTool(server *mcp.Server, tool catalog.Tool) {
	mcpTool := &mcp.Tool{
		Name:        tool.Name,
		Title:       tool.Title,
		Description: tool.Description,
		InputSchema: tool.InputSchema,
	}

	mcp.AddTool(server, mcpTool, func(ctx context.Context, _ *mcp.CallToolRequest, input map[string]any) (*mcp.CallToolResult, protocol.Payload, error) {
		id := uuid.NewString()
		ctx = audit.WithRequestID(ctx, id)
		if b.Logger != nil {
			b.Logger.Debug("mcp tool call", "tool", tool.Name, "request_id", id)
		}

		result := b.Caller.Call(ctx, protocol.ToolCall{
			ToolName:   tool.Name,
			CallID:     json.RawMessage(strconv.Quote(id)),
			Parameters: input,
		})
		if result.Payload.Failed() {
			return nil, protocol.Payload{}, errors.New(result.Payload.Error)
		}
		return nil, result.Payload, nil
	})
}

// StreamableHandler serves server over MCP streamable HTTP.
func StreamableHandler(server *mcp.Server) *mcp.StreamableHTTPHandler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}
