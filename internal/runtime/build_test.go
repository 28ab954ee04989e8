package runtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/astro-mcp-server/configs"
	"github.com/codex-k8s/astro-mcp-server/internal/audit"
	"github.com/codex-k8s/astro-mcp-server/internal/catalog"
	"github.com/codex-k8s/astro-mcp-server/internal/log"
	"github.com/codex-k8s/astro-mcp-server/internal/protocol"
)

type stubCaller struct {
	mu    sync.Mutex
	calls []protocol.ToolCall
	ids   []string
}

func (s *stubCaller) Call(ctx context.Context, call protocol.ToolCall) protocol.ToolResult {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.ids = append(s.ids, audit.RequestID(ctx))
	s.mu.Unlock()

	result := protocol.ToolResult{CallID: call.CallID, ToolName: call.ToolName}
	if token, _ := call.Parameters["token"].(string); token == "good" {
		result.Payload = protocol.Payload{OwnerID: "owner-7"}
	} else {
		result.Payload = protocol.ErrorPayload("Invalid validation token")
	}
	return result
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	data, err := configs.Load(configs.DefaultCatalog)
	require.NoError(t, err)
	c, err := catalog.Load(data)
	require.NoError(t, err)
	return c
}

func connect(t *testing.T, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestBuild_ListsCatalogTools(t *testing.T) {
	cat := loadCatalog(t)
	server, err := Builder{Caller: &stubCaller{}, Logger: log.Discard()}.Build(cat)
	require.NoError(t, err)

	res, err := connect(t, server).ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, cat.Names(), names)
}

func TestBuild_CallRoutesThroughCaller(t *testing.T) {
	caller := &stubCaller{}
	server, err := Builder{Caller: caller, Logger: log.Discard()}.Build(loadCatalog(t))
	require.NoError(t, err)
	cs := connect(t, server)

	ok, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "validate",
		Arguments: map[string]any{"token": "good"},
	})
	require.NoError(t, err)
	assert.False(t, ok.IsError)
	assert.Equal(t, map[string]any{"owner_id": "owner-7"}, ok.StructuredContent)

	denied, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "validate",
		Arguments: map[string]any{"token": "bad"},
	})
	require.NoError(t, err)
	assert.True(t, denied.IsError)
	require.NotEmpty(t, denied.Content)
	text, isText := denied.Content[0].(*mcp.TextContent)
	require.True(t, isText)
	assert.Contains(t, text.Text, "Invalid validation token")

	caller.mu.Lock()
	defer caller.mu.Unlock()
	require.Len(t, caller.calls, 2)
	assert.Equal(t, "validate", caller.calls[0].ToolName)
	assert.True(t, strings.HasPrefix(string(caller.calls[0].CallID), `"`))
	assert.NotEmpty(t, caller.ids[0])
	assert.NotEqual(t, caller.ids[0], caller.ids[1])
}

func TestBuild_Errors(t *testing.T) {
	_, err := Builder{}.Build(loadCatalog(t))
	assert.Error(t, err)

	_, err = Builder{Caller: &stubCaller{}}.Build(nil)
	assert.Error(t, err)
}

func TestStreamableHandler_Serves(t *testing.T) {
	server, err := Builder{Caller: &stubCaller{}}.Build(loadCatalog(t))
	require.NoError(t, err)

	ts := httptest.NewServer(StreamableHandler(server))
	defer ts.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "http-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(context.Background(), &mcp.StreamableClientTransport{Endpoint: ts.URL, HTTPClient: http.DefaultClient}, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, res.Tools, 6)
}
