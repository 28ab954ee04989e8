// Package handler serves the batch tool endpoint and the informational routes.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/codex-k8s/astro-mcp-server/internal/audit"
	"github.com/codex-k8s/astro-mcp-server/internal/auth"
	"github.com/codex-k8s/astro-mcp-server/internal/constants"
	"github.com/codex-k8s/astro-mcp-server/internal/protocol"
)

// MaxBodyBytes bounds the size of a POST /mcp body.
const MaxBodyBytes = 1 << 20

// StatusMessage is returned by GET /mcp.
const StatusMessage = "MCP server is running!"

const infoNote = "POST /mcp with a Bearer token. An empty body lists the tools; tool_calls runs them."

// Dispatcher answers decoded batch requests.
type Dispatcher interface {
	Dispatch(ctx context.Context, req protocol.Request) protocol.Response
}

// Config holds handler dependencies.
type Config struct {
	// Dispatcher runs tool calls.
	Dispatcher Dispatcher
	// Auth guards POST /mcp.
	Auth *auth.Authenticator
	// ToolsCount is reported by GET /.
	ToolsCount int
	// Logger is used for structured logging.
	Logger *slog.Logger
}

// Handler serves the batch endpoint.
type Handler struct {
	dispatcher Dispatcher
	auth       *auth.Authenticator
	toolsCount int
	logger     *slog.Logger
}

// New returns a Handler.
func New(cfg Config) (*Handler, error) {
	if cfg.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if cfg.Auth == nil {
		return nil, errors.New("authenticator is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dispatcher: cfg.Dispatcher,
		auth:       cfg.Auth,
		toolsCount: cfg.ToolsCount,
		logger:     logger,
	}, nil
}

// Routes returns the handler's routes keyed by ServeMux pattern.
func (h *Handler) Routes() map[string]http.Handler {
	return map[string]http.Handler{
		"POST /mcp": h.auth.Middleware(http.HandlerFunc(h.Batch)),
		"GET /mcp":  http.HandlerFunc(h.Status),
		"GET /{$}":  http.HandlerFunc(h.Info),
	}
}

// Batch decodes a request and answers with the catalog or the call results.
// An unreadable or malformed body is answered as a handshake. A single
// undecodable call still gets its own error result.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	ctx := audit.WithRequestID(r.Context(), requestID)

	req, err := decode(w, r)
	if err != nil {
		h.logger.Warn("malformed request body, answering with catalog", "request_id", requestID, "error", err)
	}
	h.logger.Debug("batch request", "request_id", requestID, "calls", len(req.ToolCalls))

	resp := h.dispatcher.Dispatch(ctx, req)
	w.Header().Set("X-Request-Id", requestID)
	writeJSON(w, http.StatusOK, resp)
}

// Status reports that the server is up.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, protocol.StatusResponse{Message: StatusMessage})
}

// Info describes the server.
func (h *Handler) Info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, protocol.InfoResponse{
		Server:     constants.ServerName,
		Version:    constants.ServerVersion,
		ToolsCount: h.toolsCount,
		Note:       infoNote,
	})
}

func decode(w http.ResponseWriter, r *http.Request) (protocol.Request, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return protocol.Request{}, err
	}
	if len(body) == 0 {
		return protocol.Request{}, nil
	}
	return protocol.ParseRequest(body)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
