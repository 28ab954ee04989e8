// Package dispatch routes tool calls to their handlers and assembles the
// correlated results of a batch.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/codex-k8s/astro-mcp-server/internal/audit"
	"github.com/codex-k8s/astro-mcp-server/internal/auth"
	"github.com/codex-k8s/astro-mcp-server/internal/catalog"
	"github.com/codex-k8s/astro-mcp-server/internal/constants"
	"github.com/codex-k8s/astro-mcp-server/internal/profile"
	"github.com/codex-k8s/astro-mcp-server/internal/prompt"
	"github.com/codex-k8s/astro-mcp-server/internal/protocol"
	"github.com/codex-k8s/astro-mcp-server/internal/provider"
	"github.com/codex-k8s/astro-mcp-server/internal/security"
	"github.com/codex-k8s/astro-mcp-server/internal/templates"
)

// Handler runs one tool. A returned error is converted into an error payload
// by the dispatcher; handlers may also return an error payload directly.
type Handler func(ctx context.Context, args map[string]any) (protocol.Payload, error)

// Config holds the dispatcher collaborators.
type Config struct {
	// Catalog is the tool registry returned during the handshake.
	Catalog *catalog.Catalog
	// Generator is the provider gateway.
	Generator provider.Generator
	// Prompts builds provider prompts.
	Prompts *prompt.Builder
	// Messages renders error and informational texts.
	Messages templates.Renderer
	// Auth checks tokens passed to the validate tool.
	Auth *auth.Authenticator
	// OwnerID is returned by a successful validate call.
	OwnerID string
	// Profiles computes profile attributes. Defaults to profile.Compute.
	Profiles profile.Func
	// Now is the clock used for daily prompts. Defaults to time.Now.
	Now func() time.Time
	// Parallel runs the calls of a batch concurrently.
	Parallel bool
	// MaxParallel bounds concurrent calls. Zero means 4.
	MaxParallel int
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records per-call events.
	Audit audit.Logger
}

// Dispatcher executes tool call batches. It is safe for concurrent use.
type Dispatcher struct {
	catalog     *catalog.Catalog
	generator   provider.Generator
	prompts     *prompt.Builder
	messages    templates.Renderer
	auth        *auth.Authenticator
	ownerID     string
	profiles    profile.Func
	now         func() time.Time
	parallel    bool
	maxParallel int
	logger      *slog.Logger
	audit       audit.Logger
	handlers    map[string]Handler
}

// New builds a Dispatcher and checks that every catalog tool is routable.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if cfg.Generator == nil {
		return nil, errors.New("generator is required")
	}
	if cfg.Prompts == nil {
		return nil, errors.New("prompt builder is required")
	}
	if cfg.Auth == nil {
		return nil, errors.New("authenticator is required")
	}

	d := &Dispatcher{
		catalog:     cfg.Catalog,
		generator:   cfg.Generator,
		prompts:     cfg.Prompts,
		messages:    cfg.Messages,
		auth:        cfg.Auth,
		ownerID:     cfg.OwnerID,
		profiles:    cfg.Profiles,
		now:         cfg.Now,
		parallel:    cfg.Parallel,
		maxParallel: cfg.MaxParallel,
		logger:      cfg.Logger,
		audit:       cfg.Audit,
	}
	if d.profiles == nil {
		d.profiles = profile.Compute
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.maxParallel <= 0 {
		d.maxParallel = 4
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}

	d.handlers = map[string]Handler{
		constants.ToolValidate: d.validate,
		constants.ToolProfile:  d.profile,
		constants.ToolExplore:  d.explore,
		constants.ToolCompare:  d.compare,
		constants.ToolDaily:    d.daily,
		constants.ToolLifePath: d.lifePath,
	}
	for _, name := range cfg.Catalog.Names() {
		if _, ok := d.handlers[name]; !ok {
			return nil, fmt.Errorf("catalog tool %q has no handler", name)
		}
	}
	return d, nil
}

// Dispatch answers a request: the catalog when it carries no calls,
// otherwise one result per call in input order.
func (d *Dispatcher) Dispatch(ctx context.Context, req protocol.Request) protocol.Response {
	if len(req.ToolCalls) == 0 {
		return protocol.Response{Tools: d.catalog.Descriptors()}
	}
	return protocol.Response{ToolResults: d.Execute(ctx, req.ToolCalls)}
}

// Execute runs every call and returns results in input order.
func (d *Dispatcher) Execute(ctx context.Context, calls []protocol.ToolCall) []protocol.ToolResult {
	results := make([]protocol.ToolResult, len(calls))
	if !d.parallel || len(calls) < 2 {
		for i, call := range calls {
			results[i] = d.Call(ctx, call)
		}
		return results
	}

	sem := make(chan struct{}, d.maxParallel)
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = d.Call(ctx, call)
		}()
	}
	wg.Wait()
	return results
}

// Call runs a single tool call. It never fails: every error becomes an
// error payload on the returned result.
func (d *Dispatcher) Call(ctx context.Context, call protocol.ToolCall) protocol.ToolResult {
	callID := string(call.CallID)
	d.logger.Info("tool call",
		"tool", call.ToolName,
		"call_id", callID,
		"request_id", audit.RequestID(ctx),
		"args", security.RedactArguments(call.Parameters),
	)
	d.record(ctx, audit.Event{Type: constants.EventToolCall, Tool: call.ToolName, CallID: callID})

	started := time.Now()
	payload, err := d.run(ctx, call)
	switch {
	case err != nil:
		payload = protocol.ErrorPayload(err.Error())
		d.logger.Warn("tool failed", "tool", call.ToolName, "call_id", callID, "error", err)
		d.record(ctx, audit.Event{Type: constants.EventToolError, Tool: call.ToolName, CallID: callID, Reason: err.Error()})
	case payload.Failed():
		d.record(ctx, audit.Event{Type: constants.EventToolRejected, Tool: call.ToolName, CallID: callID, Reason: payload.Error})
	default:
		d.record(ctx, audit.Event{Type: constants.EventToolOK, Tool: call.ToolName, CallID: callID})
	}
	d.logger.Debug("tool call done", "tool", call.ToolName, "call_id", callID, "duration", time.Since(started))

	return protocol.ToolResult{
		CallID:   call.CallID,
		ToolName: call.ToolName,
		Payload:  payload,
	}
}

func (d *Dispatcher) run(ctx context.Context, call protocol.ToolCall) (payload protocol.Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool panicked", "tool", call.ToolName, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			payload = protocol.Payload{}
			err = errors.New(d.message("error.internal", map[string]any{"Name": call.ToolName},
				fmt.Sprintf("Internal error while running tool %q", call.ToolName)))
		}
	}()

	if call.Invalid != "" {
		return protocol.ErrorPayload(d.message("error.invalid_call", map[string]any{"Reason": call.Invalid},
			"invalid tool call: "+call.Invalid)), nil
	}

	handler, ok := d.handlers[call.ToolName]
	if !ok {
		return protocol.ErrorPayload(d.message("error.unknown_tool", map[string]any{"Name": call.ToolName},
			fmt.Sprintf("Tool %q not implemented on this server.", call.ToolName))), nil
	}
	return handler(ctx, call.Parameters)
}

func (d *Dispatcher) record(ctx context.Context, event audit.Event) {
	if d.audit != nil {
		d.audit.Record(ctx, event)
	}
}

func (d *Dispatcher) message(key string, data any, fallback string) string {
	return templates.RenderOr(d.messages, key, data, fallback)
}
