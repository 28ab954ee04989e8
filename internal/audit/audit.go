package audit

import (
	"context"
	"log/slog"
)

// Event represents an audit entry for one tool call.
type Event struct {
	// Type describes the event kind.
	Type string
	// Tool is the tool name.
	Tool string
	// CallID is the caller-chosen call identifier, as raw JSON text.
	CallID string
	// Reason provides additional context, such as the error text.
	Reason string
}

// Logger records audit events.
type Logger interface {
	// Record stores an audit event.
	Record(ctx context.Context, event Event)
}

// StdLogger writes audit events to slog.
type StdLogger struct {
	logger *slog.Logger
}

// New returns a StdLogger.
func New(logger *slog.Logger) *StdLogger {
	return &StdLogger{logger: logger}
}

// Record logs an audit event tagged with the request id from ctx.
func (l *StdLogger) Record(ctx context.Context, event Event) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "audit",
		slog.String("type", event.Type),
		slog.String("tool", event.Tool),
		slog.String("call_id", event.CallID),
		slog.String("request_id", RequestID(ctx)),
		slog.String("reason", event.Reason),
	)
}

type requestIDKey struct{}

// WithRequestID returns ctx carrying the HTTP request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
