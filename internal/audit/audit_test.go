package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdLogger_Record(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRequestID(context.Background(), "req-1")
	logger.Record(ctx, Event{Type: "tool_ok", Tool: "profile", CallID: `"c1"`})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["msg"])
	assert.Equal(t, "tool_ok", entry["type"])
	assert.Equal(t, "profile", entry["tool"])
	assert.Equal(t, `"c1"`, entry["call_id"])
	assert.Equal(t, "req-1", entry["request_id"])
}

func TestStdLogger_NilSafe(t *testing.T) {
	var l *StdLogger
	l.Record(context.Background(), Event{Type: "x"})
	New(nil).Record(context.Background(), Event{Type: "x"})
}

func TestRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
