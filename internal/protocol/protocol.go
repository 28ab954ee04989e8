package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Request is the JSON body accepted by POST /mcp.
type Request struct {
	// ToolCalls is the batch to execute. Absent or empty selects the handshake.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a single named invocation inside a batch.
type ToolCall struct {
	// ToolName selects the handler.
	ToolName string `json:"tool_name"`
	// CallID is caller-chosen and echoed back unchanged.
	CallID json.RawMessage `json:"call_id,omitempty"`
	// Parameters are the tool arguments.
	Parameters map[string]any `json:"parameters,omitempty"`
	// Invalid is set by ParseRequest when the call could not be decoded.
	// Such calls are answered with an error and never routed.
	Invalid string `json:"-"`
}

// ToolResult is the outcome of one ToolCall.
type ToolResult struct {
	// CallID is copied from the originating call.
	CallID json.RawMessage `json:"call_id"`
	// ToolName is copied from the originating call.
	ToolName string `json:"tool_name"`
	// Payload carries either a success value or an error.
	Payload Payload `json:"payload"`
}

// Payload is the per-call result body. Exactly one field is set.
type Payload struct {
	// Content is generated provider text.
	Content string `json:"content,omitempty"`
	// OwnerID is returned by a successful validate call.
	OwnerID string `json:"owner_id,omitempty"`
	// Message is an informational reply that did not reach the provider.
	Message string `json:"message,omitempty"`
	// Error describes a failed call.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the payload is error-shaped.
func (p Payload) Failed() bool {
	return p.Error != ""
}

// ErrorPayload returns an error-shaped payload.
func ErrorPayload(message string) Payload {
	return Payload{Error: message}
}

// ToolDescriptor is a catalog entry returned during the handshake.
type ToolDescriptor struct {
	// Name is the tool name used in ToolCall.ToolName.
	Name string `json:"name"`
	// Description explains the tool for the agent.
	Description string `json:"description"`
	// Parameters is the JSON Schema of the tool input.
	Parameters map[string]any `json:"parameters"`
}

// Response is the JSON body returned by POST /mcp. Exactly one field is set.
type Response struct {
	// Tools is the catalog snapshot (handshake).
	Tools []ToolDescriptor `json:"tools,omitempty"`
	// ToolResults holds one result per call (execute).
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

// ErrorResponse is the body used for transport-level failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is returned by the liveness probe on GET /mcp.
type StatusResponse struct {
	Message string `json:"message"`
}

// InfoResponse is returned by GET /.
type InfoResponse struct {
	Server     string `json:"server"`
	Version    string `json:"version"`
	ToolsCount int    `json:"tools_count"`
	Note       string `json:"note"`
}

// ErrMalformedRequest is returned by ParseRequest for bodies that are not a
// JSON object or whose tool_calls is not an array.
var ErrMalformedRequest = errors.New("malformed request")

// ParseRequest decodes a POST /mcp body. Calls are decoded one by one, so a
// mistyped call is kept as an Invalid entry instead of failing the batch.
func ParseRequest(data []byte) (Request, error) {
	var envelope struct {
		ToolCalls json.RawMessage `json:"tool_calls"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	if len(envelope.ToolCalls) == 0 || string(envelope.ToolCalls) == "null" {
		return Request{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(envelope.ToolCalls, &items); err != nil {
		return Request{}, fmt.Errorf("%w: tool_calls: %w", ErrMalformedRequest, err)
	}
	calls := make([]ToolCall, len(items))
	for i, item := range items {
		calls[i] = decodeCall(item)
	}
	return Request{ToolCalls: calls}, nil
}

func decodeCall(item json.RawMessage) ToolCall {
	var call ToolCall
	err := json.Unmarshal(item, &call)
	if err == nil {
		return call
	}

	// Salvage what can be echoed back.
	salvaged := ToolCall{Invalid: err.Error()}
	var fields map[string]json.RawMessage
	if json.Unmarshal(item, &fields) == nil {
		if id, ok := fields["call_id"]; ok {
			salvaged.CallID = id
		}
		_ = json.Unmarshal(fields["tool_name"], &salvaged.ToolName)
	}
	return salvaged
}
