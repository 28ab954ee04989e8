// Package provider wraps the external generative-text service.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// Generator produces text for a prompt.
type Generator interface {
	// Generate returns the provider's text for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ErrNotConfigured is returned when the provider credential is unset.
var ErrNotConfigured = errors.New("provider API key is not configured")

// Error is a transport or provider-side failure.
type Error struct {
	// StatusCode is the HTTP status, zero for transport failures.
	StatusCode int
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	msg := "provider error"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("provider error (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}
