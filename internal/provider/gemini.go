package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultGeminiURL is the public Gemini models endpoint.
const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models"

const maxResponseBytes = 4 << 20

// HTTPClient is the subset of *http.Client used by Gemini.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Gemini calls the Gemini generateContent REST API.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  HTTPClient
}

// GeminiConfig configures a Gemini client.
type GeminiConfig struct {
	// APIKey is the provider credential. Empty keys fail every call with ErrNotConfigured.
	APIKey string
	// Model selects the model, for example "gemini-1.5-flash".
	Model string
	// BaseURL overrides DefaultGeminiURL.
	BaseURL string
	// Timeout bounds one round trip. Zero means 30s.
	Timeout time.Duration
	// Client overrides the HTTP client. Timeout is ignored when set.
	Client HTTPClient
}

// NewGemini returns a Gemini client.
func NewGemini(cfg GeminiConfig) *Gemini {
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Gemini{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *geminiError `json:"error,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Generate sends prompt to Gemini and returns the concatenated candidate text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(g.apiKey) == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode provider request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build provider request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(request)
	if err != nil {
		return "", &Error{Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &Error{StatusCode: resp.StatusCode, Message: "read response", Cause: err}
	}

	var parsed geminiResponse
	decodeErr := json.Unmarshal(data, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(data))
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}
		return "", &Error{StatusCode: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return "", &Error{StatusCode: resp.StatusCode, Message: "invalid response", Cause: decodeErr}
	}
	if parsed.Error != nil {
		return "", &Error{StatusCode: parsed.Error.Code, Message: parsed.Error.Message}
	}
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", &Error{StatusCode: resp.StatusCode, Message: "prompt blocked: " + parsed.PromptFeedback.BlockReason}
	}

	var out strings.Builder
	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			out.WriteString(part.Text)
		}
		if out.Len() > 0 {
			break
		}
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", &Error{StatusCode: resp.StatusCode, Message: "empty response"}
	}
	return text, nil
}
