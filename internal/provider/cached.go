package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/codex-k8s/astro-mcp-server/internal/idempotency"
)

// Cached serves repeated prompts from a TTL cache. Failures are not cached.
type Cached struct {
	Inner Generator
	Cache *idempotency.Cache
	// Namespace separates keys of different models.
	Namespace string
	Logger    *slog.Logger
}

// Generate returns a cached response for prompt or asks Inner.
func (c Cached) Generate(ctx context.Context, prompt string) (string, error) {
	if c.Cache == nil {
		return c.Inner.Generate(ctx, prompt)
	}
	key := cacheKey(c.Namespace, prompt)
	if text, ok := c.Cache.Get(key); ok {
		if c.Logger != nil {
			c.Logger.Debug("provider cache hit", "key", key[:12])
		}
		return text, nil
	}
	text, err := c.Inner.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.Cache.Set(key, text)
	return text, nil
}

func cacheKey(namespace, prompt string) string {
	sum := sha256.Sum256([]byte(namespace + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
