package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the server.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `env:"ASTRO_MCP_LISTEN" envDefault:":8080"`
	// LogLevel sets the logger level.
	LogLevel string `env:"ASTRO_MCP_LOG_LEVEL" envDefault:"info"`
	// Lang selects message language for templates.
	Lang string `env:"ASTRO_MCP_LANG" envDefault:"en"`

	// AuthToken is the shared bearer secret.
	AuthToken string `env:"ASTRO_MCP_AUTH_TOKEN,required,notEmpty"`
	// OwnerID is returned by the validate tool on success.
	OwnerID string `env:"ASTRO_MCP_OWNER_ID,required,notEmpty"`

	// GeminiAPIKey is the provider credential. Checked on every generation.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	// GeminiModel selects the provider model.
	GeminiModel string `env:"ASTRO_MCP_GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	// GeminiURL is the provider models endpoint.
	GeminiURL string `env:"ASTRO_MCP_GEMINI_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/models"`
	// ProviderTimeout bounds a single provider round trip.
	ProviderTimeout time.Duration `env:"ASTRO_MCP_PROVIDER_TIMEOUT" envDefault:"30s"`

	// ParallelCalls fans batch calls out to goroutines.
	ParallelCalls bool `env:"ASTRO_MCP_PARALLEL_CALLS" envDefault:"false"`
	// MaxParallel bounds concurrent calls in parallel mode.
	MaxParallel int `env:"ASTRO_MCP_MAX_PARALLEL" envDefault:"4"`

	// CacheTTL enables the provider response cache when positive.
	CacheTTL time.Duration `env:"ASTRO_MCP_CACHE_TTL" envDefault:"0s"`
	// CacheMaxEntries limits the cache size.
	CacheMaxEntries int `env:"ASTRO_MCP_CACHE_MAX_ENTRIES" envDefault:"1000"`

	// Streamable mounts the MCP streamable HTTP transport on /mcp/stream.
	Streamable bool `env:"ASTRO_MCP_STREAMABLE" envDefault:"true"`

	// ReadTimeout limits request read time.
	ReadTimeout time.Duration `env:"ASTRO_MCP_READ_TIMEOUT" envDefault:"15s"`
	// WriteTimeout limits response write time. Covers the slowest batch.
	WriteTimeout time.Duration `env:"ASTRO_MCP_WRITE_TIMEOUT" envDefault:"90s"`
	// IdleTimeout controls idle connections.
	IdleTimeout time.Duration `env:"ASTRO_MCP_IDLE_TIMEOUT" envDefault:"60s"`
	// ShutdownTimeout controls graceful shutdown duration.
	ShutdownTimeout time.Duration `env:"ASTRO_MCP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
