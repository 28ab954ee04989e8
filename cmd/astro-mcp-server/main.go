package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/codex-k8s/astro-mcp-server/configs"
	"github.com/codex-k8s/astro-mcp-server/internal/app"
	"github.com/codex-k8s/astro-mcp-server/internal/audit"
	"github.com/codex-k8s/astro-mcp-server/internal/auth"
	"github.com/codex-k8s/astro-mcp-server/internal/catalog"
	"github.com/codex-k8s/astro-mcp-server/internal/config"
	"github.com/codex-k8s/astro-mcp-server/internal/dispatch"
	"github.com/codex-k8s/astro-mcp-server/internal/http/handler"
	"github.com/codex-k8s/astro-mcp-server/internal/idempotency"
	"github.com/codex-k8s/astro-mcp-server/internal/log"
	"github.com/codex-k8s/astro-mcp-server/internal/prompt"
	"github.com/codex-k8s/astro-mcp-server/internal/provider"
	"github.com/codex-k8s/astro-mcp-server/internal/runtime"
	"github.com/codex-k8s/astro-mcp-server/internal/templates"
)

func main() {
	catalogPath := flag.String("catalog", "", "Path to a tool catalog YAML file (defaults to the embedded catalog)")
	embeddedCatalog := flag.String("embedded-catalog", configs.DefaultCatalog, "Embedded catalog from configs/ (filename)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.LogLevel)

	cat, err := loadCatalog(*catalogPath, *embeddedCatalog)
	if err != nil {
		logger.Error("load catalog failed", "error", err)
		os.Exit(1)
	}

	bundle, err := templates.Load(cfg.Lang)
	if err != nil {
		logger.Error("load templates failed", "error", err)
		os.Exit(1)
	}
	prompts, err := prompt.NewBuilder(bundle)
	if err != nil {
		logger.Error("build prompts failed", "error", err)
		os.Exit(1)
	}

	gemini := provider.NewGemini(provider.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiURL,
		Timeout: cfg.ProviderTimeout,
	})
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, generation tools will fail")
	}
	var generator provider.Generator = gemini
	if cfg.CacheTTL > 0 {
		generator = provider.Cached{
			Inner:     gemini,
			Cache:     idempotency.NewCache(cfg.CacheTTL, cfg.CacheMaxEntries),
			Namespace: gemini.Model(),
			Logger:    logger,
		}
	}

	authenticator := auth.New(cfg.AuthToken, logger)
	dispatcher, err := dispatch.New(dispatch.Config{
		Catalog:     cat,
		Generator:   generator,
		Prompts:     prompts,
		Messages:    bundle,
		Auth:        authenticator,
		OwnerID:     cfg.OwnerID,
		Parallel:    cfg.ParallelCalls,
		MaxParallel: cfg.MaxParallel,
		Logger:      logger,
		Audit:       audit.New(logger),
	})
	if err != nil {
		logger.Error("build dispatcher failed", "error", err)
		os.Exit(1)
	}

	batch, err := handler.New(handler.Config{
		Dispatcher: dispatcher,
		Auth:       authenticator,
		ToolsCount: cat.Len(),
		Logger:     logger,
	})
	if err != nil {
		logger.Error("build handler failed", "error", err)
		os.Exit(1)
	}

	routes := batch.Routes()
	if cfg.Streamable {
		server, err := runtime.Builder{Caller: dispatcher, Logger: logger}.Build(cat)
		if err != nil {
			logger.Error("build mcp server failed", "error", err)
			os.Exit(1)
		}
		stream := authenticator.Middleware(runtime.StreamableHandler(server))
		maps.Copy(routes, map[string]http.Handler{
			"/mcp/stream":  stream,
			"/mcp/stream/": stream,
		})
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		logger.Warn("shutdown requested", "signal", sig.String())
		cancel()
	}()

	if err := run(baseCtx, cfg, routes, cat, logger); err != nil {
		logger.Error("runtime error", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(path, embedded string) (*catalog.Catalog, error) {
	if path != "" {
		return catalog.LoadFile(path)
	}
	raw, err := configs.Load(embedded)
	if err != nil {
		return nil, err
	}
	return catalog.Load(raw)
}

func run(ctx context.Context, cfg config.Config, routes map[string]http.Handler, cat *catalog.Catalog, logger *slog.Logger) error {
	application, err := app.New(ctx, cfg, routes, logger, func() error {
		if cat.Len() == 0 {
			return errors.New("tool catalog is empty")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("serving tools", "count", cat.Len(), "tools", cat.Names(), "streamable", cfg.Streamable)
	return application.Run(ctx)
}
