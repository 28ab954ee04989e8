package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codex-k8s/astro-mcp-server/internal/config"
	"github.com/codex-k8s/astro-mcp-server/internal/http/cors"
	"github.com/codex-k8s/astro-mcp-server/internal/http/health"
)

const defaultShutdownTimeout = 10 * time.Second

// App controls the HTTP server lifecycle.
type App struct {
	baseCtx context.Context
	server  *http.Server
	health  *health.Handler
	logger  *slog.Logger
	cfg     config.Config
}

// New initializes the HTTP server with health endpoints and CORS on every route.
// Routes are keyed by ServeMux pattern.
func New(baseCtx context.Context, cfg config.Config, routes map[string]http.Handler, logger *slog.Logger, checks ...health.Check) (*App, error) {
	if baseCtx == nil {
		return nil, fmt.Errorf("base context is nil")
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no routes")
	}

	healthHandler := health.New(checks...)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.HandleFunc("GET /readyz", healthHandler.Readyz)
	for pattern, route := range routes {
		if strings.TrimSpace(pattern) == "" || route == nil {
			continue
		}
		mux.Handle(pattern, route)
	}

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      cors.Middleware(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		baseCtx: baseCtx,
		server:  srv,
		health:  healthHandler,
		logger:  logger,
		cfg:     cfg,
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.health.SetReady()
		if a.logger != nil {
			a.logger.Info("http server started", "addr", a.server.Addr)
		}
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		if a.logger != nil {
			a.logger.Info("shutdown requested")
		}
		return a.shutdown()
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		if a.logger != nil {
			a.logger.Error("http server error", "error", err)
		}
		return err
	}
}

func (a *App) shutdown() error {
	a.health.SetNotReady()
	timeout := a.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(a.baseCtx, timeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
