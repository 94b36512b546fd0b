package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"repo-universe/internal/auth"
	"repo-universe/internal/middleware"
	"repo-universe/internal/shared/config"
)

// New wraps the routes with rate limiting and CORS into an http.Server
func New(ctx context.Context, cfg *config.Config, deps Dependencies, logger *slog.Logger) *http.Server {
	if cfg.GitHubLoginConfigured() && deps.States == nil {
		deps.States = auth.NewStateManager()
		go deps.States.Run(ctx)
	}
	mux := NewRoutes(cfg, deps, logger).Setup()

	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimit)
	corsMiddleware := middleware.NewCORS(cfg.Frontend)

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsMiddleware.Middleware(rateLimiter.Middleware(mux)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

// Serve runs srv until ctx ends, then shuts it down gracefully
func Serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	logger = logger.With("component", "http_server", "addr", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	return nil
}
