// Package server assembles the HTTP server and middleware chain for the
// bridge gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"pandoc-hq/bridge/pkg/config"
	"pandoc-hq/bridge/pkg/httpapi/handlers"
	"pandoc-hq/bridge/pkg/httpapi/middleware"
	"pandoc-hq/bridge/pkg/ratelimit"
	"pandoc-hq/bridge/pkg/telemetry/metrics"
)

// Server is the gateway's HTTP front end.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	handler   *handlers.Handler
	limiter   *ratelimit.Limiter
	collector *metrics.Collector

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.Mutex
	running      bool
}

// New creates a server. limiter and collector may be nil when their
// features are disabled.
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.Handler, limiter *ratelimit.Limiter, collector *metrics.Collector) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		limiter:   limiter,
		collector: collector,
	}
}

// setupRoutes builds the route mux and wraps it in the middleware chain.
// Recovery is outermost, then tracing so even rate-limited responses
// carry trace headers, then CORS and the rate limiter.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	s.handler.Register(mux)

	if s.collector != nil && s.cfg.Telemetry.Metrics.Enabled {
		mux.Handle("GET "+s.cfg.Telemetry.Metrics.Path, s.collector.Handler())
	}

	var h http.Handler = mux
	if s.cfg.RateLimit.Enabled && s.limiter != nil {
		h = middleware.RateLimit(s.limiter, s.logger, s.collector)(h)
	}
	h = middleware.CORS(s.cfg.Server.CORS)(h)
	h = middleware.Trace(s.logger, s.collector)(h)
	h = middleware.Recovery(s.logger)(h)

	return h
}

// Start runs the server and blocks until the context is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.cfg.Server.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		IdleTimeout:    s.cfg.Server.IdleTimeout,
		MaxHeaderBytes: s.cfg.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "address", s.cfg.Server.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Context cancelled, shutting down")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		running := s.running
		s.running = false
		s.mu.Unlock()
		if !running || s.httpServer == nil {
			return
		}

		s.logger.Info("Shutting down", "timeout", s.cfg.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}
	})

	return shutdownErr
}
