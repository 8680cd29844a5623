// Package api exposes the chat pipeline over HTTP.
//
// Endpoints:
//
//	POST /api/chat                  - chat query against the RAG pipeline
//	POST /functions/v1/chat-query   - same pipeline behind the CORS-open
//	                                  function surface
//	GET  /health                    - liveness probe
//	GET  /ready                     - readiness probe (pings the database)
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware (recovery, logging, rate limiting)
//   - chat.go: backend chat endpoint
//   - function.go: managed-function surface with CORS
//   - health.go: health check endpoints
//   - response.go: JSON response helpers
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/brastorne/lebo/internal/log"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout bounds header reads to resist Slowloris-style
	// clients.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response. Model
	// calls dominate; this must exceed the pipeline's hop timeouts.
	WriteTimeout = 90 * time.Second

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout = 120 * time.Second
)

// Server is the HTTP server for the chat API.
type Server struct {
	mux    *http.ServeMux
	logger log.Logger

	rateBurst int
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit enables per-server request limiting with the given
// burst. Zero leaves limiting off.
func WithRateLimit(burst int) Option {
	return func(s *Server) { s.rateBurst = burst }
}

// NewServer creates a server with all routes registered. answerer may be
// nil when the pipeline is not configured; the chat endpoints then answer
// 503.
func NewServer(answerer Answerer, pinger Pinger, logger log.Logger, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{mux: mux, logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	NewChatHandler(answerer, logger).RegisterRoutes(mux)
	NewFunctionHandler(answerer, logger).RegisterRoutes(mux)
	NewHealthHandler(pinger, logger).RegisterRoutes(mux)

	return s
}

// NewFunctionServer creates a server exposing only the function surface
// and the health probes, mirroring a serverless deployment of the chat
// pipeline.
func NewFunctionServer(answerer Answerer, pinger Pinger, logger log.Logger, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{mux: mux, logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	NewFunctionHandler(answerer, logger).RegisterRoutes(mux)
	NewHealthHandler(pinger, logger).RegisterRoutes(mux)

	return s
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → logging → rate limit → handler.
func (s *Server) Handler() http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
	}
	if s.rateBurst > 0 {
		middlewares = append(middlewares, rateLimitMiddleware(s.rateBurst))
	}
	return chain(s.mux, middlewares...)
}

// Run starts the server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// chain applies middleware in order: first middleware wraps outermost.
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
