// Package httpapi exposes the chat service over HTTP.
//
// Endpoints:
//
//	GET  /health                      - liveness probe
//	GET  /ready                       - readiness probe (store + model)
//	POST /api/chat                    - blocking chat exchange
//	POST /api/chat/stream             - streaming chat exchange (SSE)
//	GET  /api/sessions                - list the caller's sessions
//	POST /api/sessions                - create an empty session
//	GET  /api/sessions/{id}/messages  - session transcript
//	DELETE /api/sessions/{id}         - delete a session
//
// Callers identify themselves with the X-User-ID header; authentication
// happens upstream of this service.
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: recovery, logging, request IDs, rate limiting
//   - health.go: health check endpoints
//   - session.go: session management endpoints
//   - chat.go: blocking and SSE chat endpoints
//   - response.go: JSON response helpers
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/docchat-io/docchat/internal/core/ports/driven"
	"github.com/docchat-io/docchat/internal/core/ports/driving"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = ":8080"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// IdleTimeout is the maximum time to wait for the next request on
	// keep-alive connections. There is deliberately no WriteTimeout:
	// SSE responses stay open for the duration of a generation.
	IdleTimeout = 120 * time.Second
)

// Server is the HTTP server for the chat API.
type Server struct {
	mux *http.ServeMux
	log *slog.Logger

	limiter *rateLimiter

	health  *HealthHandler
	session *SessionHandler
	chat    *ChatHandler
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// RatePerMinute limits chat requests per caller. Zero disables it.
	RatePerMinute int
}

// NewServer creates a new HTTP server with all routes registered.
func NewServer(cfg ServerConfig, chat driving.ChatService, retrieval driving.RetrievalService, store driven.ChatStore, llm driven.LLMService, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	mux := http.NewServeMux()

	s := &Server{
		mux:     mux,
		log:     log,
		limiter: newRateLimiter(cfg.RatePerMinute),
		health:  NewHealthHandler(store, llm, retrieval, log),
		session: NewSessionHandler(chat, log),
		chat:    NewChatHandler(chat, log),
	}

	s.health.RegisterRoutes(mux)
	s.session.RegisterRoutes(mux)
	s.chat.RegisterRoutes(mux)

	return s
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → request ID → logging → rate limit → handler
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.log),
		requestIDMiddleware,
		loggingMiddleware(s.log),
		s.limiter.middleware,
	)
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutting down HTTP server")
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
