// Package api provides the HTTP surface of the MindShift dialogue engine.
//
// It exposes RESTful endpoints for creating sessions, submitting user input,
// inspecting session state, and resetting sessions, plus health and metrics
// endpoints.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BTreeMap/MindShift/internal/flow"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Opts holds configuration options for the API server.
type Opts struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the server listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server wires the dialogue engine to HTTP handlers.
type Server struct {
	engine *flow.Engine
	addr   string
	srv    *http.Server
}

// NewServer creates an API server over the given engine.
func NewServer(engine *flow.Engine, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{engine: engine, addr: cfg.Addr}
}

// routes builds the handler mux.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sessions", s.createSessionHandler)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.getSessionHandler)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.resetSessionHandler)
	mux.HandleFunc("POST /api/v1/sessions/{id}/input", s.inputHandler)
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Handler returns the full route handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	slog.Info("Server.Run: MindShift API listening", "addr", s.addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	slog.Info("Server.Shutdown: stopping API server")
	return s.srv.Shutdown(ctx)
}
