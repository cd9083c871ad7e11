// Package httpapi exposes the document operations as a small JSON API.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/lexandro/docserver-mcp/document"
)

const (
	defaultName     = "MCP Document Server API"
	maxRequestBytes = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Name    string // reported by GET /
	Version string
	// MCPHandler, when set, is mounted at /mcp.
	MCPHandler http.Handler
	Logger     *slog.Logger
}

// Server routes HTTP requests to a document.Provider.
type Server struct {
	docs    document.Provider
	name    string
	version string
	logger  *slog.Logger
	mux     *http.ServeMux
	hasMCP  bool
}

// New creates the HTTP API over docs.
func New(docs document.Provider, options Options) *Server {
	if options.Name == "" {
		options.Name = defaultName
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	s := &Server{
		docs:    docs,
		name:    options.Name,
		version: options.Version,
		logger:  options.Logger,
		mux:     http.NewServeMux(),
		hasMCP:  options.MCPHandler != nil,
	}

	s.mux.Handle("GET /{$}", s.logged(s.handleIndex))
	s.mux.Handle("GET /health", s.logged(s.handleHealth))
	s.mux.Handle("POST /api/list", s.logged(s.handleList))
	s.mux.Handle("POST /api/document", s.logged(s.handleDocument))
	s.mux.Handle("POST /api/search", s.logged(s.handleSearch))
	s.mux.Handle("GET /api/status", s.logged(s.handleStatus))

	// The streamable transport flushes its own responses, so it is not wrapped.
	if options.MCPHandler != nil {
		s.mux.Handle("/mcp", options.MCPHandler)
	}

	return s
}

// Handler returns the routing handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run listens on addr and serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// serveCtx also ends when Serve fails on its own, releasing the shutdown goroutine.
	serveCtx, stop := context.WithCancel(ctx)
	defer stop()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-serveCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http shutdown incomplete", "error", err)
		}
	}()

	s.logger.Info("http server listening", "addr", listener.Addr().String(), "mcp", s.hasMCP)

	err := httpServer.Serve(listener)
	stop()
	<-shutdownDone
	if errors.Is(err, http.ErrServerClosed) {
		s.logger.Info("http server stopped")
		return nil
	}
	return err
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logged(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"elapsed", time.Since(start),
		)
	})
}
