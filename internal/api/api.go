// Package api implements the local HTTP API server for jellybean.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/cors"

	"github.com/myjellybean/jellybean/internal/app"
	"github.com/myjellybean/jellybean/internal/history"
	"github.com/myjellybean/jellybean/internal/logger"
)

// maxBodyBytes caps request bodies; messages are pasted text.
const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Addr           string
	Store          *history.Store
	Analyzer       app.Analyzer
	AllowedOrigins []string
	// Timeout bounds one analysis call. Zero means no limit beyond the
	// client's own.
	Timeout time.Duration
	Logger  *logger.Logger
}

// Server is the jellybean HTTP API server.
type Server struct {
	addr     string
	mux      *http.ServeMux
	handler  http.Handler
	server   *http.Server
	store    *history.Store
	analyzer app.Analyzer
	timeout  time.Duration
	metrics  *metrics
	log      *logger.Logger

	// set while an analysis is in flight, across HTTP and websocket clients
	busy atomic.Bool
}

// New creates a new API server.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	store := opts.Store
	if store == nil {
		store = history.NewStore("", log)
	}

	s := &Server{
		addr:     opts.Addr,
		mux:      http.NewServeMux(),
		store:    store,
		analyzer: opts.Analyzer,
		timeout:  opts.Timeout,
		metrics:  newMetrics(),
		log:      log.WithComponent("api"),
	}
	s.registerRoutes()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	s.handler = cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(s.mux)

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/report", s.handleReport)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("DELETE /api/history", s.handleClearHistory)
	s.mux.HandleFunc("GET /api/samples", s.handleSamples)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
	s.mux.Handle("GET /metrics", s.metrics.handler())
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.addr).Msg("jellybean API server listening")
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// analysisContext applies the configured timeout to a request context.
func (s *Server) analysisContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(parent, s.timeout)
	}
	return context.WithCancel(parent)
}

// beginAnalysis claims the single analysis slot. A true result must be
// paired with endAnalysis.
func (s *Server) beginAnalysis() bool { return s.busy.CompareAndSwap(false, true) }

func (s *Server) endAnalysis() { s.busy.Store(false) }

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.Error().Err(err).Msg("json encode error")
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// readBody reads a capped request body.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)
	}
	return data, nil
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("empty request body")
	}
	return json.Unmarshal(data, v)
}
