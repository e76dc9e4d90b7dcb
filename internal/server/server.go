// Package server provides the debug and monitoring HTTP server for air-ball.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dragonknightbit/air-ball/internal/capture"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Camera    capture.Camera
}

// Server exposes tracker output and a camera preview over HTTP.
type Server struct {
	config    Config
	mux       *http.ServeMux
	positions *PositionsHandler
	start     time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config:    config,
		mux:       http.NewServeMux(),
		positions: NewPositionsHandler(),
		start:     time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/positions", s.positions)

	// Register camera preview endpoint if a camera is configured
	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// Positions returns the WebSocket fan-out handler. The tracker callback is
// bridged into it via Publish.
func (s *Server) Positions() *PositionsHandler {
	return s.positions
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
