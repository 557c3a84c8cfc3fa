// Package server provides the HTTP host-tooling surface for the retargeting
// service: rig mapping enumeration for UI dropdowns, session status and
// options, and a WebSocket ingest for detector frames.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/animate/internal/retarget"
	"github.com/ayusman/animate/internal/rig"
	"github.com/ayusman/animate/internal/server/api"
	"github.com/ayusman/animate/internal/session"
	"github.com/ayusman/animate/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Registry  *rig.Registry
	Store     *store.Store
	Engine    *retarget.Engine
	Session   *session.Session
}

// Server represents the HTTP server for the retargeting service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register rig mapping API handler if a registry is configured
	if s.config.Registry != nil {
		rigsHandler := api.NewRigsHandler(s.config.Registry, s.config.Store)
		s.mux.Handle("/api/rigs", rigsHandler)
		s.mux.Handle("/api/rigs/", rigsHandler)
	}

	// Register session endpoints if an engine is configured
	if s.config.Engine != nil {
		sessionHandler := api.NewSessionHandler(s.config.Engine, s.config.Registry, s.config.Session)
		s.mux.Handle("/api/session", sessionHandler)
		s.mux.Handle("/api/session/", sessionHandler)

		framesHandler := NewFramesHandler(s.config.Engine)
		s.mux.Handle("/api/frames", framesHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
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
