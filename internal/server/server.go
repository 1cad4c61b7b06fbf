// Package server provides the HTTP server for headtype: session control,
// dictionary and settings APIs, the render event stream and the camera
// preview.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/server/api"
	"github.com/ayusman/headtype/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the headtype application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	events *EventsHandler
}

// New creates a new Server with the given configuration. When an App is
// configured the events handler is registered as one of its renderers.
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

	if a := s.config.App; a != nil {
		sessionHandler := api.NewSessionHandler(a)
		s.mux.Handle("/api/session", sessionHandler)
		s.mux.Handle("/api/session/", sessionHandler)
		s.mux.Handle("/api/settings", api.NewSettingsHandler(a))

		s.events = NewEventsHandler(a)
		a.AddRenderer(s.events)
		s.mux.Handle("/api/events", s.events)
		s.mux.Handle("/api/stream", NewStreamHandler(a))
	}

	if s.config.Store != nil {
		var reloader api.DictionaryReloader
		if s.config.App != nil {
			reloader = s.config.App
		}
		dictionaryHandler := api.NewDictionaryHandler(s.config.Store, reloader)
		s.mux.Handle("/api/dictionary", dictionaryHandler)
		s.mux.Handle("/api/dictionary/", dictionaryHandler)
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

// Events returns the events handler, or nil when no App is configured.
func (s *Server) Events() *EventsHandler {
	return s.events
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.App != nil {
		response["pipeline"] = s.config.App.Status()
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

// Close disconnects event stream clients.
func (s *Server) Close() {
	if s.events != nil {
		s.events.Close()
	}
}
