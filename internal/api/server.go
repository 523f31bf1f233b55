package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/dgallion1/texthl/internal/config"
	"github.com/dgallion1/texthl/internal/pathstore"
	"github.com/dgallion1/texthl/internal/session"
	"github.com/dgallion1/texthl/internal/stats"
)

// Server is the HTTP API server for texthl.
type Server struct {
	router   chi.Router
	sessions *session.Store
	ps       *pathstore.Client
	stats    *stats.Registry
	upgrader websocket.Upgrader
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. ps may be nil, which
// disables the persistence endpoints.
func NewServer(sessions *session.Store, ps *pathstore.Client, reg *stats.Registry, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		ps:       ps,
		stats:    reg,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/stats", s.handleStats)
		r.Get("/api/saved", s.handleListSaved)

		r.Post("/api/documents", s.handleUpload)
		r.Get("/api/documents", s.handleListDocuments)
		r.Route("/api/documents/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDocument)
			r.Get("/text", s.handleGetText)
			r.Delete("/", s.handleDeleteDocument)
			r.Get("/events", s.handleEvents)
			r.Post("/find", s.handleFind)

			r.Post("/highlights", s.handleCreateHighlight)
			r.Get("/highlights", s.handleListHighlights)
			r.Delete("/highlights", s.handleRemoveHighlights)
			r.Get("/highlights/serialized", s.handleSerialize)
			r.Put("/highlights/serialized", s.handleDeserialize)
			r.Post("/highlights/save", s.handleSave)
			r.Post("/highlights/load", s.handleLoad)
			r.Delete("/highlights/saved", s.handleDeleteSaved)
			r.Patch("/highlights/{batchID}", s.handleRecolor)
			r.Delete("/highlights/{batchID}", s.handleRemoveBatch)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
