// Package server is the reference library backend: it stores books added
// through /api/add and serves the search page that drives both flows.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lepinkainen/bibliotech/internal/datastore"
	"github.com/lepinkainen/bibliotech/internal/search"
)

// Options configures optional server behaviour.
type Options struct {
	// AllowedOrigins are the CORS origins allowed on /api routes
	AllowedOrigins []string
}

// Server handles the page, the search fragment and the library API.
type Server struct {
	store     datastore.Store
	flow      *search.Flow
	validator *requestValidator
	router    *chi.Mux
	logger    *slog.Logger
	opts      Options
}

// New creates a server backed by store. flow serves the /search fragment.
func New(store datastore.Store, flow *search.Flow, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		store:     store,
		flow:      flow,
		validator: newRequestValidator(),
		router:    chi.NewRouter(),
		logger:    logger,
		opts:      opts,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/search", s.handleSearch)
	s.router.Get("/static/app.js", s.handleScript)
	s.router.Get("/healthz", s.handleHealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Post("/add", s.handleAddBook)
		r.Get("/books", s.handleListBooks)
		r.Get("/report", s.handleReport)
		r.Route("/books/{id}", func(r chi.Router) {
			r.Post("/issue", s.handleIssueBook)
			r.Post("/return", s.handleReturnBook)
			r.Delete("/", s.handleDeleteBook)
		})
	})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}
