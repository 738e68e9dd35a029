// Package api provides the HTTP API server and handlers for the notes server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/notesapp/notes-server/internal/markdown"
	"github.com/notesapp/notes-server/internal/ratelimit"
	"github.com/notesapp/notes-server/internal/store"
	"github.com/notesapp/notes-server/internal/validation"
)

// Options holds server settings that come from configuration.
type Options struct {
	// CORSOrigins lists origins allowed to call the API. "*" allows any.
	CORSOrigins []string
	// PublicBaseURL, when set, is used for canonical links on project pages.
	PublicBaseURL string
	// SyncLimiter limits sync calls per client IP. Nil disables limiting.
	SyncLimiter *ratelimit.Limiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     store.Store
	services  *Services
	validator *validation.Validator
	renderer  *markdown.Renderer
	opts      Options
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, validator *validation.Validator, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:     st,
		services:  services,
		validator: validator,
		renderer:  markdown.NewRenderer(markdown.Options{HardWraps: true}),
		opts:      opts,
		router:    router,
		logger:    logger,
	}

	s.setupMiddleware()

	config := huma.DefaultConfig("Notes API", "1.0.0")
	config.Info.Description = "Projects, notes, tags and public project pages, plus the analyzer sync endpoint."
	// No $schema links in response bodies.
	config.CreateHooks = nil
	s.api = humachi.New(router, config)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// registerRoutes configures all HTTP routes.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerSyncRoutes()
	s.registerProjectRoutes()
	s.registerAdminProjectRoutes()
	s.registerNoteRoutes()
	s.registerTagRoutes()
	s.registerPageRoutes()
	s.registerWebRoutes()
}
