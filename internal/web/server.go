// Package web provides the HTTP server and handlers for the dashboard.
package web

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/dashview/internal/config"
	"github.com/JonMunkholm/dashview/internal/core"
	mw "github.com/JonMunkholm/dashview/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the dashboard.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(mw.SecurityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := mw.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		s.router.Use(limiter.Handler)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Pages
	s.router.Get("/", s.handleDashboard)
	s.router.Get("/view/{resource}", s.handleTableView)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(s.cfg.Security.RequireAPIKey, s.cfg.Security.APIKeys))

		r.Get("/status", s.handleStatus)

		// Resources
		r.Get("/resources", s.handleListResources)
		r.Get("/resources/{resource}/columns", s.handleColumns)

		// Views
		r.Get("/views/{resource}", s.handleView)
		r.Get("/views/{resource}/summary", s.handleSummary)
		r.Get("/views/{resource}/distinct/{column}", s.handleDistinct)
		r.Post("/views/{resource}/refresh", s.handleRefresh)

		// Saved views
		r.Get("/presets/{resource}", s.handleListPresets)
		r.Post("/presets/{resource}", s.handleCreatePreset)
		r.Get("/preset/{id}", s.handleGetPreset)
		r.Put("/preset/{id}", s.handleUpdatePreset)
		r.Delete("/preset/{id}", s.handleDeletePreset)

		// Selection sessions
		r.Post("/selections", s.handleCreateSelection)
		r.Get("/selections/{id}", s.handleGetSelection)
		r.Delete("/selections/{id}", s.handleDeleteSelection)
		r.Post("/selections/{id}/toggle", s.handleToggleSelection)
		r.Post("/selections/{id}/visible", s.handleSelectVisible)
		r.Post("/selections/{id}/clear", s.handleClearSelection)
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	addr := s.cfg.Server.Addr()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
