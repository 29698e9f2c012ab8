// Package server provides HTTP server management and lifecycle handling for
// the medikeep API: router setup, middleware configuration, routes, and
// graceful shutdown.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medikeep/medikeep-api/config"
	"github.com/medikeep/medikeep-api/handlers"
	"github.com/medikeep/medikeep-api/health"
	"github.com/medikeep/medikeep-api/logging"
	"github.com/medikeep/medikeep-api/metrics"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler *handlers.Handler
	checker *health.Checker
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler *handlers.Handler, checker *health.Checker) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		checker: checker,
		config:  cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(RequestLogger)
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Middleware)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/medicines", s.handler.ListMedicines)
	s.router.Post("/medicines", s.handler.AddMedicine)
	s.router.Get("/medicines/{id}", s.handler.GetMedicine)
	s.router.Put("/medicines/{id}", s.handler.UpdateMedicine)
	s.router.Delete("/medicines/{id}", s.handler.DeleteMedicine)

	s.router.Get("/alerts", s.handler.ListAlerts)
	s.router.Get("/alerts/{type}", s.handler.ListAlertsByType)
	s.router.Post("/alerts/{id}/read", s.handler.MarkAlertRead)

	s.router.Get("/users", s.handler.ListUsers)
	s.router.Post("/users", s.handler.AddUser)
	s.router.Put("/users/{id}", s.handler.UpdateUser)
	s.router.Delete("/users/{id}", s.handler.DeleteUser)
	s.router.Post("/users/{id}/activate", s.handler.ActivateUser)

	s.router.Get("/health", s.checker.Handler)

	// Metrics stay local-only outside dev deployments
	if s.config.Env == "dev" {
		s.router.Handle("/metrics", promhttp.Handler())
	}
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	logging.Info("Starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
