// Package web provides the HTTP API of the participant dashboard.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/JonMunkholm/painel/internal/config"
	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/sheet"
	"github.com/JonMunkholm/painel/internal/web/middleware"
)

// Dashboard is the part of core.Service the handlers use.
type Dashboard interface {
	Summary(ctx context.Context) (*core.Summary, error)
	Certificates(ctx context.Context, name string) (*core.CertificateResult, error)
	Spreadsheet(ctx context.Context) (sheet.Spreadsheet, error)
	LimiterStatus() core.FetchLimiterStatus
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Fetches core.FetchLimiterStatus `json:"fetches"`
}

// Server is the HTTP server of the dashboard API.
type Server struct {
	service Dashboard
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	limiter    *middleware.RateLimiter
	stopLimits context.CancelFunc
}

// NewServer creates a Server for service configured from cfg.
func NewServer(service Dashboard, cfg *config.Config) *Server {
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
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5, "application/json"))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Use(middleware.SecurityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.limiter = middleware.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.limiter.Middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/dados", s.handleSummary)
	s.router.Get("/certificados", s.handleCertificates)
	s.router.Get("/abas", s.handleWorksheets)
	s.router.Get("/healthz", s.handleHealth)
}

// Start begins listening for HTTP requests. It returns nil after Shutdown.
func (s *Server) Start() error {
	addr := s.cfg.Server.Addr()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	if s.limiter != nil {
		var ctx context.Context
		ctx, s.stopLimits = context.WithCancel(context.Background())
		go s.limiter.Run(ctx)
	}

	slog.Info("starting server", "addr", addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopLimits != nil {
		s.stopLimits()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
