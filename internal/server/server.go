// Package server provides the HTTP API for Folio
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jcnlabs/folio/internal/app"
)

// Server wraps the HTTP server and its routes
type Server struct {
	app        *app.App
	httpServer *http.Server
}

// NewServer creates a new HTTP server for the application
func NewServer(a *app.App) *Server {
	s := &Server{app: a}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:           s.withMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped root handler. Tests route through it.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving HTTP requests, blocking until shutdown
func (s *Server) Start() error {
	s.app.Logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
