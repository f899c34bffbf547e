package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/newsletter/internal/auth"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// Server is the HTTP front for the newsletter service.
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer wires handlers and routes into a ready-to-serve Server.
func NewServer(subs *subscription.Service, news *newsletter.Service, verifier *auth.Verifier) *Server {
	h := NewHandlers(subs, news, verifier)
	return &Server{handler: SetupRoutes(h)}
}

// ListenAndServe starts the HTTP server on addr and blocks.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// Publishing a large issue sends every email inside the request.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
