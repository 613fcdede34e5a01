// Package http is the HTTP/JSON transport for the auth core. It owns the
// router, the identity middleware, and the mapping from classified errors
// to status codes.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dpetrov/authkeeper/internal/logging"
	"github.com/dpetrov/authkeeper/internal/server/services"
)

type Server struct {
	address         string
	handler         *AuthHandler
	logger          logging.Logger
	jwtSecret       []byte
	shutdownTimeout time.Duration
}

func NewServer(address string, logger logging.Logger, auth *services.AuthService, secretKey string, shutdownTimeout time.Duration) *Server {
	l := logger.With("module", "http_server")
	return &Server{
		address:         address,
		handler:         NewAuthHandler(auth, l),
		logger:          l,
		jwtSecret:       []byte(secretKey),
		shutdownTimeout: shutdownTimeout,
	}
}

// Router assembles the middleware chain and routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(identityMiddleware(s.jwtSecret))

	r.Post("/api/users", s.handler.Register)
	r.Post("/api/login", s.handler.Login)
	r.Get("/api/me", s.handler.Me)
	r.Get("/api/users", s.handler.Users)
	r.Get("/api/users/{username}", s.handler.UserByUsername)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
