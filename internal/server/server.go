// Package server assembles the HTTP router and owns the server lifecycle.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/yaduvivaah/agent-portal-api/internal/auth"
	"github.com/yaduvivaah/agent-portal-api/internal/config"
	"github.com/yaduvivaah/agent-portal-api/internal/handler"
	"github.com/yaduvivaah/agent-portal-api/internal/session"
)

// Dependencies collects everything the router needs.
type Dependencies struct {
	Auth     *handler.AuthHandler
	Agents   *handler.AgentHandler
	Tokens   auth.TokenIssuer
	Sessions *session.Manager
}

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	logger     *zerolog.Logger
}

// New builds the router and server.
func New(logger *zerolog.Logger, cfg config.HTTPConfig, deps Dependencies) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	requireAuth := handler.RequireAuth(deps.Tokens, deps.Sessions)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.Auth.Register)
			r.Post("/register/verify", deps.Auth.RegisterVerify)
			r.Post("/login", deps.Auth.Login)
			r.Post("/login/verify", deps.Auth.LoginVerify)
			r.With(requireAuth).Post("/logout", deps.Auth.Logout)
		})

		r.Get("/pincode/{code}", deps.Agents.LookupPincode)

		r.Route("/agents/me", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", deps.Agents.Me)
			r.Patch("/", deps.Agents.UpdateMe)
			r.Put("/photo", deps.Agents.ReplacePhoto)
			r.Get("/stats", deps.Agents.Stats)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start begins listening for HTTP traffic.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("starting http server")
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully terminates all active connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
