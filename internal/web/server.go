package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/willemschots/accounts/internal/auth"
	"github.com/willemschots/accounts/internal/i18n"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// ServerDeps are the dependencies for the server.
type ServerDeps struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Locales     *i18n.Bundle
	Health      HealthChecker
}

type Server struct {
	deps    *ServerDeps
	mux     *http.ServeMux
	handler http.Handler

	// NowFunc is used to timestamp error responses.
	// Exposed for testing purposes.
	NowFunc func() time.Time
}

func NewServer(deps *ServerDeps) *Server {
	s := &Server{
		deps:    deps,
		mux:     http.NewServeMux(),
		NowFunc: time.Now,
	}

	// Endpoints below are created using the newHandler functions.
	// These functions return handlers that automatically map between HTTP requests, target functions and HTTP responses.
	// The request mapping and response writing is customizable.

	// Register user endpoint. The "inactive" field of the body is
	// ignored, new users are always inactive.
	s.mux.Handle("POST /api/1.0/users", newHandler(s, deps.AuthService.RegisterUser))

	// Activate user endpoint.
	{
		h := newHandler(s, deps.AuthService.ActivateUser)
		h.request(func(r *http.Request) (string, error) {
			return r.PathValue("token"), nil
		})

		s.mux.Handle("POST /api/1.0/users/token/{token}", h)
	}

	// Health endpoint.
	{
		h := newHandler(s, func(ctx context.Context, _ i18n.Translator, _ struct{}) (healthStatus, error) {
			err := deps.Health.Ping(ctx)
			if err != nil {
				return healthStatus{}, err
			}
			return healthStatus{Status: "ok"}, nil
		})
		h.request(noInput)

		s.mux.Handle("GET /api/1.0/health", h)
	}

	// Everything the patterns above don't match.
	s.mux.Handle("/", http.HandlerFunc(s.unmatched))

	// Wrap the mux with global middlewares.
	middlewares := []func(http.Handler) http.Handler{
		logRequests(s),
		resolveLocale(s),
	}
	s.handler = s.mux
	for i := len(middlewares) - 1; i >= 0; i-- {
		s.handler = middlewares[i](s.handler)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// unmatched writes a 405 when the path is routed for another method and a
// 404 otherwise.
func (s *Server) unmatched(w http.ResponseWriter, r *http.Request) {
	err := errRouteNotFound
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		if method == r.Method {
			continue
		}

		other := r.Clone(r.Context())
		other.Method = method
		if _, pattern := s.mux.Handler(other); pattern != "/" {
			err = errMethodNotAllowed
			break
		}
	}

	s.handleError(w, r, err)
}

type healthStatus struct {
	Status string `json:"status"`
}
