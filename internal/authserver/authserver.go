// Package authserver is a self-contained development auth server: it issues
// and rotates real signed tokens so the client subsystem can be exercised
// end to end without the production backend.
package authserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	dErrors "inspecthub/pkg/domain-errors"
)

// Server holds the dev auth server's state and dependencies.
type Server struct {
	store      *memoryStore
	issuer     *Issuer
	refreshTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// ServerOption configures a Server.
type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Server with the demo accounts seeded.
func New(issuer *Issuer, refreshTTL time.Duration, opts ...ServerOption) (*Server, error) {
	s := &Server{
		store:      newMemoryStore(),
		issuer:     issuer,
		refreshTTL: refreshTTL,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

// Router wires all endpoints with middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/refresh", s.handleRefresh)
	r.Post("/auth/forgot-password", s.handleForgotPassword)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/profile", s.handleProfileGet)
		r.Put("/auth/profile", s.handleProfilePut)
		r.Post("/auth/change-password", s.handleChangePassword)
		r.Get("/inspections", s.handleInspections)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// writeError translates domain errors into the JSON error envelope the
// client expects: {"error": code, "message": text}.
func writeError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		writeJSON(w, statusFor(domainErr.Code), map[string]string{
			"error":   string(domainErr.Code),
			"message": domainErr.Error(),
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": string(dErrors.CodeInternal),
	})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized, dErrors.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden, dErrors.CodeAuthorizationDenied:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type contextKeyUserID struct{}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyUserID{}).(string)
	return id
}
