package authserver

import (
	"context"
	"net/http"
	"strings"

	dErrors "inspecthub/pkg/domain-errors"
)

// requireAuth validates the bearer token and stashes the subject in the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			s.logger.WarnContext(r.Context(), "unauthorized access - missing token", "path", r.URL.Path)
			writeError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
			return
		}

		claims, err := s.issuer.ValidateAccessToken(token)
		if err != nil {
			s.logger.WarnContext(r.Context(), "unauthorized access - invalid token",
				"path", r.URL.Path,
				"error", err,
			)
			writeError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
