package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/edakseva/grievance-server/internal/api/respond"
	"github.com/edakseva/grievance-server/internal/model"
	"github.com/edakseva/grievance-server/internal/session"
)

type sessionCtxKey struct{}

// extractToken extracts the bearer token from the Authorization header.
// Returns the token or error if missing/invalid format.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}

	// Expect "Bearer <token>" format
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid Authorization header format, expected 'Bearer <token>'")
	}

	return parts[1], nil
}

// AuthMiddleware validates the bearer token and attaches the session to the
// request context.
func AuthMiddleware(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractToken(r)
			if err != nil {
				respond.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}
			claims, err := mgr.ValidateToken(token)
			if err != nil {
				respond.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			sess := &model.UserSession{
				CustomerID: claims.Subject,
				Role:       claims.Role,
				Name:       claims.Name,
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, sess)))
		})
	}
}

// sessionFrom returns the authenticated session attached by AuthMiddleware.
func sessionFrom(r *http.Request) *model.UserSession {
	sess, _ := r.Context().Value(sessionCtxKey{}).(*model.UserSession)
	return sess
}
