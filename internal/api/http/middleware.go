package http

import (
	"context"
	"net/http"
	"strings"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/security"
)

type contextKey string

const userIDKey contextKey = "user_id"

// authMiddleware verifies the bearer token and stores the caller's user
// id in the request context. The websocket route passes the token as a
// query parameter because browsers cannot set headers on upgrades.
func authMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				raw = r.URL.Query().Get("token")
			}
			if raw == "" {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// userID returns the authenticated caller's id from the request context.
func userID(r *http.Request) int32 {
	if id, ok := r.Context().Value(userIDKey).(int32); ok {
		return id
	}
	return 0
}
