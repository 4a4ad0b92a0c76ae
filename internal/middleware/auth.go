// Package middleware carries the HTTP middleware shared by all routes:
// bearer token authentication and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pixelsmith/playground/pkg/utils"
)

type contextKey int

const userIDKey contextKey = iota

const bearerPrefix = "Bearer "

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated user id in the request context. Failure short-circuits with
// 401 before any handler runs.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.RespondError(w, http.StatusUnauthorized, "authorization header is required")
				return
			}
			if !strings.HasPrefix(header, bearerPrefix) {
				utils.RespondError(w, http.StatusUnauthorized, "authorization scheme must be Bearer")
				return
			}

			userID, err := verifier.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		})
	}
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
