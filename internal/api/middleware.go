package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/ecom-labs/storefront/internal/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

const SessionCookieName = "session"

type SessionStore interface {
	Issue(ctx context.Context, userID int64) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
	Revoke(ctx context.Context, token string) error
}

// SessionAuth resolves the session cookie into a user id on the request
// context. Requests without a valid session pass through anonymously;
// handlers that need an identity reject them.
func SessionAuth(sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, auth.ErrSessionNotFound) {
					respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getUserIDFromContext(ctx context.Context) int64 {
	if userID, ok := ctx.Value(userIDKey).(int64); ok {
		return userID
	}
	return 0
}

func withUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
