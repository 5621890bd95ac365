package middleware

import (
	"context"
	"net/http"
	"strings"

	"horizon/internal/domain/identity"
)

type ContextKey string

const (
	UserIDKey    ContextKey = "user_id"
	SessionIDKey ContextKey = "session_id"
	EmailKey     ContextKey = "email"
	TokenKey     ContextKey = "session_token"
)

// SessionAuthenticator resolves a session token to a live session.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.Session, error)
}

// Auth requires a live session, read from the session cookie or a Bearer
// header, and puts the identity id into the request context.
func Auth(sessions SessionAuthenticator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := SessionToken(r, cookieName)
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			session, err := sessions.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, session.IdentityID)
			ctx = context.WithValue(ctx, SessionIDKey, session.ID)
			ctx = context.WithValue(ctx, EmailKey, session.Email)
			ctx = context.WithValue(ctx, TokenKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken extracts the token from the cookie first (browsers), then
// from the Authorization header (API clients).
func SessionToken(r *http.Request, cookieName string) (string, bool) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}
