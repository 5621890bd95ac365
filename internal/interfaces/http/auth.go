package http

import (
	"context"
	"net/http"
	"time"

	"horizon/internal/domain/identity"
	"horizon/internal/domain/onboarding"
	"horizon/internal/domain/user"
	"horizon/internal/shared/apperr"
	"horizon/internal/shared/middleware"
)

// Onboarding runs signup, signin and logout.
type Onboarding interface {
	SignUp(ctx context.Context, params onboarding.SignUpParams) (*onboarding.Result, error)
	SignIn(ctx context.Context, params onboarding.SignInParams) (*onboarding.Result, error)
	Logout(ctx context.Context, token string) error
}

// SessionReader returns the identity behind a session token.
type SessionReader interface {
	LoggedInUser(ctx context.Context, token string) (*identity.Identity, error)
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	onboarding Onboarding
	sessions   SessionReader
	cookie     CookieConfig
}

func NewAuthHandler(onboarding Onboarding, sessions SessionReader, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{onboarding: onboarding, sessions: sessions, cookie: cookie}
}

type AuthResponse struct {
	User      *user.Profile `json:"user"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// HandleSignUp handles POST /api/auth/sign-up
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var params onboarding.SignUpParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.onboarding.SignUp(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, result.Session)
	writeJSON(w, http.StatusCreated, AuthResponse{User: result.Profile, ExpiresAt: result.Session.ExpiresAt})
}

// HandleSignIn handles POST /api/auth/sign-in
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var params onboarding.SignInParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.onboarding.SignIn(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, result.Session)
	writeJSON(w, http.StatusOK, AuthResponse{User: result.Profile, ExpiresAt: result.Session.ExpiresAt})
}

// HandleLogout handles POST /api/auth/logout. The cookie is cleared even
// when the session was already gone.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.SessionToken(r, h.cookie.Name); ok {
		if err := h.onboarding.Logout(r.Context(), token); err != nil && !isSessionGone(err) {
			writeError(w, r, err)
			return
		}
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /api/auth/me: the identity behind the session, or 401.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionToken(r, h.cookie.Name)
	if !ok {
		unauthorized(w)
		return
	}

	ident, err := h.sessions.LoggedInUser(r.Context(), token)
	if err != nil {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, ident)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session *identity.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// isSessionGone reports a logout of an expired or unknown token.
func isSessionGone(err error) bool {
	return apperr.Is(err, apperr.KindUnauthorized)
}
