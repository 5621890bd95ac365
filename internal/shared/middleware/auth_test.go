package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon/internal/domain/identity"
	"horizon/internal/shared/auth"
)

const testCookie = "horizon-session"

type stubIdentities struct {
	ident *identity.Identity
}

func (s *stubIdentities) Create(context.Context, identity.CreateRecord) (*identity.Identity, error) {
	return nil, nil
}
func (s *stubIdentities) GetByID(context.Context, string) (*identity.Identity, error) {
	return s.ident, nil
}
func (s *stubIdentities) GetByEmail(context.Context, string) (*identity.Identity, error) {
	return s.ident, nil
}
func (s *stubIdentities) Delete(context.Context, string) error { return nil }
func (s *stubIdentities) ListWithoutProfile(context.Context) ([]*identity.Identity, error) {
	return nil, nil
}

// signedIn returns a gateway holding one live session for identity-1.
func signedIn(t *testing.T) (*identity.Gateway, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	gw := identity.NewGateway(
		&stubIdentities{ident: &identity.Identity{ID: "identity-1", Email: "ada@example.com", PasswordHash: hash}},
		identity.NewInMemorySessionStore(),
		auth.NewSessionTokens("test-secret", time.Hour),
	)
	session, err := gw.SignIn(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)
	return gw, session.Token
}

func TestAuth(t *testing.T) {
	gw, token := signedIn(t)

	revokedGW, revoked := signedIn(t)
	require.NoError(t, revokedGW.Logout(context.Background(), revoked))

	tests := []struct {
		name       string
		gw         *identity.Gateway
		prepare    func(r *http.Request)
		wantStatus int
	}{
		{"cookie", gw, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: testCookie, Value: token}) }, http.StatusOK},
		{"bearer header", gw, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"no credentials", gw, func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage token", gw, func(r *http.Request) { r.Header.Set("Authorization", "Bearer invalid") }, http.StatusUnauthorized},
		{"wrong scheme", gw, func(r *http.Request) { r.Header.Set("Authorization", "Token "+token) }, http.StatusUnauthorized},
		{"logged out", revokedGW, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: testCookie, Value: revoked}) }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			handler := Auth(tt.gw, testCookie)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = UserIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			tt.prepare(req)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "identity-1", gotUser)
			} else {
				assert.Empty(t, gotUser)
			}
		})
	}
}

func TestSessionToken_CookieWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")

	token, ok := SessionToken(req, testCookie)
	assert.True(t, ok)
	assert.Equal(t, "from-cookie", token)
}
