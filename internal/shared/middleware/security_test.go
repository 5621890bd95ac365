package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		allowed []string
		want    bool
	}{
		{"empty list allows all", "anything.test", nil, true},
		{"exact", "example.com", []string{"example.com"}, true},
		{"port on request", "example.com:8443", []string{"example.com"}, true},
		{"port on allowed entry", "example.com", []string{"example.com:8080"}, true},
		{"case insensitive", "App.Example.COM", []string{"app.example.com"}, true},
		{"second entry", "api.example.com", []string{"example.com", "api.example.com"}, true},
		{"ipv6 bracketed", "[::1]:8080", []string{"::1"}, true},
		{"unknown host", "evil.com", []string{"example.com"}, false},
		{"subdomain is not the parent", "sub.example.com", []string{"example.com"}, false},
		{"different ipv6", "[::2]:8080", []string{"[::1]:8080"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHostAllowed(tt.host, tt.allowed))
		})
	}
}

func TestHSTS(t *testing.T) {
	rr := httptest.NewRecorder()
	HSTS(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, hstsValue, rr.Header().Get("Strict-Transport-Security"))
}

func TestSecureCookies(t *testing.T) {
	tests := []struct {
		name     string
		cookie   *http.Cookie
		sameSite http.SameSite
	}{
		{
			name:     "plain cookie gets every flag",
			cookie:   &http.Cookie{Name: "horizon-session", Value: "tok"},
			sameSite: http.SameSiteStrictMode,
		},
		{
			name:     "explicit same site is kept",
			cookie:   &http.Cookie{Name: "pref", Value: "dark", SameSite: http.SameSiteLaxMode},
			sameSite: http.SameSiteLaxMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecureCookies(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.SetCookie(w, tt.cookie)
				_, _ = w.Write([]byte("ok"))
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			cookies := rr.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, tt.cookie.Value, cookies[0].Value)
			assert.True(t, cookies[0].Secure)
			assert.True(t, cookies[0].HttpOnly)
			assert.Equal(t, tt.sameSite, cookies[0].SameSite)
		})
	}
}

func TestSecureCookies_ExplicitStatus(t *testing.T) {
	handler := SecureCookies(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "horizon-session", Value: "", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
