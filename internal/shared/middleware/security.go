package middleware

import (
	"net"
	"net/http"
	"strings"
)

const hstsValue = "max-age=31536000; includeSubDomains"

// HSTS pins browsers to HTTPS for a year.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", hstsValue)
		next.ServeHTTP(w, r)
	})
}

// SecureCookies forces Secure, HttpOnly and SameSite=Strict on every cookie
// the wrapped handler sets, including the session cookie.
func SecureCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&cookieHardener{ResponseWriter: w}, r)
	})
}

type cookieHardener struct {
	http.ResponseWriter
	flushed bool
}

func (h *cookieHardener) WriteHeader(status int) {
	if !h.flushed {
		h.flushed = true
		harden(h.ResponseWriter.Header())
	}
	h.ResponseWriter.WriteHeader(status)
}

func (h *cookieHardener) Write(b []byte) (int, error) {
	if !h.flushed {
		h.WriteHeader(http.StatusOK)
	}
	return h.ResponseWriter.Write(b)
}

func (h *cookieHardener) Unwrap() http.ResponseWriter {
	return h.ResponseWriter
}

// harden rewrites the Set-Cookie values in place. Values that do not parse
// are passed through untouched.
func harden(header http.Header) {
	values := header.Values("Set-Cookie")
	if len(values) == 0 {
		return
	}

	header.Del("Set-Cookie")
	for _, raw := range values {
		c, err := http.ParseSetCookie(raw)
		if err != nil {
			header.Add("Set-Cookie", raw)
			continue
		}
		c.Secure = true
		c.HttpOnly = true
		if c.SameSite == 0 || c.SameSite == http.SameSiteDefaultMode {
			c.SameSite = http.SameSiteStrictMode
		}
		header.Add("Set-Cookie", c.String())
	}
}

// IsHostAllowed reports whether host matches one of allowedHosts, ignoring
// case and port. An empty list allows everything.
func IsHostAllowed(host string, allowedHosts []string) bool {
	if len(allowedHosts) == 0 {
		return true
	}

	want := bareHost(host)
	for _, allowed := range allowedHosts {
		if bareHost(allowed) == want {
			return true
		}
	}
	return false
}

func bareHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.Trim(host, "[]")
}
