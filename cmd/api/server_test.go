package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPSRedirect(t *testing.T) {
	tests := []struct {
		name       string
		host       string
		forwarded  string
		wantStatus int
		wantTarget string
	}{
		{"strips port", "app.example.com:80", "", http.StatusMovedPermanently, "https://app.example.com/api/home?id=1"},
		{"prefers forwarded host", "internal:80", "app.example.com", http.StatusMovedPermanently, "https://app.example.com/api/home?id=1"},
		{"unknown host refused", "evil.com", "", http.StatusBadRequest, ""},
	}

	handler := httpsRedirect([]string{"app.example.com"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/home?id=1", nil)
			req.Host = tt.host
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Host", tt.forwarded)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantTarget, rr.Header().Get("Location"))
		})
	}
}
