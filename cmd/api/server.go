package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"horizon/internal/shared/config"
	"horizon/internal/shared/middleware"
)

const redirectAddr = ":80"

// servers is the API listener plus the optional plain-HTTP listener that
// bounces clients to HTTPS.
type servers struct {
	api      *http.Server
	redirect *http.Server
	tls      *config.TLSConfig
}

func newServers(handler http.Handler, cfg *config.Config) *servers {
	s := &servers{
		api: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
	if cfg.TLS.Enabled {
		s.tls = &cfg.TLS
		if cfg.TLS.RedirectHTTP {
			s.redirect = &http.Server{
				Addr:              redirectAddr,
				Handler:           httpsRedirect(cfg.Server.AllowedHosts),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
			}
		}
	}
	return s
}

// start runs the listeners in the background. A failing API listener is
// fatal; a failing redirect listener is only logged.
func (s *servers) start() {
	if s.redirect != nil {
		go func() {
			log.Info().Str("addr", s.redirect.Addr).Msg("redirect listener starting")
			if err := s.redirect.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("redirect listener failed")
			}
		}()
	}

	go func() {
		var err error
		if s.tls != nil {
			log.Info().Str("addr", s.api.Addr).Msg("https listener starting")
			err = s.api.ListenAndServeTLS(s.tls.CertPath, s.tls.KeyPath)
		} else {
			log.Info().Str("addr", s.api.Addr).Msg("http listener starting")
			err = s.api.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("api listener failed")
		}
	}()
}

// shutdown drains in-flight requests within timeout.
func (s *servers) shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if s.redirect != nil {
		if err := s.redirect.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("failed to stop redirect listener")
		}
	}
	if err := s.api.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to stop api listener")
	}
	log.Info().Msg("listeners stopped")
}

// httpsRedirect sends every request to the HTTPS origin of the same host.
// Hosts outside allowedHosts are refused so the Host header cannot steer the
// redirect elsewhere.
func httpsRedirect(allowedHosts []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Header.Get("X-Forwarded-Host")
		if host == "" {
			host = r.Host
		}
		if !middleware.IsHostAllowed(host, allowedHosts) {
			http.Error(w, "invalid host", http.StatusBadRequest)
			return
		}
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		http.Redirect(w, r, "https://"+host+r.RequestURI, http.StatusMovedPermanently)
	})
}
