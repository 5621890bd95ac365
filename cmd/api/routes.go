package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"horizon/internal/shared/config"
	"horizon/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.Server.AllowedHosts))

	r.Get("/health", deps.HealthHandler.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Post("/auth/sign-up", deps.AuthHandler.HandleSignUp)
		r.Post("/auth/sign-in", deps.AuthHandler.HandleSignIn)
		r.Post("/auth/logout", deps.AuthHandler.HandleLogout)
		r.Get("/auth/me", deps.AuthHandler.HandleMe)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Identity, cfg.Session.CookieName))

			r.Get("/users/me", deps.UserHandler.HandleMe)

			r.Get("/banks", deps.BankHandler.HandleList)
			r.Get("/banks/{id}", deps.BankHandler.HandleGet)
			r.Post("/banks/link-token", deps.BankHandler.HandleLinkToken)
			r.Post("/banks/exchange", deps.BankHandler.HandleExchange)

			r.Get("/accounts", deps.AccountHandler.HandleList)
			r.Get("/accounts/{id}", deps.AccountHandler.HandleGet)
			r.Get("/home", deps.AccountHandler.HandleHome)

			r.Post("/transfers", deps.TransferHandler.HandleSend)

			r.Post("/notifications/devices", deps.NotificationHandler.HandleRegisterDevice)
		})
	})

	handler := middleware.Telemetry(r)

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Info().Msg("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
