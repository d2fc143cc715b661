package auth_http

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, handler *AuthHandler) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/status", handler.StatusHandler)
		r.Post("/logout", handler.LogoutHandler)
		r.Get("/google", handler.GoogleLoginHandler)
		r.Get("/google/redirect", handler.GoogleRedirectHandler)
	})
}
