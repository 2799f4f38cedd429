package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/virtuebox/backoffice/internal/auth"
	"github.com/virtuebox/backoffice/internal/middleware"
	"github.com/virtuebox/backoffice/internal/token"
)

// RegisterAuthRoutes wires the authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, codec *token.Codec, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Get("/me", middleware.RequireAuth(codec), h.Me)
	group.Post("/logout", h.Logout)
}
