package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/virtuebox/backoffice/internal/middleware"
	"github.com/virtuebox/backoffice/internal/partner"
	"github.com/virtuebox/backoffice/internal/token"
)

// RegisterPartnerRoutes wires partner management endpoints. The listing is
// available to any authenticated user (partners see only themselves); every
// mutation and per-id read is admin only. Mutations go through the
// idempotency replay when Redis is available.
func RegisterPartnerRoutes(r fiber.Router, h *partner.Handler, codec *token.Codec, d Deps) {
	authGuard := middleware.RequireAuth(codec)
	adminGuard := middleware.RequireAdmin(codec)

	mutation := func(handler fiber.Handler) []fiber.Handler {
		if d.Cache != nil {
			return []fiber.Handler{adminGuard, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger), handler}
		}
		return []fiber.Handler{adminGuard, handler}
	}

	group := r.Group("/partners")
	group.Get("/", authGuard, h.List)
	group.Post("/", mutation(h.Create)...)
	group.Get("/:id", adminGuard, h.Get)
	group.Put("/:id", mutation(h.Update)...)
	group.Patch("/:id", mutation(h.Toggle)...)
}
