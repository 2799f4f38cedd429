package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/virtuebox/backoffice/internal/config"
	"github.com/virtuebox/backoffice/internal/middleware"
)

// Handler exposes the login and session-introspection endpoints.
type Handler struct {
	svc *Service
	cfg config.Config
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(svc *Service, cfg config.Config) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	PartnerID string `json:"partnerId,omitempty"`
}

// Login validates credentials and sets the session token in an HTTP-only cookie.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "Email and password are required")
	}

	u, signed, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrAccountDeactivated):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case err != nil:
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(h.cfg.TokenTTL.Seconds()),
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"user": sessionUser{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      string(u.Role),
			PartnerID: u.PartnerID,
		},
	})
}

// Me echoes the authenticated session back from the verified cookie claims.
func (h *Handler) Me(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized: no token provided")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user": sessionUser{
			ID:        claims.UserID,
			Name:      claims.Name,
			Email:     claims.Email,
			Role:      claims.Role,
			PartnerID: claims.PartnerID,
		},
	})
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}
