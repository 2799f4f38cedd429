package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/virtuebox/backoffice/internal/token"
	"github.com/virtuebox/backoffice/internal/user"
)

// GateConfig describes the browser navigation policy enforced before any
// page handler runs.
type GateConfig struct {
	// Secret verifies session cookies via token.VerifyHS256; the gate stays
	// off the jwt library on purpose.
	Secret []byte

	// ProtectedPrefixes require a valid session; AdminPrefixes additionally
	// require the ADMIN role.
	ProtectedPrefixes []string
	AdminPrefixes     []string

	// LoginPath receives unauthenticated visitors, with the intended path
	// preserved in a redirect query parameter. DefaultPath is where
	// non-admins land when they hit an admin prefix.
	LoginPath   string
	DefaultPath string
}

// Gate redirects unauthenticated or under-privileged page navigations.
// Unmatched paths pass through untouched.
func Gate(cfg GateConfig) fiber.Handler {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.DefaultPath == "" {
		cfg.DefaultPath = "/dashboard"
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		if !matchesPrefix(path, cfg.ProtectedPrefixes) {
			return c.Next()
		}

		raw := c.Cookies(SessionCookie)
		claims, err := token.VerifyHS256(raw, cfg.Secret)
		if raw == "" || err != nil {
			target := cfg.LoginPath + "?redirect=" + url.QueryEscape(path)
			return c.Redirect(target, fiber.StatusFound)
		}

		if matchesPrefix(path, cfg.AdminPrefixes) && claims.Role != string(user.RoleAdmin) {
			return c.Redirect(cfg.DefaultPath, fiber.StatusFound)
		}

		return c.Next()
	}
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
