package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/virtuebox/backoffice/internal/token"
	"github.com/virtuebox/backoffice/internal/user"
)

// SessionCookie names the HTTP-only cookie carrying the signed session token.
const SessionCookie = "token"

const claimsKey = "session_claims"

// RequireAuth extracts the session cookie, verifies it, and stashes the
// claims for handlers. Missing and invalid tokens both map to 401. The raw
// token is never logged.
func RequireAuth(codec *token.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ferr := verifyCookie(c, codec)
		if ferr != nil {
			return ferr
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireAdmin is the stricter guard: a valid session with a non-admin role
// is rejected with 403, distinct from the 401 identity failures.
func RequireAdmin(codec *token.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ferr := verifyCookie(c, codec)
		if ferr != nil {
			return ferr
		}
		if claims.Role != string(user.RoleAdmin) {
			return fiber.NewError(http.StatusForbidden, "Forbidden: admin access required")
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// Claims returns the verified session claims placed by the guards.
func Claims(c *fiber.Ctx) (token.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(token.Claims)
	return claims, ok
}

func verifyCookie(c *fiber.Ctx, codec *token.Codec) (token.Claims, *fiber.Error) {
	raw := c.Cookies(SessionCookie)
	if raw == "" {
		return token.Claims{}, fiber.NewError(http.StatusUnauthorized, "Unauthorized: no token provided")
	}
	claims, err := codec.Verify(raw)
	if err != nil {
		return token.Claims{}, fiber.NewError(http.StatusUnauthorized, "Unauthorized: invalid or expired token")
	}
	return claims, nil
}
