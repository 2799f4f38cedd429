package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func rateLimitedApp(t *testing.T, cache *redis.Client) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Post("/login", LoginRateLimit(cache, 3), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func attemptLogin(t *testing.T, app *fiber.App, email string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(`{"email":"`+email+`"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestLoginRateLimitBlocksAfterThreshold(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := rateLimitedApp(t, cache)

	for i := 0; i < 3; i++ {
		if status := attemptLogin(t, app, "admin@example.com"); status != fiber.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, status)
		}
	}
	if status := attemptLogin(t, app, "admin@example.com"); status != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", status)
	}

	// Limits are per email.
	if status := attemptLogin(t, app, "other@example.com"); status != fiber.StatusOK {
		t.Fatalf("different email should pass, got %d", status)
	}
}

func TestLoginRateLimitIsNoopWithoutRedis(t *testing.T) {
	app := rateLimitedApp(t, nil)
	for i := 0; i < 10; i++ {
		if status := attemptLogin(t, app, "admin@example.com"); status != fiber.StatusOK {
			t.Fatalf("expected fail-open behavior, got %d", status)
		}
	}
}
