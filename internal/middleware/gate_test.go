package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func gateApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(Gate(GateConfig{
		Secret:            testSecret,
		ProtectedPrefixes: []string{"/dashboard", "/partners"},
		AdminPrefixes:     []string{"/partners"},
		LoginPath:         "/login",
		DefaultPath:       "/dashboard",
	}))
	page := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/login", page)
	app.Get("/dashboard", page)
	app.Get("/partners", page)
	app.Get("/partners/new", page)
	app.Get("/public", page)
	return app
}

func navigate(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	app := gateApp(t)

	resp := navigate(t, app, "/dashboard", "")
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	// The intended path survives as the return target.
	if loc := resp.Header.Get("Location"); loc != "/login?redirect=%2Fdashboard" {
		t.Fatalf("unexpected redirect target %q", loc)
	}

	resp = navigate(t, app, "/dashboard", "garbage-token")
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("invalid token should redirect, got %d", resp.StatusCode)
	}
}

func TestGateAllowsAuthenticatedDashboard(t *testing.T) {
	app := gateApp(t)
	tok := signFor(t, testCodec(t), "PARTNER")

	resp := navigate(t, app, "/dashboard", tok)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGateSendsNonAdminToDefaultPage(t *testing.T) {
	app := gateApp(t)
	codec := testCodec(t)

	resp := navigate(t, app, "/partners", signFor(t, codec, "PARTNER"))
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %q", loc)
	}

	resp = navigate(t, app, "/partners/new", signFor(t, codec, "ADMIN"))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin should pass, got %d", resp.StatusCode)
	}
}

func TestGateIgnoresUnprotectedPaths(t *testing.T) {
	app := gateApp(t)

	resp := navigate(t, app, "/public", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on public path, got %d", resp.StatusCode)
	}
	resp = navigate(t, app, "/login", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on login page, got %d", resp.StatusCode)
	}
}
