package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/virtuebox/backoffice/internal/middleware"
)

// RegisterPages mounts the navigation gate and the browser-facing page
// shells. The dashboard is open to any authenticated role; the partner
// management page is admin territory. The shells only bootstrap the client;
// all data flows through /api.
func RegisterPages(app *fiber.App, secret []byte) {
	app.Use(middleware.Gate(middleware.GateConfig{
		Secret:            secret,
		ProtectedPrefixes: []string{"/dashboard", "/partners"},
		AdminPrefixes:     []string{"/partners"},
		LoginPath:         "/login",
		DefaultPath:       "/dashboard",
	}))

	app.Get("/login", pageShell("Sign in"))
	app.Get("/dashboard", pageShell("Dashboard"))
	app.Get("/partners", pageShell("Partner Management"))
}

func pageShell(title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(`<!doctype html><html><head><title>` + title +
			`</title></head><body data-page="` + c.Path() + `"><div id="app"></div></body></html>`)
	}
}
