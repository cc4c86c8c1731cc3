package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Biyayaa/scholarship-api/internal/config"
	"github.com/Biyayaa/scholarship-api/internal/handler"
	"github.com/Biyayaa/scholarship-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	ApplicationHandler *handler.ApplicationHandler
	AdminHandler       *handler.AdminHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.ApplicationHandler != nil {
		applications := api.Group("/applications", jwtMiddleware, middleware.RequireRole("applicant"))
		deps.ApplicationHandler.Register(applications)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin/applications", jwtMiddleware, middleware.RequireRole("admin"))
		deps.AdminHandler.Register(admin)
	}
}
