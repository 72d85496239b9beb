package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health                *handlers.HealthHandler
	Auth                  *handlers.AuthHandler
	Users                 *handlers.UsersHandler
	AuthMiddleware        *auth.AuthMiddleware
	UnauthenticatedStatus int
}

// RegisterRoutes wires HTTP routes. The auth filter runs on every request;
// exempt paths are decided by the filter itself.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	requireAuth := auth.RequireAuthenticated(cfg.UnauthenticatedStatus)
	app.Get("/api/users", requireAuth, cfg.Users.Probe)
}
