package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/ticket-listing/internal/api/http/handlers"
	"github.com/spec-kit/ticket-listing/internal/auth"
	"github.com/spec-kit/ticket-listing/internal/domain"
	"github.com/spec-kit/ticket-listing/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	panelOnly := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RoleReseller)}
	app.Get("/tickets", append(panelOnly, cfg.Tickets.ListTickets)...)
	app.Get("/page-message", append(panelOnly, cfg.Tickets.PopPageMessage)...)
}
