package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/civicdesk/grievance-service/internal/api/http/handlers"
	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Grievances     *handlers.GrievancesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api/v1")
	api.Post("/grievances", cfg.Grievances.Submit)
	api.Get("/grievances/:ticket", cfg.Grievances.Track)
	api.Get("/grievances/:ticket/report", cfg.Grievances.Report)
	api.Post("/triage/preview", cfg.Grievances.Preview)
	api.Get("/dashboard", cfg.Grievances.Dashboard)

	api.Post("/admin/login", cfg.Admin.Login)

	admin := api.Group("/admin/grievances", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("", cfg.Admin.List)
	admin.Get("/search", cfg.Admin.Search)
	admin.Patch("/:ticket/status", cfg.Admin.UpdateStatus)
	admin.Delete("", cfg.Admin.DeleteAll)
}
