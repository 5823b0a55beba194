package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/kinerja-go-api/internal/config"
	"github.com/noah-isme/kinerja-go-api/internal/handler"
	"github.com/noah-isme/kinerja-go-api/internal/middleware"
	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	TemplateHandler   *handler.TemplateHandler
	EvaluationHandler *handler.EvaluationHandler
	DashboardHandler  *handler.DashboardHandler
	UserHandler       *handler.UserHandler
	SettingHandler    *handler.SettingHandler
	ActivityHandler   *handler.ActivityHandler
	SessionMiddleware fiber.Handler
	AccessMiddleware  fiber.Handler
}

// Register wires the HTTP routes into the fiber application. The session and
// access middlewares run for every request, so every route below already sits
// behind the access policy engine's decision.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	if deps.SessionMiddleware != nil {
		app.Use(deps.SessionMiddleware)
	}
	if deps.AccessMiddleware != nil {
		app.Use(deps.AccessMiddleware)
	}

	app.Get("/healthz", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(app)
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(app.Group("/dashboard", middleware.RequireAuth()))
	}

	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.Register(app.Group("/evaluations", middleware.RequireAuth()))
	}

	if deps.TemplateHandler != nil {
		deps.TemplateHandler.Register(app.Group("/admin/templates", middleware.RequireRole(models.RoleAdmin, models.RoleAdminHR)))
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(app.Group("/admin/users", middleware.RequireRole(models.RoleAdmin, models.RoleAdminHR)))
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(app.Group("/admin/activity", middleware.RequireRole(models.RoleAdmin, models.RoleAdminHR)))
	}

	if deps.SettingHandler != nil {
		deps.SettingHandler.Register(app.Group("/settings", middleware.RequireRole(models.RoleAdmin)))
	}
}
