package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/gram-panchayat/panchayat-service/internal/api/http/handlers"
	"github.com/gram-panchayat/panchayat-service/internal/auth"
	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
	Gate           fiber.Handler
	Policy         *auth.AreaPolicy
	Metrics        nethttp.Handler
}

// RegisterRoutes wires HTTP routes. The access gate runs for every request
// and leaves paths outside the role areas and auth pages alone.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Gate != nil {
		app.Use(cfg.Gate)
	}

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	authGroup := app.Group("/api/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.Me)

	adminGroup := app.Group("/api/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	adminGroup.Post("/monitors", cfg.Admin.CreateMonitor)

	app.Get(auth.LoginPath, cfg.Auth.LoginPage)
	app.Get(auth.SignupPath, cfg.Auth.SignupPage)

	policy := cfg.Policy
	if policy == nil {
		policy = auth.DefaultAreaPolicy()
	}
	for _, area := range policy.Areas() {
		app.Get(area.Dashboard, cfg.Dashboard.Show)
		if area.Prefix != area.Dashboard {
			app.Get(area.Prefix, cfg.Dashboard.Show)
		}
	}
}
