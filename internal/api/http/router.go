package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sanitation-service/internal/api/http/handlers"
	"github.com/spec-kit/sanitation-service/internal/auth"
	"github.com/spec-kit/sanitation-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	Teams          *handlers.TeamsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Users.ChangePassword)
	authGroup.Post("/staff", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), cfg.Users.CreateStaff)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Post("", auth.RequireRole(domain.RoleCitizen, domain.RoleAdmin, domain.RoleStaff), cfg.Complaints.CreateComplaint)
	complaints.Get("", auth.RequireRole(domain.RoleCitizen, domain.RoleAdmin, domain.RoleStaff), cfg.Complaints.ListComplaints)
	complaints.Post("/:id/assign", auth.RequireRole(domain.RoleAdmin, domain.RoleStaff), cfg.Complaints.AssignComplaint)
	complaints.Post("/:id/resolve", auth.RequireRole(domain.RoleAdmin, domain.RoleStaff), cfg.Complaints.ResolveComplaint)

	teams := app.Group("/teams", cfg.AuthMiddleware.Handle)
	teams.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Teams.CreateTeam)
	teams.Get("", auth.RequireRole(domain.RoleAdmin, domain.RoleStaff), cfg.Teams.ListTeams)
	teams.Patch("/:name/status", auth.RequireRole(domain.RoleAdmin), cfg.Teams.UpdateTeamStatus)
}
