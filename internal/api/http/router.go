package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/http/handlers"
	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	EditRequests   *handlers.EditRequestsHandler
	Formations     *handlers.FormationsHandler
	Offices        *handlers.OfficesHandler
	Notifications  *handlers.NotificationsHandler
	Dashboard      *handlers.DashboardHandler
	Directory      *handlers.DirectoryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)
	authGroup.Post("/staff/login", cfg.Auth.StaffLogin)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/auth/me", auth.RequireAnyRole(), cfg.Auth.Me)
	protected.Post("/auth/admins", auth.RequireAdmin(domain.AdminRoleSpecial), cfg.Auth.CreateAdmin)
	protected.Put("/auth/staff/:id/password", auth.RequireAdmin(), cfg.Auth.SetStaffPassword)

	staff := protected.Group("/staff")
	staff.Get("/", auth.RequireAnyRole(), cfg.Staff.List)
	staff.Post("/", auth.RequireAdmin(), cfg.Staff.Create)
	staff.Get("/me", auth.RequireStaffRole(), cfg.Staff.Me)
	staff.Post("/out-request", auth.RequireStaffRole(), cfg.Staff.RaiseOutRequest)
	staff.Get("/:id", auth.RequireAnyRole(), cfg.Staff.Get)
	staff.Patch("/:id", auth.RequireAdmin(), cfg.Staff.Update)
	staff.Delete("/:id", auth.RequireAdmin(domain.AdminRoleSpecial), cfg.Staff.Delete)
	staff.Put("/:id/role", auth.RequireAdmin(), cfg.Staff.ChangeRole)
	staff.Put("/:id/posting", auth.RequireAdmin(), cfg.Staff.AssignPosting)
	staff.Put("/:id/edit-flags", auth.RequireAdmin(), cfg.Staff.SetEditFlags)
	staff.Post("/:id/exit", auth.RequireAdmin(), cfg.Staff.RecordExit)
	staff.Put("/:id/out-request", auth.RequireAdmin(), cfg.Staff.ResolveOutRequest)
	staff.Post("/:id/edit-requests", auth.RequireAnyRole(), cfg.EditRequests.Submit)

	editRequests := protected.Group("/edit-requests", auth.RequireAdmin())
	editRequests.Get("/", cfg.EditRequests.List)
	editRequests.Get("/:id", cfg.EditRequests.Get)
	editRequests.Post("/:id/approve", cfg.EditRequests.Approve)
	editRequests.Post("/:id/reject", cfg.EditRequests.Reject)

	formations := protected.Group("/formations")
	formations.Get("/", auth.RequireAnyRole(), cfg.Formations.List)
	formations.Post("/", auth.RequireAdmin(domain.AdminRoleSpecial), cfg.Formations.Create)
	formations.Get("/:id", auth.RequireAnyRole(), cfg.Formations.Get)
	formations.Put("/:id", auth.RequireAdmin(domain.AdminRoleSpecial), cfg.Formations.Update)
	formations.Get("/:id/scope", auth.RequireAnyRole(), cfg.Formations.Scope)

	offices := protected.Group("/offices")
	offices.Get("/", auth.RequireAnyRole(), cfg.Offices.List)
	offices.Post("/", auth.RequireAdmin(), cfg.Offices.Create)
	offices.Get("/:id", auth.RequireAnyRole(), cfg.Offices.Get)
	offices.Put("/:id", auth.RequireAdmin(), cfg.Offices.Update)
	offices.Delete("/:id", auth.RequireAdmin(), cfg.Offices.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", auth.RequireAnyRole(), cfg.Notifications.List)
	notifications.Post("/broadcast", auth.RequireAdmin(), cfg.Notifications.Broadcast)
	notifications.Post("/:id/read", auth.RequireAnyRole(), cfg.Notifications.MarkRead)

	protected.Get("/dashboard/stats", auth.RequireAnyRole(), cfg.Dashboard.Stats)
	protected.Post("/retirements/scan", auth.RequireAdmin(domain.AdminRoleSpecial), cfg.Dashboard.RunRetirementScan)
	protected.Get("/audit-logs", auth.RequireAdmin(domain.AdminRoleSpecial), cfg.Dashboard.AuditLogs)

	protected.Get("/states", auth.RequireAnyRole(), cfg.Directory.ListStates)
	protected.Get("/states/:id/lgas", auth.RequireAnyRole(), cfg.Directory.ListLGAs)
}
