package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/opsdesk/helpdesk-service/internal/auth"
	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/presence"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Presence       *presence.Tracker
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/counters", cfg.Health.Counters)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)

	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/password/reset/request", cfg.Staff.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Staff.ConfirmPasswordReset)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	protected.Post("/password/change", cfg.Staff.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireUser())
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:ticketID", cfg.Tickets.Get)
	tickets.Post("/:ticketID/comments", cfg.Tickets.AddComment)
	tickets.Post("/:ticketID/close", cfg.Tickets.Close)
	tickets.Get("/:ticketID/history", cfg.Tickets.History)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(), touchPresence(cfg.Presence))
	staff.Get("/presence", cfg.Admin.ActiveStaff)

	staff.Get("/tickets", cfg.StaffTickets.List)
	staff.Get("/tickets/:ticketID", cfg.StaffTickets.Get)
	staff.Post("/tickets/:ticketID/comments", cfg.StaffTickets.AddComment)
	staff.Patch("/tickets/:ticketID/status", cfg.StaffTickets.ChangeStatus)
	staff.Patch("/tickets/:ticketID/priority", cfg.StaffTickets.ChangePriority)
	staff.Patch("/tickets/:ticketID/assignee", cfg.StaffTickets.Assign)
	staff.Get("/tickets/:ticketID/history", cfg.StaffTickets.History)
	staff.Get("/tickets/:ticketID/sla", cfg.StaffTickets.SLAStatus)
	staff.Post("/tickets/:ticketID/merge", cfg.StaffTickets.Merge)
	staff.Post("/tickets/:ticketID/links", cfg.StaffTickets.CreateLink)
	staff.Get("/tickets/:ticketID/links", cfg.StaffTickets.ListLinks)
	staff.Delete("/ticket-links/:linkID", cfg.StaffTickets.DeleteLink)
	staff.Delete("/tickets/:ticketID", auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.StaffTickets.Delete)
	staff.Post("/escalations/run", cfg.StaffTickets.RunEscalations)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdmin))
	admin.Post("/statuses", cfg.Admin.CreateStatus)
	admin.Put("/statuses/:id", cfg.Admin.UpdateStatus)
	admin.Post("/statuses/:id/default", cfg.Admin.SetDefaultStatus)
	admin.Get("/statuses", cfg.Admin.ListStatuses)

	admin.Post("/priorities", cfg.Admin.CreatePriority)
	admin.Put("/priorities/:id", cfg.Admin.UpdatePriority)
	admin.Post("/priorities/:id/default", cfg.Admin.SetDefaultPriority)
	admin.Get("/priorities", cfg.Admin.ListPriorities)

	admin.Post("/categories", cfg.Admin.CreateCategory)
	admin.Put("/categories/:id", cfg.Admin.UpdateCategory)
	admin.Get("/categories", cfg.Admin.ListCategories)

	admin.Post("/companies", cfg.Admin.CreateCompany)
	admin.Put("/companies/:id", cfg.Admin.UpdateCompany)
	admin.Get("/companies", cfg.Admin.ListCompanies)
	admin.Get("/companies/:companyID/users", cfg.Staff.ListCompanyUsers)

	admin.Post("/departments", cfg.Admin.CreateDepartment)
	admin.Put("/departments/:id", cfg.Admin.UpdateDepartment)
	admin.Get("/departments", cfg.Admin.ListDepartments)
	admin.Get("/departments/:id/teams", cfg.Admin.ListTeams)

	admin.Post("/teams", cfg.Admin.CreateTeam)
	admin.Put("/teams/:id", cfg.Admin.UpdateTeam)

	admin.Post("/sla-rules", cfg.Admin.CreateSLARule)
	admin.Put("/sla-rules/:id", cfg.Admin.UpdateSLARule)
	admin.Delete("/sla-rules/:id", cfg.Admin.DeleteSLARule)
	admin.Get("/sla-rules", cfg.Admin.ListSLARules)

	admin.Post("/escalation-rules", cfg.Admin.CreateEscalationRule)
	admin.Put("/escalation-rules/:id", cfg.Admin.UpdateEscalationRule)
	admin.Delete("/escalation-rules/:id", cfg.Admin.DeleteEscalationRule)
	admin.Get("/escalation-rules", cfg.Admin.ListEscalationRules)

	admin.Post("/business-hours", cfg.Admin.CreateBusinessHours)
	admin.Put("/business-hours/:id", cfg.Admin.UpdateBusinessHours)
	admin.Delete("/business-hours/:id", cfg.Admin.DeleteBusinessHours)
	admin.Get("/business-hours", cfg.Admin.ListBusinessHours)

	admin.Post("/holidays", cfg.Admin.CreateHoliday)
	admin.Delete("/holidays/:id", cfg.Admin.DeleteHoliday)
	admin.Get("/holidays", cfg.Admin.ListHolidays)

	admin.Post("/staff", cfg.Staff.Create)
	admin.Patch("/staff/:staffID", cfg.Staff.Update)
	admin.Get("/staff", cfg.Staff.List)
}

// touchPresence marks the authenticated staff member active. Failures are
// swallowed so a presence backend outage never blocks ticket work.
func touchPresence(tracker *presence.Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tracker != nil {
			if principal, ok := auth.PrincipalFromContext(c); ok && principal.Staff != nil {
				_ = tracker.Touch(c.Context(), principal.Staff.ID)
			}
		}
		return c.Next()
	}
}
