package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk-service/internal/api/dto"
	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/presence"
	"github.com/opsdesk/helpdesk-service/internal/service"
)

// AdminHandler exposes lookup table and SLA configuration endpoints.
type AdminHandler struct {
	admin    *service.AdminService
	presence *presence.Tracker
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService, tracker *presence.Tracker) *AdminHandler {
	return &AdminHandler{admin: adminService, presence: tracker}
}

// CreateStatus handles POST /admin/statuses.
func (h *AdminHandler) CreateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	status := statusFromRequest(req)
	if err := h.admin.CreateStatus(c.Context(), status); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": status})
}

// UpdateStatus handles PUT /admin/statuses/:id.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	status := statusFromRequest(req)
	status.ID = c.Params("id")
	if err := h.admin.UpdateStatus(c.Context(), status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": status})
}

// SetDefaultStatus handles POST /admin/statuses/:id/default.
func (h *AdminHandler) SetDefaultStatus(c *fiber.Ctx) error {
	if err := h.admin.SetDefaultStatus(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"default": true}})
}

// ListStatuses handles GET /admin/statuses.
func (h *AdminHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.admin.ListStatuses(c.Context(), c.QueryBool("active_only", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statuses})
}

// CreatePriority handles POST /admin/priorities.
func (h *AdminHandler) CreatePriority(c *fiber.Ctx) error {
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	priority := priorityFromRequest(req)
	if err := h.admin.CreatePriority(c.Context(), priority); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": priority})
}

// UpdatePriority handles PUT /admin/priorities/:id.
func (h *AdminHandler) UpdatePriority(c *fiber.Ctx) error {
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	priority := priorityFromRequest(req)
	priority.ID = c.Params("id")
	if err := h.admin.UpdatePriority(c.Context(), priority); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": priority})
}

// SetDefaultPriority handles POST /admin/priorities/:id/default.
func (h *AdminHandler) SetDefaultPriority(c *fiber.Ctx) error {
	if err := h.admin.SetDefaultPriority(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"default": true}})
}

// ListPriorities handles GET /admin/priorities.
func (h *AdminHandler) ListPriorities(c *fiber.Ctx) error {
	priorities, err := h.admin.ListPriorities(c.Context(), c.QueryBool("active_only", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": priorities})
}

// CreateCategory handles POST /admin/categories.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	category := &domain.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    req.IsActive,
	}
	if err := h.admin.CreateCategory(c.Context(), category); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": category})
}

// UpdateCategory handles PUT /admin/categories/:id.
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	category := &domain.Category{
		ID:          c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    req.IsActive,
	}
	if err := h.admin.UpdateCategory(c.Context(), category); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": category})
}

// ListCategories handles GET /admin/categories.
func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.admin.ListCategories(c.Context(), c.QueryBool("active_only", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// CreateCompany handles POST /admin/companies.
func (h *AdminHandler) CreateCompany(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	company := &domain.Company{Name: req.Name, Domain: req.Domain, IsActive: req.IsActive}
	if err := h.admin.CreateCompany(c.Context(), company); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": company})
}

// UpdateCompany handles PUT /admin/companies/:id.
func (h *AdminHandler) UpdateCompany(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	company := &domain.Company{ID: c.Params("id"), Name: req.Name, Domain: req.Domain, IsActive: req.IsActive}
	if err := h.admin.UpdateCompany(c.Context(), company); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": company})
}

// ListCompanies handles GET /admin/companies.
func (h *AdminHandler) ListCompanies(c *fiber.Ctx) error {
	companies, err := h.admin.ListCompanies(c.Context(), c.QueryBool("active_only", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": companies})
}

// CreateDepartment handles POST /admin/departments.
func (h *AdminHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	department := &domain.Department{Name: req.Name, Description: req.Description, IsActive: req.IsActive}
	if err := h.admin.CreateDepartment(c.Context(), department); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": department})
}

// UpdateDepartment handles PUT /admin/departments/:id.
func (h *AdminHandler) UpdateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	department := &domain.Department{ID: c.Params("id"), Name: req.Name, Description: req.Description, IsActive: req.IsActive}
	if err := h.admin.UpdateDepartment(c.Context(), department); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": department})
}

// ListDepartments handles GET /admin/departments.
func (h *AdminHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.admin.ListDepartments(c.Context(), c.QueryBool("active_only", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departments})
}

// CreateTeam handles POST /admin/teams.
func (h *AdminHandler) CreateTeam(c *fiber.Ctx) error {
	var req dto.TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	team := &domain.Team{DepartmentID: req.DepartmentID, Name: req.Name, Description: req.Description, IsActive: req.IsActive}
	if err := h.admin.CreateTeam(c.Context(), team); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": team})
}

// UpdateTeam handles PUT /admin/teams/:id.
func (h *AdminHandler) UpdateTeam(c *fiber.Ctx) error {
	var req dto.TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	team := &domain.Team{ID: c.Params("id"), DepartmentID: req.DepartmentID, Name: req.Name, Description: req.Description, IsActive: req.IsActive}
	if err := h.admin.UpdateTeam(c.Context(), team); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": team})
}

// ListTeams handles GET /admin/departments/:id/teams.
func (h *AdminHandler) ListTeams(c *fiber.Ctx) error {
	teams, err := h.admin.ListTeams(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teams})
}

// CreateSLARule handles POST /admin/sla-rules.
func (h *AdminHandler) CreateSLARule(c *fiber.Ctx) error {
	var req dto.SLARuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	rule := slaRuleFromRequest(req)
	if err := h.admin.CreateSLARule(c.Context(), rule); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": rule})
}

// UpdateSLARule handles PUT /admin/sla-rules/:id.
func (h *AdminHandler) UpdateSLARule(c *fiber.Ctx) error {
	var req dto.SLARuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	rule := slaRuleFromRequest(req)
	rule.ID = c.Params("id")
	if err := h.admin.UpdateSLARule(c.Context(), rule); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rule})
}

// DeleteSLARule handles DELETE /admin/sla-rules/:id.
func (h *AdminHandler) DeleteSLARule(c *fiber.Ctx) error {
	if err := h.admin.DeleteSLARule(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListSLARules handles GET /admin/sla-rules.
func (h *AdminHandler) ListSLARules(c *fiber.Ctx) error {
	rules, err := h.admin.ListSLARules(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rules})
}

// CreateEscalationRule handles POST /admin/escalation-rules.
func (h *AdminHandler) CreateEscalationRule(c *fiber.Ctx) error {
	var req dto.EscalationRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	rule := escalationRuleFromRequest(req)
	if err := h.admin.CreateEscalationRule(c.Context(), rule); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": rule})
}

// UpdateEscalationRule handles PUT /admin/escalation-rules/:id.
func (h *AdminHandler) UpdateEscalationRule(c *fiber.Ctx) error {
	var req dto.EscalationRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	rule := escalationRuleFromRequest(req)
	rule.ID = c.Params("id")
	if err := h.admin.UpdateEscalationRule(c.Context(), rule); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rule})
}

// DeleteEscalationRule handles DELETE /admin/escalation-rules/:id.
func (h *AdminHandler) DeleteEscalationRule(c *fiber.Ctx) error {
	if err := h.admin.DeleteEscalationRule(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListEscalationRules handles GET /admin/escalation-rules.
func (h *AdminHandler) ListEscalationRules(c *fiber.Ctx) error {
	rules, err := h.admin.ListEscalationRules(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rules})
}

// CreateBusinessHours handles POST /admin/business-hours.
func (h *AdminHandler) CreateBusinessHours(c *fiber.Ctx) error {
	var req dto.BusinessHoursRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	hours := businessHoursFromRequest(req)
	if err := h.admin.CreateBusinessHours(c.Context(), hours); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": hours})
}

// UpdateBusinessHours handles PUT /admin/business-hours/:id.
func (h *AdminHandler) UpdateBusinessHours(c *fiber.Ctx) error {
	var req dto.BusinessHoursRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	hours := businessHoursFromRequest(req)
	hours.ID = c.Params("id")
	if err := h.admin.UpdateBusinessHours(c.Context(), hours); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hours})
}

// DeleteBusinessHours handles DELETE /admin/business-hours/:id.
func (h *AdminHandler) DeleteBusinessHours(c *fiber.Ctx) error {
	if err := h.admin.DeleteBusinessHours(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListBusinessHours handles GET /admin/business-hours.
func (h *AdminHandler) ListBusinessHours(c *fiber.Ctx) error {
	hours, err := h.admin.ListBusinessHours(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hours})
}

// CreateHoliday handles POST /admin/holidays.
func (h *AdminHandler) CreateHoliday(c *fiber.Ctx) error {
	var req dto.HolidayRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	holiday := &domain.Holiday{Name: req.Name, Date: date}
	if err := h.admin.CreateHoliday(c.Context(), holiday); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": holiday})
}

// DeleteHoliday handles DELETE /admin/holidays/:id.
func (h *AdminHandler) DeleteHoliday(c *fiber.Ctx) error {
	if err := h.admin.DeleteHoliday(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListHolidays handles GET /admin/holidays.
func (h *AdminHandler) ListHolidays(c *fiber.Ctx) error {
	holidays, err := h.admin.ListHolidays(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": holidays})
}

// ActiveStaff handles GET /staff/presence.
func (h *AdminHandler) ActiveStaff(c *fiber.Ctx) error {
	ids, err := h.presence.Active(c.Context())
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"staff_ids": ids}})
}

func statusFromRequest(req dto.StatusRequest) *domain.Status {
	return &domain.Status{
		Name:       req.Name,
		IsDefault:  req.IsDefault,
		IsResolved: req.IsResolved,
		IsClosed:   req.IsClosed,
		IsActive:   req.IsActive,
		SortOrder:  req.SortOrder,
	}
}

func priorityFromRequest(req dto.PriorityRequest) *domain.Priority {
	return &domain.Priority{
		Name:                  req.Name,
		Level:                 req.Level,
		ResponseTimeMinutes:   req.ResponseTimeMinutes,
		ResolutionTimeMinutes: req.ResolutionTimeMinutes,
		IsDefault:             req.IsDefault,
		IsActive:              req.IsActive,
	}
}

func slaRuleFromRequest(req dto.SLARuleRequest) *domain.SLARule {
	return &domain.SLARule{
		Name:                  req.Name,
		PriorityID:            req.PriorityID,
		CategoryID:            req.CategoryID,
		CompanyID:             req.CompanyID,
		ResponseTimeMinutes:   req.ResponseTimeMinutes,
		ResolutionTimeMinutes: req.ResolutionTimeMinutes,
		BusinessHoursOnly:     req.BusinessHoursOnly,
		IsActive:              req.IsActive,
	}
}

func escalationRuleFromRequest(req dto.EscalationRuleRequest) *domain.EscalationRule {
	return &domain.EscalationRule{
		Name:           req.Name,
		SLARuleID:      req.SLARuleID,
		PriorityID:     req.PriorityID,
		CategoryID:     req.CategoryID,
		TriggerMinutes: req.TriggerMinutes,
		Action:         domain.EscalationAction(req.Action),
		NotifyUserIDs:  req.NotifyUserIDs,
		NotifyRoleIDs:  req.NotifyRoleIDs,
		ReassignToID:   req.ReassignToID,
		IsActive:       req.IsActive,
	}
}

func businessHoursFromRequest(req dto.BusinessHoursRequest) *domain.BusinessHours {
	return &domain.BusinessHours{
		DayOfWeek:    time.Weekday(req.DayOfWeek),
		StartMinutes: req.StartMinutes,
		EndMinutes:   req.EndMinutes,
		TimeZone:     req.TimeZone,
		IsActive:     req.IsActive,
	}
}
