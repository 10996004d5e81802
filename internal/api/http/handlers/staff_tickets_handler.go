package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk-service/internal/api/dto"
	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/service"
)

// StaffTicketsHandler exposes staff-facing ticket operations.
type StaffTicketsHandler struct {
	tickets     *service.TicketService
	escalations *service.EscalationService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(ticketService *service.TicketService, escalationService *service.EscalationService) *StaffTicketsHandler {
	return &StaffTicketsHandler{tickets: ticketService, escalations: escalationService}
}

// List handles GET /staff/tickets.
func (h *StaffTicketsHandler) List(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	filter := service.TicketStaffFilter{
		CompanyID:      optionalQuery(c, "company_id"),
		DepartmentID:   optionalQuery(c, "department_id"),
		TeamID:         optionalQuery(c, "team_id"),
		AssignedToID:   optionalQuery(c, "assigned_to_id"),
		CategoryID:     optionalQuery(c, "category_id"),
		StatusIDs:      splitQueryList(c.Query("status_ids")),
		PriorityIDs:    splitQueryList(c.Query("priority_ids")),
		OnlyBreached:   c.QueryBool("breached", false),
		SearchTerm:     optionalQuery(c, "search"),
		CreatedFrom:    parseTimeQuery(c.Query("created_from")),
		CreatedTo:      parseTimeQuery(c.Query("created_to")),
		UpdatedFrom:    parseTimeQuery(c.Query("updated_from")),
		UpdatedTo:      parseTimeQuery(c.Query("updated_to")),
		IncludeDeleted: c.QueryBool("include_deleted", false),
		Limit:          c.QueryInt("limit", 50),
		Offset:         c.QueryInt("offset", 0),
	}

	tickets, err := h.tickets.ListStaffTickets(c.Context(), staff, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// Get handles GET /staff/tickets/:ticketID.
func (h *StaffTicketsHandler) Get(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	ticket, comments, err := h.tickets.GetTicketForStaff(c.Context(), staff, c.Params("ticketID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"ticket":   dto.NewTicketResponse(ticket),
		"comments": dto.NewCommentResponses(comments),
	}})
}

// AddComment handles POST /staff/tickets/:ticketID/comments.
func (h *StaffTicketsHandler) AddComment(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	var req dto.CommentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	commentType := domain.TicketCommentType(req.CommentType)
	if commentType == "" {
		commentType = domain.CommentTypePublicReply
	}

	comment, err := h.tickets.AddComment(c.Context(), domain.SubjectTypeStaff, nil, staff,
		c.Params("ticketID"), commentType, req.Body, commentAttachments(req.Attachments))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// ChangeStatus handles PATCH /staff/tickets/:ticketID/status.
func (h *StaffTicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.StatusID == "" {
		return fiber.NewError(http.StatusBadRequest, "status_id required")
	}

	ticket, err := h.tickets.ChangeStatus(c.Context(), staff, c.Params("ticketID"), req.StatusID, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ChangePriority handles PATCH /staff/tickets/:ticketID/priority.
func (h *StaffTicketsHandler) ChangePriority(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	var req dto.PriorityChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.PriorityID == "" {
		return fiber.NewError(http.StatusBadRequest, "priority_id required")
	}

	ticket, err := h.tickets.UpdatePriority(c.Context(), staff, c.Params("ticketID"), req.PriorityID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Assign handles PATCH /staff/tickets/:ticketID/assignee.
func (h *StaffTicketsHandler) Assign(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	ticket, err := h.tickets.Assign(c.Context(), staff, c.Params("ticketID"), req.AssigneeID, req.TeamID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// History handles GET /staff/tickets/:ticketID/history.
func (h *StaffTicketsHandler) History(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	entries, err := h.tickets.ListHistoryForStaff(c.Context(), staff, c.Params("ticketID"),
		c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryResponses(entries)})
}

// SLAStatus handles GET /staff/tickets/:ticketID/sla.
func (h *StaffTicketsHandler) SLAStatus(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	status, err := h.tickets.SLAStatusForStaff(c.Context(), staff, c.Params("ticketID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSLAStatusResponse(status)})
}

// Merge handles POST /staff/tickets/:ticketID/merge.
func (h *StaffTicketsHandler) Merge(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	var req dto.MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	results, err := h.tickets.MergeTickets(c.Context(), staff, c.Params("ticketID"), req.SourceTicketIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMergeResultResponses(results)})
}

// CreateLink handles POST /staff/tickets/:ticketID/links.
func (h *StaffTicketsHandler) CreateLink(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	var req dto.LinkCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	link, err := h.tickets.LinkTickets(c.Context(), staff, c.Params("ticketID"),
		req.TargetTicketID, domain.TicketLinkType(req.LinkType))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLinkResponse(link)})
}

// ListLinks handles GET /staff/tickets/:ticketID/links.
func (h *StaffTicketsHandler) ListLinks(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	links, err := h.tickets.ListLinks(c.Context(), staff, c.Params("ticketID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLinkResponses(links)})
}

// DeleteLink handles DELETE /staff/ticket-links/:linkID.
func (h *StaffTicketsHandler) DeleteLink(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	if err := h.tickets.UnlinkTickets(c.Context(), staff, c.Params("linkID")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /staff/tickets/:ticketID.
func (h *StaffTicketsHandler) Delete(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	if err := h.tickets.SoftDelete(c.Context(), staff, c.Params("ticketID")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RunEscalations handles POST /staff/escalations/run.
func (h *StaffTicketsHandler) RunEscalations(c *fiber.Ctx) error {
	if _, err := requireStaff(c); err != nil {
		return err
	}

	result, err := h.escalations.Run(c.Context())
	if err != nil {
		return err
	}

	fired := make([]fiber.Map, 0, len(result.Fired))
	for _, f := range result.Fired {
		fired = append(fired, fiber.Map{
			"ticket_id":         f.TicketID,
			"rule_id":           f.RuleID,
			"action":            f.Action,
			"notified_user_ids": f.NotifiedUserIDs,
			"new_priority_id":   f.NewPriorityID,
			"reassigned_to_id":  f.ReassignedToID,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"scanned_tickets": result.ScannedTickets,
		"fired":           fired,
	}})
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	return &value
}
