package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/events"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	"github.com/opsdesk/helpdesk-service/internal/ticketnumber"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util/errorutil"
)

// TicketService coordinates ticket lifecycle workflows. Status semantics
// come from the status rows' flags; there is no hardcoded transition
// table.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.TicketCommentRepository
	attachments repository.AttachmentRepository
	statuses    repository.StatusRepository
	priorities  repository.PriorityRepository
	categories  repository.CategoryRepository
	departments repository.DepartmentRepository
	teams       repository.TeamRepository
	staff       repository.StaffRepository
	links       repository.TicketLinkRepository
	history     repository.TicketHistoryRepository
	slas        *SLAService
	numbers     ticketnumber.Generator
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.TicketCommentRepository
	AttachmentRepo repository.AttachmentRepository
	StatusRepo     repository.StatusRepository
	PriorityRepo   repository.PriorityRepository
	CategoryRepo   repository.CategoryRepository
	DepartmentRepo repository.DepartmentRepository
	TeamRepo       repository.TeamRepository
	StaffRepo      repository.StaffRepository
	LinkRepo       repository.TicketLinkRepository
	HistoryRepo    repository.TicketHistoryRepository
	SLAService     *SLAService
	Numbers        ticketnumber.Generator
	Dispatcher     events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title        string
	Description  string
	CategoryID   string
	DepartmentID string
	TeamID       *string
	PriorityID   string
	Tags         []string
}

// TicketUserFilter describes end-user listing filters.
type TicketUserFilter struct {
	StatusIDs   []string
	PriorityIDs []string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketStaffFilter describes staff listing filters.
type TicketStaffFilter struct {
	CompanyID    *string
	DepartmentID *string
	TeamID       *string
	AssignedToID *string
	CategoryID   *string
	StatusIDs    []string
	PriorityIDs  []string
	OnlyBreached bool
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	UpdatedFrom  *time.Time
	UpdatedTo    *time.Time
	// IncludeDeleted opts an audit listing into soft-deleted rows.
	// Honored for admins only.
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// CommentAttachmentInput defines attachment metadata.
type CommentAttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		statuses:    deps.StatusRepo,
		priorities:  deps.PriorityRepo,
		categories:  deps.CategoryRepo,
		departments: deps.DepartmentRepo,
		teams:       deps.TeamRepo,
		staff:       deps.StaffRepo,
		links:       deps.LinkRepo,
		history:     deps.HistoryRepo,
		slas:        deps.SLAService,
		numbers:     deps.Numbers,
		dispatcher:  deps.Dispatcher,
		now:         time.Now,
	}
}

// CreateTicket opens a ticket for a user. The ticket starts in the default
// status with SLA deadlines stamped from the resolved target.
func (s *TicketService) CreateTicket(ctx context.Context, user *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, lookupError(err, "category")
	}
	if !category.IsActive {
		return nil, apperrors.NewValidationError("category inactive", nil)
	}

	dept, err := s.departments.GetByID(ctx, input.DepartmentID)
	if err != nil {
		return nil, lookupError(err, "department")
	}
	if !dept.IsActive {
		return nil, apperrors.NewValidationError("department inactive", nil)
	}
	if input.TeamID != nil {
		team, err := s.teams.GetByID(ctx, *input.TeamID)
		if err != nil {
			return nil, lookupError(err, "team")
		}
		if !team.IsActive {
			return nil, apperrors.NewValidationError("team inactive", nil)
		}
		if team.DepartmentID != input.DepartmentID {
			return nil, apperrors.NewValidationError("team not part of department", nil)
		}
	}

	priorityID := input.PriorityID
	if priorityID == "" {
		fallback, err := s.priorities.GetDefault(ctx)
		if err != nil {
			return nil, apperrors.NewConflict("no default priority configured", nil)
		}
		priorityID = fallback.ID
	} else {
		priority, err := s.priorities.GetByID(ctx, priorityID)
		if err != nil {
			return nil, lookupError(err, "priority")
		}
		if !priority.IsActive {
			return nil, apperrors.NewValidationError("priority inactive", nil)
		}
	}

	status, err := s.statuses.GetDefault(ctx)
	if err != nil {
		return nil, apperrors.NewConflict("no default status configured", nil)
	}

	number, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		TicketNumber: number,
		Title:        title,
		Description:  description,
		PriorityID:   priorityID,
		StatusID:     status.ID,
		CategoryID:   input.CategoryID,
		CompanyID:    user.CompanyID,
		DepartmentID: input.DepartmentID,
		TeamID:       input.TeamID,
		CreatedByID:  user.ID,
		Tags:         input.Tags,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	// Deadlines anchor at the persisted creation time.
	if err := s.slas.ApplyTargets(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    userActor(user.ID),
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			CompanyID:    ticket.CompanyID,
			DepartmentID: ticket.DepartmentID,
			TeamID:       ticket.TeamID,
			PriorityID:   ticket.PriorityID,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// ListUserTickets returns paginated tickets created by the user.
func (s *TicketService) ListUserTickets(ctx context.Context, user *domain.User, filter TicketUserFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		CreatedByID: &user.ID,
		StatusIDs:   filter.StatusIDs,
		PriorityIDs: filter.PriorityIDs,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicketForUser fetches a ticket with its visible comments, ensuring
// ownership. Internal notes are never exposed to end-users.
func (s *TicketService) GetTicketForUser(ctx context.Context, user *domain.User, ticketID string) (*domain.Ticket, []domain.TicketComment, error) {
	ticket, err := s.loadVisible(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if ticket.CreatedByID != user.ID {
		return nil, nil, apperrors.NewNotFound("ticket", nil)
	}
	comments, err := s.visibleCommentsForUser(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, comments, nil
}

// ListStaffTickets returns tickets accessible to staff.
func (s *TicketService) ListStaffTickets(ctx context.Context, staff *domain.StaffMember, filter TicketStaffFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		CompanyID:    filter.CompanyID,
		DepartmentID: filter.DepartmentID,
		TeamID:       filter.TeamID,
		AssignedToID: filter.AssignedToID,
		CategoryID:   filter.CategoryID,
		StatusIDs:    filter.StatusIDs,
		PriorityIDs:  filter.PriorityIDs,
		OnlyBreached: filter.OnlyBreached,
		SearchTerm:   filter.SearchTerm,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		UpdatedFrom:  filter.UpdatedFrom,
		UpdatedTo:    filter.UpdatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	if filter.IncludeDeleted && staff != nil && staff.Role == domain.StaffRoleAdmin {
		repoFilter.IncludeDeleted = true
	}
	s.applyStaffScope(&repoFilter, staff)
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicketForStaff fetches a ticket with all comments, ensuring staff
// access. Soft-deleted tickets are returned too; listings exclude them
// but the direct-ID audit lookup must not.
func (s *TicketService) GetTicketForStaff(ctx context.Context, staff *domain.StaffMember, ticketID string) (*domain.Ticket, []domain.TicketComment, error) {
	ticket, err := s.loadAny(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	comments, err := s.commentsWithAttachments(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, comments, nil
}

// AddComment appends a comment to a ticket. The first public staff reply
// stamps FirstResponseAt exactly once.
func (s *TicketService) AddComment(ctx context.Context, actor domain.SubjectType, user *domain.User, staff *domain.StaffMember, ticketID string, commentType domain.TicketCommentType, body string, attachments []CommentAttachmentInput) (*domain.TicketComment, error) {
	ticket, err := s.loadMutable(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	comment := &domain.TicketComment{
		TicketID:    ticket.ID,
		CommentType: commentType,
		Body:        strings.TrimSpace(body),
	}
	if comment.Body == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}

	switch actor {
	case domain.SubjectTypeUser:
		if user == nil || ticket.CreatedByID != user.ID {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		if commentType != domain.CommentTypePublicReply {
			return nil, apperrors.NewValidationError("users can only post public replies", nil)
		}
		comment.AuthorType = domain.AuthorTypeUser
		comment.AuthorID = &user.ID
	case domain.SubjectTypeStaff:
		if staff == nil {
			return nil, apperrors.NewForbidden("staff context required")
		}
		if !s.staffCanAccessTicket(staff, ticket) {
			return nil, apperrors.NewForbidden("access denied")
		}
		if commentType != domain.CommentTypePublicReply && commentType != domain.CommentTypeInternalNote {
			return nil, apperrors.NewValidationError("invalid comment type for staff", nil)
		}
		comment.AuthorType = domain.AuthorTypeStaff
		comment.AuthorID = &staff.ID
	default:
		return nil, apperrors.NewForbidden("unknown actor")
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	for _, att := range attachments {
		record := &domain.AttachmentReference{
			TicketCommentID: comment.ID,
			StorageKey:      att.StorageKey,
			FileName:        att.FileName,
			MimeType:        att.MimeType,
			SizeBytes:       att.SizeBytes,
		}
		if err := s.attachments.Create(ctx, record); err != nil {
			return nil, err
		}
		comment.Attachments = append(comment.Attachments, *record)
	}

	firstResponse := false
	if actor == domain.SubjectTypeStaff && commentType == domain.CommentTypePublicReply {
		firstResponse, err = s.recordFirstResponse(ctx, ticket, staff)
		if err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		Actor:    actorFor(actor, comment.AuthorID),
		Payload: events.TicketCommentAddedPayload{
			CommentID:     comment.ID,
			CommentType:   comment.CommentType,
			AuthorType:    comment.AuthorType,
			AuthorID:      comment.AuthorID,
			BodyPreview:   stringPreview(comment.Body, 120),
			FirstResponse: firstResponse,
		},
	})
	return comment, nil
}

// ChangeStatus moves a ticket into another status. The status row's flags
// drive the side effects: resolving stamps ResolvedAt once, closing stamps
// ClosedAt once. Reopening never clears either timestamp.
func (s *TicketService) ChangeStatus(ctx context.Context, staff *domain.StaffMember, ticketID, newStatusID, comment string) (*domain.Ticket, error) {
	if staff == nil {
		return nil, apperrors.NewForbidden("staff required")
	}
	ticket, err := s.loadMutable(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return s.applyStatus(ctx, ticket, newStatusID, comment, domain.AuthorTypeStaff, &staff.ID)
}

// CloseTicketAsUser lets the requester close their own resolved ticket.
func (s *TicketService) CloseTicketAsUser(ctx context.Context, user *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadMutable(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatedByID != user.ID {
		return nil, apperrors.NewNotFound("ticket", nil)
	}

	current, err := s.statuses.GetByID(ctx, ticket.StatusID)
	if err != nil {
		return nil, err
	}
	if !current.IsResolved {
		return nil, apperrors.NewConflict("ticket is not resolved yet", nil)
	}

	closing, err := s.closingStatus(ctx)
	if err != nil {
		return nil, err
	}
	return s.applyStatus(ctx, ticket, closing.ID, "closed by requester", domain.AuthorTypeUser, &user.ID)
}

// UpdatePriority changes ticket priority and re-resolves SLA deadlines
// from the new target, still anchored at creation time.
func (s *TicketService) UpdatePriority(ctx context.Context, staff *domain.StaffMember, ticketID, newPriorityID string) (*domain.Ticket, error) {
	if staff == nil {
		return nil, apperrors.NewForbidden("staff required")
	}
	ticket, err := s.loadMutable(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	priority, err := s.priorities.GetByID(ctx, newPriorityID)
	if err != nil {
		return nil, lookupError(err, "priority")
	}
	if !priority.IsActive {
		return nil, apperrors.NewValidationError("priority inactive", nil)
	}

	oldPriorityID := ticket.PriorityID
	if oldPriorityID == newPriorityID {
		return ticket, nil
	}
	ticket.PriorityID = newPriorityID
	if err := s.slas.ApplyTargets(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, ticket.ID, domain.AuthorTypeStaff, &staff.ID, domain.ChangeTypePriority,
		map[string]any{"priority_id": oldPriorityID},
		map[string]any{"priority_id": newPriorityID},
	)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		TicketID: ticket.ID,
		Actor:    staffActor(staff.ID),
		Payload: events.TicketPriorityChangedPayload{
			OldPriorityID: oldPriorityID,
			NewPriorityID: newPriorityID,
		},
	})
	return ticket, nil
}

// Assign sets or clears the ticket assignee and optionally moves it to a
// team.
func (s *TicketService) Assign(ctx context.Context, staff *domain.StaffMember, ticketID string, assigneeID, teamID *string) (*domain.Ticket, error) {
	if staff == nil {
		return nil, apperrors.NewForbidden("staff required")
	}
	ticket, err := s.loadMutable(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	if assigneeID != nil {
		assignee, err := s.staff.GetByID(ctx, *assigneeID)
		if err != nil {
			return nil, lookupError(err, "staff member")
		}
		if !assignee.Active {
			return nil, apperrors.NewValidationError("assignee inactive", nil)
		}
	}
	if teamID != nil {
		team, err := s.teams.GetByID(ctx, *teamID)
		if err != nil {
			return nil, lookupError(err, "team")
		}
		if !team.IsActive {
			return nil, apperrors.NewValidationError("team inactive", nil)
		}
	}

	oldAssignee := ticket.AssignedToID
	ticket.AssignedToID = assigneeID
	if teamID != nil {
		ticket.TeamID = teamID
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, ticket.ID, domain.AuthorTypeStaff, &staff.ID, domain.ChangeTypeAssignee,
		map[string]any{"assigned_to_id": deref(oldAssignee)},
		map[string]any{"assigned_to_id": deref(assigneeID)},
	)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    staffActor(staff.ID),
		Payload: events.TicketAssignedPayload{
			AssigneeStaffID: assigneeID,
			TeamID:          ticket.TeamID,
		},
	})
	return ticket, nil
}

// SoftDelete hides a ticket from listings while preserving the row for
// audit. Deleting again reports not found.
func (s *TicketService) SoftDelete(ctx context.Context, staff *domain.StaffMember, ticketID string) error {
	if staff == nil {
		return apperrors.NewForbidden("staff required")
	}
	ticket, err := s.loadMutable(ctx, ticketID)
	if err != nil {
		return err
	}

	now := s.now()
	ticket.IsDeleted = true
	ticket.DeletedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return err
	}

	s.recordHistory(ctx, ticket.ID, domain.AuthorTypeStaff, &staff.ID, domain.ChangeTypeDelete,
		map[string]any{"is_deleted": false},
		map[string]any{"is_deleted": true},
	)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		Actor:    staffActor(staff.ID),
		Payload:  events.TicketDeletedPayload{TicketNumber: ticket.TicketNumber},
	})
	return nil
}

// SLAStatusForStaff returns the computed SLA position of a ticket.
func (s *TicketService) SLAStatusForStaff(ctx context.Context, staff *domain.StaffMember, ticketID string) (TicketSLAStatus, error) {
	ticket, err := s.loadAny(ctx, ticketID)
	if err != nil {
		return TicketSLAStatus{}, err
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return TicketSLAStatus{}, apperrors.NewForbidden("access denied")
	}
	return s.slas.StatusFor(ctx, ticket)
}

// ListHistoryForStaff returns history entries for staff.
func (s *TicketService) ListHistoryForStaff(ctx context.Context, staff *domain.StaffMember, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	if staff == nil {
		return nil, apperrors.NewForbidden("staff required")
	}
	ticket, err := s.loadAny(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return s.history.ListByTicket(ctx, ticketID, limit, offset)
}

// ListHistoryForUser returns user-safe history entries.
func (s *TicketService) ListHistoryForUser(ctx context.Context, user *domain.User, ticketID string) ([]domain.TicketHistory, error) {
	ticket, err := s.loadVisible(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatedByID != user.ID {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	entries, err := s.history.ListByTicket(ctx, ticketID, 100, 0)
	if err != nil {
		return nil, err
	}
	allowed := []domain.TicketHistory{}
	for _, entry := range entries {
		switch entry.ChangeType {
		case domain.ChangeTypeStatus, domain.ChangeTypeAssignee, domain.ChangeTypeMerge:
			allowed = append(allowed, entry)
		}
	}
	return allowed, nil
}

// applyStatus performs the shared status transition work.
func (s *TicketService) applyStatus(ctx context.Context, ticket *domain.Ticket, newStatusID, comment string, actorType domain.CommentAuthorType, actorID *string) (*domain.Ticket, error) {
	status, err := s.statuses.GetByID(ctx, newStatusID)
	if err != nil {
		return nil, lookupError(err, "status")
	}
	if !status.IsActive {
		return nil, apperrors.NewValidationError("status inactive", nil)
	}
	if ticket.StatusID == status.ID {
		return nil, apperrors.NewValidationError("ticket already in status", nil)
	}

	now := s.now()
	oldStatusID := ticket.StatusID
	ticket.StatusID = status.ID
	if status.IsResolved {
		domain.SetOnce(&ticket.ResolvedAt, now)
	}
	if status.IsClosed {
		domain.SetOnce(&ticket.ClosedAt, now)
	}
	s.slas.RefreshBreach(ticket)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, ticket.ID, actorType, actorID, domain.ChangeTypeStatus,
		map[string]any{"status_id": oldStatusID},
		map[string]any{"status_id": status.ID, "comment": comment},
	)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actorForAuthor(actorType, actorID),
		Payload: events.TicketStatusChangedPayload{
			OldStatusID: oldStatusID,
			NewStatusID: status.ID,
			Comment:     comment,
		},
	})
	return ticket, nil
}

func (s *TicketService) recordFirstResponse(ctx context.Context, ticket *domain.Ticket, staff *domain.StaffMember) (bool, error) {
	if !domain.SetOnce(&ticket.FirstResponseAt, s.now()) {
		return false, nil
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return false, err
	}
	s.recordHistory(ctx, ticket.ID, domain.AuthorTypeStaff, &staff.ID, domain.ChangeTypeFirstResponse,
		map[string]any{},
		map[string]any{"first_response_at": ticket.FirstResponseAt},
	)
	return true, nil
}

// closingStatus picks the first active closing status by sort order.
func (s *TicketService) closingStatus(ctx context.Context) (*domain.Status, error) {
	statuses, err := s.statuses.List(ctx, true)
	if err != nil {
		return nil, err
	}
	for i := range statuses {
		if statuses[i].IsClosed {
			return &statuses[i], nil
		}
	}
	return nil, apperrors.NewConflict("no closing status configured", nil)
}

// loadAny returns the ticket regardless of soft-delete state. Staff read
// paths use it so deleted rows stay reachable by direct ID for audit.
func (s *TicketService) loadAny(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	return ticket, nil
}

// loadVisible is the end-user view: soft-deleted tickets behave as absent,
// but a merged source stays readable so the redirect is discoverable.
func (s *TicketService) loadVisible(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadAny(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsDeleted && !ticket.IsMerged() {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

// loadMutable returns the ticket only if it accepts mutation. Merged and
// soft-deleted tickets behave as absent for writers.
func (s *TicketService) loadMutable(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadAny(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Mutable() {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

func (s *TicketService) applyStaffScope(filter *repository.TicketFilter, staff *domain.StaffMember) {
	if staff == nil || staff.Role == domain.StaffRoleAdmin {
		return
	}
	if staff.DepartmentID != nil {
		filter.DepartmentID = staff.DepartmentID
	}
	if staff.TeamID != nil {
		filter.TeamID = staff.TeamID
	}
}

func (s *TicketService) staffCanAccessTicket(staff *domain.StaffMember, ticket *domain.Ticket) bool {
	if staff == nil {
		return false
	}
	if staff.Role == domain.StaffRoleAdmin {
		return true
	}
	if staff.TeamID != nil && ticket.TeamID != nil && *staff.TeamID == *ticket.TeamID {
		return true
	}
	if staff.DepartmentID != nil && *staff.DepartmentID == ticket.DepartmentID {
		return true
	}
	return false
}

func (s *TicketService) visibleCommentsForUser(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	comments, err := s.commentsWithAttachments(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.TicketComment, 0, len(comments))
	for _, comment := range comments {
		if comment.CommentType == domain.CommentTypeInternalNote {
			continue
		}
		filtered = append(filtered, comment)
	}
	return filtered, nil
}

func (s *TicketService) commentsWithAttachments(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		attachments, err := s.attachments.ListByComment(ctx, comments[i].ID)
		if err != nil {
			return nil, err
		}
		comments[i].Attachments = attachments
	}
	return comments, nil
}

func (s *TicketService) recordHistory(ctx context.Context, ticketID string, actorType domain.CommentAuthorType, actorID *string, changeType domain.TicketChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.TicketHistory{
		TicketID:      ticketID,
		ChangedByType: actorType,
		ChangedByID:   actorID,
		ChangeType:    changeType,
		OldValue:      oldValue,
		NewValue:      newValue,
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func lookupError(err error, resource string) error {
	if err == pgx.ErrNoRows {
		return apperrors.NewValidationError("unknown "+resource, nil)
	}
	return err
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func userActor(userID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeUser, UserID: &userID}
}

func staffActor(staffID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeStaff, StaffID: &staffID}
}

func actorFor(subject domain.SubjectType, id *string) events.Actor {
	if subject == domain.SubjectTypeStaff {
		return events.Actor{Type: domain.SubjectTypeStaff, StaffID: id}
	}
	return events.Actor{Type: domain.SubjectTypeUser, UserID: id}
}

func actorForAuthor(authorType domain.CommentAuthorType, id *string) events.Actor {
	if authorType == domain.AuthorTypeStaff {
		return events.Actor{Type: domain.SubjectTypeStaff, StaffID: id}
	}
	return events.Actor{Type: domain.SubjectTypeUser, UserID: id}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
