package dto

import (
	"time"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/service"
)

// TicketCreateRequest payload for opening a ticket.
type TicketCreateRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CategoryID   string   `json:"category_id"`
	DepartmentID string   `json:"department_id"`
	TeamID       *string  `json:"team_id,omitempty"`
	PriorityID   string   `json:"priority_id,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// TicketResponse is the wire representation of a ticket.
type TicketResponse struct {
	ID                 string     `json:"id"`
	TicketNumber       string     `json:"ticket_number"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	PriorityID         string     `json:"priority_id"`
	StatusID           string     `json:"status_id"`
	CategoryID         string     `json:"category_id"`
	CompanyID          string     `json:"company_id"`
	DepartmentID       string     `json:"department_id"`
	TeamID             *string    `json:"team_id,omitempty"`
	AssignedToID       *string    `json:"assigned_to_id,omitempty"`
	CreatedByID        string     `json:"created_by_id"`
	Tags               []string   `json:"tags,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	ResponseDue        *time.Time `json:"response_due,omitempty"`
	FirstResponseAt    *time.Time `json:"first_response_at,omitempty"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
	IsSLABreached      bool       `json:"is_sla_breached"`
	MergedIntoTicketID *string    `json:"merged_into_ticket_id,omitempty"`
}

// NewTicketResponse maps the domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                 ticket.ID,
		TicketNumber:       ticket.TicketNumber,
		Title:              ticket.Title,
		Description:        ticket.Description,
		PriorityID:         ticket.PriorityID,
		StatusID:           ticket.StatusID,
		CategoryID:         ticket.CategoryID,
		CompanyID:          ticket.CompanyID,
		DepartmentID:       ticket.DepartmentID,
		TeamID:             ticket.TeamID,
		AssignedToID:       ticket.AssignedToID,
		CreatedByID:        ticket.CreatedByID,
		Tags:               ticket.Tags,
		CreatedAt:          ticket.CreatedAt,
		UpdatedAt:          ticket.UpdatedAt,
		DueDate:            ticket.DueDate,
		ResponseDue:        ticket.ResponseDue,
		FirstResponseAt:    ticket.FirstResponseAt,
		ResolvedAt:         ticket.ResolvedAt,
		ClosedAt:           ticket.ClosedAt,
		IsSLABreached:      ticket.IsSLABreached,
		MergedIntoTicketID: ticket.MergedIntoTicketID,
	}
}

// NewTicketResponses maps a slice of tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// CommentAttachmentRequest attachment metadata in a comment payload.
type CommentAttachmentRequest struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// CommentCreateRequest payload for appending a comment.
type CommentCreateRequest struct {
	Body        string                     `json:"body"`
	CommentType string                     `json:"comment_type,omitempty"`
	Attachments []CommentAttachmentRequest `json:"attachments,omitempty"`
}

// CommentResponse wire representation of a comment.
type CommentResponse struct {
	ID          string               `json:"id"`
	TicketID    string               `json:"ticket_id"`
	AuthorType  string               `json:"author_type"`
	AuthorID    *string              `json:"author_id,omitempty"`
	CommentType string               `json:"comment_type"`
	Body        string               `json:"body"`
	Attachments []AttachmentResponse `json:"attachments,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// AttachmentResponse wire representation of an attachment reference.
type AttachmentResponse struct {
	ID         string `json:"id"`
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.TicketComment) CommentResponse {
	resp := CommentResponse{
		ID:          comment.ID,
		TicketID:    comment.TicketID,
		AuthorType:  string(comment.AuthorType),
		AuthorID:    comment.AuthorID,
		CommentType: string(comment.CommentType),
		Body:        comment.Body,
		CreatedAt:   comment.CreatedAt,
	}
	for _, att := range comment.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			ID:         att.ID,
			StorageKey: att.StorageKey,
			FileName:   att.FileName,
			MimeType:   att.MimeType,
			SizeBytes:  att.SizeBytes,
		})
	}
	return resp
}

// NewCommentResponses maps a slice of comments.
func NewCommentResponses(comments []domain.TicketComment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}

// StatusChangeRequest payload for a status transition.
type StatusChangeRequest struct {
	StatusID string `json:"status_id"`
	Comment  string `json:"comment,omitempty"`
}

// PriorityChangeRequest payload for a priority change.
type PriorityChangeRequest struct {
	PriorityID string `json:"priority_id"`
}

// AssignRequest payload for assignment; a nil assignee unassigns.
type AssignRequest struct {
	AssigneeID *string `json:"assignee_id"`
	TeamID     *string `json:"team_id,omitempty"`
}

// MergeRequest payload for merging tickets into a target.
type MergeRequest struct {
	SourceTicketIDs []string `json:"source_ticket_ids"`
}

// MergeResultResponse reports one merge source outcome.
type MergeResultResponse struct {
	SourceTicketID string `json:"source_ticket_id"`
	Merged         bool   `json:"merged"`
	Reason         string `json:"reason,omitempty"`
}

// NewMergeResultResponses maps service merge results.
func NewMergeResultResponses(results []service.MergeResult) []MergeResultResponse {
	out := make([]MergeResultResponse, 0, len(results))
	for _, result := range results {
		out = append(out, MergeResultResponse{
			SourceTicketID: result.SourceTicketID,
			Merged:         result.Merged,
			Reason:         result.Reason,
		})
	}
	return out
}

// LinkCreateRequest payload for linking tickets.
type LinkCreateRequest struct {
	TargetTicketID string `json:"target_ticket_id"`
	LinkType       string `json:"link_type"`
}

// LinkResponse wire representation of a ticket link.
type LinkResponse struct {
	ID             string    `json:"id"`
	SourceTicketID string    `json:"source_ticket_id"`
	TargetTicketID string    `json:"target_ticket_id"`
	LinkType       string    `json:"link_type"`
	CreatedByID    *string   `json:"created_by_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewLinkResponses maps domain links.
func NewLinkResponses(links []domain.TicketLink) []LinkResponse {
	out := make([]LinkResponse, 0, len(links))
	for _, link := range links {
		out = append(out, NewLinkResponse(&link))
	}
	return out
}

// NewLinkResponse maps one link.
func NewLinkResponse(link *domain.TicketLink) LinkResponse {
	return LinkResponse{
		ID:             link.ID,
		SourceTicketID: link.SourceTicketID,
		TargetTicketID: link.TargetTicketID,
		LinkType:       string(link.LinkType),
		CreatedByID:    link.CreatedByID,
		CreatedAt:      link.CreatedAt,
	}
}

// SLAStatusResponse is the computed SLA view of a ticket.
type SLAStatusResponse struct {
	Monitored        bool       `json:"monitored"`
	RuleID           *string    `json:"rule_id,omitempty"`
	ResponseDue      *time.Time `json:"response_due,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	FirstResponseAt  *time.Time `json:"first_response_at,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ResponseBreached bool       `json:"response_breached"`
	Breached         bool       `json:"breached"`
}

// NewSLAStatusResponse maps the service SLA status.
func NewSLAStatusResponse(status service.TicketSLAStatus) SLAStatusResponse {
	return SLAStatusResponse{
		Monitored:        status.Monitored,
		RuleID:           status.RuleID,
		ResponseDue:      status.ResponseDue,
		DueDate:          status.DueDate,
		FirstResponseAt:  status.FirstResponseAt,
		ResolvedAt:       status.ResolvedAt,
		ResponseBreached: status.ResponseBreached,
		Breached:         status.Breached,
	}
}

// HistoryResponse wire representation of a history entry.
type HistoryResponse struct {
	ID            string         `json:"id"`
	TicketID      string         `json:"ticket_id"`
	ChangedByType string         `json:"changed_by_type"`
	ChangedByID   *string        `json:"changed_by_id,omitempty"`
	ChangeType    string         `json:"change_type"`
	OldValue      map[string]any `json:"old_value,omitempty"`
	NewValue      map[string]any `json:"new_value,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewHistoryResponses maps history entries.
func NewHistoryResponses(entries []domain.TicketHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, HistoryResponse{
			ID:            entry.ID,
			TicketID:      entry.TicketID,
			ChangedByType: string(entry.ChangedByType),
			ChangedByID:   entry.ChangedByID,
			ChangeType:    string(entry.ChangeType),
			OldValue:      entry.OldValue,
			NewValue:      entry.NewValue,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return out
}
