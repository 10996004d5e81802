package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/events"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util/errorutil"
)

// MergeResult reports the outcome for one merge source.
type MergeResult struct {
	SourceTicketID string
	Merged         bool
	Reason         string
}

// MergeTickets folds the source tickets into the target. Each source is
// handled independently: a bad source is skipped with a reason instead of
// failing the whole batch. Merged sources become inert pointers to the
// target, and the target gets a system comment recording the provenance.
func (s *TicketService) MergeTickets(ctx context.Context, staff *domain.StaffMember, targetID string, sourceIDs []string) ([]MergeResult, error) {
	if staff == nil {
		return nil, apperrors.NewForbidden("staff required")
	}
	if len(sourceIDs) == 0 {
		return nil, apperrors.NewValidationError("source ticket ids required", nil)
	}
	target, err := s.loadMutable(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !s.staffCanAccessTicket(staff, target) {
		return nil, apperrors.NewForbidden("access denied")
	}

	results := make([]MergeResult, 0, len(sourceIDs))
	var mergedIDs []string
	var mergedNumbers []string

	for _, sourceID := range sourceIDs {
		result := MergeResult{SourceTicketID: sourceID}
		switch {
		case sourceID == target.ID:
			result.Reason = "cannot merge a ticket into itself"
		default:
			source, err := s.tickets.GetByID(ctx, sourceID)
			if err != nil {
				if err == pgx.ErrNoRows {
					result.Reason = "not found"
				} else {
					return nil, err
				}
			} else if source.IsMerged() {
				result.Reason = "already merged"
			} else if source.IsDeleted {
				result.Reason = "deleted"
			} else {
				// A merged source is soft-deleted too: inert for writers,
				// out of listings, still readable by direct ID.
				source.MergedIntoTicketID = &target.ID
				source.IsDeleted = true
				domain.SetOnce(&source.DeletedAt, s.now())
				if err := s.tickets.Update(ctx, source); err != nil {
					return nil, err
				}
				s.recordHistory(ctx, source.ID, domain.AuthorTypeStaff, &staff.ID, domain.ChangeTypeMerge,
					map[string]any{},
					map[string]any{"merged_into_ticket_id": target.ID},
				)
				result.Merged = true
				mergedIDs = append(mergedIDs, source.ID)
				mergedNumbers = append(mergedNumbers, source.TicketNumber)
			}
		}
		results = append(results, result)
	}

	if len(mergedIDs) > 0 {
		note := &domain.TicketComment{
			TicketID:    target.ID,
			AuthorType:  domain.AuthorTypeSystem,
			CommentType: domain.CommentTypeSystemEvent,
			Body:        "Merged tickets: " + strings.Join(mergedNumbers, ", "),
		}
		if err := s.comments.Create(ctx, note); err != nil {
			return nil, err
		}
		s.recordHistory(ctx, target.ID, domain.AuthorTypeStaff, &staff.ID, domain.ChangeTypeMerge,
			map[string]any{},
			map[string]any{"merged_source_ticket_ids": mergedIDs},
		)
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketMerged,
			TicketID: target.ID,
			Actor:    staffActor(staff.ID),
			Payload:  events.TicketMergedPayload{SourceTicketIDs: mergedIDs},
		})
	}
	return results, nil
}

// LinkTickets creates a directed link between two tickets. A pair can hold
// at most one link regardless of direction, and self-links are rejected.
func (s *TicketService) LinkTickets(ctx context.Context, staff *domain.StaffMember, sourceID, targetID string, linkType domain.TicketLinkType) (*domain.TicketLink, error) {
	if staff == nil {
		return nil, apperrors.NewForbidden("staff required")
	}
	if !domain.ValidLinkType(linkType) {
		return nil, apperrors.NewValidationError("invalid link type", nil)
	}
	if sourceID == targetID {
		return nil, apperrors.NewValidationError("cannot link a ticket to itself", nil)
	}

	source, err := s.loadMutable(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if !s.staffCanAccessTicket(staff, source) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if _, err := s.loadMutable(ctx, targetID); err != nil {
		return nil, err
	}

	exists, err := s.links.ExistsBetween(ctx, sourceID, targetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("tickets already linked", nil)
	}

	link := &domain.TicketLink{
		SourceTicketID: sourceID,
		TargetTicketID: targetID,
		LinkType:       linkType,
		CreatedByID:    &staff.ID,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, source.ID, domain.AuthorTypeStaff, &staff.ID, domain.ChangeTypeLink,
		map[string]any{},
		map[string]any{"target_ticket_id": targetID, "link_type": linkType},
	)
	return link, nil
}

// ListLinks returns the links touching a ticket. Works on soft-deleted
// tickets too, like the other staff direct-ID reads.
func (s *TicketService) ListLinks(ctx context.Context, staff *domain.StaffMember, ticketID string) ([]domain.TicketLink, error) {
	ticket, err := s.loadAny(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return s.links.ListByTicket(ctx, ticketID)
}

// UnlinkTickets removes a link by ID.
func (s *TicketService) UnlinkTickets(ctx context.Context, staff *domain.StaffMember, linkID string) error {
	if staff == nil {
		return apperrors.NewForbidden("staff required")
	}
	if err := s.links.Delete(ctx, linkID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("ticket link", nil)
		}
		return err
	}
	return nil
}
