package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	"github.com/opsdesk/helpdesk-service/internal/sla"
)

// SLAService resolves targets for tickets and computes deadlines against
// the business calendar.
type SLAService struct {
	rules      repository.SLARuleRepository
	priorities repository.PriorityRepository
	hours      repository.BusinessHoursRepository
	holidays   repository.HolidayRepository
	resolver   *sla.Resolver
	logger     *zap.Logger
	now        func() time.Time
}

// SLADependencies bundles repositories for the SLA service.
type SLADependencies struct {
	SLARuleRepo       repository.SLARuleRepository
	PriorityRepo      repository.PriorityRepository
	BusinessHoursRepo repository.BusinessHoursRepository
	HolidayRepo       repository.HolidayRepository
	Logger            *zap.Logger
}

// NewSLAService constructs the service.
func NewSLAService(deps SLADependencies) *SLAService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SLAService{
		rules:      deps.SLARuleRepo,
		priorities: deps.PriorityRepo,
		hours:      deps.BusinessHoursRepo,
		holidays:   deps.HolidayRepo,
		resolver:   sla.NewResolver(deps.SLARuleRepo, deps.PriorityRepo),
		logger:     logger,
		now:        time.Now,
	}
}

// ResolveTarget returns the SLA target for the dimension triple.
func (s *SLAService) ResolveTarget(ctx context.Context, priorityID, categoryID, companyID string) (sla.Target, error) {
	return s.resolver.Resolve(ctx, priorityID, categoryID, companyID)
}

// ApplyTargets resolves the ticket's SLA target and stamps DueDate and
// ResponseDue anchored at the ticket's creation time. A ticket with no
// applicable target is left unmonitored rather than rejected.
func (s *SLAService) ApplyTargets(ctx context.Context, ticket *domain.Ticket) error {
	target, err := s.resolver.Resolve(ctx, ticket.PriorityID, ticket.CategoryID, ticket.CompanyID)
	if errors.Is(err, sla.ErrNoApplicableSLA) {
		s.logger.Debug("no applicable sla target", zap.String("ticket_id", ticket.ID))
		ticket.DueDate = nil
		ticket.ResponseDue = nil
		ticket.IsSLABreached = false
		return nil
	}
	if err != nil {
		return err
	}

	calendar, err := s.calendarFor(ctx, target)
	if err != nil {
		return err
	}

	due := sla.ComputeDueDate(ticket.CreatedAt, target, calendar)
	ticket.DueDate = &due

	if response := sla.ComputeResponseDue(ticket.CreatedAt, target, calendar); !response.IsZero() {
		ticket.ResponseDue = &response
	} else {
		ticket.ResponseDue = nil
	}

	ticket.IsSLABreached = sla.IsBreached(ticket.ResolvedAt, due, s.now())
	return nil
}

// TicketSLAStatus is the computed view of a ticket's SLA position.
type TicketSLAStatus struct {
	Monitored        bool
	RuleID           *string
	ResponseDue      *time.Time
	DueDate          *time.Time
	FirstResponseAt  *time.Time
	ResolvedAt       *time.Time
	ResponseBreached bool
	Breached         bool
}

// StatusFor computes the current SLA status of the ticket. Breach state is
// permanent: a ticket resolved after its deadline stays breached.
func (s *SLAService) StatusFor(ctx context.Context, ticket *domain.Ticket) (TicketSLAStatus, error) {
	status := TicketSLAStatus{
		ResponseDue:     ticket.ResponseDue,
		DueDate:         ticket.DueDate,
		FirstResponseAt: ticket.FirstResponseAt,
		ResolvedAt:      ticket.ResolvedAt,
	}

	target, err := s.resolver.Resolve(ctx, ticket.PriorityID, ticket.CategoryID, ticket.CompanyID)
	if err == nil {
		status.RuleID = target.RuleID
	} else if !errors.Is(err, sla.ErrNoApplicableSLA) {
		return status, err
	}

	now := s.now()
	if ticket.DueDate != nil {
		status.Monitored = true
		status.Breached = sla.IsBreached(ticket.ResolvedAt, *ticket.DueDate, now)
	}
	if ticket.ResponseDue != nil {
		status.Monitored = true
		status.ResponseBreached = sla.IsBreached(ticket.FirstResponseAt, *ticket.ResponseDue, now)
	}
	return status, nil
}

// RefreshBreach recomputes the stored resolution breach flag.
func (s *SLAService) RefreshBreach(ticket *domain.Ticket) {
	if ticket.DueDate == nil {
		return
	}
	ticket.IsSLABreached = sla.IsBreached(ticket.ResolvedAt, *ticket.DueDate, s.now())
}

func (s *SLAService) calendarFor(ctx context.Context, target sla.Target) (*sla.Calendar, error) {
	if !target.BusinessHoursOnly {
		return nil, nil
	}
	return sla.LoadCalendar(ctx, s.hours, s.holidays)
}
