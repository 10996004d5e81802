package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/events"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	"github.com/opsdesk/helpdesk-service/internal/sla"
)

// EscalationService evaluates escalation rules against open tickets.
// There is no background scheduler: a run happens when explicitly
// requested, and each rule fires at most once per ticket.
type EscalationService struct {
	tickets    repository.TicketRepository
	rules      repository.EscalationRuleRepository
	records    repository.EscalationRecordRepository
	priorities repository.PriorityRepository
	staff      repository.StaffRepository
	history    repository.TicketHistoryRepository
	slas       *SLAService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	scanLimit  int
	now        func() time.Time
}

// EscalationDependencies bundles repositories for the evaluator.
type EscalationDependencies struct {
	TicketRepo   repository.TicketRepository
	RuleRepo     repository.EscalationRuleRepository
	RecordRepo   repository.EscalationRecordRepository
	PriorityRepo repository.PriorityRepository
	StaffRepo    repository.StaffRepository
	HistoryRepo  repository.TicketHistoryRepository
	SLAService   *SLAService
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	ScanLimit    int
}

// FiredEscalation describes one rule firing during a run.
type FiredEscalation struct {
	TicketID        string
	RuleID          string
	Action          domain.EscalationAction
	NotifiedUserIDs []string
	NewPriorityID   *string
	ReassignedToID  *string
}

// EscalationRunResult summarizes an evaluator run.
type EscalationRunResult struct {
	ScannedTickets int
	Fired          []FiredEscalation
}

// NewEscalationService constructs the evaluator.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	scanLimit := deps.ScanLimit
	if scanLimit <= 0 {
		scanLimit = 500
	}
	return &EscalationService{
		tickets:    deps.TicketRepo,
		rules:      deps.RuleRepo,
		records:    deps.RecordRepo,
		priorities: deps.PriorityRepo,
		staff:      deps.StaffRepo,
		history:    deps.HistoryRepo,
		slas:       deps.SLAService,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		scanLimit:  scanLimit,
		now:        time.Now,
	}
}

// Run scans open unresolved tickets against active escalation rules and
// applies any due actions. A failure on one ticket is logged and does not
// abort the rest of the run.
func (s *EscalationService) Run(ctx context.Context) (*EscalationRunResult, error) {
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	result := &EscalationRunResult{}
	if len(rules) == 0 {
		return result, nil
	}

	tickets, err := s.tickets.ListOpenUnresolved(ctx, s.scanLimit)
	if err != nil {
		return nil, err
	}
	result.ScannedTickets = len(tickets)

	for i := range tickets {
		ticket := &tickets[i]
		fired, err := s.evaluateTicket(ctx, ticket, rules)
		if err != nil {
			s.logger.Warn("escalation evaluation failed",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err))
			continue
		}
		result.Fired = append(result.Fired, fired...)
	}
	return result, nil
}

func (s *EscalationService) evaluateTicket(ctx context.Context, ticket *domain.Ticket, rules []domain.EscalationRule) ([]FiredEscalation, error) {
	elapsed := int(s.now().Sub(ticket.CreatedAt) / time.Minute)

	// The resolved SLA rule is shared by every rule check for this ticket.
	var ticketRuleID *string
	target, err := s.slas.ResolveTarget(ctx, ticket.PriorityID, ticket.CategoryID, ticket.CompanyID)
	if err == nil {
		ticketRuleID = target.RuleID
	} else if !errors.Is(err, sla.ErrNoApplicableSLA) {
		return nil, err
	}

	var fired []FiredEscalation
	for i := range rules {
		rule := &rules[i]
		if !ruleApplies(rule, ticket, ticketRuleID) {
			continue
		}
		if elapsed < rule.TriggerMinutes {
			continue
		}
		exists, err := s.records.Exists(ctx, ticket.ID, rule.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		outcome, err := s.apply(ctx, rule, ticket)
		if err != nil {
			return nil, err
		}
		fired = append(fired, outcome)
	}
	return fired, nil
}

// ruleApplies checks the rule's conditions against the ticket. A rule
// bound to an SLA rule applies only when that SLA rule governs the
// ticket; unconditioned rules apply to every ticket.
func ruleApplies(rule *domain.EscalationRule, ticket *domain.Ticket, ticketRuleID *string) bool {
	if rule.SLARuleID != nil {
		if ticketRuleID == nil || *ticketRuleID != *rule.SLARuleID {
			return false
		}
	}
	if rule.PriorityID != nil && *rule.PriorityID != ticket.PriorityID {
		return false
	}
	if rule.CategoryID != nil && *rule.CategoryID != ticket.CategoryID {
		return false
	}
	return true
}

func (s *EscalationService) apply(ctx context.Context, rule *domain.EscalationRule, ticket *domain.Ticket) (FiredEscalation, error) {
	outcome := FiredEscalation{
		TicketID: ticket.ID,
		RuleID:   rule.ID,
		Action:   rule.Action,
	}

	switch rule.Action {
	case domain.EscalationActionNotify:
		notified, err := s.notificationTargets(ctx, rule)
		if err != nil {
			return outcome, err
		}
		outcome.NotifiedUserIDs = notified
	case domain.EscalationActionReassign:
		if rule.ReassignToID == nil {
			s.logger.Warn("reassign rule without target", zap.String("rule_id", rule.ID))
		} else {
			ticket.AssignedToID = rule.ReassignToID
			if err := s.tickets.Update(ctx, ticket); err != nil {
				return outcome, err
			}
			outcome.ReassignedToID = rule.ReassignToID
		}
	case domain.EscalationActionEscalatePriority:
		newPriorityID, err := s.bumpPriority(ctx, ticket)
		if err != nil {
			return outcome, err
		}
		outcome.NewPriorityID = newPriorityID
	}

	record := &domain.EscalationRecord{
		TicketID: ticket.ID,
		RuleID:   rule.ID,
		Action:   rule.Action,
		FiredAt:  s.now(),
	}
	if err := s.records.Create(ctx, record); err != nil {
		return outcome, err
	}

	if s.history != nil {
		_ = s.history.Create(ctx, &domain.TicketHistory{
			TicketID:      ticket.ID,
			ChangedByType: domain.AuthorTypeSystem,
			ChangeType:    domain.ChangeTypeEscalation,
			OldValue:      map[string]any{},
			NewValue: map[string]any{
				"rule_id": rule.ID,
				"action":  rule.Action,
			},
		})
	}
	s.publish(ctx, ticket.ID, events.TicketEscalatedPayload{
		RuleID:          rule.ID,
		Action:          rule.Action,
		NotifiedUserIDs: outcome.NotifiedUserIDs,
		NewPriorityID:   outcome.NewPriorityID,
		ReassignedToID:  outcome.ReassignedToID,
	})
	return outcome, nil
}

// notificationTargets expands the rule's user and role lists into staff
// IDs, deduplicated.
func (s *EscalationService) notificationTargets(ctx context.Context, rule *domain.EscalationRule) ([]string, error) {
	seen := make(map[string]struct{})
	var targets []string
	for _, id := range rule.TargetUserIDs() {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		targets = append(targets, id)
	}

	roleNames := rule.TargetRoleIDs()
	if len(roleNames) > 0 {
		roles := make([]domain.StaffRole, 0, len(roleNames))
		for _, name := range roleNames {
			roles = append(roles, domain.StaffRole(name))
		}
		members, err := s.staff.ListByRoles(ctx, roles)
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			if _, ok := seen[member.ID]; ok {
				continue
			}
			seen[member.ID] = struct{}{}
			targets = append(targets, member.ID)
		}
	}
	return targets, nil
}

// bumpPriority moves the ticket to the next priority level and re-stamps
// its SLA deadlines. A ticket already at the top level keeps its priority
// but the rule still records as fired.
func (s *EscalationService) bumpPriority(ctx context.Context, ticket *domain.Ticket) (*string, error) {
	current, err := s.priorities.GetByID(ctx, ticket.PriorityID)
	if err != nil {
		return nil, err
	}
	next, err := s.priorities.GetByMinLevel(ctx, current.Level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	ticket.PriorityID = next.ID
	if err := s.slas.ApplyTargets(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return &next.ID, nil
}

func (s *EscalationService) publish(ctx context.Context, ticketID string, payload events.TicketEscalatedPayload) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketEscalated,
		TicketID:  ticketID,
		Actor:     events.Actor{Type: domain.SubjectTypeStaff},
		Timestamp: s.now(),
		Payload:   payload,
	})
}
