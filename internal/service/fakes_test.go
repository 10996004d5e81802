package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/events"
	"github.com/opsdesk/helpdesk-service/internal/repository"
)

// In-memory repository fakes backing the service tests. They mirror the
// Postgres repositories' contract: pgx.ErrNoRows for missing rows, copies
// on read so callers cannot mutate stored state in place.

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	seq     int
	now     func() time.Time
}

func newFakeTicketRepo(now func() time.Time) *fakeTicketRepo {
	if now == nil {
		now = time.Now
	}
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket), now: now}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("tkt-%d", r.seq)
	ticket.CreatedAt = r.now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = r.now()
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) GetByTicketNumber(_ context.Context, number string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.TicketNumber == number {
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		if filter.CreatedByID != nil && ticket.CreatedByID != *filter.CreatedByID {
			continue
		}
		if filter.CompanyID != nil && ticket.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.DepartmentID != nil && ticket.DepartmentID != *filter.DepartmentID {
			continue
		}
		if filter.TeamID != nil && (ticket.TeamID == nil || *ticket.TeamID != *filter.TeamID) {
			continue
		}
		if filter.OnlyBreached && !ticket.IsSLABreached {
			continue
		}
		if len(filter.StatusIDs) > 0 && !containsString(filter.StatusIDs, ticket.StatusID) {
			continue
		}
		if len(filter.PriorityIDs) > 0 && !containsString(filter.PriorityIDs, ticket.PriorityID) {
			continue
		}
		if filter.SearchTerm != nil && !strings.Contains(strings.ToLower(ticket.Title), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func (r *fakeTicketRepo) ListOpenUnresolved(_ context.Context, limit int) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if !ticket.Mutable() || ticket.ResolvedAt != nil || ticket.ClosedAt != nil {
			continue
		}
		out = append(out, *ticket)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

type fakeCommentRepo struct {
	comments []domain.TicketComment
	seq      int
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	r.seq++
	comment.ID = fmt.Sprintf("cmt-%d", r.seq)
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketComment, error) {
	var out []domain.TicketComment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			out = append(out, comment)
		}
	}
	return out, nil
}

type fakeAttachmentRepo struct {
	attachments []domain.AttachmentReference
	seq         int
}

func (r *fakeAttachmentRepo) Create(_ context.Context, att *domain.AttachmentReference) error {
	r.seq++
	att.ID = fmt.Sprintf("att-%d", r.seq)
	r.attachments = append(r.attachments, *att)
	return nil
}

func (r *fakeAttachmentRepo) ListByComment(_ context.Context, commentID string) ([]domain.AttachmentReference, error) {
	var out []domain.AttachmentReference
	for _, att := range r.attachments {
		if att.TicketCommentID == commentID {
			out = append(out, att)
		}
	}
	return out, nil
}

type fakeStatusRepo struct {
	statuses map[string]*domain.Status
}

func newFakeStatusRepo(statuses ...*domain.Status) *fakeStatusRepo {
	repo := &fakeStatusRepo{statuses: make(map[string]*domain.Status)}
	for _, status := range statuses {
		clone := *status
		repo.statuses[status.ID] = &clone
	}
	return repo
}

func (r *fakeStatusRepo) Create(_ context.Context, status *domain.Status) error {
	if status.ID == "" {
		status.ID = fmt.Sprintf("st-%d", len(r.statuses)+1)
	}
	clone := *status
	r.statuses[status.ID] = &clone
	return nil
}

func (r *fakeStatusRepo) Update(_ context.Context, status *domain.Status) error {
	if _, ok := r.statuses[status.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *status
	r.statuses[status.ID] = &clone
	return nil
}

func (r *fakeStatusRepo) GetByID(_ context.Context, id string) (*domain.Status, error) {
	status, ok := r.statuses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *status
	return &clone, nil
}

func (r *fakeStatusRepo) GetDefault(_ context.Context) (*domain.Status, error) {
	for _, status := range r.statuses {
		if status.IsDefault {
			clone := *status
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStatusRepo) List(_ context.Context, activeOnly bool) ([]domain.Status, error) {
	var out []domain.Status
	for _, status := range r.statuses {
		if activeOnly && !status.IsActive {
			continue
		}
		out = append(out, *status)
	}
	return out, nil
}

func (r *fakeStatusRepo) SetDefault(_ context.Context, id string) error {
	if _, ok := r.statuses[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, status := range r.statuses {
		status.IsDefault = status.ID == id
	}
	return nil
}

type fakePriorityRepo struct {
	priorities map[string]*domain.Priority
}

func newFakePriorityRepo(priorities ...*domain.Priority) *fakePriorityRepo {
	repo := &fakePriorityRepo{priorities: make(map[string]*domain.Priority)}
	for _, priority := range priorities {
		clone := *priority
		repo.priorities[priority.ID] = &clone
	}
	return repo
}

func (r *fakePriorityRepo) Create(_ context.Context, priority *domain.Priority) error {
	if priority.ID == "" {
		priority.ID = fmt.Sprintf("pri-%d", len(r.priorities)+1)
	}
	clone := *priority
	r.priorities[priority.ID] = &clone
	return nil
}

func (r *fakePriorityRepo) Update(_ context.Context, priority *domain.Priority) error {
	if _, ok := r.priorities[priority.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *priority
	r.priorities[priority.ID] = &clone
	return nil
}

func (r *fakePriorityRepo) GetByID(_ context.Context, id string) (*domain.Priority, error) {
	priority, ok := r.priorities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *priority
	return &clone, nil
}

func (r *fakePriorityRepo) GetDefault(_ context.Context) (*domain.Priority, error) {
	for _, priority := range r.priorities {
		if priority.IsDefault {
			clone := *priority
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePriorityRepo) GetByMinLevel(_ context.Context, level int) (*domain.Priority, error) {
	var best *domain.Priority
	for _, priority := range r.priorities {
		if !priority.IsActive || priority.Level <= level {
			continue
		}
		if best == nil || priority.Level < best.Level {
			best = priority
		}
	}
	if best == nil {
		return nil, pgx.ErrNoRows
	}
	clone := *best
	return &clone, nil
}

func (r *fakePriorityRepo) List(_ context.Context, activeOnly bool) ([]domain.Priority, error) {
	var out []domain.Priority
	for _, priority := range r.priorities {
		if activeOnly && !priority.IsActive {
			continue
		}
		out = append(out, *priority)
	}
	return out, nil
}

func (r *fakePriorityRepo) SetDefault(_ context.Context, id string) error {
	if _, ok := r.priorities[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, priority := range r.priorities {
		priority.IsDefault = priority.ID == id
	}
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: make(map[string]*domain.Category)}
	for _, category := range categories {
		clone := *category
		repo.categories[category.ID] = &clone
	}
	return repo
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	if category.ID == "" {
		category.ID = fmt.Sprintf("cat-%d", len(r.categories)+1)
	}
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *category
	return &clone, nil
}

func (r *fakeCategoryRepo) List(_ context.Context, activeOnly bool) ([]domain.Category, error) {
	var out []domain.Category
	for _, category := range r.categories {
		if activeOnly && !category.IsActive {
			continue
		}
		out = append(out, *category)
	}
	return out, nil
}

type fakeCompanyRepo struct {
	companies map[string]*domain.Company
}

func (r *fakeCompanyRepo) Create(_ context.Context, company *domain.Company) error {
	if company.ID == "" {
		company.ID = fmt.Sprintf("co-%d", len(r.companies)+1)
	}
	clone := *company
	r.companies[company.ID] = &clone
	return nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, company *domain.Company) error {
	if _, ok := r.companies[company.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *company
	r.companies[company.ID] = &clone
	return nil
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *company
	return &clone, nil
}

func (r *fakeCompanyRepo) List(_ context.Context, activeOnly bool) ([]domain.Company, error) {
	var out []domain.Company
	for _, company := range r.companies {
		if activeOnly && !company.IsActive {
			continue
		}
		out = append(out, *company)
	}
	return out, nil
}

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
}

func newFakeDepartmentRepo(departments ...*domain.Department) *fakeDepartmentRepo {
	repo := &fakeDepartmentRepo{departments: make(map[string]*domain.Department)}
	for _, department := range departments {
		clone := *department
		repo.departments[department.ID] = &clone
	}
	return repo
}

func (r *fakeDepartmentRepo) Create(_ context.Context, department *domain.Department) error {
	if department.ID == "" {
		department.ID = fmt.Sprintf("dep-%d", len(r.departments)+1)
	}
	clone := *department
	r.departments[department.ID] = &clone
	return nil
}

func (r *fakeDepartmentRepo) Update(_ context.Context, department *domain.Department) error {
	if _, ok := r.departments[department.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *department
	r.departments[department.ID] = &clone
	return nil
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	department, ok := r.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *department
	return &clone, nil
}

func (r *fakeDepartmentRepo) List(_ context.Context, activeOnly bool) ([]domain.Department, error) {
	var out []domain.Department
	for _, department := range r.departments {
		if activeOnly && !department.IsActive {
			continue
		}
		out = append(out, *department)
	}
	return out, nil
}

type fakeTeamRepo struct {
	teams map[string]*domain.Team
}

func newFakeTeamRepo(teams ...*domain.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[string]*domain.Team)}
	for _, team := range teams {
		clone := *team
		repo.teams[team.ID] = &clone
	}
	return repo
}

func (r *fakeTeamRepo) Create(_ context.Context, team *domain.Team) error {
	if team.ID == "" {
		team.ID = fmt.Sprintf("team-%d", len(r.teams)+1)
	}
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *domain.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id string) (*domain.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *team
	return &clone, nil
}

func (r *fakeTeamRepo) ListByDepartment(_ context.Context, departmentID string) ([]domain.Team, error) {
	var out []domain.Team
	for _, team := range r.teams {
		if team.DepartmentID == departmentID {
			out = append(out, *team)
		}
	}
	return out, nil
}

type fakeStaffRepo struct {
	members map[string]*domain.StaffMember
}

func newFakeStaffRepo(members ...*domain.StaffMember) *fakeStaffRepo {
	repo := &fakeStaffRepo{members: make(map[string]*domain.StaffMember)}
	for _, member := range members {
		clone := *member
		repo.members[member.ID] = &clone
	}
	return repo
}

func (r *fakeStaffRepo) Create(_ context.Context, member *domain.StaffMember) error {
	if member.ID == "" {
		member.ID = fmt.Sprintf("stf-%d", len(r.members)+1)
	}
	clone := *member
	r.members[member.ID] = &clone
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, member *domain.StaffMember) error {
	if _, ok := r.members[member.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *member
	r.members[member.ID] = &clone
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	member, ok := r.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *member
	return &clone, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, member := range r.members {
		if member.Email == email {
			clone := *member
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) ListByRoles(_ context.Context, roles []domain.StaffRole) ([]domain.StaffMember, error) {
	var out []domain.StaffMember
	for _, member := range r.members {
		if !member.Active {
			continue
		}
		for _, role := range roles {
			if member.Role == role {
				out = append(out, *member)
				break
			}
		}
	}
	return out, nil
}

type fakeLinkRepo struct {
	links map[string]*domain.TicketLink
	seq   int
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*domain.TicketLink)}
}

func (r *fakeLinkRepo) Create(_ context.Context, link *domain.TicketLink) error {
	r.seq++
	link.ID = fmt.Sprintf("lnk-%d", r.seq)
	clone := *link
	r.links[link.ID] = &clone
	return nil
}

func (r *fakeLinkRepo) ExistsBetween(_ context.Context, ticketA, ticketB string) (bool, error) {
	for _, link := range r.links {
		if (link.SourceTicketID == ticketA && link.TargetTicketID == ticketB) ||
			(link.SourceTicketID == ticketB && link.TargetTicketID == ticketA) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLinkRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketLink, error) {
	var out []domain.TicketLink
	for _, link := range r.links {
		if link.SourceTicketID == ticketID || link.TargetTicketID == ticketID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (r *fakeLinkRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.links[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.links, id)
	return nil
}

type fakeHistoryRepo struct {
	entries []domain.TicketHistory
	seq     int
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.TicketHistory) error {
	r.seq++
	entry.ID = fmt.Sprintf("his-%d", r.seq)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	var out []domain.TicketHistory
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeHistoryRepo) byType(ticketID string, changeType domain.TicketChangeType) []domain.TicketHistory {
	var out []domain.TicketHistory
	for _, entry := range r.entries {
		if entry.TicketID == ticketID && entry.ChangeType == changeType {
			out = append(out, entry)
		}
	}
	return out
}

type fakeSLARuleRepo struct {
	rules map[string]*domain.SLARule
}

func newFakeSLARuleRepo(rules ...*domain.SLARule) *fakeSLARuleRepo {
	repo := &fakeSLARuleRepo{rules: make(map[string]*domain.SLARule)}
	for _, rule := range rules {
		clone := *rule
		repo.rules[rule.ID] = &clone
	}
	return repo
}

func (r *fakeSLARuleRepo) Create(_ context.Context, rule *domain.SLARule) error {
	if rule.ID == "" {
		rule.ID = fmt.Sprintf("sla-%d", len(r.rules)+1)
	}
	clone := *rule
	r.rules[rule.ID] = &clone
	return nil
}

func (r *fakeSLARuleRepo) Update(_ context.Context, rule *domain.SLARule) error {
	if _, ok := r.rules[rule.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *rule
	r.rules[rule.ID] = &clone
	return nil
}

func (r *fakeSLARuleRepo) GetByID(_ context.Context, id string) (*domain.SLARule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *rule
	return &clone, nil
}

func (r *fakeSLARuleRepo) List(_ context.Context) ([]domain.SLARule, error) {
	var out []domain.SLARule
	for _, rule := range r.rules {
		out = append(out, *rule)
	}
	return out, nil
}

func (r *fakeSLARuleRepo) ListActive(_ context.Context) ([]domain.SLARule, error) {
	var out []domain.SLARule
	for _, rule := range r.rules {
		if rule.IsActive {
			out = append(out, *rule)
		}
	}
	return out, nil
}

func (r *fakeSLARuleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rules[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rules, id)
	return nil
}

type fakeEscalationRuleRepo struct {
	rules map[string]*domain.EscalationRule
}

func newFakeEscalationRuleRepo(rules ...*domain.EscalationRule) *fakeEscalationRuleRepo {
	repo := &fakeEscalationRuleRepo{rules: make(map[string]*domain.EscalationRule)}
	for _, rule := range rules {
		clone := *rule
		repo.rules[rule.ID] = &clone
	}
	return repo
}

func (r *fakeEscalationRuleRepo) Create(_ context.Context, rule *domain.EscalationRule) error {
	if rule.ID == "" {
		rule.ID = fmt.Sprintf("esc-%d", len(r.rules)+1)
	}
	clone := *rule
	r.rules[rule.ID] = &clone
	return nil
}

func (r *fakeEscalationRuleRepo) Update(_ context.Context, rule *domain.EscalationRule) error {
	if _, ok := r.rules[rule.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *rule
	r.rules[rule.ID] = &clone
	return nil
}

func (r *fakeEscalationRuleRepo) GetByID(_ context.Context, id string) (*domain.EscalationRule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *rule
	return &clone, nil
}

func (r *fakeEscalationRuleRepo) List(_ context.Context) ([]domain.EscalationRule, error) {
	var out []domain.EscalationRule
	for _, rule := range r.rules {
		out = append(out, *rule)
	}
	return out, nil
}

func (r *fakeEscalationRuleRepo) ListActive(_ context.Context) ([]domain.EscalationRule, error) {
	var out []domain.EscalationRule
	for _, rule := range r.rules {
		if rule.IsActive {
			out = append(out, *rule)
		}
	}
	return out, nil
}

func (r *fakeEscalationRuleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rules[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rules, id)
	return nil
}

type fakeEscalationRecordRepo struct {
	records []domain.EscalationRecord
	seq     int
}

func (r *fakeEscalationRecordRepo) Create(_ context.Context, record *domain.EscalationRecord) error {
	r.seq++
	record.ID = fmt.Sprintf("rec-%d", r.seq)
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeEscalationRecordRepo) Exists(_ context.Context, ticketID, ruleID string) (bool, error) {
	for _, record := range r.records {
		if record.TicketID == ticketID && record.RuleID == ruleID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEscalationRecordRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.EscalationRecord, error) {
	var out []domain.EscalationRecord
	for _, record := range r.records {
		if record.TicketID == ticketID {
			out = append(out, record)
		}
	}
	return out, nil
}

type fakeBusinessHoursRepo struct {
	rows []domain.BusinessHours
}

func (r *fakeBusinessHoursRepo) Create(_ context.Context, hours *domain.BusinessHours) error {
	if hours.ID == "" {
		hours.ID = fmt.Sprintf("bh-%d", len(r.rows)+1)
	}
	r.rows = append(r.rows, *hours)
	return nil
}

func (r *fakeBusinessHoursRepo) Update(_ context.Context, hours *domain.BusinessHours) error {
	for i := range r.rows {
		if r.rows[i].ID == hours.ID {
			r.rows[i] = *hours
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeBusinessHoursRepo) ListActive(_ context.Context) ([]domain.BusinessHours, error) {
	var out []domain.BusinessHours
	for _, row := range r.rows {
		if row.IsActive {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeBusinessHoursRepo) List(_ context.Context) ([]domain.BusinessHours, error) {
	return append([]domain.BusinessHours(nil), r.rows...), nil
}

func (r *fakeBusinessHoursRepo) Delete(_ context.Context, id string) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeHolidayRepo struct {
	rows []domain.Holiday
}

func (r *fakeHolidayRepo) Create(_ context.Context, holiday *domain.Holiday) error {
	if holiday.ID == "" {
		holiday.ID = fmt.Sprintf("hol-%d", len(r.rows)+1)
	}
	r.rows = append(r.rows, *holiday)
	return nil
}

func (r *fakeHolidayRepo) List(_ context.Context) ([]domain.Holiday, error) {
	return append([]domain.Holiday(nil), r.rows...), nil
}

func (r *fakeHolidayRepo) Delete(_ context.Context, id string) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeNumberGenerator struct {
	seq int
}

func (g *fakeNumberGenerator) Next(_ context.Context) (string, error) {
	g.seq++
	return fmt.Sprintf("HD-20260831-%05d", g.seq), nil
}

type capturingDispatcher struct {
	published []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) byType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}
