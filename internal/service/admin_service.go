package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util/errorutil"
)

// maxCategoryDepth bounds the parent walk when checking for cycles.
const maxCategoryDepth = 32

// AdminService manages lookup tables and SLA/escalation configuration.
type AdminService struct {
	statuses        repository.StatusRepository
	priorities      repository.PriorityRepository
	categories      repository.CategoryRepository
	companies       repository.CompanyRepository
	departments     repository.DepartmentRepository
	teams           repository.TeamRepository
	slaRules        repository.SLARuleRepository
	escalationRules repository.EscalationRuleRepository
	businessHours   repository.BusinessHoursRepository
	holidays        repository.HolidayRepository
}

// AdminDependencies bundles repositories for the admin service.
type AdminDependencies struct {
	StatusRepo         repository.StatusRepository
	PriorityRepo       repository.PriorityRepository
	CategoryRepo       repository.CategoryRepository
	CompanyRepo        repository.CompanyRepository
	DepartmentRepo     repository.DepartmentRepository
	TeamRepo           repository.TeamRepository
	SLARuleRepo        repository.SLARuleRepository
	EscalationRuleRepo repository.EscalationRuleRepository
	BusinessHoursRepo  repository.BusinessHoursRepository
	HolidayRepo        repository.HolidayRepository
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		statuses:        deps.StatusRepo,
		priorities:      deps.PriorityRepo,
		categories:      deps.CategoryRepo,
		companies:       deps.CompanyRepo,
		departments:     deps.DepartmentRepo,
		teams:           deps.TeamRepo,
		slaRules:        deps.SLARuleRepo,
		escalationRules: deps.EscalationRuleRepo,
		businessHours:   deps.BusinessHoursRepo,
		holidays:        deps.HolidayRepo,
	}
}

// CreateStatus persists a new status row.
func (s *AdminService) CreateStatus(ctx context.Context, status *domain.Status) error {
	if strings.TrimSpace(status.Name) == "" {
		return apperrors.NewValidationError("status name required", nil)
	}
	if err := s.statuses.Create(ctx, status); err != nil {
		return err
	}
	if status.IsDefault {
		return s.statuses.SetDefault(ctx, status.ID)
	}
	return nil
}

// UpdateStatus updates a status row.
func (s *AdminService) UpdateStatus(ctx context.Context, status *domain.Status) error {
	if strings.TrimSpace(status.Name) == "" {
		return apperrors.NewValidationError("status name required", nil)
	}
	if err := s.statuses.Update(ctx, status); err != nil {
		return notFoundOn(err, "status")
	}
	if status.IsDefault {
		return s.statuses.SetDefault(ctx, status.ID)
	}
	return nil
}

// SetDefaultStatus makes the status the single default.
func (s *AdminService) SetDefaultStatus(ctx context.Context, id string) error {
	return notFoundOn(s.statuses.SetDefault(ctx, id), "status")
}

// ListStatuses lists status rows.
func (s *AdminService) ListStatuses(ctx context.Context, activeOnly bool) ([]domain.Status, error) {
	return s.statuses.List(ctx, activeOnly)
}

// CreatePriority persists a new priority.
func (s *AdminService) CreatePriority(ctx context.Context, priority *domain.Priority) error {
	if err := validatePriority(priority); err != nil {
		return err
	}
	if err := s.priorities.Create(ctx, priority); err != nil {
		return err
	}
	if priority.IsDefault {
		return s.priorities.SetDefault(ctx, priority.ID)
	}
	return nil
}

// UpdatePriority updates a priority.
func (s *AdminService) UpdatePriority(ctx context.Context, priority *domain.Priority) error {
	if err := validatePriority(priority); err != nil {
		return err
	}
	if err := s.priorities.Update(ctx, priority); err != nil {
		return notFoundOn(err, "priority")
	}
	if priority.IsDefault {
		return s.priorities.SetDefault(ctx, priority.ID)
	}
	return nil
}

// SetDefaultPriority makes the priority the single default.
func (s *AdminService) SetDefaultPriority(ctx context.Context, id string) error {
	return notFoundOn(s.priorities.SetDefault(ctx, id), "priority")
}

// ListPriorities lists priorities.
func (s *AdminService) ListPriorities(ctx context.Context, activeOnly bool) ([]domain.Priority, error) {
	return s.priorities.List(ctx, activeOnly)
}

func validatePriority(priority *domain.Priority) error {
	if strings.TrimSpace(priority.Name) == "" {
		return apperrors.NewValidationError("priority name required", nil)
	}
	if priority.Level <= 0 {
		return apperrors.NewValidationError("priority level must be positive", nil)
	}
	if priority.ResponseTimeMinutes < 0 || priority.ResolutionTimeMinutes < 0 {
		return apperrors.NewValidationError("priority minutes cannot be negative", nil)
	}
	return nil
}

// CreateCategory persists a category after validating the parent chain.
func (s *AdminService) CreateCategory(ctx context.Context, category *domain.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return apperrors.NewValidationError("category name required", nil)
	}
	if category.ParentID != nil {
		if _, err := s.categories.GetByID(ctx, *category.ParentID); err != nil {
			return lookupError(err, "parent category")
		}
	}
	return s.categories.Create(ctx, category)
}

// UpdateCategory updates a category, rejecting parent assignments that
// would create a cycle.
func (s *AdminService) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return apperrors.NewValidationError("category name required", nil)
	}
	if category.ParentID != nil {
		if *category.ParentID == category.ID {
			return apperrors.NewValidationError("category cannot be its own parent", nil)
		}
		if err := s.checkCategoryCycle(ctx, category.ID, *category.ParentID); err != nil {
			return err
		}
	}
	return notFoundOn(s.categories.Update(ctx, category), "category")
}

// ListCategories lists categories.
func (s *AdminService) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	return s.categories.List(ctx, activeOnly)
}

// checkCategoryCycle walks up from the proposed parent; reaching the
// category again means the assignment closes a loop.
func (s *AdminService) checkCategoryCycle(ctx context.Context, categoryID, parentID string) error {
	cursor := parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		parent, err := s.categories.GetByID(ctx, cursor)
		if err != nil {
			return lookupError(err, "parent category")
		}
		if parent.ID == categoryID {
			return apperrors.NewValidationError("category parent would create a cycle", nil)
		}
		if parent.ParentID == nil {
			return nil
		}
		cursor = *parent.ParentID
	}
	return apperrors.NewValidationError("category tree too deep", nil)
}

// CreateCompany persists a tenant company.
func (s *AdminService) CreateCompany(ctx context.Context, company *domain.Company) error {
	if strings.TrimSpace(company.Name) == "" {
		return apperrors.NewValidationError("company name required", nil)
	}
	return s.companies.Create(ctx, company)
}

// UpdateCompany updates a company.
func (s *AdminService) UpdateCompany(ctx context.Context, company *domain.Company) error {
	return notFoundOn(s.companies.Update(ctx, company), "company")
}

// ListCompanies lists companies.
func (s *AdminService) ListCompanies(ctx context.Context, activeOnly bool) ([]domain.Company, error) {
	return s.companies.List(ctx, activeOnly)
}

// CreateDepartment persists a department.
func (s *AdminService) CreateDepartment(ctx context.Context, department *domain.Department) error {
	if strings.TrimSpace(department.Name) == "" {
		return apperrors.NewValidationError("department name required", nil)
	}
	return s.departments.Create(ctx, department)
}

// UpdateDepartment updates a department.
func (s *AdminService) UpdateDepartment(ctx context.Context, department *domain.Department) error {
	return notFoundOn(s.departments.Update(ctx, department), "department")
}

// ListDepartments lists departments.
func (s *AdminService) ListDepartments(ctx context.Context, activeOnly bool) ([]domain.Department, error) {
	return s.departments.List(ctx, activeOnly)
}

// CreateTeam persists a team under its department.
func (s *AdminService) CreateTeam(ctx context.Context, team *domain.Team) error {
	if strings.TrimSpace(team.Name) == "" {
		return apperrors.NewValidationError("team name required", nil)
	}
	if _, err := s.departments.GetByID(ctx, team.DepartmentID); err != nil {
		return lookupError(err, "department")
	}
	return s.teams.Create(ctx, team)
}

// UpdateTeam updates a team.
func (s *AdminService) UpdateTeam(ctx context.Context, team *domain.Team) error {
	return notFoundOn(s.teams.Update(ctx, team), "team")
}

// ListTeams lists teams of a department.
func (s *AdminService) ListTeams(ctx context.Context, departmentID string) ([]domain.Team, error) {
	return s.teams.ListByDepartment(ctx, departmentID)
}

// CreateSLARule persists an SLA rule.
func (s *AdminService) CreateSLARule(ctx context.Context, rule *domain.SLARule) error {
	if err := validateSLARule(rule); err != nil {
		return err
	}
	return s.slaRules.Create(ctx, rule)
}

// UpdateSLARule updates an SLA rule.
func (s *AdminService) UpdateSLARule(ctx context.Context, rule *domain.SLARule) error {
	if err := validateSLARule(rule); err != nil {
		return err
	}
	return notFoundOn(s.slaRules.Update(ctx, rule), "sla rule")
}

// DeleteSLARule removes an SLA rule. Existing tickets keep their stamped
// deadlines.
func (s *AdminService) DeleteSLARule(ctx context.Context, id string) error {
	return notFoundOn(s.slaRules.Delete(ctx, id), "sla rule")
}

// ListSLARules lists SLA rules.
func (s *AdminService) ListSLARules(ctx context.Context) ([]domain.SLARule, error) {
	return s.slaRules.List(ctx)
}

func validateSLARule(rule *domain.SLARule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return apperrors.NewValidationError("sla rule name required", nil)
	}
	if rule.ResolutionTimeMinutes <= 0 {
		return apperrors.NewValidationError("resolution time must be positive", nil)
	}
	if rule.ResponseTimeMinutes < 0 {
		return apperrors.NewValidationError("response time cannot be negative", nil)
	}
	if rule.ResponseTimeMinutes > rule.ResolutionTimeMinutes {
		return apperrors.NewValidationError("response time cannot exceed resolution time", nil)
	}
	return nil
}

// CreateEscalationRule persists an escalation rule.
func (s *AdminService) CreateEscalationRule(ctx context.Context, rule *domain.EscalationRule) error {
	if err := validateEscalationRule(rule); err != nil {
		return err
	}
	return s.escalationRules.Create(ctx, rule)
}

// UpdateEscalationRule updates an escalation rule.
func (s *AdminService) UpdateEscalationRule(ctx context.Context, rule *domain.EscalationRule) error {
	if err := validateEscalationRule(rule); err != nil {
		return err
	}
	return notFoundOn(s.escalationRules.Update(ctx, rule), "escalation rule")
}

// DeleteEscalationRule removes an escalation rule.
func (s *AdminService) DeleteEscalationRule(ctx context.Context, id string) error {
	return notFoundOn(s.escalationRules.Delete(ctx, id), "escalation rule")
}

// ListEscalationRules lists escalation rules.
func (s *AdminService) ListEscalationRules(ctx context.Context) ([]domain.EscalationRule, error) {
	return s.escalationRules.List(ctx)
}

func validateEscalationRule(rule *domain.EscalationRule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return apperrors.NewValidationError("escalation rule name required", nil)
	}
	if rule.TriggerMinutes <= 0 {
		return apperrors.NewValidationError("trigger minutes must be positive", nil)
	}
	switch rule.Action {
	case domain.EscalationActionNotify, domain.EscalationActionEscalatePriority:
	case domain.EscalationActionReassign:
		if rule.ReassignToID == nil {
			return apperrors.NewValidationError("reassign action requires a target staff member", nil)
		}
	default:
		return apperrors.NewValidationError("unknown escalation action", nil)
	}
	return nil
}

// CreateBusinessHours persists a working window.
func (s *AdminService) CreateBusinessHours(ctx context.Context, hours *domain.BusinessHours) error {
	if err := validateBusinessHours(hours); err != nil {
		return err
	}
	return s.businessHours.Create(ctx, hours)
}

// UpdateBusinessHours updates a working window.
func (s *AdminService) UpdateBusinessHours(ctx context.Context, hours *domain.BusinessHours) error {
	if err := validateBusinessHours(hours); err != nil {
		return err
	}
	return notFoundOn(s.businessHours.Update(ctx, hours), "business hours")
}

// DeleteBusinessHours removes a working window.
func (s *AdminService) DeleteBusinessHours(ctx context.Context, id string) error {
	return notFoundOn(s.businessHours.Delete(ctx, id), "business hours")
}

// ListBusinessHours lists all working windows.
func (s *AdminService) ListBusinessHours(ctx context.Context) ([]domain.BusinessHours, error) {
	return s.businessHours.List(ctx)
}

func validateBusinessHours(hours *domain.BusinessHours) error {
	if hours.DayOfWeek < time.Sunday || hours.DayOfWeek > time.Saturday {
		return apperrors.NewValidationError("day of week out of range", nil)
	}
	if hours.StartMinutes < 0 || hours.EndMinutes > 24*60 || hours.StartMinutes >= hours.EndMinutes {
		return apperrors.NewValidationError("invalid working window", nil)
	}
	return nil
}

// CreateHoliday persists a holiday date.
func (s *AdminService) CreateHoliday(ctx context.Context, holiday *domain.Holiday) error {
	if strings.TrimSpace(holiday.Name) == "" {
		return apperrors.NewValidationError("holiday name required", nil)
	}
	return s.holidays.Create(ctx, holiday)
}

// DeleteHoliday removes a holiday.
func (s *AdminService) DeleteHoliday(ctx context.Context, id string) error {
	return notFoundOn(s.holidays.Delete(ctx, id), "holiday")
}

// ListHolidays lists holidays.
func (s *AdminService) ListHolidays(ctx context.Context) ([]domain.Holiday, error) {
	return s.holidays.List(ctx)
}

func notFoundOn(err error, resource string) error {
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}
