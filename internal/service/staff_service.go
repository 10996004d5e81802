package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/auth"
	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util/errorutil"
)

// StaffService manages staff member accounts.
type StaffService struct {
	staff       repository.StaffRepository
	departments repository.DepartmentRepository
	teams       repository.TeamRepository
	users       repository.UserRepository
	bcryptCost  int
}

// StaffServiceDependencies bundles repo requirements.
type StaffServiceDependencies struct {
	StaffRepo      repository.StaffRepository
	DepartmentRepo repository.DepartmentRepository
	TeamRepo       repository.TeamRepository
	UserRepo       repository.UserRepository
	BcryptCost     int
}

// StaffCreateInput describes a new staff member.
type StaffCreateInput struct {
	Name         string
	Email        string
	Password     string
	Role         domain.StaffRole
	DepartmentID *string
	TeamID       *string
}

// StaffUpdateInput describes mutable staff fields; nil leaves a field
// unchanged.
type StaffUpdateInput struct {
	Role         *domain.StaffRole
	DepartmentID *string
	TeamID       *string
	Active       *bool
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffServiceDependencies) *StaffService {
	cost := deps.BcryptCost
	if cost <= 0 {
		cost = 12
	}
	return &StaffService{
		staff:       deps.StaffRepo,
		departments: deps.DepartmentRepo,
		teams:       deps.TeamRepo,
		users:       deps.UserRepo,
		bcryptCost:  cost,
	}
}

// CreateStaff provisions a staff account.
func (s *StaffService) CreateStaff(ctx context.Context, input StaffCreateInput) (*domain.StaffMember, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}
	if !validStaffRole(input.Role) {
		return nil, apperrors.NewValidationError("unknown staff role", nil)
	}
	if _, err := s.staff.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}
	if input.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			return nil, lookupError(err, "department")
		}
	}
	if input.TeamID != nil {
		if _, err := s.teams.GetByID(ctx, *input.TeamID); err != nil {
			return nil, lookupError(err, "team")
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	member := &domain.StaffMember{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Role:         input.Role,
		DepartmentID: input.DepartmentID,
		TeamID:       input.TeamID,
		Active:       true,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateStaff applies the given changes to a staff member.
func (s *StaffService) UpdateStaff(ctx context.Context, id string, input StaffUpdateInput) (*domain.StaffMember, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("staff member", nil)
		}
		return nil, err
	}

	if input.Role != nil {
		if !validStaffRole(*input.Role) {
			return nil, apperrors.NewValidationError("unknown staff role", nil)
		}
		member.Role = *input.Role
	}
	if input.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			return nil, lookupError(err, "department")
		}
		member.DepartmentID = input.DepartmentID
	}
	if input.TeamID != nil {
		if _, err := s.teams.GetByID(ctx, *input.TeamID); err != nil {
			return nil, lookupError(err, "team")
		}
		member.TeamID = input.TeamID
	}
	if input.Active != nil {
		member.Active = *input.Active
	}

	if err := s.staff.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// ListStaff returns active staff across all roles.
func (s *StaffService) ListStaff(ctx context.Context) ([]domain.StaffMember, error) {
	return s.staff.ListByRoles(ctx, []domain.StaffRole{
		domain.StaffRoleAgent,
		domain.StaffRoleTeamLead,
		domain.StaffRoleAdmin,
	})
}

// ListCompanyUsers returns the end-users of a tenant company.
func (s *StaffService) ListCompanyUsers(ctx context.Context, companyID string) ([]domain.User, error) {
	return s.users.ListByCompany(ctx, companyID)
}

func validStaffRole(role domain.StaffRole) bool {
	switch role {
	case domain.StaffRoleAgent, domain.StaffRoleTeamLead, domain.StaffRoleAdmin:
		return true
	}
	return false
}
