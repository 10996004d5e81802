package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

func newAdminFixture() (*AdminService, *fakeStatusRepo, *fakePriorityRepo, *fakeCategoryRepo) {
	statuses := newFakeStatusRepo()
	priorities := newFakePriorityRepo()
	categories := newFakeCategoryRepo()
	svc := NewAdminService(AdminDependencies{
		StatusRepo:         statuses,
		PriorityRepo:       priorities,
		CategoryRepo:       categories,
		CompanyRepo:        &fakeCompanyRepo{companies: map[string]*domain.Company{}},
		DepartmentRepo:     newFakeDepartmentRepo(&domain.Department{ID: "dep-1", Name: "Support", IsActive: true}),
		TeamRepo:           newFakeTeamRepo(),
		SLARuleRepo:        newFakeSLARuleRepo(),
		EscalationRuleRepo: newFakeEscalationRuleRepo(),
		BusinessHoursRepo:  &fakeBusinessHoursRepo{},
		HolidayRepo:        &fakeHolidayRepo{},
	})
	return svc, statuses, priorities, categories
}

func TestCreateStatusEnforcesSingleDefault(t *testing.T) {
	svc, statuses, _, _ := newAdminFixture()
	ctx := context.Background()

	first := &domain.Status{Name: "Open", IsDefault: true, IsActive: true}
	require.NoError(t, svc.CreateStatus(ctx, first))
	second := &domain.Status{Name: "Triage", IsDefault: true, IsActive: true}
	require.NoError(t, svc.CreateStatus(ctx, second))

	def, err := statuses.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)
}

func TestValidatePriorityBounds(t *testing.T) {
	svc, _, _, _ := newAdminFixture()
	ctx := context.Background()

	err := svc.CreatePriority(ctx, &domain.Priority{Name: "Broken", Level: 0})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	err = svc.CreatePriority(ctx, &domain.Priority{Name: "Broken", Level: 1, ResponseTimeMinutes: -5})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	require.NoError(t, svc.CreatePriority(ctx, &domain.Priority{Name: "Low", Level: 1, IsActive: true}))
}

func TestUpdateCategoryRejectsCycles(t *testing.T) {
	svc, _, _, categories := newAdminFixture()
	ctx := context.Background()

	root := &domain.Category{Name: "Hardware", IsActive: true}
	require.NoError(t, svc.CreateCategory(ctx, root))
	child := &domain.Category{Name: "Laptops", ParentID: &root.ID, IsActive: true}
	require.NoError(t, svc.CreateCategory(ctx, child))

	// Re-rooting the parent under its own child closes a loop.
	err := svc.UpdateCategory(ctx, &domain.Category{ID: root.ID, Name: "Hardware", ParentID: &child.ID, IsActive: true})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	// Self-parenting is rejected outright.
	err = svc.UpdateCategory(ctx, &domain.Category{ID: child.ID, Name: "Laptops", ParentID: &child.ID, IsActive: true})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	// A valid reparent still works.
	other := &domain.Category{Name: "Peripherals", IsActive: true}
	require.NoError(t, svc.CreateCategory(ctx, other))
	require.NoError(t, svc.UpdateCategory(ctx, &domain.Category{ID: child.ID, Name: "Laptops", ParentID: &other.ID, IsActive: true}))

	stored, err := categories.GetByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ParentID)
	assert.Equal(t, other.ID, *stored.ParentID)
}

func TestValidateSLARuleWindows(t *testing.T) {
	svc, _, _, _ := newAdminFixture()
	ctx := context.Background()

	err := svc.CreateSLARule(ctx, &domain.SLARule{Name: "bad", ResolutionTimeMinutes: 0})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	err = svc.CreateSLARule(ctx, &domain.SLARule{Name: "bad", ResponseTimeMinutes: 90, ResolutionTimeMinutes: 60})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	require.NoError(t, svc.CreateSLARule(ctx, &domain.SLARule{
		Name: "gold", ResponseTimeMinutes: 30, ResolutionTimeMinutes: 240, IsActive: true,
	}))
}

func TestValidateEscalationRuleActions(t *testing.T) {
	svc, _, _, _ := newAdminFixture()
	ctx := context.Background()

	err := svc.CreateEscalationRule(ctx, &domain.EscalationRule{
		Name: "bad", TriggerMinutes: 60, Action: domain.EscalationActionReassign,
	})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	err = svc.CreateEscalationRule(ctx, &domain.EscalationRule{
		Name: "bad", TriggerMinutes: 60, Action: domain.EscalationAction("SHOUT"),
	})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	target := "stf-1"
	require.NoError(t, svc.CreateEscalationRule(ctx, &domain.EscalationRule{
		Name: "handoff", TriggerMinutes: 60,
		Action: domain.EscalationActionReassign, ReassignToID: &target, IsActive: true,
	}))
}

func TestValidateBusinessHoursWindow(t *testing.T) {
	svc, _, _, _ := newAdminFixture()
	ctx := context.Background()

	err := svc.CreateBusinessHours(ctx, &domain.BusinessHours{DayOfWeek: time.Weekday(9), StartMinutes: 540, EndMinutes: 1020})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	err = svc.CreateBusinessHours(ctx, &domain.BusinessHours{DayOfWeek: time.Monday, StartMinutes: 1020, EndMinutes: 540})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	require.NoError(t, svc.CreateBusinessHours(ctx, &domain.BusinessHours{
		DayOfWeek: time.Monday, StartMinutes: 540, EndMinutes: 1020, IsActive: true,
	}))
}
