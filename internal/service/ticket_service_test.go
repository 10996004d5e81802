package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/events"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util/errorutil"
)

type ticketFixture struct {
	svc        *TicketService
	tickets    *fakeTicketRepo
	comments   *fakeCommentRepo
	history    *fakeHistoryRepo
	links      *fakeLinkRepo
	priorities *fakePriorityRepo
	dispatcher *capturingDispatcher
	now        time.Time
	user       *domain.User
	admin      *domain.StaffMember
}

func (f *ticketFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()

	f := &ticketFixture{
		now: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	f.tickets = newFakeTicketRepo(clock)
	f.comments = &fakeCommentRepo{}
	f.history = &fakeHistoryRepo{}
	f.links = newFakeLinkRepo()
	f.dispatcher = &capturingDispatcher{}

	statuses := newFakeStatusRepo(
		&domain.Status{ID: "st-open", Name: "Open", IsDefault: true, IsActive: true, SortOrder: 1},
		&domain.Status{ID: "st-resolved", Name: "Resolved", IsResolved: true, IsActive: true, SortOrder: 2},
		&domain.Status{ID: "st-closed", Name: "Closed", IsClosed: true, IsActive: true, SortOrder: 3},
	)
	f.priorities = newFakePriorityRepo(
		&domain.Priority{ID: "pri-normal", Name: "Normal", Level: 2, ResponseTimeMinutes: 60, ResolutionTimeMinutes: 240, IsDefault: true, IsActive: true},
		&domain.Priority{ID: "pri-high", Name: "High", Level: 3, ResponseTimeMinutes: 30, ResolutionTimeMinutes: 120, IsActive: true},
		&domain.Priority{ID: "pri-urgent", Name: "Urgent", Level: 4, ResponseTimeMinutes: 15, ResolutionTimeMinutes: 60, IsActive: true},
	)
	categories := newFakeCategoryRepo(
		&domain.Category{ID: "cat-1", Name: "Billing", IsActive: true},
	)
	departments := newFakeDepartmentRepo(
		&domain.Department{ID: "dep-1", Name: "Support", IsActive: true},
	)
	teams := newFakeTeamRepo(
		&domain.Team{ID: "team-1", DepartmentID: "dep-1", Name: "Tier 1", IsActive: true},
	)

	f.user = &domain.User{ID: "usr-1", CompanyID: "co-1", Name: "Dana", Email: "dana@example.com"}
	f.admin = &domain.StaffMember{ID: "stf-admin", Name: "Avery", Email: "avery@example.com", Role: domain.StaffRoleAdmin, Active: true}
	agentDept := "dep-1"
	staff := newFakeStaffRepo(
		f.admin,
		&domain.StaffMember{ID: "stf-agent", Name: "Sam", Email: "sam@example.com", Role: domain.StaffRoleAgent, DepartmentID: &agentDept, Active: true},
		&domain.StaffMember{ID: "stf-inactive", Name: "Gone", Email: "gone@example.com", Role: domain.StaffRoleAgent, Active: false},
	)

	slaService := NewSLAService(SLADependencies{
		SLARuleRepo:       newFakeSLARuleRepo(),
		PriorityRepo:      f.priorities,
		BusinessHoursRepo: &fakeBusinessHoursRepo{},
		HolidayRepo:       &fakeHolidayRepo{},
	})
	slaService.now = clock

	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:     f.tickets,
		CommentRepo:    f.comments,
		AttachmentRepo: &fakeAttachmentRepo{},
		StatusRepo:     statuses,
		PriorityRepo:   f.priorities,
		CategoryRepo:   categories,
		DepartmentRepo: departments,
		TeamRepo:       teams,
		StaffRepo:      staff,
		LinkRepo:       f.links,
		HistoryRepo:    f.history,
		SLAService:     slaService,
		Numbers:        &fakeNumberGenerator{},
		Dispatcher:     f.dispatcher,
	})
	f.svc.now = clock
	return f
}

func (f *ticketFixture) createTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.CreateTicket(context.Background(), f.user, TicketCreateInput{
		Title:        "Printer on fire",
		Description:  "It is genuinely on fire.",
		CategoryID:   "cat-1",
		DepartmentID: "dep-1",
	})
	require.NoError(t, err)
	return ticket
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestCreateTicketStampsDeadlinesFromPriorityFallback(t *testing.T) {
	f := newTicketFixture(t)

	ticket := f.createTicket(t)

	assert.Equal(t, "st-open", ticket.StatusID)
	assert.Equal(t, "pri-normal", ticket.PriorityID)
	assert.Equal(t, "co-1", ticket.CompanyID)
	assert.Equal(t, "HD-20260831-00001", ticket.TicketNumber)

	require.NotNil(t, ticket.DueDate)
	require.NotNil(t, ticket.ResponseDue)
	assert.Equal(t, ticket.CreatedAt.Add(240*time.Minute), *ticket.DueDate)
	assert.Equal(t, ticket.CreatedAt.Add(60*time.Minute), *ticket.ResponseDue)
	assert.False(t, ticket.IsSLABreached)

	require.Len(t, f.dispatcher.byType(events.EventTicketCreated), 1)
}

func TestCreateTicketWithoutTargetsIsUnmonitored(t *testing.T) {
	f := newTicketFixture(t)
	require.NoError(t, f.priorities.Update(context.Background(), &domain.Priority{
		ID: "pri-normal", Name: "Normal", Level: 2, IsDefault: true, IsActive: true,
	}))

	ticket := f.createTicket(t)

	assert.Nil(t, ticket.DueDate)
	assert.Nil(t, ticket.ResponseDue)
	assert.False(t, ticket.IsSLABreached)
}

func TestCreateTicketRejectsUnknownLookups(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.CreateTicket(context.Background(), f.user, TicketCreateInput{
		Title:        "Broken",
		Description:  "Broken hard.",
		CategoryID:   "cat-missing",
		DepartmentID: "dep-1",
	})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	teamID := "team-1"
	_, err = f.svc.CreateTicket(context.Background(), f.user, TicketCreateInput{
		Title:        "Broken",
		Description:  "Broken hard.",
		CategoryID:   "cat-1",
		DepartmentID: "dep-missing",
		TeamID:       &teamID,
	})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestChangeStatusResolveStampsOnceAndBreachIsPermanent(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	// Resolve long past the deadline.
	f.advance(10 * time.Hour)
	resolved, err := f.svc.ChangeStatus(context.Background(), f.admin, ticket.ID, "st-resolved", "done")
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	firstResolvedAt := *resolved.ResolvedAt
	assert.True(t, resolved.IsSLABreached)

	// Reopen: the resolution timestamp and breach flag both survive.
	f.advance(time.Hour)
	reopened, err := f.svc.ChangeStatus(context.Background(), f.admin, ticket.ID, "st-open", "not done after all")
	require.NoError(t, err)
	require.NotNil(t, reopened.ResolvedAt)
	assert.Equal(t, firstResolvedAt, *reopened.ResolvedAt)
	assert.True(t, reopened.IsSLABreached)

	// Resolve again: the original timestamp is kept.
	f.advance(time.Hour)
	again, err := f.svc.ChangeStatus(context.Background(), f.admin, ticket.ID, "st-resolved", "done again")
	require.NoError(t, err)
	assert.Equal(t, firstResolvedAt, *again.ResolvedAt)

	assert.Len(t, f.history.byType(ticket.ID, domain.ChangeTypeStatus), 3)
}

func TestChangeStatusRejectsSameStatus(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.ChangeStatus(context.Background(), f.admin, ticket.ID, "st-open", "")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestFirstStaffPublicReplyStampsFirstResponseOnce(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	// A user comment and an internal note never count as first response.
	_, err := f.svc.AddComment(context.Background(), domain.SubjectTypeUser, f.user, nil,
		ticket.ID, domain.CommentTypePublicReply, "any update?", nil)
	require.NoError(t, err)
	_, err = f.svc.AddComment(context.Background(), domain.SubjectTypeStaff, nil, f.admin,
		ticket.ID, domain.CommentTypeInternalNote, "checking logs", nil)
	require.NoError(t, err)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.FirstResponseAt)

	f.advance(30 * time.Minute)
	_, err = f.svc.AddComment(context.Background(), domain.SubjectTypeStaff, nil, f.admin,
		ticket.ID, domain.CommentTypePublicReply, "on it", nil)
	require.NoError(t, err)

	stored, err = f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FirstResponseAt)
	stamped := *stored.FirstResponseAt

	f.advance(30 * time.Minute)
	_, err = f.svc.AddComment(context.Background(), domain.SubjectTypeStaff, nil, f.admin,
		ticket.ID, domain.CommentTypePublicReply, "still on it", nil)
	require.NoError(t, err)

	stored, err = f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, stamped, *stored.FirstResponseAt)
	assert.Len(t, f.history.byType(ticket.ID, domain.ChangeTypeFirstResponse), 1)

	added := f.dispatcher.byType(events.EventTicketCommentAdded)
	require.Len(t, added, 4)
	payload, ok := added[2].Payload.(events.TicketCommentAddedPayload)
	require.True(t, ok)
	assert.True(t, payload.FirstResponse)
	payload, ok = added[3].Payload.(events.TicketCommentAddedPayload)
	require.True(t, ok)
	assert.False(t, payload.FirstResponse)
}

func TestCloseTicketAsUserRequiresResolvedState(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.CloseTicketAsUser(context.Background(), f.user, ticket.ID)
	assert.Equal(t, "CONFLICT", errCode(t, err))

	_, err = f.svc.ChangeStatus(context.Background(), f.admin, ticket.ID, "st-resolved", "")
	require.NoError(t, err)

	closed, err := f.svc.CloseTicketAsUser(context.Background(), f.user, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "st-closed", closed.StatusID)
	require.NotNil(t, closed.ClosedAt)
}

func TestUpdatePriorityRestampsDeadlines(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	updated, err := f.svc.UpdatePriority(context.Background(), f.admin, ticket.ID, "pri-high")
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, ticket.CreatedAt.Add(120*time.Minute), *updated.DueDate)
	assert.Equal(t, ticket.CreatedAt.Add(30*time.Minute), *updated.ResponseDue)
	assert.Len(t, f.history.byType(ticket.ID, domain.ChangeTypePriority), 1)

	// Setting the same priority again is a no-op.
	_, err = f.svc.UpdatePriority(context.Background(), f.admin, ticket.ID, "pri-high")
	require.NoError(t, err)
	assert.Len(t, f.history.byType(ticket.ID, domain.ChangeTypePriority), 1)
}

func TestAssignValidatesAssigneeAndTeam(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	inactive := "stf-inactive"
	_, err := f.svc.Assign(context.Background(), f.admin, ticket.ID, &inactive, nil)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	agent := "stf-agent"
	assigned, err := f.svc.Assign(context.Background(), f.admin, ticket.ID, &agent, nil)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedToID)
	assert.Equal(t, agent, *assigned.AssignedToID)
	assert.Len(t, f.history.byType(ticket.ID, domain.ChangeTypeAssignee), 1)

	// Clearing the assignee is allowed.
	cleared, err := f.svc.Assign(context.Background(), f.admin, ticket.ID, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.AssignedToID)
}

func TestSoftDeleteHidesTicket(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	require.NoError(t, f.svc.SoftDelete(context.Background(), f.admin, ticket.ID))

	_, _, err := f.svc.GetTicketForUser(context.Background(), f.user, ticket.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))

	err = f.svc.SoftDelete(context.Background(), f.admin, ticket.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))

	listed, err := f.svc.ListUserTickets(context.Background(), f.user, TicketUserFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSoftDeletedTicketRemainsReadableForAudit(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	require.NoError(t, f.svc.SoftDelete(context.Background(), f.admin, ticket.ID))

	// Direct-ID staff reads still work on the deleted row.
	stored, _, err := f.svc.GetTicketForStaff(context.Background(), f.admin, ticket.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	require.NotNil(t, stored.DeletedAt)

	entries, err := f.svc.ListHistoryForStaff(context.Background(), f.admin, ticket.ID, 100, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	_, err = f.svc.SLAStatusForStaff(context.Background(), f.admin, ticket.ID)
	require.NoError(t, err)

	// Default listings exclude it; an admin audit listing opts back in.
	listed, err := f.svc.ListStaffTickets(context.Background(), f.admin, TicketStaffFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	audited, err := f.svc.ListStaffTickets(context.Background(), f.admin, TicketStaffFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, audited, 1)
	assert.Equal(t, ticket.ID, audited[0].ID)

	_, err = f.svc.AddComment(context.Background(), domain.SubjectTypeStaff, nil, f.admin,
		ticket.ID, domain.CommentTypeInternalNote, "post-mortem", nil)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestGetTicketForUserHidesInternalNotes(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.AddComment(context.Background(), domain.SubjectTypeStaff, nil, f.admin,
		ticket.ID, domain.CommentTypeInternalNote, "user seems angry", nil)
	require.NoError(t, err)
	_, err = f.svc.AddComment(context.Background(), domain.SubjectTypeStaff, nil, f.admin,
		ticket.ID, domain.CommentTypePublicReply, "we are looking into it", nil)
	require.NoError(t, err)

	_, comments, err := f.svc.GetTicketForUser(context.Background(), f.user, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, domain.CommentTypePublicReply, comments[0].CommentType)

	otherUser := &domain.User{ID: "usr-2", CompanyID: "co-1"}
	_, _, err = f.svc.GetTicketForUser(context.Background(), otherUser, ticket.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestMergeTicketsReportsPerSourceOutcomes(t *testing.T) {
	f := newTicketFixture(t)
	target := f.createTicket(t)
	good := f.createTicket(t)
	deleted := f.createTicket(t)
	require.NoError(t, f.svc.SoftDelete(context.Background(), f.admin, deleted.ID))

	results, err := f.svc.MergeTickets(context.Background(), f.admin, target.ID,
		[]string{target.ID, "tkt-missing", deleted.ID, good.ID})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.False(t, results[0].Merged)
	assert.Equal(t, "cannot merge a ticket into itself", results[0].Reason)
	assert.False(t, results[1].Merged)
	assert.Equal(t, "not found", results[1].Reason)
	assert.False(t, results[2].Merged)
	assert.Equal(t, "deleted", results[2].Reason)
	assert.True(t, results[3].Merged)

	// The merged source is soft-deleted with the redirect persisted.
	source, err := f.tickets.GetByID(context.Background(), good.ID)
	require.NoError(t, err)
	assert.True(t, source.IsDeleted)
	require.NotNil(t, source.DeletedAt)
	require.NotNil(t, source.MergedIntoTicketID)
	assert.Equal(t, target.ID, *source.MergedIntoTicketID)

	// Inert for writers but still readable, so the redirect is discoverable.
	_, err = f.svc.AddComment(context.Background(), domain.SubjectTypeUser, f.user, nil,
		good.ID, domain.CommentTypePublicReply, "hello?", nil)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
	_, _, err = f.svc.GetTicketForUser(context.Background(), f.user, good.ID)
	require.NoError(t, err)

	// Merging an already merged source reports its state.
	results, err = f.svc.MergeTickets(context.Background(), f.admin, target.ID, []string{good.ID})
	require.NoError(t, err)
	assert.Equal(t, "already merged", results[0].Reason)

	// The target carries a system comment recording the provenance.
	comments, err := f.comments.ListByTicket(context.Background(), target.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, domain.CommentTypeSystemEvent, comments[0].CommentType)
	assert.Contains(t, comments[0].Body, good.TicketNumber)

	require.Len(t, f.dispatcher.byType(events.EventTicketMerged), 1)
}

func TestLinkTicketsEnforcesPairRules(t *testing.T) {
	f := newTicketFixture(t)
	a := f.createTicket(t)
	b := f.createTicket(t)

	_, err := f.svc.LinkTickets(context.Background(), f.admin, a.ID, a.ID, domain.LinkTypeRelated)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = f.svc.LinkTickets(context.Background(), f.admin, a.ID, b.ID, domain.TicketLinkType("FRIENDS"))
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	link, err := f.svc.LinkTickets(context.Background(), f.admin, a.ID, b.ID, domain.LinkTypeBlocks)
	require.NoError(t, err)
	assert.Equal(t, domain.LinkTypeBlocks, link.LinkType)

	// One edge per pair, regardless of direction.
	_, err = f.svc.LinkTickets(context.Background(), f.admin, b.ID, a.ID, domain.LinkTypeRelated)
	assert.Equal(t, "CONFLICT", errCode(t, err))

	require.NoError(t, f.svc.UnlinkTickets(context.Background(), f.admin, link.ID))
	err = f.svc.UnlinkTickets(context.Background(), f.admin, link.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestListHistoryForUserFiltersEntries(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.ChangeStatus(context.Background(), f.admin, ticket.ID, "st-resolved", "")
	require.NoError(t, err)
	_, err = f.svc.UpdatePriority(context.Background(), f.admin, ticket.ID, "pri-high")
	require.NoError(t, err)
	agent := "stf-agent"
	_, err = f.svc.Assign(context.Background(), f.admin, ticket.ID, &agent, nil)
	require.NoError(t, err)

	entries, err := f.svc.ListHistoryForUser(context.Background(), f.user, ticket.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Contains(t, []domain.TicketChangeType{domain.ChangeTypeStatus, domain.ChangeTypeAssignee}, entry.ChangeType)
	}

	all, err := f.svc.ListHistoryForStaff(context.Background(), f.admin, ticket.ID, 100, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStaffScopeRestrictsAccess(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	otherDept := "dep-other"
	outsider := &domain.StaffMember{ID: "stf-out", Role: domain.StaffRoleAgent, DepartmentID: &otherDept, Active: true}

	_, _, err := f.svc.GetTicketForStaff(context.Background(), outsider, ticket.ID)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	sameDept := "dep-1"
	agent := &domain.StaffMember{ID: "stf-agent", Role: domain.StaffRoleAgent, DepartmentID: &sameDept, Active: true}
	_, _, err = f.svc.GetTicketForStaff(context.Background(), agent, ticket.ID)
	require.NoError(t, err)
}
