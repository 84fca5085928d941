package seed

import (
	"context"
	"testing"
	"time"

	financeapp "github.com/derbent/backend/internal/application/finance"
	governanceapp "github.com/derbent/backend/internal/application/governance"
	identityapp "github.com/derbent/backend/internal/application/identity"
	kanbanapp "github.com/derbent/backend/internal/application/kanban"
	planningapp "github.com/derbent/backend/internal/application/planning"
	projectapp "github.com/derbent/backend/internal/application/project"
	settingsapp "github.com/derbent/backend/internal/application/settings"
	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// creator records requests and answers with a fresh response
type creator[Req, Resp any] struct {
	reqs  []Req
	build func() *Resp
}

func (c *creator[Req, Resp]) Create(_ context.Context, _, _ uuid.UUID, req Req) (*Resp, error) {
	c.reqs = append(c.reqs, req)
	return c.build(), nil
}

type fakeCompanies struct {
	exists bool
	id     uuid.UUID
}

func (f *fakeCompanies) Create(_ context.Context, req identityapp.CreateCompanyRequest) (*identityapp.CompanyResponse, error) {
	if f.exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Company with this code already exists")
	}
	return &identityapp.CompanyResponse{ID: f.id, Code: req.Code}, nil
}

type fakeWorkflows struct {
	creator[workflowapp.CreateWorkflowRequest, workflowapp.WorkflowResponse]
	transitions []workflowapp.TransitionRequest
}

func (f *fakeWorkflows) AddTransition(_ context.Context, _, _ uuid.UUID, req workflowapp.TransitionRequest) (*workflowapp.WorkflowResponse, error) {
	f.transitions = append(f.transitions, req)
	return &workflowapp.WorkflowResponse{}, nil
}

type fakeSprints struct {
	creator[planningapp.CreateSprintRequest, planningapp.SprintResponse]
	items []planningapp.AddSprintItemRequest
}

func (f *fakeSprints) AddItem(_ context.Context, _, _ uuid.UUID, req planningapp.AddSprintItemRequest) (*planningapp.SprintResponse, error) {
	f.items = append(f.items, req)
	return &planningapp.SprintResponse{}, nil
}

type fakeLines struct {
	creator[kanbanapp.LineRequest, kanbanapp.LineResponse]
	columns []kanbanapp.ColumnRequest
}

func (f *fakeLines) AddColumn(_ context.Context, _, _ uuid.UUID, req kanbanapp.ColumnRequest) (*kanbanapp.LineResponse, error) {
	f.columns = append(f.columns, req)
	return &kanbanapp.LineResponse{}, nil
}

type fakeSettings struct {
	req *settingsapp.UpdateCompanySettingsRequest
}

func (f *fakeSettings) UpdateCompany(_ context.Context, _ uuid.UUID, req settingsapp.UpdateCompanySettingsRequest) (*settingsapp.CompanySettingsResponse, error) {
	f.req = &req
	return &settingsapp.CompanySettingsResponse{}, nil
}

type seedFakes struct {
	companies  *fakeCompanies
	users      *creator[identityapp.CreateUserRequest, identityapp.UserResponse]
	statuses   *creator[workflowapp.StatusRequest, workflowapp.StatusResponse]
	workflows  *fakeWorkflows
	projects   *creator[projectapp.CreateProjectRequest, projectapp.ProjectResponse]
	activities *creator[planningapp.CreateActivityRequest, planningapp.ActivityResponse]
	meetings   *creator[planningapp.CreateMeetingRequest, planningapp.MeetingResponse]
	sprints    *fakeSprints
	risks      *creator[governanceapp.CreateRiskRequest, governanceapp.RiskResponse]
	invoices   *creator[financeapp.CreateInvoiceRequest, financeapp.InvoiceResponse]
	lines      *fakeLines
	settings   *fakeSettings
}

func newSeedFakes() *seedFakes {
	return &seedFakes{
		companies: &fakeCompanies{id: uuid.New()},
		users: &creator[identityapp.CreateUserRequest, identityapp.UserResponse]{
			build: func() *identityapp.UserResponse { return &identityapp.UserResponse{ID: uuid.New()} },
		},
		statuses: &creator[workflowapp.StatusRequest, workflowapp.StatusResponse]{
			build: func() *workflowapp.StatusResponse { return &workflowapp.StatusResponse{ID: uuid.New()} },
		},
		workflows: &fakeWorkflows{creator: creator[workflowapp.CreateWorkflowRequest, workflowapp.WorkflowResponse]{
			build: func() *workflowapp.WorkflowResponse { return &workflowapp.WorkflowResponse{ID: uuid.New()} },
		}},
		projects: &creator[projectapp.CreateProjectRequest, projectapp.ProjectResponse]{
			build: func() *projectapp.ProjectResponse { return &projectapp.ProjectResponse{ID: uuid.New()} },
		},
		activities: &creator[planningapp.CreateActivityRequest, planningapp.ActivityResponse]{
			build: func() *planningapp.ActivityResponse { return &planningapp.ActivityResponse{ID: uuid.New()} },
		},
		meetings: &creator[planningapp.CreateMeetingRequest, planningapp.MeetingResponse]{
			build: func() *planningapp.MeetingResponse { return &planningapp.MeetingResponse{ID: uuid.New()} },
		},
		sprints: &fakeSprints{creator: creator[planningapp.CreateSprintRequest, planningapp.SprintResponse]{
			build: func() *planningapp.SprintResponse { return &planningapp.SprintResponse{ID: uuid.New()} },
		}},
		risks: &creator[governanceapp.CreateRiskRequest, governanceapp.RiskResponse]{
			build: func() *governanceapp.RiskResponse { return &governanceapp.RiskResponse{ID: uuid.New()} },
		},
		invoices: &creator[financeapp.CreateInvoiceRequest, financeapp.InvoiceResponse]{
			build: func() *financeapp.InvoiceResponse { return &financeapp.InvoiceResponse{ID: uuid.New()} },
		},
		lines: &fakeLines{creator: creator[kanbanapp.LineRequest, kanbanapp.LineResponse]{
			build: func() *kanbanapp.LineResponse { return &kanbanapp.LineResponse{ID: uuid.New()} },
		}},
		settings: &fakeSettings{},
	}
}

func (f *seedFakes) services() Services {
	return Services{
		Companies:  f.companies,
		Users:      f.users,
		Statuses:   f.statuses,
		Workflows:  f.workflows,
		Projects:   f.projects,
		Activities: f.activities,
		Meetings:   f.meetings,
		Sprints:    f.sprints,
		Risks:      f.risks,
		Invoices:   f.invoices,
		Lines:      f.lines,
		Settings:   f.settings,
	}
}

func TestLoadSample(t *testing.T) {
	f, err := LoadSample()
	require.NoError(t, err)
	assert.Equal(t, "DERBENT", f.Company.Code)
	assert.Len(t, f.Users, 3)
	assert.NotEmpty(t, f.Workflows)
	assert.NotEmpty(t, f.KanbanLines)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("company:\n  code: X\n  colour: blue\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("users: []\n"))
	assert.Error(t, err, "company code is required")
}

func TestSeeder_Run(t *testing.T) {
	fakes := newSeedFakes()
	seeder := NewSeeder(fakes.services(), "admin-secret-pass", zap.NewNop())
	seeder.now = func() time.Time { return time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC) }

	fixture, err := LoadSample()
	require.NoError(t, err)

	result, err := seeder.Run(context.Background(), fixture)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, fakes.companies.id, result.CompanyID)

	require.Len(t, fakes.users.reqs, 3)
	assert.Equal(t, "admin-secret-pass", fakes.users.reqs[0].Password)
	assert.Equal(t, "manager-pass-123", fakes.users.reqs[1].Password)

	assert.Len(t, fakes.statuses.reqs, len(fixture.Statuses))
	for _, wf := range fakes.workflows.reqs {
		assert.True(t, wf.IsDefault)
	}
	assert.NotEmpty(t, fakes.workflows.transitions)

	require.Len(t, fakes.projects.reqs, 1)
	assert.Equal(t, time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC), *fakes.projects.reqs[0].StartDate)

	require.Len(t, fakes.activities.reqs, len(fixture.Activities))
	assert.Nil(t, fakes.activities.reqs[0].ParentID)
	assert.NotNil(t, fakes.activities.reqs[1].ParentID, "wiring is a child of design")

	require.Len(t, fakes.meetings.reqs, 2)
	assert.Len(t, fakes.meetings.reqs[0].AttendeeIDs, 3)
	assert.Equal(t, 9, fakes.meetings.reqs[0].StartAt.Hour())

	assert.Len(t, fakes.sprints.items, 3)
	assert.Equal(t, "meeting", fakes.sprints.items[2].ItemType)
	assert.Len(t, fakes.risks.reqs, 2)
	require.Len(t, fakes.invoices.reqs, 1)
	assert.Len(t, fakes.invoices.reqs[0].Items, 2)
	assert.Equal(t, "19", fakes.invoices.reqs[0].TaxRate.String())

	assert.Len(t, fakes.lines.columns, 4)
	require.NotNil(t, fakes.settings.req)
	assert.NotNil(t, fakes.settings.req.DefaultKanbanLineID)
	assert.Equal(t, "EUR", fakes.settings.req.Currency)
}

func TestSeeder_Run_SkipsExistingCompany(t *testing.T) {
	fakes := newSeedFakes()
	fakes.companies.exists = true
	seeder := NewSeeder(fakes.services(), "admin-secret-pass", zap.NewNop())

	fixture, err := LoadSample()
	require.NoError(t, err)

	result, err := seeder.Run(context.Background(), fixture)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, fakes.users.reqs)
}

func TestSeeder_Run_UnknownReference(t *testing.T) {
	fakes := newSeedFakes()
	seeder := NewSeeder(fakes.services(), "admin-secret-pass", zap.NewNop())

	fixture := &Fixture{
		Company:   CompanyFixture{Code: "X", Name: "X"},
		Workflows: []WorkflowFixture{{Name: "Broken", EntityType: "activity", Initial: "missing"}},
	}
	_, err := seeder.Run(context.Background(), fixture)
	assert.ErrorContains(t, err, `unknown status "missing"`)
}
