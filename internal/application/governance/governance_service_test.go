package governance

import (
	"context"
	"testing"

	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/governance"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type governanceFixture struct {
	tenantID  uuid.UUID
	project   *project.Project
	risks     *MockRiskRepository
	decisions *MockDecisionRepository
	projects  *MockActiveProjects
	guard     *MockStatusGuard
	events    *recordingPublisher
}

func newGovernanceFixture(t *testing.T) *governanceFixture {
	t.Helper()
	tenantID := uuid.New()
	p, err := project.NewProject(tenantID, "Depot Upgrade", "DU")
	require.NoError(t, err)
	f := &governanceFixture{
		tenantID:  tenantID,
		project:   p,
		risks:     new(MockRiskRepository),
		decisions: new(MockDecisionRepository),
		projects:  new(MockActiveProjects),
		guard:     new(MockStatusGuard),
		events:    &recordingPublisher{},
	}
	f.projects.On("RequireActive", mock.Anything, tenantID, p.ID).Return(p, nil).Maybe()
	return f
}

func (f *governanceFixture) riskService() *RiskService {
	return NewRiskService(f.risks, f.projects, f.guard, f.events, zap.NewNop())
}

func (f *governanceFixture) decisionService() *DecisionService {
	return NewDecisionService(f.decisions, f.projects, f.guard, f.events, zap.NewNop())
}

func TestRiskService_Create(t *testing.T) {
	f := newGovernanceFixture(t)
	initial := uuid.New()
	f.guard.On("AssignInitial", mock.Anything, f.tenantID, registry.TypeRisk, mock.AnythingOfType("*governance.Risk")).
		Run(func(args mock.Arguments) {
			args.Get(3).(workflowapp.StatusBinder).BindWorkflow(uuid.New(), initial)
		}).
		Return(nil)
	f.risks.On("Save", mock.Anything, mock.AnythingOfType("*governance.Risk")).Return(nil)

	resp, err := f.riskService().Create(context.Background(), f.tenantID, uuid.New(), CreateRiskRequest{
		ProjectID: f.project.ID,
		RiskFields: RiskFields{
			Name:        "Supplier insolvency",
			Severity:    "high",
			Probability: 3,
			Impact:      4,
			Mitigation:  "Second supplier",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Score)
	assert.Equal(t, "high", resp.Severity)
	assert.Equal(t, initial, *resp.StatusID)
	assert.Equal(t, []string{governance.EventTypeRiskCreated}, f.events.types())
}

func TestRiskService_Create_ArchivedProject(t *testing.T) {
	f := newGovernanceFixture(t)
	other := uuid.New()
	f.projects.On("RequireActive", mock.Anything, f.tenantID, other).Return(nil, shared.NewDomainError("PROJECT_ARCHIVED", "archived"))

	_, err := f.riskService().Create(context.Background(), f.tenantID, uuid.New(), CreateRiskRequest{
		ProjectID: other, RiskFields: RiskFields{Name: "Late permits"},
	})
	assert.Error(t, err)
	f.risks.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRiskService_ChangeStatus(t *testing.T) {
	f := newGovernanceFixture(t)
	risk, err := governance.NewRisk(f.tenantID, f.project.ID, "Late permits")
	require.NoError(t, err)
	risk.ClearDomainEvents()
	closed, err := workflow.NewItemStatus(f.tenantID, "Closed", "", 9)
	require.NoError(t, err)

	f.risks.On("FindByIDForTenant", mock.Anything, f.tenantID, risk.ID).Return(risk, nil)
	f.risks.On("Save", mock.Anything, risk).Return(nil)
	f.guard.On("ValidateChange", mock.Anything, f.tenantID, registry.TypeRisk, risk, closed.ID, identity.RoleManager).Return(closed, nil, nil)
	f.guard.On("ValidateChange", mock.Anything, f.tenantID, registry.TypeRisk, risk, closed.ID, identity.RoleViewer).
		Return(nil, nil, workflowapp.ErrInvalidTransition)

	_, err = f.riskService().ChangeStatus(context.Background(), f.tenantID, risk.ID, identity.RoleViewer, workflowapp.ChangeStatusRequest{StatusID: closed.ID})
	assert.ErrorIs(t, err, workflowapp.ErrInvalidTransition)
	f.risks.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	resp, err := f.riskService().ChangeStatus(context.Background(), f.tenantID, risk.ID, identity.RoleManager, workflowapp.ChangeStatusRequest{StatusID: closed.ID})
	require.NoError(t, err)
	assert.Equal(t, closed.ID, *resp.StatusID)
}

func TestDecisionService_Approvals(t *testing.T) {
	f := newGovernanceFixture(t)
	decision, err := governance.NewDecision(f.tenantID, f.project.ID, "Switch to heat pumps")
	require.NoError(t, err)
	decision.ClearDomainEvents()
	f.decisions.On("FindByIDForTenant", mock.Anything, f.tenantID, decision.ID).Return(decision, nil)
	f.decisions.On("Save", mock.Anything, decision).Return(nil)
	svc := f.decisionService()
	ctx := context.Background()
	cfo, cto := uuid.New(), uuid.New()

	_, err = svc.RequestApproval(ctx, f.tenantID, decision.ID, RequestApprovalRequest{ApproverID: cfo})
	require.NoError(t, err)
	_, err = svc.RequestApproval(ctx, f.tenantID, decision.ID, RequestApprovalRequest{ApproverID: cfo})
	assert.Error(t, err, "duplicate approver")
	_, err = svc.RequestApproval(ctx, f.tenantID, decision.ID, RequestApprovalRequest{ApproverID: cto})
	require.NoError(t, err)

	resp, err := svc.Approve(ctx, f.tenantID, decision.ID, cfo, VerdictRequest{Comment: "Within budget"})
	require.NoError(t, err)
	assert.False(t, resp.IsApproved)

	resp, err = svc.Approve(ctx, f.tenantID, decision.ID, cto, VerdictRequest{})
	require.NoError(t, err)
	assert.True(t, resp.IsApproved)
	assert.Equal(t, "Within budget", resp.Approvals[0].Comment)

	_, err = svc.Reject(ctx, f.tenantID, decision.ID, cto, VerdictRequest{})
	assert.Error(t, err, "already decided")

	_, err = svc.Approve(ctx, f.tenantID, decision.ID, uuid.New(), VerdictRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.Equal(t, []string{governance.EventTypeDecisionApprovalDecided, governance.EventTypeDecisionApprovalDecided}, f.events.types())
}

func TestDecisionService_Update_KeepsCostWhenOmitted(t *testing.T) {
	f := newGovernanceFixture(t)
	decision, err := governance.NewDecision(f.tenantID, f.project.ID, "Switch to heat pumps")
	require.NoError(t, err)
	require.NoError(t, decision.SetDetails(decimal.NewFromInt(25000), nil, nil, ""))
	f.decisions.On("FindByIDForTenant", mock.Anything, f.tenantID, decision.ID).Return(decision, nil)
	f.decisions.On("Save", mock.Anything, decision).Return(nil)

	resp, err := f.decisionService().Update(context.Background(), f.tenantID, decision.ID, UpdateDecisionRequest{
		DecisionFields: DecisionFields{Name: "Switch to heat pumps", Rationale: "Lower running cost"},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25000).Equal(resp.EstimatedCost))
	assert.Equal(t, "Lower running cost", resp.Rationale)
}
