package governance

import (
	"context"

	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/governance"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRiskRepository struct {
	mock.Mock
}

func (m *MockRiskRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*governance.Risk, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.Risk), args.Error(1)
}

func (m *MockRiskRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]governance.Risk, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]governance.Risk), args.Get(1).(int64), args.Error(2)
}

func (m *MockRiskRepository) Save(ctx context.Context, risk *governance.Risk) error {
	return m.Called(ctx, risk).Error(0)
}

func (m *MockRiskRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockDecisionRepository struct {
	mock.Mock
}

func (m *MockDecisionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*governance.Decision, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.Decision), args.Error(1)
}

func (m *MockDecisionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]governance.Decision, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]governance.Decision), args.Get(1).(int64), args.Error(2)
}

func (m *MockDecisionRepository) Save(ctx context.Context, decision *governance.Decision) error {
	return m.Called(ctx, decision).Error(0)
}

func (m *MockDecisionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockActiveProjects struct {
	mock.Mock
}

func (m *MockActiveProjects) RequireActive(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

type MockStatusGuard struct {
	mock.Mock
}

func (m *MockStatusGuard) AssignInitial(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item workflowapp.StatusBinder) error {
	return m.Called(ctx, tenantID, entityType, item).Error(0)
}

func (m *MockStatusGuard) ValidateChange(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware, to uuid.UUID, role identity.Role) (*workflow.ItemStatus, *workflow.Workflow, error) {
	args := m.Called(ctx, tenantID, entityType, item, to, role)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	wf, _ := args.Get(1).(*workflow.Workflow)
	return args.Get(0).(*workflow.ItemStatus), wf, args.Error(2)
}

func (m *MockStatusGuard) ValidNextStatuses(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware, role identity.Role) ([]workflow.ItemStatus, error) {
	args := m.Called(ctx, tenantID, entityType, item, role)
	return args.Get(0).([]workflow.ItemStatus), args.Error(1)
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
