package workflow

import (
	"context"

	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStatusRepository is a mock implementation of workflow.StatusRepository
type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workflow.ItemStatus, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.ItemStatus), args.Error(1)
}

func (m *MockStatusRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]workflow.ItemStatus, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]workflow.ItemStatus), args.Error(1)
}

func (m *MockStatusRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]workflow.ItemStatus, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]workflow.ItemStatus), args.Error(1)
}

func (m *MockStatusRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStatusRepository) Save(ctx context.Context, status *workflow.ItemStatus) error {
	return m.Called(ctx, status).Error(0)
}

func (m *MockStatusRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockWorkflowRepository is a mock implementation of workflow.WorkflowRepository
type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workflow.Workflow, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]workflow.Workflow, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]workflow.Workflow), args.Get(1).(int64), args.Error(2)
}

func (m *MockWorkflowRepository) FindDefault(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType) (*workflow.Workflow, error) {
	args := m.Called(ctx, tenantID, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) ClearDefault(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, keepID uuid.UUID) error {
	return m.Called(ctx, tenantID, entityType, keepID).Error(0)
}

func (m *MockWorkflowRepository) IsStatusInUse(ctx context.Context, tenantID, statusID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, statusID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkflowRepository) Save(ctx context.Context, wf *workflow.Workflow) error {
	return m.Called(ctx, wf).Error(0)
}

func (m *MockWorkflowRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}
