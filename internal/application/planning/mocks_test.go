package planning

import (
	"context"
	"time"

	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*planning.Activity, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.Activity), args.Error(1)
}

func (m *MockActivityRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]planning.Activity, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]planning.Activity), args.Error(1)
}

func (m *MockActivityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]planning.Activity, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]planning.Activity), args.Get(1).(int64), args.Error(2)
}

func (m *MockActivityRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]planning.Activity, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).([]planning.Activity), args.Error(1)
}

func (m *MockActivityRepository) FindDueBefore(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]planning.Activity, error) {
	args := m.Called(ctx, tenantID, day)
	return args.Get(0).([]planning.Activity), args.Error(1)
}

func (m *MockActivityRepository) ParentOf(ctx context.Context, tenantID, id uuid.UUID) (*uuid.UUID, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uuid.UUID), args.Error(1)
}

func (m *MockActivityRepository) CountChildren(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActivityRepository) Save(ctx context.Context, activity *planning.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func (m *MockActivityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*planning.Meeting, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]planning.Meeting, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]planning.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]planning.Meeting, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]planning.Meeting), args.Get(1).(int64), args.Error(2)
}

func (m *MockMeetingRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]planning.Meeting, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).([]planning.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) Save(ctx context.Context, meeting *planning.Meeting) error {
	return m.Called(ctx, meeting).Error(0)
}

func (m *MockMeetingRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockSprintRepository struct {
	mock.Mock
}

func (m *MockSprintRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*planning.Sprint, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.Sprint), args.Error(1)
}

func (m *MockSprintRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]planning.Sprint, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]planning.Sprint), args.Get(1).(int64), args.Error(2)
}

func (m *MockSprintRepository) FindContainingItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]planning.Sprint, error) {
	args := m.Called(ctx, tenantID, itemID)
	return args.Get(0).([]planning.Sprint), args.Error(1)
}

func (m *MockSprintRepository) Save(ctx context.Context, sprint *planning.Sprint) error {
	return m.Called(ctx, sprint).Error(0)
}

func (m *MockSprintRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockProjectRepository only answers lookups by ID
type MockProjectRepository struct {
	mock.Mock
	project.ProjectRepository
}

func (m *MockProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

type MockActiveProjects struct {
	mock.Mock
}

func (m *MockActiveProjects) RequireActive(ctx context.Context, tenantID, projectID uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, tenantID, projectID)
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

func (m *MockStatusGuard) FinalStatuses(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockStatusGuard) StatusNames(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
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
