package kanban

import (
	"context"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/kanban"
	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockLineRepository struct {
	mock.Mock
}

func (m *MockLineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*kanban.Line, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kanban.Line), args.Error(1)
}

func (m *MockLineRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]kanban.Line, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]kanban.Line), args.Get(1).(int64), args.Error(2)
}

func (m *MockLineRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLineRepository) Save(ctx context.Context, line *kanban.Line) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockLineRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockPlacementRepository struct {
	mock.Mock
}

func (m *MockPlacementRepository) FindByLine(ctx context.Context, tenantID, lineID uuid.UUID) ([]kanban.Placement, error) {
	args := m.Called(ctx, tenantID, lineID)
	return args.Get(0).([]kanban.Placement), args.Error(1)
}

func (m *MockPlacementRepository) Upsert(ctx context.Context, placement *kanban.Placement) error {
	return m.Called(ctx, placement).Error(0)
}

func (m *MockPlacementRepository) Delete(ctx context.Context, tenantID, lineID, itemID uuid.UUID) error {
	return m.Called(ctx, tenantID, lineID, itemID).Error(0)
}

// MockStatusRepository only answers FindByIDs
type MockStatusRepository struct {
	mock.Mock
	workflow.StatusRepository
}

func (m *MockStatusRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]workflow.ItemStatus, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]workflow.ItemStatus), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
	settings.Repository
}

func (m *MockSettingsRepository) GetCompany(ctx context.Context, tenantID uuid.UUID) (*settings.CompanySettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.CompanySettings), args.Error(1)
}

type MockActivityRepository struct {
	mock.Mock
	planning.ActivityRepository
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

func (m *MockActivityRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]planning.Activity, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).([]planning.Activity), args.Error(1)
}

type MockMeetingRepository struct {
	mock.Mock
	planning.MeetingRepository
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

type MockSprintRepository struct {
	mock.Mock
	planning.SprintRepository
}

func (m *MockSprintRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*planning.Sprint, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.Sprint), args.Error(1)
}

type MockStatusGuard struct {
	mock.Mock
}

func (m *MockStatusGuard) ValidNextStatuses(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware, role identity.Role) ([]workflow.ItemStatus, error) {
	args := m.Called(ctx, tenantID, entityType, item, role)
	return args.Get(0).([]workflow.ItemStatus), args.Error(1)
}

func (m *MockStatusGuard) StatusNames(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

type MockActivityMover struct {
	mock.Mock
}

func (m *MockActivityMover) MoveToStatus(ctx context.Context, activity *planning.Activity, statusID uuid.UUID, role identity.Role) error {
	return m.Called(ctx, activity, statusID, role).Error(0)
}

type MockMeetingMover struct {
	mock.Mock
}

func (m *MockMeetingMover) MoveToStatus(ctx context.Context, meeting *planning.Meeting, statusID uuid.UUID, role identity.Role) error {
	return m.Called(ctx, meeting, statusID, role).Error(0)
}
