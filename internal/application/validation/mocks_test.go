package validation

import (
	"context"

	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*validation.Case, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validation.Case), args.Error(1)
}

func (m *MockCaseRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]validation.Case, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]validation.Case), args.Error(1)
}

func (m *MockCaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]validation.Case, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]validation.Case), args.Get(1).(int64), args.Error(2)
}

func (m *MockCaseRepository) Save(ctx context.Context, c *validation.Case) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockSuiteRepository struct {
	mock.Mock
}

func (m *MockSuiteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*validation.Suite, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validation.Suite), args.Error(1)
}

func (m *MockSuiteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]validation.Suite, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]validation.Suite), args.Get(1).(int64), args.Error(2)
}

func (m *MockSuiteRepository) Save(ctx context.Context, s *validation.Suite) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSuiteRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*validation.Session, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validation.Session), args.Error(1)
}

func (m *MockSessionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]validation.Session, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]validation.Session), args.Get(1).(int64), args.Error(2)
}

func (m *MockSessionRepository) Save(ctx context.Context, s *validation.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
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

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
