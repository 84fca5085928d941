package project

import (
	"context"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]project.Project, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]project.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) FindAllActive(ctx context.Context, tenantID uuid.UUID) ([]project.Project, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) CountItems(ctx context.Context, tenantID, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProjectRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.Member, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).([]project.Member), args.Error(1)
}

func (m *MockMemberRepository) FindOne(ctx context.Context, tenantID, projectID, userID uuid.UUID) (*project.Member, error) {
	args := m.Called(ctx, tenantID, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Member), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, member *project.Member) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockUserRepository only answers lookups by ID
type MockUserRepository struct {
	mock.Mock
	identity.UserRepository
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
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
