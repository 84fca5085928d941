package settings

import (
	"context"

	"github.com/derbent/backend/internal/domain/kanban"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSystem(ctx context.Context) (*settings.SystemSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.SystemSettings), args.Error(1)
}

func (m *MockSettingsRepository) SaveSystem(ctx context.Context, s *settings.SystemSettings) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSettingsRepository) GetCompany(ctx context.Context, tenantID uuid.UUID) (*settings.CompanySettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.CompanySettings), args.Error(1)
}

func (m *MockSettingsRepository) SaveCompany(ctx context.Context, s *settings.CompanySettings) error {
	return m.Called(ctx, s).Error(0)
}

// MockLineRepository only implements the lookup the settings service uses
type MockLineRepository struct {
	mock.Mock
	kanban.LineRepository
}

func (m *MockLineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*kanban.Line, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kanban.Line), args.Error(1)
}
