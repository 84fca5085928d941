package asset

import (
	"context"

	"github.com/derbent/backend/internal/domain/asset"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]asset.Asset, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]asset.Asset), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetRepository) ExistsBySerialNumber(ctx context.Context, tenantID uuid.UUID, serial string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, serial, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssetRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
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
