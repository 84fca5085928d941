package asset

import (
	"context"
	"testing"
	"time"

	"github.com/derbent/backend/internal/domain/asset"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAssetService(t *testing.T) (*AssetService, *MockAssetRepository, *project.Project) {
	t.Helper()
	tenantID := uuid.New()
	p, err := project.NewProject(tenantID, "Depot Upgrade", "DU")
	require.NoError(t, err)
	repo := new(MockAssetRepository)
	projects := new(MockActiveProjects)
	projects.On("RequireActive", mock.Anything, tenantID, p.ID).Return(p, nil).Maybe()
	svc := NewAssetService(repo, projects, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, p
}

func TestAssetService_Create(t *testing.T) {
	svc, repo, p := newTestAssetService(t)
	repo.On("ExistsBySerialNumber", mock.Anything, p.TenantID, "SN-1", (*uuid.UUID)(nil)).Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*asset.Asset")).Return(nil)

	bought := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	warranty := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	value := decimal.RequireFromString("1499.995")
	resp, err := svc.Create(context.Background(), p.TenantID, uuid.New(), CreateAssetRequest{
		ProjectID:    p.ID,
		SerialNumber: "SN-1",
		AssetFields: AssetFields{
			Name:          "Survey drone",
			Category:      "Equipment",
			PurchaseDate:  &bought,
			PurchaseValue: &value,
			WarrantyEnd:   &warranty,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "available", resp.Status)
	assert.True(t, resp.IsUnderWarranty)
	assert.Equal(t, "1500", resp.PurchaseValue.String())
}

func TestAssetService_Create_DuplicateSerial(t *testing.T) {
	svc, repo, p := newTestAssetService(t)
	repo.On("ExistsBySerialNumber", mock.Anything, p.TenantID, "SN-1", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := svc.Create(context.Background(), p.TenantID, uuid.New(), CreateAssetRequest{
		ProjectID: p.ID, SerialNumber: "SN-1", AssetFields: AssetFields{Name: "Survey drone"},
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestAssetService_Lifecycle(t *testing.T) {
	svc, repo, p := newTestAssetService(t)
	a, err := asset.NewAsset(p.TenantID, p.ID, "Survey drone", "")
	require.NoError(t, err)
	repo.On("FindByIDForTenant", mock.Anything, p.TenantID, a.ID).Return(a, nil)
	repo.On("Save", mock.Anything, a).Return(nil)
	ctx := context.Background()
	user := uuid.New()

	resp, err := svc.Assign(ctx, p.TenantID, a.ID, AssignAssetRequest{UserID: user})
	require.NoError(t, err)
	assert.Equal(t, "in_use", resp.Status)
	assert.Equal(t, user, *resp.AssignedToID)

	resp, err = svc.SendToMaintenance(ctx, p.TenantID, a.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.AssignedToID)

	_, err = svc.Release(ctx, p.TenantID, a.ID)
	assert.Error(t, err)

	_, err = svc.ReturnFromMaintenance(ctx, p.TenantID, a.ID)
	require.NoError(t, err)

	resp, err = svc.Retire(ctx, p.TenantID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "retired", resp.Status)

	_, err = svc.Assign(ctx, p.TenantID, a.ID, AssignAssetRequest{UserID: user})
	assert.Error(t, err)
}
