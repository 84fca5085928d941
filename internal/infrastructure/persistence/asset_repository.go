package persistence

import (
	"context"
	"strings"

	"github.com/derbent/backend/internal/domain/asset"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/derbent/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByIDForTenant finds an asset by ID within the company
func (r *GormAssetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists assets; supports "project_id", "status", "category"
// and "assigned_to_id"
func (r *GormAssetRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]asset.Asset, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AssetModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "serial_number", "location")
	query = applyEquals(query, filter.Filters, "project_id", "status", "category", "assigned_to_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.AssetModel
	if err := applyPaging(query, filter, AssetSortFields, "name ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]asset.Asset, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsBySerialNumber checks whether another asset carries the serial number
func (r *GormAssetRepository) ExistsBySerialNumber(ctx context.Context, tenantID uuid.UUID, serial string, excludeID *uuid.UUID) (bool, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return false, nil
	}
	query := r.db.WithContext(ctx).
		Model(&models.AssetModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("serial_number = ?", serial)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	err := saveVersioned(r.db.WithContext(ctx), models.AssetModelFromDomain(a), a.ID, &a.BaseAggregateRoot)
	return persisted(&a.BaseAggregateRoot, err)
}

// DeleteForTenant deletes an asset
func (r *GormAssetRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.AssetModel{}, tenantID, id)
}

var _ asset.AssetRepository = (*GormAssetRepository)(nil)
