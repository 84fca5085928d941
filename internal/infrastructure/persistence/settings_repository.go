package persistence

import (
	"context"

	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// GetSystem loads the single system settings row
func (r *GormSettingsRepository) GetSystem(ctx context.Context) (*settings.SystemSettings, error) {
	var model models.SystemSettingsModel
	if err := r.db.WithContext(ctx).Where("id = ?", models.SystemSettingsID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// SaveSystem creates or updates the system settings row
func (r *GormSettingsRepository) SaveSystem(ctx context.Context, s *settings.SystemSettings) error {
	err := saveVersioned(r.db.WithContext(ctx), models.SystemSettingsModelFromDomain(s), models.SystemSettingsID, &s.BaseAggregateRoot)
	return persisted(&s.BaseAggregateRoot, err)
}

// GetCompany loads a company's settings
func (r *GormSettingsRepository) GetCompany(ctx context.Context, tenantID uuid.UUID) (*settings.CompanySettings, error) {
	var model models.CompanySettingsModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// SaveCompany creates or updates a company's settings
func (r *GormSettingsRepository) SaveCompany(ctx context.Context, s *settings.CompanySettings) error {
	err := saveVersioned(r.db.WithContext(ctx), models.CompanySettingsModelFromDomain(s), s.ID, &s.BaseAggregateRoot)
	return persisted(&s.BaseAggregateRoot, err)
}

var _ settings.Repository = (*GormSettingsRepository)(nil)
