package persistence

import (
	"context"
	"strings"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a company by its code
func (r *GormCompanyRepository) FindByCode(ctx context.Context, code string) (*identity.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists companies; supports the "status" filter
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CompanyModel{})
	query = applySearch(query, filter.Search, "name", "code")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CompanyModel
	if err := applyPaging(query, filter, CompanySortFields, "name ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	companies := make([]identity.Company, len(rows))
	for i := range rows {
		companies[i] = *rows[i].ToDomain()
	}
	return companies, total, nil
}

// FindAllActiveIDs returns the IDs of active companies
func (r *GormCompanyRepository) FindAllActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.CompanyModel{}).
		Where("status = ?", identity.CompanyStatusActive).
		Order("code ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ExistsByCode checks if a company code is taken
func (r *GormCompanyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CompanyModel{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	err := saveVersioned(r.db.WithContext(ctx), models.CompanyModelFromDomain(company), company.ID, &company.BaseAggregateRoot)
	return persisted(&company.BaseAggregateRoot, err)
}

// Ensure GormCompanyRepository implements CompanyRepository
var _ identity.CompanyRepository = (*GormCompanyRepository)(nil)
