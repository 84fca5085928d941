package persistence

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/validation"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/derbent/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormValidationCaseRepository implements validation.CaseRepository using GORM
type GormValidationCaseRepository struct {
	db *gorm.DB
}

// NewGormValidationCaseRepository creates a new GormValidationCaseRepository
func NewGormValidationCaseRepository(db *gorm.DB) *GormValidationCaseRepository {
	return &GormValidationCaseRepository{db: db}
}

// FindByIDForTenant finds a case with its steps
func (r *GormValidationCaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*validation.Case, error) {
	db := r.db.WithContext(ctx)
	var model models.ValidationCaseModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	cases, err := r.attach(db, []models.ValidationCaseModel{model})
	if err != nil {
		return nil, err
	}
	return &cases[0], nil
}

// FindByIDs loads several cases with their steps
func (r *GormValidationCaseRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]validation.Case, error) {
	if len(ids) == 0 {
		return []validation.Case{}, nil
	}
	db := r.db.WithContext(ctx)
	var rows []models.ValidationCaseModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.attach(db, rows)
}

// FindAllForTenant lists cases; supports "project_id" and "priority"
func (r *GormValidationCaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]validation.Case, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.ValidationCaseModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "description")
	query = applyEquals(query, filter.Filters, "project_id", "priority")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ValidationCaseModel
	if err := applyPaging(query, filter, ValidationSortFields, "name ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	cases, err := r.attach(db, rows)
	return cases, total, err
}

// Save writes the case and replaces its steps
func (r *GormValidationCaseRepository) Save(ctx context.Context, c *validation.Case) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, models.ValidationCaseModelFromDomain(c), c.ID, &c.BaseAggregateRoot); err != nil {
			return err
		}
		steps := models.ValidationStepModelsFromDomain(c)
		return replaceChildren(tx, &models.ValidationStepModel{}, "case_id", c.ID, steps, len(steps))
	})
	return persisted(&c.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a case and its steps
func (r *GormValidationCaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.ValidationCaseModel{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("case_id = ?", id).Delete(&models.ValidationStepModel{}).Error
	})
}

func (r *GormValidationCaseRepository) attach(db *gorm.DB, rows []models.ValidationCaseModel) ([]validation.Case, error) {
	ids := make([]uuid.UUID, len(rows))
	for i, m := range rows {
		ids[i] = m.ID
	}
	byCase := make(map[uuid.UUID][]models.ValidationStepModel, len(rows))
	if len(ids) > 0 {
		var steps []models.ValidationStepModel
		if err := db.Where("case_id IN ?", ids).Order("step_order ASC").Find(&steps).Error; err != nil {
			return nil, err
		}
		for _, s := range steps {
			byCase[s.CaseID] = append(byCase[s.CaseID], s)
		}
	}
	out := make([]validation.Case, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(byCase[rows[i].ID])
	}
	return out, nil
}

// GormValidationSuiteRepository implements validation.SuiteRepository using GORM
type GormValidationSuiteRepository struct {
	db *gorm.DB
}

// NewGormValidationSuiteRepository creates a new GormValidationSuiteRepository
func NewGormValidationSuiteRepository(db *gorm.DB) *GormValidationSuiteRepository {
	return &GormValidationSuiteRepository{db: db}
}

// FindByIDForTenant finds a suite by ID within the company
func (r *GormValidationSuiteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*validation.Suite, error) {
	var model models.ValidationSuiteModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists suites; supports "project_id"
func (r *GormValidationSuiteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]validation.Suite, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ValidationSuiteModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "description")
	query = applyEquals(query, filter.Filters, "project_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ValidationSuiteModel
	if err := applyPaging(query, filter, ValidationSortFields, "name ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]validation.Suite, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a suite
func (r *GormValidationSuiteRepository) Save(ctx context.Context, s *validation.Suite) error {
	err := saveVersioned(r.db.WithContext(ctx), models.ValidationSuiteModelFromDomain(s), s.ID, &s.BaseAggregateRoot)
	return persisted(&s.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a suite
func (r *GormValidationSuiteRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.ValidationSuiteModel{}, tenantID, id)
}

// GormValidationSessionRepository implements validation.SessionRepository using GORM
type GormValidationSessionRepository struct {
	db *gorm.DB
}

// NewGormValidationSessionRepository creates a new GormValidationSessionRepository
func NewGormValidationSessionRepository(db *gorm.DB) *GormValidationSessionRepository {
	return &GormValidationSessionRepository{db: db}
}

// FindByIDForTenant finds a session with its case results
func (r *GormValidationSessionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*validation.Session, error) {
	db := r.db.WithContext(ctx)
	var model models.ValidationSessionModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	var results []models.ValidationCaseResultModel
	if err := db.Where("session_id = ?", id).Order("execution_order ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(results), nil
}

// FindAllForTenant lists sessions without case results; supports
// "project_id", "suite_id" and "result"
func (r *GormValidationSessionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]validation.Session, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ValidationSessionModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "build_number", "environment")
	query = applyEquals(query, filter.Filters, "project_id", "suite_id", "result")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ValidationSessionModel
	if err := applyPaging(query, filter, ValidationSortFields, "created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]validation.Session, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(nil)
	}
	return out, total, nil
}

// Save writes the session and replaces its case results
func (r *GormValidationSessionRepository) Save(ctx context.Context, s *validation.Session) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, models.ValidationSessionModelFromDomain(s), s.ID, &s.BaseAggregateRoot); err != nil {
			return err
		}
		results := models.ValidationCaseResultModelsFromDomain(s)
		return replaceChildren(tx, &models.ValidationCaseResultModel{}, "session_id", s.ID, results, len(results))
	})
	return persisted(&s.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a session and its results
func (r *GormValidationSessionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.ValidationSessionModel{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("session_id = ?", id).Delete(&models.ValidationCaseResultModel{}).Error
	})
}

var (
	_ validation.CaseRepository    = (*GormValidationCaseRepository)(nil)
	_ validation.SuiteRepository   = (*GormValidationSuiteRepository)(nil)
	_ validation.SessionRepository = (*GormValidationSessionRepository)(nil)
)
