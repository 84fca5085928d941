package persistence

import (
	"context"

	"github.com/derbent/backend/internal/domain/governance"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/derbent/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRiskRepository implements RiskRepository using GORM
type GormRiskRepository struct {
	db *gorm.DB
}

// NewGormRiskRepository creates a new GormRiskRepository
func NewGormRiskRepository(db *gorm.DB) *GormRiskRepository {
	return &GormRiskRepository{db: db}
}

// FindByIDForTenant finds a risk by ID within the company
func (r *GormRiskRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*governance.Risk, error) {
	var model models.RiskModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists risks; supports "project_id", "status_id" and "severity"
func (r *GormRiskRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]governance.Risk, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RiskModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "description", "mitigation")
	query = applyEquals(query, filter.Filters, "project_id", "status_id", "severity")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.RiskModel
	if err := applyPaging(query, filter, RiskSortFields, "created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]governance.Risk, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a risk
func (r *GormRiskRepository) Save(ctx context.Context, risk *governance.Risk) error {
	err := saveVersioned(r.db.WithContext(ctx), models.RiskModelFromDomain(risk), risk.ID, &risk.BaseAggregateRoot)
	return persisted(&risk.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a risk
func (r *GormRiskRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.RiskModel{}, tenantID, id)
}

// GormDecisionRepository implements DecisionRepository using GORM
type GormDecisionRepository struct {
	db *gorm.DB
}

// NewGormDecisionRepository creates a new GormDecisionRepository
func NewGormDecisionRepository(db *gorm.DB) *GormDecisionRepository {
	return &GormDecisionRepository{db: db}
}

// FindByIDForTenant finds a decision with its approvals
func (r *GormDecisionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*governance.Decision, error) {
	db := r.db.WithContext(ctx)
	var model models.DecisionModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	decisions, err := r.attach(db, []models.DecisionModel{model})
	if err != nil {
		return nil, err
	}
	return &decisions[0], nil
}

// FindAllForTenant lists decisions; supports "project_id" and "status_id"
func (r *GormDecisionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]governance.Decision, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.DecisionModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "description", "rationale")
	query = applyEquals(query, filter.Filters, "project_id", "status_id", "accountable_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.DecisionModel
	if err := applyPaging(query, filter, DecisionSortFields, "created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	decisions, err := r.attach(db, rows)
	return decisions, total, err
}

// Save writes the decision and replaces its approvals
func (r *GormDecisionRepository) Save(ctx context.Context, d *governance.Decision) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, models.DecisionModelFromDomain(d), d.ID, &d.BaseAggregateRoot); err != nil {
			return err
		}
		approvals := models.ApprovalModelsFromDomain(d)
		return replaceChildren(tx, &models.ApprovalModel{}, "decision_id", d.ID, approvals, len(approvals))
	})
	return persisted(&d.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a decision and its approvals
func (r *GormDecisionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.DecisionModel{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("decision_id = ?", id).Delete(&models.ApprovalModel{}).Error
	})
}

func (r *GormDecisionRepository) attach(db *gorm.DB, rows []models.DecisionModel) ([]governance.Decision, error) {
	ids := make([]uuid.UUID, len(rows))
	for i, m := range rows {
		ids[i] = m.ID
	}
	byDecision := make(map[uuid.UUID][]models.ApprovalModel, len(rows))
	if len(ids) > 0 {
		var approvals []models.ApprovalModel
		if err := db.Where("decision_id IN ?", ids).Order("position ASC").Find(&approvals).Error; err != nil {
			return nil, err
		}
		for _, a := range approvals {
			byDecision[a.DecisionID] = append(byDecision[a.DecisionID], a)
		}
	}
	out := make([]governance.Decision, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(byDecision[rows[i].ID])
	}
	return out, nil
}

var (
	_ governance.RiskRepository     = (*GormRiskRepository)(nil)
	_ governance.DecisionRepository = (*GormDecisionRepository)(nil)
)
