package persistence

import (
	"context"
	"strings"

	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/derbent/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// statusReferenceTables hold a status_id column pointing at item statuses
var statusReferenceTables = []string{"activities", "meetings", "risks", "decisions"}

// GormStatusRepository implements StatusRepository using GORM
type GormStatusRepository struct {
	db *gorm.DB
}

// NewGormStatusRepository creates a new GormStatusRepository
func NewGormStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

// FindByIDForTenant finds a status by ID within the company
func (r *GormStatusRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workflow.ItemStatus, error) {
	var model models.ItemStatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several statuses at once
func (r *GormStatusRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]workflow.ItemStatus, error) {
	if len(ids) == 0 {
		return []workflow.ItemStatus{}, nil
	}
	var rows []models.ItemStatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id IN ?", ids).
		Order("sort_order ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return statusesToDomain(rows), nil
}

// FindAllForTenant lists the company's statuses by sort order, then name
func (r *GormStatusRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]workflow.ItemStatus, error) {
	var rows []models.ItemStatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Order("sort_order ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return statusesToDomain(rows), nil
}

// ExistsByName checks whether another status already uses the name
func (r *GormStatusRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ItemStatusModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a status
func (r *GormStatusRepository) Save(ctx context.Context, status *workflow.ItemStatus) error {
	err := saveVersioned(r.db.WithContext(ctx), models.ItemStatusModelFromDomain(status), status.ID, &status.BaseAggregateRoot)
	return persisted(&status.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a status
func (r *GormStatusRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.ItemStatusModel{}, tenantID, id)
}

func statusesToDomain(rows []models.ItemStatusModel) []workflow.ItemStatus {
	out := make([]workflow.ItemStatus, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormWorkflowRepository implements WorkflowRepository using GORM
type GormWorkflowRepository struct {
	db *gorm.DB
}

// NewGormWorkflowRepository creates a new GormWorkflowRepository
func NewGormWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{db: db}
}

// FindByIDForTenant finds a workflow with its transitions
func (r *GormWorkflowRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workflow.Workflow, error) {
	var model models.WorkflowModel
	db := r.db.WithContext(ctx)
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	loaded, err := r.attach(db, []models.WorkflowModel{model})
	if err != nil {
		return nil, err
	}
	return loaded[0], nil
}

// FindAllForTenant lists workflows; supports the "entity_type" filter
func (r *GormWorkflowRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]workflow.Workflow, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.WorkflowModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name")
	if et, ok := filter.Filters["entity_type"]; ok {
		query = query.Where("entity_type = ?", et)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.WorkflowModel
	if err := applyPaging(query, filter, WorkflowSortFields, "entity_type ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	loaded, err := r.attach(db, rows)
	if err != nil {
		return nil, 0, err
	}
	out := make([]workflow.Workflow, len(loaded))
	for i, w := range loaded {
		out[i] = *w
	}
	return out, total, nil
}

// FindDefault returns the default workflow of an entity type
func (r *GormWorkflowRepository) FindDefault(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType) (*workflow.Workflow, error) {
	var model models.WorkflowModel
	db := r.db.WithContext(ctx)
	if err := db.Scopes(tenant.TenantScope(tenantID)).
		Where("entity_type = ? AND is_default = ?", entityType, true).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	loaded, err := r.attach(db, []models.WorkflowModel{model})
	if err != nil {
		return nil, err
	}
	return loaded[0], nil
}

// ClearDefault unsets the default flag of every other workflow of the type
func (r *GormWorkflowRepository) ClearDefault(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, keepID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkflowModel{}).
		Where("tenant_id = ? AND entity_type = ? AND id <> ? AND is_default = ?", tenantID, entityType, keepID, true).
		Updates(map[string]interface{}{"is_default": false, "version": gorm.Expr("version + 1")}).Error
}

// IsStatusInUse reports whether a workflow or an item references the status
func (r *GormWorkflowRepository) IsStatusInUse(ctx context.Context, tenantID, statusID uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.WorkflowModel{}).
		Where("tenant_id = ? AND initial_status_id = ?", tenantID, statusID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := db.Model(&models.TransitionModel{}).
		Joins("JOIN workflows ON workflows.id = workflow_transitions.workflow_id").
		Where("workflows.tenant_id = ? AND (workflow_transitions.from_status_id = ? OR workflow_transitions.to_status_id = ?)", tenantID, statusID, statusID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	for _, table := range statusReferenceTables {
		if err := db.Table(table).
			Where("tenant_id = ? AND status_id = ?", tenantID, statusID).
			Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Save writes the workflow and replaces its transitions
func (r *GormWorkflowRepository) Save(ctx context.Context, w *workflow.Workflow) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, models.WorkflowModelFromDomain(w), w.ID, &w.BaseAggregateRoot); err != nil {
			return err
		}
		rows := models.TransitionModelsFromDomain(w)
		return replaceChildren(tx, &models.TransitionModel{}, "workflow_id", w.ID, rows, len(rows))
	})
	return persisted(&w.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a workflow and its transitions
func (r *GormWorkflowRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.WorkflowModel{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("workflow_id = ?", id).Delete(&models.TransitionModel{}).Error
	})
}

// attach loads transitions for the given workflow rows
func (r *GormWorkflowRepository) attach(db *gorm.DB, rows []models.WorkflowModel) ([]*workflow.Workflow, error) {
	ids := make([]uuid.UUID, len(rows))
	for i, m := range rows {
		ids[i] = m.ID
	}
	byWorkflow := make(map[uuid.UUID][]models.TransitionModel, len(rows))
	if len(ids) > 0 {
		var transitions []models.TransitionModel
		if err := db.Where("workflow_id IN ?", ids).Order("position ASC").Find(&transitions).Error; err != nil {
			return nil, err
		}
		for _, t := range transitions {
			byWorkflow[t.WorkflowID] = append(byWorkflow[t.WorkflowID], t)
		}
	}
	out := make([]*workflow.Workflow, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain(byWorkflow[rows[i].ID])
	}
	return out, nil
}

var (
	_ workflow.StatusRepository   = (*GormStatusRepository)(nil)
	_ workflow.WorkflowRepository = (*GormWorkflowRepository)(nil)
)
