package persistence

import (
	"context"

	"github.com/derbent/backend/internal/domain/collaboration"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/derbent/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCommentRepository implements CommentRepository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// FindByIDForTenant finds a comment by ID within the company
func (r *GormCommentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*collaboration.Comment, error) {
	var model models.CommentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByTarget returns the comments on an entity, oldest first
func (r *GormCommentRepository) FindByTarget(ctx context.Context, tenantID uuid.UUID, target collaboration.Target) ([]collaboration.Comment, error) {
	var rows []models.CommentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("entity_type = ? AND entity_id = ?", target.EntityType, target.EntityID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]collaboration.Comment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a comment
func (r *GormCommentRepository) Save(ctx context.Context, c *collaboration.Comment) error {
	err := saveVersioned(r.db.WithContext(ctx), models.CommentModelFromDomain(c), c.ID, &c.BaseAggregateRoot)
	return persisted(&c.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a comment
func (r *GormCommentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.CommentModel{}, tenantID, id)
}

// GormAttachmentRepository implements AttachmentRepository using GORM
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// FindByIDForTenant finds an attachment by ID within the company
func (r *GormAttachmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*collaboration.Attachment, error) {
	var model models.AttachmentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByTarget returns the active attachments of an entity
func (r *GormAttachmentRepository) FindByTarget(ctx context.Context, tenantID uuid.UUID, target collaboration.Target) ([]collaboration.Attachment, error) {
	var rows []models.AttachmentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("entity_type = ? AND entity_id = ? AND status = ?",
			target.EntityType, target.EntityID, collaboration.AttachmentActive).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]collaboration.Attachment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates an attachment
func (r *GormAttachmentRepository) Save(ctx context.Context, a *collaboration.Attachment) error {
	err := saveVersioned(r.db.WithContext(ctx), models.AttachmentModelFromDomain(a), a.ID, &a.BaseAggregateRoot)
	return persisted(&a.BaseAggregateRoot, err)
}

// DeleteForTenant deletes an attachment record
func (r *GormAttachmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.AttachmentModel{}, tenantID, id)
}

// targetModels maps the entity types that accept comments or attachments to
// their tables
var targetModels = map[registry.EntityType]interface{}{
	registry.TypeProject:           &models.ProjectModel{},
	registry.TypeActivity:          &models.ActivityModel{},
	registry.TypeMeeting:           &models.MeetingModel{},
	registry.TypeRisk:              &models.RiskModel{},
	registry.TypeDecision:          &models.DecisionModel{},
	registry.TypeOrder:             &models.OrderModel{},
	registry.TypeInvoice:           &models.InvoiceModel{},
	registry.TypeAsset:             &models.AssetModel{},
	registry.TypeSprint:            &models.SprintModel{},
	registry.TypeValidationSession: &models.ValidationSessionModel{},
}

// GormTargetResolver implements collaboration.TargetResolver using GORM
type GormTargetResolver struct {
	db *gorm.DB
}

// NewGormTargetResolver creates a new GormTargetResolver
func NewGormTargetResolver(db *gorm.DB) *GormTargetResolver {
	return &GormTargetResolver{db: db}
}

// Exists reports whether the target record exists within the company. An
// unknown entity type never exists.
func (r *GormTargetResolver) Exists(ctx context.Context, tenantID uuid.UUID, target collaboration.Target) (bool, error) {
	model, ok := targetModels[target.EntityType]
	if !ok {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", target.EntityID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var (
	_ collaboration.CommentRepository    = (*GormCommentRepository)(nil)
	_ collaboration.AttachmentRepository = (*GormAttachmentRepository)(nil)
	_ collaboration.TargetResolver       = (*GormTargetResolver)(nil)
)
