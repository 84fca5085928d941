package persistence

import (
	"context"
	"strings"

	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/derbent/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// projectItemTables hold rows that keep a project from being deleted
var projectItemTables = []string{
	"activities", "meetings", "sprints", "risks", "decisions",
	"invoices", "orders", "ledger_entries", "assets",
	"validation_cases", "validation_suites", "validation_sessions",
}

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByIDForTenant finds a project by ID within the company
func (r *GormProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists projects; supports the "status" filter
func (r *GormProjectRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]project.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProjectModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "code", "description")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProjectModel
	if err := applyPaging(query, filter, ProjectSortFields, "name ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	projects := make([]project.Project, len(rows))
	for i := range rows {
		projects[i] = *rows[i].ToDomain()
	}
	return projects, total, nil
}

// FindAllActive returns every active project of the company
func (r *GormProjectRepository) FindAllActive(ctx context.Context, tenantID uuid.UUID) ([]project.Project, error) {
	var rows []models.ProjectModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("status = ?", project.StatusActive).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	projects := make([]project.Project, len(rows))
	for i := range rows {
		projects[i] = *rows[i].ToDomain()
	}
	return projects, nil
}

// ExistsByName checks whether another project already uses the name
func (r *GormProjectRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
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

// CountItems counts the project's records across all project-scoped tables
func (r *GormProjectRepository) CountItems(ctx context.Context, tenantID, projectID uuid.UUID) (int64, error) {
	var total int64
	for _, table := range projectItemTables {
		var count int64
		if err := r.db.WithContext(ctx).
			Table(table).
			Where("tenant_id = ? AND project_id = ?", tenantID, projectID).
			Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	err := saveVersioned(r.db.WithContext(ctx), models.ProjectModelFromDomain(p), p.ID, &p.BaseAggregateRoot)
	return persisted(&p.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a project and its memberships
func (r *GormProjectRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND project_id = ?", tenantID, id).
			Delete(&models.ProjectMemberModel{}).Error; err != nil {
			return err
		}
		return deleteScoped(tx, &models.ProjectModel{}, tenantID, id)
	})
}

// GormMemberRepository implements MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByProject lists the members of a project
func (r *GormMemberRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.Member, error) {
	var rows []models.ProjectMemberModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	members := make([]project.Member, len(rows))
	for i := range rows {
		members[i] = *rows[i].ToDomain()
	}
	return members, nil
}

// FindOne finds the membership of a user in a project
func (r *GormMemberRepository) FindOne(ctx context.Context, tenantID, projectID, userID uuid.UUID) (*project.Member, error) {
	var model models.ProjectMemberModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a membership
func (r *GormMemberRepository) Save(ctx context.Context, member *project.Member) error {
	return r.db.WithContext(ctx).Save(models.ProjectMemberModelFromDomain(member)).Error
}

// Delete removes a membership
func (r *GormMemberRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.ProjectMemberModel{}, tenantID, id)
}

var (
	_ project.ProjectRepository = (*GormProjectRepository)(nil)
	_ project.MemberRepository  = (*GormMemberRepository)(nil)
)
