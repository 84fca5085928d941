package persistence

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/derbent/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActivityRepository implements ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByIDForTenant finds an activity by ID within the company
func (r *GormActivityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*planning.Activity, error) {
	var model models.ActivityModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several activities at once
func (r *GormActivityRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]planning.Activity, error) {
	if len(ids) == 0 {
		return []planning.Activity{}, nil
	}
	var rows []models.ActivityModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return activitiesToDomain(rows), nil
}

// FindAllForTenant lists activities with filtering and pagination
func (r *GormActivityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]planning.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "description")
	query = applyEquals(query, filter.Filters, "project_id", "status_id", "assigned_to_id", "parent_id", "priority")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ActivityModel
	if err := applyPaging(query, filter, ActivitySortFields, "created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return activitiesToDomain(rows), total, nil
}

// FindByProject returns every activity of a project
func (r *GormActivityRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]planning.Activity, error) {
	var rows []models.ActivityModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID), tenant.ProjectScope(projectID)).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return activitiesToDomain(rows), nil
}

// FindDueBefore returns uncompleted activities due before day
func (r *GormActivityRepository) FindDueBefore(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]planning.Activity, error) {
	var rows []models.ActivityModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("due_date < ? AND completion_date IS NULL AND progress < 100", day).
		Order("due_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return activitiesToDomain(rows), nil
}

// ParentOf returns the parent ID of an activity
func (r *GormActivityRepository) ParentOf(ctx context.Context, tenantID, id uuid.UUID) (*uuid.UUID, error) {
	var model models.ActivityModel
	if err := r.db.WithContext(ctx).
		Select("id", "parent_id").
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ParentID, nil
}

// CountChildren counts direct children of an activity
func (r *GormActivityRepository) CountChildren(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ActivityModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}

// Save creates or updates an activity
func (r *GormActivityRepository) Save(ctx context.Context, a *planning.Activity) error {
	err := saveVersioned(r.db.WithContext(ctx), models.ActivityModelFromDomain(a), a.ID, &a.BaseAggregateRoot)
	return persisted(&a.BaseAggregateRoot, err)
}

// DeleteForTenant deletes an activity and drops it from sprints
func (r *GormActivityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.ActivityModel{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("item_id = ?", id).Delete(&models.SprintItemModel{}).Error
	})
}

func activitiesToDomain(rows []models.ActivityModel) []planning.Activity {
	out := make([]planning.Activity, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormMeetingRepository implements MeetingRepository using GORM
type GormMeetingRepository struct {
	db *gorm.DB
}

// NewGormMeetingRepository creates a new GormMeetingRepository
func NewGormMeetingRepository(db *gorm.DB) *GormMeetingRepository {
	return &GormMeetingRepository{db: db}
}

// FindByIDForTenant finds a meeting by ID within the company
func (r *GormMeetingRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*planning.Meeting, error) {
	var model models.MeetingModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several meetings at once
func (r *GormMeetingRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]planning.Meeting, error) {
	if len(ids) == 0 {
		return []planning.Meeting{}, nil
	}
	var rows []models.MeetingModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return meetingsToDomain(rows), nil
}

// FindAllForTenant lists meetings; "from" and "to" bound the start time
func (r *GormMeetingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]planning.Meeting, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MeetingModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "location", "agenda")
	query = applyEquals(query, filter.Filters, "project_id", "status_id")
	if from, ok := filter.Filters["from"]; ok {
		query = query.Where("start_at >= ?", from)
	}
	if to, ok := filter.Filters["to"]; ok {
		query = query.Where("start_at <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.MeetingModel
	if err := applyPaging(query, filter, MeetingSortFields, "start_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return meetingsToDomain(rows), total, nil
}

// FindByProject returns every meeting of a project
func (r *GormMeetingRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]planning.Meeting, error) {
	var rows []models.MeetingModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID), tenant.ProjectScope(projectID)).
		Order("start_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return meetingsToDomain(rows), nil
}

// Save creates or updates a meeting
func (r *GormMeetingRepository) Save(ctx context.Context, m *planning.Meeting) error {
	err := saveVersioned(r.db.WithContext(ctx), models.MeetingModelFromDomain(m), m.ID, &m.BaseAggregateRoot)
	return persisted(&m.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a meeting and drops it from sprints
func (r *GormMeetingRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.MeetingModel{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("item_id = ?", id).Delete(&models.SprintItemModel{}).Error
	})
}

func meetingsToDomain(rows []models.MeetingModel) []planning.Meeting {
	out := make([]planning.Meeting, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormSprintRepository implements SprintRepository using GORM
type GormSprintRepository struct {
	db *gorm.DB
}

// NewGormSprintRepository creates a new GormSprintRepository
func NewGormSprintRepository(db *gorm.DB) *GormSprintRepository {
	return &GormSprintRepository{db: db}
}

// FindByIDForTenant finds a sprint with its items
func (r *GormSprintRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*planning.Sprint, error) {
	db := r.db.WithContext(ctx)
	var model models.SprintModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	sprints, err := r.attach(db, []models.SprintModel{model})
	if err != nil {
		return nil, err
	}
	return &sprints[0], nil
}

// FindAllForTenant lists sprints; supports the "project_id" filter
func (r *GormSprintRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]planning.Sprint, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.SprintModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "goal")
	query = applyEquals(query, filter.Filters, "project_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.SprintModel
	if err := applyPaging(query, filter, SprintSortFields, "start_date DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	sprints, err := r.attach(db, rows)
	return sprints, total, err
}

// FindContainingItem returns the sprints that include an activity or meeting
func (r *GormSprintRepository) FindContainingItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]planning.Sprint, error) {
	db := r.db.WithContext(ctx)
	var rows []models.SprintModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).
		Where("id IN (?)", db.Model(&models.SprintItemModel{}).Select("sprint_id").Where("item_id = ?", itemID)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.attach(db, rows)
}

// Save writes the sprint and replaces its items
func (r *GormSprintRepository) Save(ctx context.Context, s *planning.Sprint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, models.SprintModelFromDomain(s), s.ID, &s.BaseAggregateRoot); err != nil {
			return err
		}
		items := models.SprintItemModelsFromDomain(s)
		return replaceChildren(tx, &models.SprintItemModel{}, "sprint_id", s.ID, items, len(items))
	})
	return persisted(&s.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a sprint and its items
func (r *GormSprintRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.SprintModel{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("sprint_id = ?", id).Delete(&models.SprintItemModel{}).Error
	})
}

func (r *GormSprintRepository) attach(db *gorm.DB, rows []models.SprintModel) ([]planning.Sprint, error) {
	ids := make([]uuid.UUID, len(rows))
	for i, m := range rows {
		ids[i] = m.ID
	}
	bySprint := make(map[uuid.UUID][]models.SprintItemModel, len(rows))
	if len(ids) > 0 {
		var items []models.SprintItemModel
		if err := db.Where("sprint_id IN ?", ids).Order("item_order ASC").Find(&items).Error; err != nil {
			return nil, err
		}
		for _, it := range items {
			bySprint[it.SprintID] = append(bySprint[it.SprintID], it)
		}
	}
	out := make([]planning.Sprint, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(bySprint[rows[i].ID])
	}
	return out, nil
}

var (
	_ planning.ActivityRepository = (*GormActivityRepository)(nil)
	_ planning.MeetingRepository  = (*GormMeetingRepository)(nil)
	_ planning.SprintRepository   = (*GormSprintRepository)(nil)
)
