package persistence

import (
	"context"
	"strings"

	"github.com/derbent/backend/internal/domain/kanban"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/derbent/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKanbanLineRepository implements kanban.LineRepository using GORM
type GormKanbanLineRepository struct {
	db *gorm.DB
}

// NewGormKanbanLineRepository creates a new GormKanbanLineRepository
func NewGormKanbanLineRepository(db *gorm.DB) *GormKanbanLineRepository {
	return &GormKanbanLineRepository{db: db}
}

// FindByIDForTenant finds a line with its columns
func (r *GormKanbanLineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*kanban.Line, error) {
	db := r.db.WithContext(ctx)
	var model models.KanbanLineModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	lines, err := r.attach(db, []models.KanbanLineModel{model})
	if err != nil {
		return nil, err
	}
	return &lines[0], nil
}

// FindAllForTenant lists the company's lines
func (r *GormKanbanLineRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]kanban.Line, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.KanbanLineModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "name", "description")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.KanbanLineModel
	if err := applyPaging(query, filter, NamedSortFields, "name ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	lines, err := r.attach(db, rows)
	return lines, total, err
}

// ExistsByName checks whether another line already uses the name
func (r *GormKanbanLineRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.KanbanLineModel{}).
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

// Save writes the line and replaces its columns
func (r *GormKanbanLineRepository) Save(ctx context.Context, l *kanban.Line) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, models.KanbanLineModelFromDomain(l), l.ID, &l.BaseAggregateRoot); err != nil {
			return err
		}
		columns := models.KanbanColumnModelsFromDomain(l)
		if err := replaceChildren(tx, &models.KanbanColumnModel{}, "line_id", l.ID, columns, len(columns)); err != nil {
			return err
		}
		// placements into removed columns fall back to status mapping
		keep := make([]uuid.UUID, len(l.Columns))
		for i, c := range l.Columns {
			keep[i] = c.ID
		}
		stale := tx.Where("line_id = ?", l.ID)
		if len(keep) > 0 {
			stale = stale.Where("column_id NOT IN ?", keep)
		}
		return stale.Delete(&models.KanbanPlacementModel{}).Error
	})
	return persisted(&l.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a line with its columns and placements
func (r *GormKanbanLineRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.KanbanLineModel{}, tenantID, id); err != nil {
			return err
		}
		if err := tx.Where("line_id = ?", id).Delete(&models.KanbanColumnModel{}).Error; err != nil {
			return err
		}
		return tx.Where("line_id = ?", id).Delete(&models.KanbanPlacementModel{}).Error
	})
}

func (r *GormKanbanLineRepository) attach(db *gorm.DB, rows []models.KanbanLineModel) ([]kanban.Line, error) {
	ids := make([]uuid.UUID, len(rows))
	for i, m := range rows {
		ids[i] = m.ID
	}
	byLine := make(map[uuid.UUID][]models.KanbanColumnModel, len(rows))
	if len(ids) > 0 {
		var columns []models.KanbanColumnModel
		if err := db.Where("line_id IN ?", ids).Order("item_order ASC").Find(&columns).Error; err != nil {
			return nil, err
		}
		for _, c := range columns {
			byLine[c.LineID] = append(byLine[c.LineID], c)
		}
	}
	out := make([]kanban.Line, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(byLine[rows[i].ID])
	}
	return out, nil
}

// GormPlacementRepository implements kanban.PlacementRepository using GORM
type GormPlacementRepository struct {
	db *gorm.DB
}

// NewGormPlacementRepository creates a new GormPlacementRepository
func NewGormPlacementRepository(db *gorm.DB) *GormPlacementRepository {
	return &GormPlacementRepository{db: db}
}

// FindByLine returns the manual placements recorded on a line
func (r *GormPlacementRepository) FindByLine(ctx context.Context, tenantID, lineID uuid.UUID) ([]kanban.Placement, error) {
	var rows []models.KanbanPlacementModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("line_id = ?", lineID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]kanban.Placement, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Upsert records the column an item was moved to
func (r *GormPlacementRepository) Upsert(ctx context.Context, p *kanban.Placement) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "line_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"column_id", "item_type", "updated_at"}),
		}).
		Create(models.KanbanPlacementModelFromDomain(p)).Error
}

// Delete removes an item's placement on a line
func (r *GormPlacementRepository) Delete(ctx context.Context, tenantID, lineID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("line_id = ? AND item_id = ?", lineID, itemID).
		Delete(&models.KanbanPlacementModel{}).Error
}

var (
	_ kanban.LineRepository      = (*GormKanbanLineRepository)(nil)
	_ kanban.PlacementRepository = (*GormPlacementRepository)(nil)
)
