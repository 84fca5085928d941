package models

import (
	"time"

	"github.com/derbent/backend/internal/domain/kanban"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/google/uuid"
)

// KanbanLineModel is the persistence model for the kanban Line aggregate.
type KanbanLineModel struct {
	TenantAggregateModel
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (KanbanLineModel) TableName() string {
	return "kanban_lines"
}

// ToDomain converts the persistence model to a domain Line with its columns.
func (m *KanbanLineModel) ToDomain(columns []KanbanColumnModel) *kanban.Line {
	l := &kanban.Line{
		Name:        m.Name,
		Description: m.Description,
		Columns:     make([]kanban.Column, len(columns)),
	}
	m.PopulateTenantAggregateRoot(&l.TenantAggregateRoot)
	for i, c := range columns {
		statusIDs := c.StatusIDs
		if statusIDs == nil {
			statusIDs = make([]uuid.UUID, 0)
		}
		l.Columns[i] = kanban.Column{
			ID:        c.ID,
			Name:      c.Name,
			ItemOrder: c.ItemOrder,
			StatusIDs: statusIDs,
			IsDefault: c.IsDefault,
			Color:     c.Color,
			WIPLimit:  c.WIPLimit,
		}
	}
	return l
}

// KanbanLineModelFromDomain creates a new persistence model from a domain Line.
func KanbanLineModelFromDomain(l *kanban.Line) *KanbanLineModel {
	m := &KanbanLineModel{
		Name:        l.Name,
		Description: l.Description,
	}
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	return m
}

// KanbanColumnModel is one column of a kanban line.
type KanbanColumnModel struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key"`
	LineID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	Name      string      `gorm:"type:varchar(100);not null"`
	ItemOrder int         `gorm:"not null"`
	StatusIDs []uuid.UUID `gorm:"type:jsonb;serializer:json"`
	IsDefault bool        `gorm:"not null;default:false"`
	Color     string      `gorm:"type:varchar(7)"`
	WIPLimit  int         `gorm:"column:wip_limit;not null;default:0"`
}

// TableName returns the table name for GORM
func (KanbanColumnModel) TableName() string {
	return "kanban_columns"
}

// KanbanColumnModelsFromDomain maps the line's columns.
func KanbanColumnModelsFromDomain(l *kanban.Line) []KanbanColumnModel {
	out := make([]KanbanColumnModel, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = KanbanColumnModel{
			ID:        c.ID,
			LineID:    l.ID,
			Name:      c.Name,
			ItemOrder: c.ItemOrder,
			StatusIDs: c.StatusIDs,
			IsDefault: c.IsDefault,
			Color:     c.Color,
			WIPLimit:  c.WIPLimit,
		}
	}
	return out
}

// KanbanPlacementModel records a manual column placement.
type KanbanPlacementModel struct {
	TenantID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	LineID    uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ItemType  registry.EntityType `gorm:"type:varchar(50);not null"`
	ColumnID  uuid.UUID           `gorm:"type:uuid;not null"`
	UpdatedAt time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (KanbanPlacementModel) TableName() string {
	return "kanban_placements"
}

// ToDomain converts the persistence model to a domain Placement.
func (m *KanbanPlacementModel) ToDomain() kanban.Placement {
	return kanban.Placement{
		TenantID:  m.TenantID,
		LineID:    m.LineID,
		ItemType:  m.ItemType,
		ItemID:    m.ItemID,
		ColumnID:  m.ColumnID,
		UpdatedAt: m.UpdatedAt,
	}
}

// KanbanPlacementModelFromDomain creates a new persistence model from a domain Placement.
func KanbanPlacementModelFromDomain(p *kanban.Placement) *KanbanPlacementModel {
	return &KanbanPlacementModel{
		TenantID:  p.TenantID,
		LineID:    p.LineID,
		ItemID:    p.ItemID,
		ItemType:  p.ItemType,
		ColumnID:  p.ColumnID,
		UpdatedAt: p.UpdatedAt,
	}
}
