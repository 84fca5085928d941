package kanban

import (
	"time"

	"github.com/derbent/backend/internal/application/listing"
	"github.com/derbent/backend/internal/domain/kanban"
	"github.com/google/uuid"
)

// LineRequest creates or renames a Kanban line
type LineRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// ColumnRequest creates or updates a column
type ColumnRequest struct {
	Name      string      `json:"name" binding:"required,min=1,max=100"`
	Color     string      `json:"color" binding:"omitempty,hexcolor"`
	StatusIDs []uuid.UUID `json:"status_ids"`
	IsDefault bool        `json:"is_default"`
	WIPLimit  int         `json:"wip_limit" binding:"min=0"`
}

func (r ColumnRequest) spec() kanban.ColumnSpec {
	return kanban.ColumnSpec{
		Name:      r.Name,
		Color:     r.Color,
		StatusIDs: r.StatusIDs,
		IsDefault: r.IsDefault,
		WIPLimit:  r.WIPLimit,
	}
}

// LineListFilter represents filter options for the line list
type LineListFilter struct {
	listing.Query
}

// ColumnResponse represents a column in API responses
type ColumnResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Order     int         `json:"order"`
	StatusIDs []uuid.UUID `json:"status_ids"`
	IsDefault bool        `json:"is_default"`
	Color     string      `json:"color"`
	WIPLimit  int         `json:"wip_limit"`
}

// LineResponse represents a Kanban line in API responses
type LineResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Columns     []ColumnResponse `json:"columns"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Version     int              `json:"version"`
}

// ToLineResponse converts a domain Line to LineResponse
func ToLineResponse(l *kanban.Line) LineResponse {
	columns := make([]ColumnResponse, len(l.Columns))
	for i := range l.Columns {
		columns[i] = toColumnResponse(&l.Columns[i])
	}
	return LineResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Columns:     columns,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		Version:     l.Version,
	}
}

func toColumnResponse(c *kanban.Column) ColumnResponse {
	return ColumnResponse{
		ID:        c.ID,
		Name:      c.Name,
		Order:     c.ItemOrder,
		StatusIDs: c.StatusIDs,
		IsDefault: c.IsDefault,
		Color:     c.Color,
		WIPLimit:  c.WIPLimit,
	}
}

// BoardQuery selects what a board shows
type BoardQuery struct {
	LineID    *uuid.UUID `form:"line_id"`
	ProjectID uuid.UUID  `form:"project_id" binding:"required"`
	SprintID  *uuid.UUID `form:"sprint_id"`
}

// Card is one item on the board
type Card struct {
	EntityType   string     `json:"entity_type"`
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	StatusID     *uuid.UUID `json:"status_id,omitempty"`
	Status       string     `json:"status,omitempty"`
	AssignedToID *uuid.UUID `json:"assigned_to_id,omitempty"`
	Priority     string     `json:"priority,omitempty"`
	StoryPoints  int        `json:"story_points"`
	Progress     int        `json:"progress"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

// BoardColumn is a column with its cards
type BoardColumn struct {
	ColumnResponse
	Cards     []Card `json:"cards"`
	OverLimit bool   `json:"over_limit"`
}

// Board is a Kanban line filled with project items
type Board struct {
	LineID     uuid.UUID     `json:"line_id"`
	LineName   string        `json:"line_name"`
	ProjectID  uuid.UUID     `json:"project_id"`
	SprintID   *uuid.UUID    `json:"sprint_id,omitempty"`
	Columns    []BoardColumn `json:"columns"`
	Unassigned []Card        `json:"unassigned"`
}

// MoveItemRequest drops a card into a column
type MoveItemRequest struct {
	LineID   uuid.UUID  `json:"line_id" binding:"required"`
	ItemType string     `json:"item_type" binding:"required,oneof=activity meeting"`
	ItemID   uuid.UUID  `json:"item_id" binding:"required"`
	ColumnID uuid.UUID  `json:"column_id" binding:"required"`
	StatusID *uuid.UUID `json:"status_id"`
}

// MoveResult reports what a drop did
type MoveResult struct {
	ItemID        uuid.UUID  `json:"item_id"`
	ColumnID      uuid.UUID  `json:"column_id"`
	StatusID      *uuid.UUID `json:"status_id,omitempty"`
	StatusChanged bool       `json:"status_changed"`
	PlacementOnly bool       `json:"placement_only"`
}
