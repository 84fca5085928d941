package kanban

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LineRepository defines the interface for Kanban line persistence.
// Columns are loaded and saved with their line.
type LineRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Line, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Line, int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, line *Line) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PlacementRepository stores manual column placements
type PlacementRepository interface {
	FindByLine(ctx context.Context, tenantID, lineID uuid.UUID) ([]Placement, error)
	Upsert(ctx context.Context, placement *Placement) error
	Delete(ctx context.Context, tenantID, lineID, itemID uuid.UUID) error
}
