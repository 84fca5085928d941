package kanban

import (
	"time"

	"github.com/derbent/backend/internal/domain/registry"
	"github.com/google/uuid"
)

// Placement records which column an item was dropped into when the drop
// did not change its status
type Placement struct {
	TenantID  uuid.UUID
	LineID    uuid.UUID
	ItemType  registry.EntityType
	ItemID    uuid.UUID
	ColumnID  uuid.UUID
	UpdatedAt time.Time
}
