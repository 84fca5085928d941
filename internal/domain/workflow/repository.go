package workflow

import (
	"context"

	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StatusRepository defines the interface for status persistence
type StatusRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ItemStatus, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ItemStatus, error)
	// FindAllForTenant orders by sort order, then name
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ItemStatus, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, status *ItemStatus) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// WorkflowRepository defines the interface for workflow persistence.
// Transitions are loaded and saved with their workflow.
type WorkflowRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Workflow, error)
	// FindAllForTenant supports the "entity_type" filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Workflow, int64, error)
	FindDefault(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType) (*Workflow, error)
	// ClearDefault unsets the default flag of every workflow of the type except keepID
	ClearDefault(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, keepID uuid.UUID) error
	IsStatusInUse(ctx context.Context, tenantID, statusID uuid.UUID) (bool, error)
	Save(ctx context.Context, workflow *Workflow) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
