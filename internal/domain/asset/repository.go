package asset

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AssetRepository defines the interface for asset persistence
type AssetRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error)
	// FindAllForTenant supports the "project_id", "status", "category" and
	// "assigned_to_id" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Asset, int64, error)
	// ExistsBySerialNumber ignores excludeID so an update can keep its own serial
	ExistsBySerialNumber(ctx context.Context, tenantID uuid.UUID, serial string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, asset *Asset) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
