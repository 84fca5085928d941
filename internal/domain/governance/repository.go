package governance

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RiskRepository defines the interface for risk persistence
type RiskRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Risk, error)
	// FindAllForTenant supports the "project_id", "status_id" and "severity" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Risk, int64, error)
	Save(ctx context.Context, risk *Risk) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// DecisionRepository defines the interface for decision persistence.
// Approvals are loaded and saved with their decision.
type DecisionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Decision, error)
	// FindAllForTenant supports the "project_id" and "status_id" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Decision, int64, error)
	Save(ctx context.Context, decision *Decision) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
