package validation

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CaseRepository persists validation cases with their steps
type CaseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Case, error)
	// FindByIDs keeps no particular order; callers reorder by suite
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Case, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Case, int64, error)
	Save(ctx context.Context, c *Case) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SuiteRepository persists validation suites
type SuiteRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Suite, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Suite, int64, error)
	Save(ctx context.Context, s *Suite) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SessionRepository persists sessions with case and step results
type SessionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Session, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Session, int64, error)
	Save(ctx context.Context, s *Session) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
