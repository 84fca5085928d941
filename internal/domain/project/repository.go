package project

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Project, error)
	// FindAllForTenant supports the "status" filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Project, int64, error)
	FindAllActive(ctx context.Context, tenantID uuid.UUID) ([]Project, error)
	// ExistsByName ignores excludeID so an update can keep its own name
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	// CountItems counts the records that prevent deleting the project
	CountItems(ctx context.Context, tenantID, projectID uuid.UUID) (int64, error)
	Save(ctx context.Context, project *Project) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// MemberRepository defines the interface for project membership persistence
type MemberRepository interface {
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]Member, error)
	FindOne(ctx context.Context, tenantID, projectID, userID uuid.UUID) (*Member, error)
	Save(ctx context.Context, member *Member) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
