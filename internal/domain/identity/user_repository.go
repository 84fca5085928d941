package identity

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	// FindByUsername finds a user by username within the company
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	// FindAllForTenant supports the "status" and "role" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, int64, error)
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
	Save(ctx context.Context, user *User) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
