package identity

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindByCode(ctx context.Context, code string) (*Company, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, int64, error)
	// FindAllActiveIDs is used by the housekeeping cron to fan out jobs
	FindAllActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, company *Company) error
}
