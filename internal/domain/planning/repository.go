package planning

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityRepository defines the interface for activity persistence
type ActivityRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Activity, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Activity, error)
	// FindAllForTenant supports the "project_id", "status_id", "assigned_to_id",
	// "parent_id" and "priority" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Activity, int64, error)
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]Activity, error)
	// FindDueBefore returns activities with a due date before the given day
	// that have no completion date
	FindDueBefore(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]Activity, error)
	// ParentOf returns the parent ID of an activity
	ParentOf(ctx context.Context, tenantID, id uuid.UUID) (*uuid.UUID, error)
	CountChildren(ctx context.Context, tenantID, id uuid.UUID) (int64, error)
	Save(ctx context.Context, activity *Activity) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// MeetingRepository defines the interface for meeting persistence
type MeetingRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Meeting, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Meeting, error)
	// FindAllForTenant supports the "project_id", "status_id" and "from"/"to" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Meeting, int64, error)
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]Meeting, error)
	Save(ctx context.Context, meeting *Meeting) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SprintRepository defines the interface for sprint persistence.
// Items are loaded and saved with their sprint.
type SprintRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sprint, error)
	// FindAllForTenant supports the "project_id" filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sprint, int64, error)
	FindContainingItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]Sprint, error)
	Save(ctx context.Context, sprint *Sprint) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
