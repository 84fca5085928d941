// Package planning serves activities, meetings, sprints and the project
// timeline.
package planning

import (
	"context"

	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// ActiveProjects loads a project and rejects archived ones
type ActiveProjects interface {
	RequireActive(ctx context.Context, tenantID, projectID uuid.UUID) (*project.Project, error)
}

// StatusGuard assigns and validates workflow statuses
type StatusGuard interface {
	AssignInitial(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item workflowapp.StatusBinder) error
	ValidateChange(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware, to uuid.UUID, role identity.Role) (*workflow.ItemStatus, *workflow.Workflow, error)
	ValidNextStatuses(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware, role identity.Role) ([]workflow.ItemStatus, error)
	FinalStatuses(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]bool, error)
	StatusNames(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]string, error)
}

var _ StatusGuard = (*workflowapp.StatusGuard)(nil)
