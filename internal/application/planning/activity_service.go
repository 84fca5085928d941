package planning

import (
	"context"
	"time"

	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrParentProjectMismatch = shared.NewDomainError("PARENT_PROJECT_MISMATCH", "Parent activity belongs to another project")
	ErrHasChildren           = shared.NewDomainError("HAS_CHILDREN", "Activity has child activities")
)

// ActivityService handles activity CRUD and status changes
type ActivityService struct {
	activityRepo planning.ActivityRepository
	projects     ActiveProjects
	guard        StatusGuard
	events       shared.EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

// NewActivityService creates a new activity service
func NewActivityService(
	activityRepo planning.ActivityRepository,
	projects ActiveProjects,
	guard StatusGuard,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		projects:     projects,
		guard:        guard,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

// Create creates an activity in an active project and gives it the initial
// status of the default activity workflow
func (s *ActivityService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateActivityRequest) (*ActivityResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	activity, err := planning.NewActivity(tenantID, req.ProjectID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, activity, req.ActivityFields); err != nil {
		return nil, err
	}
	if err := s.guard.AssignInitial(ctx, tenantID, registry.TypeActivity, activity); err != nil {
		return nil, err
	}
	activity.SetCreatedBy(createdBy)

	if err := s.activityRepo.Save(ctx, activity); err != nil {
		return nil, err
	}
	s.publish(ctx, activity)
	return s.respond(ctx, activity)
}

// GetByID retrieves an activity
func (s *ActivityService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ActivityResponse, error) {
	activity, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, activity)
}

// List retrieves activities with filtering and pagination
func (s *ActivityService) List(ctx context.Context, tenantID uuid.UUID, filter ActivityListFilter) ([]ActivityResponse, int64, error) {
	domainFilter := filter.Query.Filter("created_at", "desc")
	setFilter(domainFilter, "project_id", filter.ProjectID)
	setFilter(domainFilter, "status_id", filter.StatusID)
	setFilter(domainFilter, "assigned_to_id", filter.AssignedToID)
	setFilter(domainFilter, "parent_id", filter.ParentID)
	setFilter(domainFilter, "priority", filter.Priority)

	activities, total, err := s.activityRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	final, err := s.guard.FinalStatuses(ctx, tenantID)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]ActivityResponse, len(activities))
	for i := range activities {
		out[i] = ToActivityResponse(&activities[i], final, now)
	}
	return out, total, nil
}

// Overdue returns the company's activities that are past due and not
// completed
func (s *ActivityService) Overdue(ctx context.Context, tenantID uuid.UUID) ([]planning.Activity, error) {
	now := s.now()
	candidates, err := s.activityRepo.FindDueBefore(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}
	final, err := s.guard.FinalStatuses(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	overdue := make([]planning.Activity, 0, len(candidates))
	for _, a := range candidates {
		if a.IsOverdue(now, final) {
			overdue = append(overdue, a)
		}
	}
	return overdue, nil
}

// Update changes the fields of an activity. Status changes go through
// ChangeStatus.
func (s *ActivityService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateActivityRequest) (*ActivityResponse, error) {
	activity, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.RequireActive(ctx, tenantID, activity.ProjectID); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, activity, req.ActivityFields); err != nil {
		return nil, err
	}
	if err := s.activityRepo.Save(ctx, activity); err != nil {
		return nil, err
	}
	return s.respond(ctx, activity)
}

// ChangeStatus moves an activity along its workflow
func (s *ActivityService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, role identity.Role, req workflowapp.ChangeStatusRequest) (*ActivityResponse, error) {
	activity, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.MoveToStatus(ctx, activity, req.StatusID, role); err != nil {
		return nil, err
	}
	return s.respond(ctx, activity)
}

// MoveToStatus applies a status change to an already loaded activity
func (s *ActivityService) MoveToStatus(ctx context.Context, activity *planning.Activity, statusID uuid.UUID, role identity.Role) error {
	status, _, err := s.guard.ValidateChange(ctx, activity.TenantID, registry.TypeActivity, activity, statusID, role)
	if err != nil {
		return err
	}
	if activity.StatusID != nil && *activity.StatusID == status.ID {
		return nil
	}
	activity.ChangeStatus(status.ID, status.IsFinal)
	if err := s.activityRepo.Save(ctx, activity); err != nil {
		return err
	}
	s.publish(ctx, activity)
	s.logger.Debug("Activity status changed",
		zap.String("activity_id", activity.ID.String()),
		zap.String("status", status.Name),
	)
	return nil
}

// NextStatuses lists the statuses the caller may move the activity to
func (s *ActivityService) NextStatuses(ctx context.Context, tenantID, id uuid.UUID, role identity.Role) ([]workflowapp.StatusOption, error) {
	activity, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	statuses, err := s.guard.ValidNextStatuses(ctx, tenantID, registry.TypeActivity, activity, role)
	if err != nil {
		return nil, err
	}
	return workflowapp.ToStatusOptions(statuses, activity.StatusID), nil
}

// Delete removes an activity without children
func (s *ActivityService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	children, err := s.activityRepo.CountChildren(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrHasChildren
	}
	return s.activityRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *ActivityService) apply(ctx context.Context, a *planning.Activity, f ActivityFields) error {
	if err := a.Rename(f.Name); err != nil {
		return err
	}
	a.SetDescription(f.Description)
	a.AssignTo(f.AssignedToID)

	if f.Priority != "" {
		if err := a.SetPriority(planning.Priority(f.Priority)); err != nil {
			return err
		}
	}
	if err := a.SetSchedule(f.StartDate, f.DueDate); err != nil {
		return err
	}
	if err := a.SetEffort(
		decimalOr(f.EstimatedHours, a.EstimatedHours),
		decimalOr(f.ActualHours, a.ActualHours),
		decimalOr(f.RemainingHours, a.RemainingHours),
	); err != nil {
		return err
	}
	if err := a.SetCosts(
		decimalOr(f.EstimatedCost, a.EstimatedCost),
		decimalOr(f.ActualCost, a.ActualCost),
		decimalOr(f.HourlyRate, a.HourlyRate),
	); err != nil {
		return err
	}
	if err := a.SetProgress(f.Progress); err != nil {
		return err
	}
	if err := a.SetStoryPoints(f.StoryPoints); err != nil {
		return err
	}
	if err := a.SetDetails(f.AcceptanceCriteria, f.Notes, f.Results); err != nil {
		return err
	}
	return s.setParent(ctx, a, f.ParentID)
}

func (s *ActivityService) setParent(ctx context.Context, a *planning.Activity, parentID *uuid.UUID) error {
	if parentID != nil && *parentID != a.ID {
		parent, err := s.activityRepo.FindByIDForTenant(ctx, a.TenantID, *parentID)
		if err != nil {
			return err
		}
		if parent.ProjectID != a.ProjectID {
			return ErrParentProjectMismatch
		}
	}
	return a.SetParent(ctx, parentID, func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
		return s.activityRepo.ParentOf(ctx, a.TenantID, id)
	})
}

func (s *ActivityService) respond(ctx context.Context, a *planning.Activity) (*ActivityResponse, error) {
	final, err := s.guard.FinalStatuses(ctx, a.TenantID)
	if err != nil {
		return nil, err
	}
	resp := ToActivityResponse(a, final, s.now())
	return &resp, nil
}

func (s *ActivityService) publish(ctx context.Context, a *planning.Activity) {
	if err := shared.PublishPending(ctx, s.events, a); err != nil {
		s.logger.Warn("Failed to publish activity events", zap.Error(err))
	}
}

func decimalOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}

func setFilter(f shared.Filter, key, value string) {
	if value != "" {
		f.Filters[key] = value
	}
}
