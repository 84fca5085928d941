package planning

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrItemProjectMismatch = shared.NewDomainError("ITEM_PROJECT_MISMATCH", "Item belongs to another project")

// SprintService handles sprints, their items and velocity
type SprintService struct {
	sprintRepo   planning.SprintRepository
	activityRepo planning.ActivityRepository
	meetingRepo  planning.MeetingRepository
	projects     ActiveProjects
	guard        StatusGuard
	events       shared.EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

// NewSprintService creates a new sprint service
func NewSprintService(
	sprintRepo planning.SprintRepository,
	activityRepo planning.ActivityRepository,
	meetingRepo planning.MeetingRepository,
	projects ActiveProjects,
	guard StatusGuard,
	events shared.EventPublisher,
	logger *zap.Logger,
) *SprintService {
	return &SprintService{
		sprintRepo:   sprintRepo,
		activityRepo: activityRepo,
		meetingRepo:  meetingRepo,
		projects:     projects,
		guard:        guard,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

// Create creates a sprint in an active project
func (s *SprintService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateSprintRequest) (*SprintResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	sprint, err := planning.NewSprint(tenantID, req.ProjectID, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := sprint.Update(req.Name, req.Goal, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	sprint.SetNotes(req.DefinitionOfDone, req.RetrospectiveNotes)
	sprint.SetCreatedBy(createdBy)

	if err := s.sprintRepo.Save(ctx, sprint); err != nil {
		return nil, err
	}
	return s.respond(ctx, sprint)
}

// GetByID retrieves a sprint with its progress
func (s *SprintService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SprintResponse, error) {
	sprint, err := s.sprintRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, sprint)
}

// List retrieves sprints with filtering and pagination
func (s *SprintService) List(ctx context.Context, tenantID uuid.UUID, filter SprintListFilter) ([]SprintResponse, int64, error) {
	domainFilter := filter.Query.Filter("start_date", "desc")
	setFilter(domainFilter, "project_id", filter.ProjectID)

	sprints, total, err := s.sprintRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SprintResponse, 0, len(sprints))
	for i := range sprints {
		resp, err := s.respond(ctx, &sprints[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

// Update changes the fields of a sprint
func (s *SprintService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSprintRequest) (*SprintResponse, error) {
	sprint, err := s.sprintRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := sprint.Update(req.Name, req.Goal, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	sprint.SetNotes(req.DefinitionOfDone, req.RetrospectiveNotes)
	if err := s.sprintRepo.Save(ctx, sprint); err != nil {
		return nil, err
	}
	return s.respond(ctx, sprint)
}

// Delete removes a sprint. Its items stay in the project.
func (s *SprintService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.sprintRepo.DeleteForTenant(ctx, tenantID, id)
}

// AddItem plans an activity or meeting of the same project into a sprint
func (s *SprintService) AddItem(ctx context.Context, tenantID, sprintID uuid.UUID, req AddSprintItemRequest) (*SprintResponse, error) {
	sprint, err := s.sprintRepo.FindByIDForTenant(ctx, tenantID, sprintID)
	if err != nil {
		return nil, err
	}
	itemType := registry.EntityType(req.ItemType)
	projectID, err := s.itemProject(ctx, tenantID, itemType, req.ItemID)
	if err != nil {
		return nil, err
	}
	if projectID != sprint.ProjectID {
		return nil, ErrItemProjectMismatch
	}
	if _, err := sprint.AddItem(itemType, req.ItemID, req.StoryPoints); err != nil {
		return nil, err
	}
	return s.recalculateAndSave(ctx, sprint)
}

// RemoveItem drops an item from a sprint
func (s *SprintService) RemoveItem(ctx context.Context, tenantID, sprintID, itemID uuid.UUID) (*SprintResponse, error) {
	sprint, err := s.sprintRepo.FindByIDForTenant(ctx, tenantID, sprintID)
	if err != nil {
		return nil, err
	}
	if err := sprint.RemoveItem(itemID); err != nil {
		return nil, err
	}
	return s.recalculateAndSave(ctx, sprint)
}

// RecalculateForItem refreshes the velocity of every sprint containing the
// item. It returns the number of sprints whose velocity changed.
func (s *SprintService) RecalculateForItem(ctx context.Context, tenantID, itemID uuid.UUID) (int, error) {
	sprints, err := s.sprintRepo.FindContainingItem(ctx, tenantID, itemID)
	if err != nil {
		return 0, err
	}
	return s.recalculate(ctx, tenantID, sprints)
}

// RecalculateAll refreshes the velocity of every sprint of a company
func (s *SprintService) RecalculateAll(ctx context.Context, tenantID uuid.UUID) (int, error) {
	sprints, _, err := s.sprintRepo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter().Unpaged())
	if err != nil {
		return 0, err
	}
	return s.recalculate(ctx, tenantID, sprints)
}

func (s *SprintService) recalculate(ctx context.Context, tenantID uuid.UUID, sprints []planning.Sprint) (int, error) {
	final, err := s.guard.FinalStatuses(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range sprints {
		sprint := &sprints[i]
		finalItems, _, err := s.itemStates(ctx, sprint, final)
		if err != nil {
			return changed, err
		}
		if !sprint.CalculateVelocity(finalItems) {
			continue
		}
		if err := s.sprintRepo.Save(ctx, sprint); err != nil {
			return changed, err
		}
		s.publish(ctx, sprint)
		changed++
	}
	return changed, nil
}

func (s *SprintService) recalculateAndSave(ctx context.Context, sprint *planning.Sprint) (*SprintResponse, error) {
	final, err := s.guard.FinalStatuses(ctx, sprint.TenantID)
	if err != nil {
		return nil, err
	}
	finalItems, completed, err := s.itemStates(ctx, sprint, final)
	if err != nil {
		return nil, err
	}
	sprint.CalculateVelocity(finalItems)
	if err := s.sprintRepo.Save(ctx, sprint); err != nil {
		return nil, err
	}
	s.publish(ctx, sprint)
	resp := ToSprintResponse(sprint, completed, s.now())
	return &resp, nil
}

// itemStates loads the sprint's items and returns the IDs of those in a
// final status and of those that count as completed
func (s *SprintService) itemStates(ctx context.Context, sprint *planning.Sprint, final planning.FinalStatuses) (planning.ItemSet, planning.ItemSet, error) {
	finalItems := make(planning.ItemSet)
	completed := make(planning.ItemSet)

	if ids := sprint.ItemIDs(registry.TypeActivity); len(ids) > 0 {
		activities, err := s.activityRepo.FindByIDs(ctx, sprint.TenantID, ids)
		if err != nil {
			return nil, nil, err
		}
		for i := range activities {
			a := &activities[i]
			if final.Has(a.StatusID) {
				finalItems[a.ID] = true
			}
			if a.IsCompleted(final) {
				completed[a.ID] = true
			}
		}
	}
	if ids := sprint.ItemIDs(registry.TypeMeeting); len(ids) > 0 {
		meetings, err := s.meetingRepo.FindByIDs(ctx, sprint.TenantID, ids)
		if err != nil {
			return nil, nil, err
		}
		for i := range meetings {
			if final.Has(meetings[i].StatusID) {
				finalItems[meetings[i].ID] = true
				completed[meetings[i].ID] = true
			}
		}
	}
	return finalItems, completed, nil
}

func (s *SprintService) itemProject(ctx context.Context, tenantID uuid.UUID, itemType registry.EntityType, itemID uuid.UUID) (uuid.UUID, error) {
	switch itemType {
	case registry.TypeActivity:
		a, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, itemID)
		if err != nil {
			return uuid.Nil, err
		}
		return a.ProjectID, nil
	case registry.TypeMeeting:
		m, err := s.meetingRepo.FindByIDForTenant(ctx, tenantID, itemID)
		if err != nil {
			return uuid.Nil, err
		}
		return m.ProjectID, nil
	}
	return uuid.Nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Only activities and meetings can be planned in a sprint")
}

func (s *SprintService) respond(ctx context.Context, sprint *planning.Sprint) (*SprintResponse, error) {
	final, err := s.guard.FinalStatuses(ctx, sprint.TenantID)
	if err != nil {
		return nil, err
	}
	_, completed, err := s.itemStates(ctx, sprint, final)
	if err != nil {
		return nil, err
	}
	resp := ToSprintResponse(sprint, completed, s.now())
	return &resp, nil
}

func (s *SprintService) publish(ctx context.Context, sprint *planning.Sprint) {
	if err := shared.PublishPending(ctx, s.events, sprint); err != nil {
		s.logger.Warn("Failed to publish sprint events", zap.Error(err))
	}
}
