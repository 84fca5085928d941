package planning

import (
	"context"

	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrActivityProjectMismatch = shared.NewDomainError("ACTIVITY_PROJECT_MISMATCH", "Linked activity belongs to another project")

// MeetingService handles meeting CRUD and status changes
type MeetingService struct {
	meetingRepo  planning.MeetingRepository
	activityRepo planning.ActivityRepository
	projects     ActiveProjects
	guard        StatusGuard
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewMeetingService creates a new meeting service
func NewMeetingService(
	meetingRepo planning.MeetingRepository,
	activityRepo planning.ActivityRepository,
	projects ActiveProjects,
	guard StatusGuard,
	events shared.EventPublisher,
	logger *zap.Logger,
) *MeetingService {
	return &MeetingService{
		meetingRepo:  meetingRepo,
		activityRepo: activityRepo,
		projects:     projects,
		guard:        guard,
		events:       events,
		logger:       logger,
	}
}

// Create schedules a meeting in an active project
func (s *MeetingService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateMeetingRequest) (*MeetingResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	meeting, err := planning.NewMeeting(tenantID, req.ProjectID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, meeting, req.MeetingFields); err != nil {
		return nil, err
	}
	if err := s.guard.AssignInitial(ctx, tenantID, registry.TypeMeeting, meeting); err != nil {
		return nil, err
	}
	meeting.SetCreatedBy(createdBy)
	return s.save(ctx, meeting)
}

// GetByID retrieves a meeting
func (s *MeetingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*MeetingResponse, error) {
	meeting, err := s.meetingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToMeetingResponse(meeting)
	return &resp, nil
}

// List retrieves meetings with filtering and pagination
func (s *MeetingService) List(ctx context.Context, tenantID uuid.UUID, filter MeetingListFilter) ([]MeetingResponse, int64, error) {
	domainFilter := filter.Query.Filter("start_at", "asc")
	setFilter(domainFilter, "project_id", filter.ProjectID)
	setFilter(domainFilter, "status_id", filter.StatusID)
	if filter.From != nil {
		domainFilter.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["to"] = *filter.To
	}

	meetings, total, err := s.meetingRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]MeetingResponse, len(meetings))
	for i := range meetings {
		out[i] = ToMeetingResponse(&meetings[i])
	}
	return out, total, nil
}

// Update changes the fields of a meeting
func (s *MeetingService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateMeetingRequest) (*MeetingResponse, error) {
	meeting, err := s.meetingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.RequireActive(ctx, tenantID, meeting.ProjectID); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, meeting, req.MeetingFields); err != nil {
		return nil, err
	}
	return s.save(ctx, meeting)
}

// ChangeStatus moves a meeting along its workflow
func (s *MeetingService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, role identity.Role, req workflowapp.ChangeStatusRequest) (*MeetingResponse, error) {
	meeting, err := s.meetingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.MoveToStatus(ctx, meeting, req.StatusID, role); err != nil {
		return nil, err
	}
	resp := ToMeetingResponse(meeting)
	return &resp, nil
}

// MoveToStatus applies a status change to an already loaded meeting
func (s *MeetingService) MoveToStatus(ctx context.Context, meeting *planning.Meeting, statusID uuid.UUID, role identity.Role) error {
	status, _, err := s.guard.ValidateChange(ctx, meeting.TenantID, registry.TypeMeeting, meeting, statusID, role)
	if err != nil {
		return err
	}
	if meeting.StatusID != nil && *meeting.StatusID == status.ID {
		return nil
	}
	meeting.ChangeStatus(status.ID)
	_, err = s.save(ctx, meeting)
	return err
}

// NextStatuses lists the statuses the caller may move the meeting to
func (s *MeetingService) NextStatuses(ctx context.Context, tenantID, id uuid.UUID, role identity.Role) ([]workflowapp.StatusOption, error) {
	meeting, err := s.meetingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	statuses, err := s.guard.ValidNextStatuses(ctx, tenantID, registry.TypeMeeting, meeting, role)
	if err != nil {
		return nil, err
	}
	return workflowapp.ToStatusOptions(statuses, meeting.StatusID), nil
}

// Delete removes a meeting
func (s *MeetingService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.meetingRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *MeetingService) apply(ctx context.Context, m *planning.Meeting, f MeetingFields) error {
	if err := m.Rename(f.Name); err != nil {
		return err
	}
	m.SetDescription(f.Description)
	m.AssignTo(f.AssignedToID)
	if err := m.Schedule(f.StartAt, f.EndAt); err != nil {
		return err
	}
	if err := m.SetDetails(f.Location, f.Agenda, f.Minutes); err != nil {
		return err
	}
	m.SetAttendees(f.AttendeeIDs)

	if f.RelatedActivityID != nil {
		activity, err := s.activityRepo.FindByIDForTenant(ctx, m.TenantID, *f.RelatedActivityID)
		if err != nil {
			return err
		}
		if activity.ProjectID != m.ProjectID {
			return ErrActivityProjectMismatch
		}
	}
	m.LinkActivity(f.RelatedActivityID)
	return nil
}

func (s *MeetingService) save(ctx context.Context, m *planning.Meeting) (*MeetingResponse, error) {
	if err := s.meetingRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, m); err != nil {
		s.logger.Warn("Failed to publish meeting events", zap.Error(err))
	}
	resp := ToMeetingResponse(m)
	return &resp, nil
}
