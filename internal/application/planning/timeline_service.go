package planning

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/google/uuid"
)

// TimelineService builds the Gantt chart of a project
type TimelineService struct {
	projectRepo  project.ProjectRepository
	activityRepo planning.ActivityRepository
	meetingRepo  planning.MeetingRepository
	guard        StatusGuard
	now          func() time.Time
}

// NewTimelineService creates a new timeline service
func NewTimelineService(
	projectRepo project.ProjectRepository,
	activityRepo planning.ActivityRepository,
	meetingRepo planning.MeetingRepository,
	guard StatusGuard,
) *TimelineService {
	return &TimelineService{
		projectRepo:  projectRepo,
		activityRepo: activityRepo,
		meetingRepo:  meetingRepo,
		guard:        guard,
		now:          time.Now,
	}
}

// GetProjectTimeline merges the project's activities and meetings, positions
// the window from the query and returns the items that intersect it. The
// window always reports the full range of the project.
func (s *TimelineService) GetProjectTimeline(ctx context.Context, tenantID, projectID uuid.UUID, q TimelineQuery) (*TimelineResponse, error) {
	scale, err := planning.ParseScale(q.Scale)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, projectID); err != nil {
		return nil, err
	}
	activities, err := s.activityRepo.FindByProject(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	meetings, err := s.meetingRepo.FindByProject(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	names, err := s.guard.StatusNames(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	items := planning.BuildTimeline(activities, meetings, names)
	window := planning.NewTimelineWindow(planning.TimelineRange(items, s.now()))
	positionWindow(window, q)
	window.Scale = scale

	resp := &TimelineResponse{
		ProjectID:     projectID,
		DurationDays:  window.DurationDays(),
		ResolvedScale: window.ResolvedScale(),
		Items:         make([]planning.TimelineItem, 0, len(items)),
		Unscheduled:   make([]planning.TimelineItem, 0),
	}
	for _, it := range items {
		switch {
		case !it.HasDates():
			resp.Unscheduled = append(resp.Unscheduled, it)
		case it.Intersects(window.Start, window.End):
			resp.Items = append(resp.Items, it)
		}
	}
	resp.Window = *window
	return resp, nil
}

func positionWindow(w *planning.TimelineWindow, q TimelineQuery) {
	switch {
	case q.Start != nil && q.End != nil:
		w.Apply(*q.Start, *q.End)
	case q.Start != nil:
		w.Apply(*q.Start, q.Start.AddDate(0, 0, w.DurationDays()-1))
	case q.End != nil:
		w.Apply(q.End.AddDate(0, 0, 1-w.DurationDays()), *q.End)
	}
	if q.Zoom > 0 {
		w.Zoom(q.Zoom)
	}
	for range abs(q.Scroll) {
		w.Scroll(sign(q.Scroll))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
