package planning

import (
	"context"
	"testing"
	"time"

	"github.com/derbent/backend/internal/domain/planning"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimelineService_GetProjectTimeline(t *testing.T) {
	f := newPlanningFixture(t)
	projects := new(MockProjectRepository)
	projects.On("FindByIDForTenant", mock.Anything, f.tenantID, f.project.ID).Return(f.project, nil)

	early := f.activity(t, "Early")
	s, e := day(1, 1), day(1, 10)
	require.NoError(t, early.SetSchedule(&s, &e))

	late := f.activity(t, "Late")
	s2, e2 := day(6, 1), day(6, 20)
	require.NoError(t, late.SetSchedule(&s2, &e2))

	undated := f.activity(t, "Someday")

	meeting, err := planning.NewMeeting(f.tenantID, f.project.ID, "Steering")
	require.NoError(t, err)
	at := time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)
	require.NoError(t, meeting.Schedule(&at, nil))

	f.activities.On("FindByProject", mock.Anything, f.tenantID, f.project.ID).Return([]planning.Activity{*late, *undated, *early}, nil)
	f.meetings.On("FindByProject", mock.Anything, f.tenantID, f.project.ID).Return([]planning.Meeting{*meeting}, nil)
	f.guard.On("StatusNames", mock.Anything, f.tenantID).Return(map[uuid.UUID]string{}, nil)

	svc := NewTimelineService(projects, f.activities, f.meetings, f.guard)

	t.Run("full range", func(t *testing.T) {
		resp, err := svc.GetProjectTimeline(context.Background(), f.tenantID, f.project.ID, TimelineQuery{})
		require.NoError(t, err)
		assert.Equal(t, day(1, 1), resp.Window.FullStart)
		assert.Equal(t, day(6, 20), resp.Window.FullEnd)
		require.Len(t, resp.Items, 3)
		assert.Equal(t, []string{"Early", "Steering", "Late"}, []string{resp.Items[0].Name, resp.Items[1].Name, resp.Items[2].Name})
		require.Len(t, resp.Unscheduled, 1)
		assert.Equal(t, "Someday", resp.Unscheduled[0].Name)
		assert.Equal(t, planning.ScaleMonth, resp.ResolvedScale)
	})

	t.Run("window filters items", func(t *testing.T) {
		from, to := day(1, 1), day(1, 20)
		resp, err := svc.GetProjectTimeline(context.Background(), f.tenantID, f.project.ID, TimelineQuery{Start: &from, End: &to, Scale: "week"})
		require.NoError(t, err)
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, day(6, 20), resp.Window.FullEnd)
		assert.Equal(t, planning.ScaleWeek, resp.ResolvedScale)
		assert.Equal(t, 20, resp.DurationDays)
	})

	t.Run("scroll counts steps of the window", func(t *testing.T) {
		from, to := day(1, 1), day(1, 31)
		resp, err := svc.GetProjectTimeline(context.Background(), f.tenantID, f.project.ID, TimelineQuery{Start: &from, End: &to, Scroll: 2})
		require.NoError(t, err)
		assert.Equal(t, day(1, 19), resp.Window.Start)
		assert.Equal(t, day(2, 18), resp.Window.End)
		assert.Equal(t, 31, resp.DurationDays)
	})

	t.Run("zoom of one keeps the window", func(t *testing.T) {
		from, to := day(2, 1), day(2, 14)
		resp, err := svc.GetProjectTimeline(context.Background(), f.tenantID, f.project.ID, TimelineQuery{Start: &from, End: &to, Zoom: 1})
		require.NoError(t, err)
		assert.Equal(t, 14, resp.DurationDays)
		assert.Equal(t, day(2, 14), resp.Window.End)
	})

	t.Run("invalid scale", func(t *testing.T) {
		_, err := svc.GetProjectTimeline(context.Background(), f.tenantID, f.project.ID, TimelineQuery{Scale: "decade"})
		assert.Error(t, err)
	})
}
