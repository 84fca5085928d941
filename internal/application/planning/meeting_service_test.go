package planning

import (
	"context"
	"testing"
	"time"

	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (f *planningFixture) meetingService() *MeetingService {
	return NewMeetingService(f.meetings, f.activities, f.projects, f.guard, f.events, zap.NewNop())
}

func TestMeetingService_Create(t *testing.T) {
	f := newPlanningFixture(t)
	related := f.activity(t, "Design review")
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	attendee := uuid.New()

	f.activities.On("FindByIDForTenant", mock.Anything, f.tenantID, related.ID).Return(related, nil)
	f.guard.On("AssignInitial", mock.Anything, f.tenantID, registry.TypeMeeting, mock.AnythingOfType("*planning.Meeting")).Return(nil)
	f.meetings.On("Save", mock.Anything, mock.AnythingOfType("*planning.Meeting")).Return(nil)

	resp, err := f.meetingService().Create(context.Background(), f.tenantID, uuid.New(), CreateMeetingRequest{
		ProjectID: f.project.ID,
		MeetingFields: MeetingFields{
			Name:              "Kick-off",
			StartAt:           &start,
			EndAt:             &end,
			Location:          " Room 4 ",
			AttendeeIDs:       []uuid.UUID{attendee, attendee},
			RelatedActivityID: &related.ID,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Room 4", resp.Location)
	assert.Equal(t, []uuid.UUID{attendee}, resp.AttendeeIDs)
	assert.Equal(t, &related.ID, resp.RelatedActivityID)
	assert.Equal(t, []string{planning.EventTypeMeetingCreated}, f.events.types())
}

func TestMeetingService_Create_Validation(t *testing.T) {
	f := newPlanningFixture(t)
	svc := f.meetingService()

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := svc.Create(context.Background(), f.tenantID, uuid.New(), CreateMeetingRequest{
		ProjectID:     f.project.ID,
		MeetingFields: MeetingFields{Name: "Backwards", StartAt: &start, EndAt: &end},
	})
	assert.Error(t, err)

	foreign, err := planning.NewActivity(f.tenantID, uuid.New(), "Elsewhere")
	require.NoError(t, err)
	f.activities.On("FindByIDForTenant", mock.Anything, f.tenantID, foreign.ID).Return(foreign, nil)
	_, err = svc.Create(context.Background(), f.tenantID, uuid.New(), CreateMeetingRequest{
		ProjectID:     f.project.ID,
		MeetingFields: MeetingFields{Name: "Linked", RelatedActivityID: &foreign.ID},
	})
	assert.ErrorIs(t, err, ErrActivityProjectMismatch)
	f.meetings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMeetingService_ChangeStatus(t *testing.T) {
	f := newPlanningFixture(t)
	m, err := planning.NewMeeting(f.tenantID, f.project.ID, "Retro")
	require.NoError(t, err)
	m.ClearDomainEvents()
	held := f.status(t, "Held", true)

	f.meetings.On("FindByIDForTenant", mock.Anything, f.tenantID, m.ID).Return(m, nil)
	f.guard.On("ValidateChange", mock.Anything, f.tenantID, registry.TypeMeeting, m, held.ID, identity.RoleMember).Return(held, nil, nil)
	f.meetings.On("Save", mock.Anything, m).Return(nil)

	resp, err := f.meetingService().ChangeStatus(context.Background(), f.tenantID, m.ID, identity.RoleMember, workflowapp.ChangeStatusRequest{StatusID: held.ID})
	require.NoError(t, err)
	assert.Equal(t, &held.ID, resp.StatusID)
	assert.Equal(t, []string{planning.EventTypeMeetingStatusChanged}, f.events.types())
}
