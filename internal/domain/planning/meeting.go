package planning

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Meeting is a scheduled project meeting
type Meeting struct {
	shared.ProjectItem
	StartAt           *time.Time
	EndAt             *time.Time
	Location          string
	Agenda            string
	Minutes           string
	AttendeeIDs       []uuid.UUID
	RelatedActivityID *uuid.UUID
}

// NewMeeting creates a new meeting
func NewMeeting(tenantID, projectID uuid.UUID, name string) (*Meeting, error) {
	item, err := shared.NewProjectItem(tenantID, projectID, name)
	if err != nil {
		return nil, err
	}
	m := &Meeting{
		ProjectItem: item,
		AttendeeIDs: make([]uuid.UUID, 0),
	}
	m.AddDomainEvent(NewMeetingCreatedEvent(m))
	return m, nil
}

// Schedule sets the meeting time
func (m *Meeting) Schedule(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Meeting cannot end before it starts")
	}
	m.StartAt = start
	m.EndAt = end
	m.MarkModified()
	return nil
}

// SetDetails replaces location, agenda and minutes
func (m *Meeting) SetDetails(location, agenda, minutes string) error {
	if utf8.RuneCountInString(location) > 500 {
		return shared.NewDomainError("INVALID_LOCATION", "Location cannot exceed 500 characters")
	}
	if utf8.RuneCountInString(agenda) > 4000 || utf8.RuneCountInString(minutes) > 10000 {
		return shared.NewDomainError("INVALID_TEXT", "Agenda or minutes too long")
	}
	m.Location = strings.TrimSpace(location)
	m.Agenda = strings.TrimSpace(agenda)
	m.Minutes = strings.TrimSpace(minutes)
	m.MarkModified()
	return nil
}

// SetAttendees replaces the attendee list, dropping duplicates
func (m *Meeting) SetAttendees(userIDs []uuid.UUID) {
	seen := make(map[uuid.UUID]bool, len(userIDs))
	attendees := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		attendees = append(attendees, id)
	}
	m.AttendeeIDs = attendees
	m.MarkModified()
}

// LinkActivity sets or clears the related activity
func (m *Meeting) LinkActivity(activityID *uuid.UUID) {
	m.RelatedActivityID = activityID
	m.MarkModified()
}

// ChangeStatus applies an already validated status
func (m *Meeting) ChangeStatus(statusID uuid.UUID) {
	old := m.StatusID
	m.ApplyStatus(statusID)
	m.AddDomainEvent(NewMeetingStatusChangedEvent(m, old))
}
