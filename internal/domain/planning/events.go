package planning

import (
	"time"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeActivity = "Activity"
	AggregateTypeMeeting  = "Meeting"
	AggregateTypeSprint   = "Sprint"
)

// Event type constants
const (
	EventTypeActivityCreated       = "ActivityCreated"
	EventTypeActivityStatusChanged = "ActivityStatusChanged"
	EventTypeActivityOverdue       = "ActivityOverdue"
	EventTypeMeetingCreated        = "MeetingCreated"
	EventTypeMeetingStatusChanged  = "MeetingStatusChanged"
	EventTypeSprintVelocityChanged = "SprintVelocityChanged"
)

// ActivityCreatedEvent is published when an activity is created
type ActivityCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
}

// NewActivityCreatedEvent creates a new ActivityCreatedEvent
func NewActivityCreatedEvent(a *Activity) *ActivityCreatedEvent {
	return &ActivityCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActivityCreated, AggregateTypeActivity, a.ID, a.TenantID),
		ProjectID:       a.ProjectID,
		Name:            a.Name,
	}
}

// ActivityStatusChangedEvent is published when an activity moves to another status
type ActivityStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProjectID   uuid.UUID  `json:"project_id"`
	OldStatusID *uuid.UUID `json:"old_status_id,omitempty"`
	NewStatusID uuid.UUID  `json:"new_status_id"`
	IsFinal     bool       `json:"is_final"`
}

// NewActivityStatusChangedEvent creates a new ActivityStatusChangedEvent
func NewActivityStatusChangedEvent(a *Activity, oldStatusID *uuid.UUID, isFinal bool) *ActivityStatusChangedEvent {
	return &ActivityStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActivityStatusChanged, AggregateTypeActivity, a.ID, a.TenantID),
		ProjectID:       a.ProjectID,
		OldStatusID:     oldStatusID,
		NewStatusID:     *a.StatusID,
		IsFinal:         isFinal,
	}
}

// ActivityOverdueEvent is published by the overdue scan
type ActivityOverdueEvent struct {
	shared.BaseDomainEvent
	ProjectID    uuid.UUID  `json:"project_id"`
	Name         string     `json:"name"`
	DueDate      time.Time  `json:"due_date"`
	AssignedToID *uuid.UUID `json:"assigned_to_id,omitempty"`
}

// NewActivityOverdueEvent creates a new ActivityOverdueEvent
func NewActivityOverdueEvent(a *Activity) *ActivityOverdueEvent {
	e := &ActivityOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActivityOverdue, AggregateTypeActivity, a.ID, a.TenantID),
		ProjectID:       a.ProjectID,
		Name:            a.Name,
		AssignedToID:    a.AssignedToID,
	}
	if a.DueDate != nil {
		e.DueDate = *a.DueDate
	}
	return e
}

// MeetingCreatedEvent is published when a meeting is created
type MeetingCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
}

// NewMeetingCreatedEvent creates a new MeetingCreatedEvent
func NewMeetingCreatedEvent(m *Meeting) *MeetingCreatedEvent {
	return &MeetingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMeetingCreated, AggregateTypeMeeting, m.ID, m.TenantID),
		ProjectID:       m.ProjectID,
		Name:            m.Name,
	}
}

// MeetingStatusChangedEvent is published when a meeting moves to another status
type MeetingStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatusID *uuid.UUID `json:"old_status_id,omitempty"`
	NewStatusID uuid.UUID  `json:"new_status_id"`
}

// NewMeetingStatusChangedEvent creates a new MeetingStatusChangedEvent
func NewMeetingStatusChangedEvent(m *Meeting, oldStatusID *uuid.UUID) *MeetingStatusChangedEvent {
	return &MeetingStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMeetingStatusChanged, AggregateTypeMeeting, m.ID, m.TenantID),
		OldStatusID:     oldStatusID,
		NewStatusID:     *m.StatusID,
	}
}

// SprintVelocityChangedEvent is published when a sprint's velocity is recalculated to a new value
type SprintVelocityChangedEvent struct {
	shared.BaseDomainEvent
	ProjectID   uuid.UUID `json:"project_id"`
	OldVelocity int       `json:"old_velocity"`
	NewVelocity int       `json:"new_velocity"`
}

// NewSprintVelocityChangedEvent creates a new SprintVelocityChangedEvent
func NewSprintVelocityChangedEvent(s *Sprint, oldVelocity int) *SprintVelocityChangedEvent {
	return &SprintVelocityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSprintVelocityChanged, AggregateTypeSprint, s.ID, s.TenantID),
		ProjectID:       s.ProjectID,
		OldVelocity:     oldVelocity,
		NewVelocity:     s.Velocity,
	}
}
