package project

import (
	"github.com/derbent/backend/internal/domain/shared"
)

// AggregateTypeProject is the aggregate type for project events
const AggregateTypeProject = "Project"

// Event type constants
const (
	EventTypeProjectCreated       = "ProjectCreated"
	EventTypeProjectStatusChanged = "ProjectStatusChanged"
)

// ProjectCreatedEvent is published when a project is created
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// NewProjectCreatedEvent creates a new ProjectCreatedEvent
func NewProjectCreatedEvent(p *Project) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCreated, AggregateTypeProject, p.ID, p.TenantID),
		Name:            p.Name,
		Code:            p.Code,
	}
}

// ProjectStatusChangedEvent is published on archive and reactivation
type ProjectStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

// NewProjectStatusChangedEvent creates a new ProjectStatusChangedEvent
func NewProjectStatusChangedEvent(p *Project, oldStatus, newStatus Status) *ProjectStatusChangedEvent {
	return &ProjectStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectStatusChanged, AggregateTypeProject, p.ID, p.TenantID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
