package shared

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxItemNameLength = 200

// ProjectItem is the common base of project-scoped, workflow-driven records
// such as activities, meetings, risks and decisions.
type ProjectItem struct {
	TenantAggregateRoot
	ProjectID    uuid.UUID
	Name         string
	Description  string
	AssignedToID *uuid.UUID
	WorkflowID   *uuid.UUID
	StatusID     *uuid.UUID
}

// StatusAware is implemented by aggregates whose status follows a workflow
type StatusAware interface {
	AggregateRoot
	CurrentStatus() *uuid.UUID
	CurrentWorkflow() *uuid.UUID
}

// NewProjectItem creates the shared part of a project item
func NewProjectItem(tenantID, projectID uuid.UUID, name string) (ProjectItem, error) {
	if projectID == uuid.Nil {
		return ProjectItem{}, NewDomainError("INVALID_PROJECT", "Project is required")
	}
	name = strings.TrimSpace(name)
	if err := ValidateItemName(name); err != nil {
		return ProjectItem{}, err
	}
	return ProjectItem{
		TenantAggregateRoot: NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Name:                name,
	}, nil
}

// ValidateItemName checks the name length rules shared by project items
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxItemNameLength {
		return NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

// Rename changes the item name
func (p *ProjectItem) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := ValidateItemName(name); err != nil {
		return err
	}
	p.Name = name
	p.MarkModified()
	return nil
}

// SetDescription replaces the description
func (p *ProjectItem) SetDescription(description string) {
	p.Description = strings.TrimSpace(description)
	p.MarkModified()
}

// AssignTo sets or clears the responsible user
func (p *ProjectItem) AssignTo(userID *uuid.UUID) {
	p.AssignedToID = userID
	p.MarkModified()
}

// BindWorkflow attaches a workflow and its initial status
func (p *ProjectItem) BindWorkflow(workflowID, initialStatusID uuid.UUID) {
	p.WorkflowID = &workflowID
	p.StatusID = &initialStatusID
	p.MarkModified()
}

// ApplyStatus stores an already validated status
func (p *ProjectItem) ApplyStatus(statusID uuid.UUID) {
	p.StatusID = &statusID
	p.MarkModified()
}

// CurrentStatus returns the current status ID, nil when unset
func (p *ProjectItem) CurrentStatus() *uuid.UUID {
	return p.StatusID
}

// CurrentWorkflow returns the bound workflow ID, nil when unset
func (p *ProjectItem) CurrentWorkflow() *uuid.UUID {
	return p.WorkflowID
}
