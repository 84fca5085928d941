package project

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a project
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Project groups every project-scoped record of a company
type Project struct {
	shared.TenantAggregateRoot
	Name        string
	Code        string
	Description string
	Status      Status
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      decimal.Decimal
}

// NewProject creates a new active project
func NewProject(tenantID uuid.UUID, name, code string) (*Project, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if utf8.RuneCountInString(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Project code cannot exceed 50 characters")
	}

	p := &Project{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Code:                code,
		Status:              StatusActive,
		Budget:              decimal.Zero,
	}
	p.AddDomainEvent(NewProjectCreatedEvent(p))
	return p, nil
}

// Update changes the descriptive fields
func (p *Project) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	if utf8.RuneCountInString(description) > 4000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 4000 characters")
	}
	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.MarkModified()
	return nil
}

// SetSchedule sets the planned start and end dates. Either may be nil.
func (p *Project) SetSchedule(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	p.StartDate = start
	p.EndDate = end
	p.MarkModified()
	return nil
}

// SetBudget sets the planned budget
func (p *Project) SetBudget(budget decimal.Decimal) error {
	if budget.IsNegative() {
		return shared.NewDomainError("INVALID_BUDGET", "Budget cannot be negative")
	}
	p.Budget = budget.Round(2)
	p.MarkModified()
	return nil
}

// Archive makes the project read-only
func (p *Project) Archive() error {
	if p.Status == StatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Project is already archived")
	}
	p.Status = StatusArchived
	p.MarkModified()
	p.AddDomainEvent(NewProjectStatusChangedEvent(p, StatusActive, StatusArchived))
	return nil
}

// Activate reopens an archived project
func (p *Project) Activate() error {
	if p.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Project is already active")
	}
	p.Status = StatusActive
	p.MarkModified()
	p.AddDomainEvent(NewProjectStatusChangedEvent(p, StatusArchived, StatusActive))
	return nil
}

// IsActive returns true when the project accepts changes
func (p *Project) IsActive() bool {
	return p.Status == StatusActive
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}
	return nil
}
