package validation

import (
	"sort"
	"strings"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Priority of a validation case
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Step is one action of a validation case
type Step struct {
	ID             uuid.UUID
	StepOrder      int
	Action         string
	ExpectedResult string
	TestData       string
}

// Case is a reusable test case with ordered steps
type Case struct {
	shared.TenantAggregateRoot
	ProjectID     uuid.UUID
	Name          string
	Description   string
	Preconditions string
	Priority      Priority
	Steps         []Step
}

// NewCase creates a case with medium priority and no steps
func NewCase(tenantID, projectID uuid.UUID, name string) (*Case, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	c := &Case{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Priority:            PriorityMedium,
		Steps:               make([]Step, 0),
	}
	if err := c.Update(name, "", ""); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the descriptive fields
func (c *Case) Update(name, description, preconditions string) error {
	if err := shared.ValidateItemName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Description = strings.TrimSpace(description)
	c.Preconditions = strings.TrimSpace(preconditions)
	c.MarkModified()
	return nil
}

// SetPriority changes the priority
func (c *Case) SetPriority(p Priority) error {
	if !p.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown priority")
	}
	c.Priority = p
	c.MarkModified()
	return nil
}

// AddStep appends a step after the highest existing order
func (c *Case) AddStep(action, expectedResult, testData string) (*Step, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, shared.NewDomainError("INVALID_STEP", "Step action cannot be empty")
	}
	step := Step{
		ID:             uuid.New(),
		StepOrder:      c.maxStepOrder() + 1,
		Action:         action,
		ExpectedResult: strings.TrimSpace(expectedResult),
		TestData:       strings.TrimSpace(testData),
	}
	c.Steps = append(c.Steps, step)
	c.MarkModified()
	return &c.Steps[len(c.Steps)-1], nil
}

// UpdateStep changes the text of an existing step
func (c *Case) UpdateStep(stepID uuid.UUID, action, expectedResult, testData string) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return shared.NewDomainError("INVALID_STEP", "Step action cannot be empty")
	}
	for i := range c.Steps {
		if c.Steps[i].ID == stepID {
			c.Steps[i].Action = action
			c.Steps[i].ExpectedResult = strings.TrimSpace(expectedResult)
			c.Steps[i].TestData = strings.TrimSpace(testData)
			c.MarkModified()
			return nil
		}
	}
	return shared.NotFound("Validation step")
}

// RemoveStep deletes a step. Remaining orders keep their values.
func (c *Case) RemoveStep(stepID uuid.UUID) error {
	for i := range c.Steps {
		if c.Steps[i].ID == stepID {
			c.Steps = append(c.Steps[:i], c.Steps[i+1:]...)
			c.MarkModified()
			return nil
		}
	}
	return shared.NotFound("Validation step")
}

// SortedSteps returns the steps ordered by StepOrder
func (c *Case) SortedSteps() []Step {
	steps := make([]Step, len(c.Steps))
	copy(steps, c.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].StepOrder < steps[j].StepOrder })
	return steps
}

func (c *Case) maxStepOrder() int {
	highest := 0
	for _, s := range c.Steps {
		if s.StepOrder > highest {
			highest = s.StepOrder
		}
	}
	return highest
}
