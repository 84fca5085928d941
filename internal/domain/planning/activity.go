package planning

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Priority of an activity
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

// maxParentDepth bounds the ancestor walk when checking for cycles
const maxParentDepth = 64

// FinalStatuses is the set of status IDs flagged final
type FinalStatuses map[uuid.UUID]bool

// Has reports whether the status is final; nil is never final
func (f FinalStatuses) Has(statusID *uuid.UUID) bool {
	return statusID != nil && f[*statusID]
}

// ParentLookup returns the parent ID of an activity, nil for a root
type ParentLookup func(ctx context.Context, activityID uuid.UUID) (*uuid.UUID, error)

// Activity is a unit of project work
type Activity struct {
	shared.ProjectItem
	ParentID           *uuid.UUID
	Priority           Priority
	StartDate          *time.Time
	DueDate            *time.Time
	CompletionDate     *time.Time
	EstimatedHours     decimal.Decimal
	ActualHours        decimal.Decimal
	RemainingHours     decimal.Decimal
	EstimatedCost      decimal.Decimal
	ActualCost         decimal.Decimal
	HourlyRate         decimal.Decimal
	Progress           int
	StoryPoints        int
	AcceptanceCriteria string
	Notes              string
	Results            string
}

// NewActivity creates a new activity with medium priority
func NewActivity(tenantID, projectID uuid.UUID, name string) (*Activity, error) {
	item, err := shared.NewProjectItem(tenantID, projectID, name)
	if err != nil {
		return nil, err
	}
	a := &Activity{
		ProjectItem:    item,
		Priority:       PriorityMedium,
		EstimatedHours: decimal.Zero,
		ActualHours:    decimal.Zero,
		RemainingHours: decimal.Zero,
		EstimatedCost:  decimal.Zero,
		ActualCost:     decimal.Zero,
		HourlyRate:     decimal.Zero,
	}
	a.AddDomainEvent(NewActivityCreatedEvent(a))
	return a, nil
}

// SetPriority changes the priority
func (a *Activity) SetPriority(p Priority) error {
	if !p.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority must be low, medium, high or critical")
	}
	a.Priority = p
	a.MarkModified()
	return nil
}

// SetSchedule sets start and due dates
func (a *Activity) SetSchedule(start, due *time.Time) error {
	if start != nil && due != nil && due.Before(*start) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Due date cannot be before start date")
	}
	a.StartDate = start
	a.DueDate = due
	a.MarkModified()
	return nil
}

// SetEffort sets estimated, actual and remaining hours
func (a *Activity) SetEffort(estimated, actual, remaining decimal.Decimal) error {
	if estimated.IsNegative() || actual.IsNegative() || remaining.IsNegative() {
		return shared.NewDomainError("INVALID_HOURS", "Hours cannot be negative")
	}
	a.EstimatedHours = estimated.Round(2)
	a.ActualHours = actual.Round(2)
	a.RemainingHours = remaining.Round(2)
	a.MarkModified()
	return nil
}

// SetCosts sets estimated cost, actual cost and hourly rate
func (a *Activity) SetCosts(estimated, actual, hourlyRate decimal.Decimal) error {
	if estimated.IsNegative() || actual.IsNegative() || hourlyRate.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Costs cannot be negative")
	}
	a.EstimatedCost = estimated.Round(2)
	a.ActualCost = actual.Round(2)
	a.HourlyRate = hourlyRate.Round(2)
	a.MarkModified()
	return nil
}

// SetProgress sets the completion percentage
func (a *Activity) SetProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return shared.NewDomainError("INVALID_PROGRESS", "Progress must be between 0 and 100")
	}
	a.Progress = progress
	a.MarkModified()
	return nil
}

// SetStoryPoints sets the sprint estimate
func (a *Activity) SetStoryPoints(points int) error {
	if points < 0 {
		return shared.NewDomainError("INVALID_STORY_POINTS", "Story points cannot be negative")
	}
	a.StoryPoints = points
	a.MarkModified()
	return nil
}

// SetDetails replaces the free text fields
func (a *Activity) SetDetails(acceptanceCriteria, notes, results string) error {
	if utf8.RuneCountInString(acceptanceCriteria) > 4000 || utf8.RuneCountInString(notes) > 4000 || utf8.RuneCountInString(results) > 4000 {
		return shared.NewDomainError("INVALID_TEXT", "Text fields cannot exceed 4000 characters")
	}
	a.AcceptanceCriteria = strings.TrimSpace(acceptanceCriteria)
	a.Notes = strings.TrimSpace(notes)
	a.Results = strings.TrimSpace(results)
	a.MarkModified()
	return nil
}

// SetParent changes the parent activity. The ancestor chain is walked
// through lookup so that an activity never becomes its own ancestor.
func (a *Activity) SetParent(ctx context.Context, parentID *uuid.UUID, lookup ParentLookup) error {
	if parentID == nil {
		a.ParentID = nil
		a.MarkModified()
		return nil
	}
	if *parentID == a.ID {
		return shared.NewDomainError("PARENT_CYCLE", "An activity cannot be its own parent")
	}

	current := parentID
	for depth := 0; current != nil; depth++ {
		if depth >= maxParentDepth {
			return shared.NewDomainError("PARENT_TOO_DEEP", "Activity hierarchy is too deep")
		}
		next, err := lookup(ctx, *current)
		if err != nil {
			return err
		}
		if next != nil && *next == a.ID {
			return shared.NewDomainError("PARENT_CYCLE", "Parent would create a cycle in the activity hierarchy")
		}
		current = next
	}

	id := *parentID
	a.ParentID = &id
	a.MarkModified()
	return nil
}

// ChangeStatus applies an already validated status. Moving into a final
// status completes the activity.
func (a *Activity) ChangeStatus(statusID uuid.UUID, isFinal bool) {
	old := a.StatusID
	a.ApplyStatus(statusID)
	if isFinal {
		if a.CompletionDate == nil {
			now := time.Now()
			a.CompletionDate = &now
		}
		a.Progress = 100
	}
	a.AddDomainEvent(NewActivityStatusChangedEvent(a, old, isFinal))
}

// IsCompleted is true when a completion date is set, progress reached 100
// or the status is final.
func (a *Activity) IsCompleted(final FinalStatuses) bool {
	return a.CompletionDate != nil || a.Progress >= 100 || final.Has(a.StatusID)
}

// IsOverdue is true when the due date lies before today and the activity
// is not completed.
func (a *Activity) IsOverdue(now time.Time, final FinalStatuses) bool {
	if a.DueDate == nil || a.IsCompleted(final) {
		return false
	}
	return truncateDay(*a.DueDate).Before(truncateDay(now))
}

// CostVariance is actual minus estimated cost
func (a *Activity) CostVariance() decimal.Decimal {
	return a.ActualCost.Sub(a.EstimatedCost)
}

// TimeVariance is actual minus estimated hours
func (a *Activity) TimeVariance() decimal.Decimal {
	return a.ActualHours.Sub(a.EstimatedHours)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
