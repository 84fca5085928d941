package planning

import (
	"strings"
	"time"

	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SprintItem references an activity or a meeting planned in a sprint
type SprintItem struct {
	ID          uuid.UUID
	ItemType    registry.EntityType
	ItemID      uuid.UUID
	StoryPoints int
	ItemOrder   int
}

// ItemSet is a set of item IDs, typically the completed ones
type ItemSet map[uuid.UUID]bool

// Sprint is a time-boxed iteration of a project
type Sprint struct {
	shared.TenantAggregateRoot
	ProjectID          uuid.UUID
	Name               string
	Goal               string
	StartDate          time.Time
	EndDate            time.Time
	DefinitionOfDone   string
	RetrospectiveNotes string
	Velocity           int
	Items              []SprintItem
}

// NewSprint creates a sprint for the given date range
func NewSprint(tenantID, projectID uuid.UUID, name string, start, end time.Time) (*Sprint, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	s := &Sprint{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Items:               make([]SprintItem, 0),
	}
	if err := s.Update(name, "", start, end); err != nil {
		return nil, err
	}
	return s, nil
}

// Update changes name, goal and dates
func (s *Sprint) Update(name, goal string, start, end time.Time) error {
	name = strings.TrimSpace(name)
	if err := shared.ValidateItemName(name); err != nil {
		return err
	}
	if start.IsZero() || end.IsZero() {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Sprint start and end dates are required")
	}
	if end.Before(start) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Sprint cannot end before it starts")
	}
	s.Name = name
	s.Goal = strings.TrimSpace(goal)
	s.StartDate = truncateDay(start)
	s.EndDate = truncateDay(end)
	s.MarkModified()
	return nil
}

// SetNotes sets definition of done and retrospective notes
func (s *Sprint) SetNotes(definitionOfDone, retrospective string) {
	s.DefinitionOfDone = strings.TrimSpace(definitionOfDone)
	s.RetrospectiveNotes = strings.TrimSpace(retrospective)
	s.MarkModified()
}

// AddItem plans an activity or meeting into the sprint
func (s *Sprint) AddItem(itemType registry.EntityType, itemID uuid.UUID, storyPoints int) (*SprintItem, error) {
	if itemType != registry.TypeActivity && itemType != registry.TypeMeeting {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Only activities and meetings can be planned in a sprint")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item is required")
	}
	if storyPoints < 0 {
		return nil, shared.NewDomainError("INVALID_STORY_POINTS", "Story points cannot be negative")
	}
	maxOrder := 0
	for _, it := range s.Items {
		if it.ItemID == itemID {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Item is already planned in this sprint")
		}
		if it.ItemOrder > maxOrder {
			maxOrder = it.ItemOrder
		}
	}
	item := SprintItem{
		ID:          uuid.New(),
		ItemType:    itemType,
		ItemID:      itemID,
		StoryPoints: storyPoints,
		ItemOrder:   maxOrder + 1,
	}
	s.Items = append(s.Items, item)
	s.MarkModified()
	return &item, nil
}

// RemoveItem drops an item by its referenced ID
func (s *Sprint) RemoveItem(itemID uuid.UUID) error {
	for i, it := range s.Items {
		if it.ItemID == itemID {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			s.MarkModified()
			return nil
		}
	}
	return shared.NotFound("Sprint item")
}

// Contains reports whether the item is planned in the sprint
func (s *Sprint) Contains(itemID uuid.UUID) bool {
	for _, it := range s.Items {
		if it.ItemID == itemID {
			return true
		}
	}
	return false
}

// IsActive is true while today lies inside the sprint dates
func (s *Sprint) IsActive(now time.Time) bool {
	today := truncateDay(now)
	return !today.Before(s.StartDate) && !today.After(s.EndDate)
}

// IsCompleted is true once the end date has passed
func (s *Sprint) IsCompleted(now time.Time) bool {
	return truncateDay(now).After(s.EndDate)
}

// Progress returns the percentage of activity items that are completed
func (s *Sprint) Progress(completed ItemSet) int {
	total, done := 0, 0
	for _, it := range s.Items {
		if it.ItemType != registry.TypeActivity {
			continue
		}
		total++
		if completed[it.ItemID] {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return done * 100 / total
}

// CalculateVelocity sums the story points of items in a final status and
// stores the result. It reports whether the velocity changed.
func (s *Sprint) CalculateVelocity(finalItems ItemSet) bool {
	velocity := 0
	for _, it := range s.Items {
		if finalItems[it.ItemID] {
			velocity += it.StoryPoints
		}
	}
	if velocity == s.Velocity {
		return false
	}
	old := s.Velocity
	s.Velocity = velocity
	s.MarkModified()
	s.AddDomainEvent(NewSprintVelocityChangedEvent(s, old))
	return true
}

// ItemIDs returns the referenced IDs of one item type
func (s *Sprint) ItemIDs(itemType registry.EntityType) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Items))
	for _, it := range s.Items {
		if it.ItemType == itemType {
			ids = append(ids, it.ItemID)
		}
	}
	return ids
}
