package planning

import (
	"sort"
	"time"

	"github.com/derbent/backend/internal/domain/registry"
	"github.com/google/uuid"
)

// TimelineItem is one row of the Gantt chart
type TimelineItem struct {
	EntityType registry.EntityType `json:"entity_type"`
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	Start      *time.Time          `json:"start,omitempty"`
	End        *time.Time          `json:"end,omitempty"`
	StatusID   *uuid.UUID          `json:"status_id,omitempty"`
	Status     string              `json:"status,omitempty"`
	Progress   int                 `json:"progress"`
	ParentID   *uuid.UUID          `json:"parent_id,omitempty"`
	Level      int                 `json:"level"`
}

// HasDates reports whether the item can be drawn on a timeline
func (t TimelineItem) HasDates() bool {
	return t.Start != nil
}

// Intersects reports whether the item overlaps the inclusive day range
func (t TimelineItem) Intersects(start, end time.Time) bool {
	if t.Start == nil {
		return false
	}
	itemEnd := *t.Start
	if t.End != nil {
		itemEnd = *t.End
	}
	return !t.Start.After(end) && !itemEnd.Before(start)
}

// BuildTimeline merges activities and meetings into one list sorted by
// start date. Items without a start date go last; ties break by name,
// then by ID. statusNames maps status IDs to display names.
func BuildTimeline(activities []Activity, meetings []Meeting, statusNames map[uuid.UUID]string) []TimelineItem {
	parents := make(map[uuid.UUID]*uuid.UUID, len(activities))
	for i := range activities {
		parents[activities[i].ID] = activities[i].ParentID
	}

	items := make([]TimelineItem, 0, len(activities)+len(meetings))
	for i := range activities {
		a := &activities[i]
		start := a.StartDate
		if start == nil {
			start = a.DueDate
		}
		end := a.DueDate
		if end == nil {
			end = a.CompletionDate
		}
		if end == nil {
			end = start
		}
		items = append(items, TimelineItem{
			EntityType: registry.TypeActivity,
			ID:         a.ID,
			Name:       a.Name,
			Start:      dayPtr(start),
			End:        dayPtr(end),
			StatusID:   a.StatusID,
			Status:     statusName(statusNames, a.StatusID),
			Progress:   a.Progress,
			ParentID:   a.ParentID,
			Level:      depthOf(a.ID, parents),
		})
	}
	for i := range meetings {
		m := &meetings[i]
		end := m.EndAt
		if end == nil {
			end = m.StartAt
		}
		items = append(items, TimelineItem{
			EntityType: registry.TypeMeeting,
			ID:         m.ID,
			Name:       m.Name,
			Start:      dayPtr(m.StartAt),
			End:        dayPtr(end),
			StatusID:   m.StatusID,
			Status:     statusName(statusNames, m.StatusID),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return timelineLess(items[i], items[j])
	})
	return items
}

func timelineLess(a, b TimelineItem) bool {
	switch {
	case a.Start == nil && b.Start != nil:
		return false
	case a.Start != nil && b.Start == nil:
		return true
	case a.Start != nil && b.Start != nil && !a.Start.Equal(*b.Start):
		return a.Start.Before(*b.Start)
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID.String() < b.ID.String()
}

// depthOf counts ancestors present in the parent map.
// Parents outside the list end the walk.
func depthOf(id uuid.UUID, parents map[uuid.UUID]*uuid.UUID) int {
	level := 0
	seen := map[uuid.UUID]bool{id: true}
	current := parents[id]
	for current != nil {
		if seen[*current] {
			break
		}
		if _, ok := parents[*current]; !ok {
			break
		}
		seen[*current] = true
		level++
		current = parents[*current]
	}
	return level
}

// TimelineRange returns the full span of the dated items: earliest start to
// latest end. With no dated items it is today ±7 days.
func TimelineRange(items []TimelineItem, now time.Time) (time.Time, time.Time) {
	var start, end time.Time
	found := false
	for _, it := range items {
		if it.Start == nil {
			continue
		}
		itemEnd := *it.Start
		if it.End != nil && it.End.After(itemEnd) {
			itemEnd = *it.End
		}
		if !found || it.Start.Before(start) {
			start = *it.Start
		}
		if !found || itemEnd.After(end) {
			end = itemEnd
		}
		found = true
	}
	if !found {
		today := truncateDay(now)
		return today.AddDate(0, 0, -MinWindowDays), today.AddDate(0, 0, MinWindowDays)
	}
	return start, end
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := truncateDay(*t)
	return &d
}

func statusName(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return names[*id]
}
