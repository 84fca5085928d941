package models

import (
	"time"

	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActivityModel is the persistence model for the Activity aggregate.
type ActivityModel struct {
	ProjectItemModel
	ParentID           *uuid.UUID        `gorm:"type:uuid;index"`
	Priority           planning.Priority `gorm:"type:varchar(20);not null;default:'medium'"`
	StartDate          *time.Time        `gorm:"type:date"`
	DueDate            *time.Time        `gorm:"type:date;index"`
	CompletionDate     *time.Time        `gorm:"type:date"`
	EstimatedHours     decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	ActualHours        decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	RemainingHours     decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	EstimatedCost      decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	ActualCost         decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	HourlyRate         decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Progress           int               `gorm:"not null;default:0"`
	StoryPoints        int               `gorm:"not null;default:0"`
	AcceptanceCriteria string            `gorm:"type:text"`
	Notes              string            `gorm:"type:text"`
	Results            string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the persistence model to a domain Activity.
func (m *ActivityModel) ToDomain() *planning.Activity {
	return &planning.Activity{
		ProjectItem:        m.ToDomainProjectItem(),
		ParentID:           m.ParentID,
		Priority:           m.Priority,
		StartDate:          m.StartDate,
		DueDate:            m.DueDate,
		CompletionDate:     m.CompletionDate,
		EstimatedHours:     m.EstimatedHours,
		ActualHours:        m.ActualHours,
		RemainingHours:     m.RemainingHours,
		EstimatedCost:      m.EstimatedCost,
		ActualCost:         m.ActualCost,
		HourlyRate:         m.HourlyRate,
		Progress:           m.Progress,
		StoryPoints:        m.StoryPoints,
		AcceptanceCriteria: m.AcceptanceCriteria,
		Notes:              m.Notes,
		Results:            m.Results,
	}
}

// ActivityModelFromDomain creates a new persistence model from a domain Activity.
func ActivityModelFromDomain(a *planning.Activity) *ActivityModel {
	m := &ActivityModel{
		ParentID:           a.ParentID,
		Priority:           a.Priority,
		StartDate:          a.StartDate,
		DueDate:            a.DueDate,
		CompletionDate:     a.CompletionDate,
		EstimatedHours:     a.EstimatedHours,
		ActualHours:        a.ActualHours,
		RemainingHours:     a.RemainingHours,
		EstimatedCost:      a.EstimatedCost,
		ActualCost:         a.ActualCost,
		HourlyRate:         a.HourlyRate,
		Progress:           a.Progress,
		StoryPoints:        a.StoryPoints,
		AcceptanceCriteria: a.AcceptanceCriteria,
		Notes:              a.Notes,
		Results:            a.Results,
	}
	m.FromDomainProjectItem(a.ProjectItem)
	return m
}

// MeetingModel is the persistence model for the Meeting aggregate.
type MeetingModel struct {
	ProjectItemModel
	StartAt           *time.Time `gorm:"index"`
	EndAt             *time.Time
	Location          string      `gorm:"type:varchar(500)"`
	Agenda            string      `gorm:"type:text"`
	Minutes           string      `gorm:"type:text"`
	AttendeeIDs       []uuid.UUID `gorm:"type:jsonb;serializer:json"`
	RelatedActivityID *uuid.UUID  `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (MeetingModel) TableName() string {
	return "meetings"
}

// ToDomain converts the persistence model to a domain Meeting.
func (m *MeetingModel) ToDomain() *planning.Meeting {
	attendees := m.AttendeeIDs
	if attendees == nil {
		attendees = make([]uuid.UUID, 0)
	}
	return &planning.Meeting{
		ProjectItem:       m.ToDomainProjectItem(),
		StartAt:           m.StartAt,
		EndAt:             m.EndAt,
		Location:          m.Location,
		Agenda:            m.Agenda,
		Minutes:           m.Minutes,
		AttendeeIDs:       attendees,
		RelatedActivityID: m.RelatedActivityID,
	}
}

// MeetingModelFromDomain creates a new persistence model from a domain Meeting.
func MeetingModelFromDomain(mt *planning.Meeting) *MeetingModel {
	m := &MeetingModel{
		StartAt:           mt.StartAt,
		EndAt:             mt.EndAt,
		Location:          mt.Location,
		Agenda:            mt.Agenda,
		Minutes:           mt.Minutes,
		AttendeeIDs:       mt.AttendeeIDs,
		RelatedActivityID: mt.RelatedActivityID,
	}
	m.FromDomainProjectItem(mt.ProjectItem)
	return m
}

// SprintModel is the persistence model for the Sprint aggregate.
type SprintModel struct {
	TenantAggregateModel
	ProjectID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name               string    `gorm:"type:varchar(200);not null"`
	Goal               string    `gorm:"type:text"`
	StartDate          time.Time `gorm:"type:date;not null"`
	EndDate            time.Time `gorm:"type:date;not null"`
	DefinitionOfDone   string    `gorm:"type:text"`
	RetrospectiveNotes string    `gorm:"type:text"`
	Velocity           int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SprintModel) TableName() string {
	return "sprints"
}

// ToDomain converts the persistence model to a domain Sprint with its items.
func (m *SprintModel) ToDomain(items []SprintItemModel) *planning.Sprint {
	s := &planning.Sprint{
		ProjectID:          m.ProjectID,
		Name:               m.Name,
		Goal:               m.Goal,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		DefinitionOfDone:   m.DefinitionOfDone,
		RetrospectiveNotes: m.RetrospectiveNotes,
		Velocity:           m.Velocity,
		Items:              make([]planning.SprintItem, len(items)),
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	for i, it := range items {
		s.Items[i] = planning.SprintItem{
			ID:          it.ID,
			ItemType:    it.ItemType,
			ItemID:      it.ItemID,
			StoryPoints: it.StoryPoints,
			ItemOrder:   it.ItemOrder,
		}
	}
	return s
}

// SprintModelFromDomain creates a new persistence model from a domain Sprint.
func SprintModelFromDomain(s *planning.Sprint) *SprintModel {
	m := &SprintModel{
		ProjectID:          s.ProjectID,
		Name:               s.Name,
		Goal:               s.Goal,
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		DefinitionOfDone:   s.DefinitionOfDone,
		RetrospectiveNotes: s.RetrospectiveNotes,
		Velocity:           s.Velocity,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}

// SprintItemModel links an activity or meeting to a sprint.
type SprintItemModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key"`
	SprintID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	ItemType    registry.EntityType `gorm:"type:varchar(50);not null"`
	ItemID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	StoryPoints int                 `gorm:"not null;default:0"`
	ItemOrder   int                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SprintItemModel) TableName() string {
	return "sprint_items"
}

// SprintItemModelsFromDomain maps the sprint's items.
func SprintItemModelsFromDomain(s *planning.Sprint) []SprintItemModel {
	out := make([]SprintItemModel, len(s.Items))
	for i, it := range s.Items {
		out[i] = SprintItemModel{
			ID:          it.ID,
			SprintID:    s.ID,
			ItemType:    it.ItemType,
			ItemID:      it.ItemID,
			StoryPoints: it.StoryPoints,
			ItemOrder:   it.ItemOrder,
		}
	}
	return out
}
