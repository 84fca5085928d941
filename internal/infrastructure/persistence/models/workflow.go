package models

import (
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// ItemStatusModel is the persistence model for workflow statuses.
type ItemStatusModel struct {
	TenantAggregateModel
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Color       string `gorm:"type:varchar(7);not null;default:'#9E9E9E'"`
	SortOrder   int    `gorm:"not null;default:0"`
	IsInitial   bool   `gorm:"not null;default:false"`
	IsFinal     bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ItemStatusModel) TableName() string {
	return "item_statuses"
}

// ToDomain converts the persistence model to a domain ItemStatus.
func (m *ItemStatusModel) ToDomain() *workflow.ItemStatus {
	s := &workflow.ItemStatus{
		Name:        m.Name,
		Description: m.Description,
		Color:       m.Color,
		SortOrder:   m.SortOrder,
		IsInitial:   m.IsInitial,
		IsFinal:     m.IsFinal,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// ItemStatusModelFromDomain creates a new persistence model from a domain ItemStatus.
func ItemStatusModelFromDomain(s *workflow.ItemStatus) *ItemStatusModel {
	m := &ItemStatusModel{
		Name:        s.Name,
		Description: s.Description,
		Color:       s.Color,
		SortOrder:   s.SortOrder,
		IsInitial:   s.IsInitial,
		IsFinal:     s.IsFinal,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}

// WorkflowModel is the persistence model for the Workflow aggregate.
type WorkflowModel struct {
	TenantAggregateModel
	Name            string              `gorm:"type:varchar(200);not null"`
	Description     string              `gorm:"type:text"`
	EntityType      registry.EntityType `gorm:"type:varchar(50);not null;index"`
	IsDefault       bool                `gorm:"not null;default:false"`
	InitialStatusID uuid.UUID           `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (WorkflowModel) TableName() string {
	return "workflows"
}

// ToDomain converts the persistence model to a domain Workflow. Transitions
// are attached by the repository.
func (m *WorkflowModel) ToDomain(transitions []TransitionModel) *workflow.Workflow {
	w := &workflow.Workflow{
		Name:            m.Name,
		Description:     m.Description,
		EntityType:      m.EntityType,
		IsDefault:       m.IsDefault,
		InitialStatusID: m.InitialStatusID,
		Transitions:     make([]workflow.Transition, len(transitions)),
	}
	m.PopulateTenantAggregateRoot(&w.TenantAggregateRoot)
	for i, t := range transitions {
		w.Transitions[i] = t.ToDomain()
	}
	return w
}

// WorkflowModelFromDomain creates a new persistence model from a domain Workflow.
func WorkflowModelFromDomain(w *workflow.Workflow) *WorkflowModel {
	m := &WorkflowModel{
		Name:            w.Name,
		Description:     w.Description,
		EntityType:      w.EntityType,
		IsDefault:       w.IsDefault,
		InitialStatusID: w.InitialStatusID,
	}
	m.FromDomainTenantAggregateRoot(w.TenantAggregateRoot)
	return m
}

// TransitionModel is one allowed status change of a workflow.
type TransitionModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	WorkflowID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	FromStatusID uuid.UUID       `gorm:"type:uuid;not null"`
	ToStatusID   uuid.UUID       `gorm:"type:uuid;not null"`
	Roles        []identity.Role `gorm:"type:jsonb;serializer:json"`
	Position     int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransitionModel) TableName() string {
	return "workflow_transitions"
}

// ToDomain converts the persistence model to a domain Transition.
func (m *TransitionModel) ToDomain() workflow.Transition {
	return workflow.Transition{
		ID:    m.ID,
		From:  m.FromStatusID,
		To:    m.ToStatusID,
		Roles: m.Roles,
	}
}

// TransitionModelsFromDomain maps transitions keeping their order.
func TransitionModelsFromDomain(w *workflow.Workflow) []TransitionModel {
	out := make([]TransitionModel, len(w.Transitions))
	for i, t := range w.Transitions {
		out[i] = TransitionModel{
			ID:           t.ID,
			WorkflowID:   w.ID,
			FromStatusID: t.From,
			ToStatusID:   t.To,
			Roles:        t.Roles,
			Position:     i,
		}
	}
	return out
}
