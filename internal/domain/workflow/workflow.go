package workflow

import (
	"strings"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Transition allows moving from one status to another.
// Empty Roles means every role may use it.
type Transition struct {
	ID    uuid.UUID
	From  uuid.UUID
	To    uuid.UUID
	Roles []identity.Role
}

// Allows reports whether role may use the transition
func (t Transition) Allows(role identity.Role) bool {
	if len(t.Roles) == 0 {
		return true
	}
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Workflow is the status graph of one entity type
type Workflow struct {
	shared.TenantAggregateRoot
	Name            string
	Description     string
	EntityType      registry.EntityType
	IsDefault       bool
	InitialStatusID uuid.UUID
	Transitions     []Transition
}

// NewWorkflow creates a workflow for a status-aware entity type
func NewWorkflow(tenantID uuid.UUID, name string, entityType registry.EntityType, initialStatusID uuid.UUID) (*Workflow, error) {
	if err := registry.RequireStatusAware(entityType); err != nil {
		return nil, err
	}
	if initialStatusID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INITIAL_STATUS", "Initial status is required")
	}
	w := &Workflow{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntityType:          entityType,
		InitialStatusID:     initialStatusID,
		Transitions:         make([]Transition, 0),
	}
	if err := w.Rename(name, ""); err != nil {
		return nil, err
	}
	return w, nil
}

// Rename changes name and description
func (w *Workflow) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Workflow name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Workflow name cannot exceed 200 characters")
	}
	w.Name = name
	w.Description = strings.TrimSpace(description)
	w.MarkModified()
	return nil
}

// SetInitialStatus changes the status assigned to new items
func (w *Workflow) SetInitialStatus(statusID uuid.UUID) error {
	if statusID == uuid.Nil {
		return shared.NewDomainError("INVALID_INITIAL_STATUS", "Initial status is required")
	}
	w.InitialStatusID = statusID
	w.MarkModified()
	return nil
}

// SetDefault flags the workflow as default for its entity type.
// Clearing the flag on the previous default is the caller's job.
func (w *Workflow) SetDefault(isDefault bool) {
	w.IsDefault = isDefault
	w.MarkModified()
}

// AddTransition adds an edge to the status graph
func (w *Workflow) AddTransition(from, to uuid.UUID, roles []identity.Role) (*Transition, error) {
	if from == uuid.Nil || to == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Transition statuses are required")
	}
	if from == to {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "From and to status must differ")
	}
	for _, t := range w.Transitions {
		if t.From == from && t.To == to {
			return nil, shared.NewDomainError("DUPLICATE_TRANSITION", "Transition already exists")
		}
	}
	for _, r := range roles {
		if !r.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role '"+string(r)+"'")
		}
	}
	t := Transition{ID: uuid.New(), From: from, To: to, Roles: append([]identity.Role(nil), roles...)}
	w.Transitions = append(w.Transitions, t)
	w.MarkModified()
	return &t, nil
}

// RemoveTransition removes an edge by ID
func (w *Workflow) RemoveTransition(id uuid.UUID) error {
	for i, t := range w.Transitions {
		if t.ID == id {
			w.Transitions = append(w.Transitions[:i], w.Transitions[i+1:]...)
			w.MarkModified()
			return nil
		}
	}
	return shared.NotFound("Transition")
}

// ValidNextStatuses lists the statuses an item may move to.
// Without a current status only the initial status is valid; otherwise the
// current status comes first, followed by the allowed targets in
// transition order.
func (w *Workflow) ValidNextStatuses(current *uuid.UUID, role identity.Role) []uuid.UUID {
	if current == nil {
		return []uuid.UUID{w.InitialStatusID}
	}
	result := []uuid.UUID{*current}
	seen := map[uuid.UUID]bool{*current: true}
	for _, t := range w.Transitions {
		if t.From != *current || seen[t.To] || !t.Allows(role) {
			continue
		}
		seen[t.To] = true
		result = append(result, t.To)
	}
	return result
}

// CanTransition reports whether role may move an item from one status to another
func (w *Workflow) CanTransition(from *uuid.UUID, to uuid.UUID, role identity.Role) bool {
	for _, id := range w.ValidNextStatuses(from, role) {
		if id == to {
			return true
		}
	}
	return false
}

// ReferencesStatus reports whether the status is used by this workflow
func (w *Workflow) ReferencesStatus(statusID uuid.UUID) bool {
	if w.InitialStatusID == statusID {
		return true
	}
	for _, t := range w.Transitions {
		if t.From == statusID || t.To == statusID {
			return true
		}
	}
	return false
}
