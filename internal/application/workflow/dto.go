package workflow

import (
	"time"

	"github.com/derbent/backend/internal/application/listing"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// StatusRequest creates or updates a status
type StatusRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	SortOrder   int    `json:"sort_order" binding:"min=0"`
	IsInitial   bool   `json:"is_initial"`
	IsFinal     bool   `json:"is_final"`
}

// StatusResponse represents a status in API responses
type StatusResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	SortOrder   int       `json:"sort_order"`
	IsInitial   bool      `json:"is_initial"`
	IsFinal     bool      `json:"is_final"`
	Version     int       `json:"version"`
}

// ToStatusResponse converts a domain ItemStatus to StatusResponse
func ToStatusResponse(s *workflow.ItemStatus) StatusResponse {
	return StatusResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Color:       s.Color,
		SortOrder:   s.SortOrder,
		IsInitial:   s.IsInitial,
		IsFinal:     s.IsFinal,
		Version:     s.Version,
	}
}

// ToStatusResponses converts a slice of statuses
func ToStatusResponses(statuses []workflow.ItemStatus) []StatusResponse {
	out := make([]StatusResponse, len(statuses))
	for i := range statuses {
		out[i] = ToStatusResponse(&statuses[i])
	}
	return out
}

// CreateWorkflowRequest represents a request to create a workflow
type CreateWorkflowRequest struct {
	Name            string    `json:"name" binding:"required,min=1,max=200"`
	Description     string    `json:"description" binding:"max=1000"`
	EntityType      string    `json:"entity_type" binding:"required"`
	InitialStatusID uuid.UUID `json:"initial_status_id" binding:"required"`
	IsDefault       bool      `json:"is_default"`
}

// UpdateWorkflowRequest represents a request to update a workflow
type UpdateWorkflowRequest struct {
	Name            string     `json:"name" binding:"required,min=1,max=200"`
	Description     string     `json:"description" binding:"max=1000"`
	InitialStatusID *uuid.UUID `json:"initial_status_id"`
	IsDefault       *bool      `json:"is_default"`
}

// TransitionRequest adds a transition to a workflow
type TransitionRequest struct {
	FromStatusID uuid.UUID `json:"from_status_id" binding:"required"`
	ToStatusID   uuid.UUID `json:"to_status_id" binding:"required"`
	Roles        []string  `json:"roles" binding:"dive,oneof=admin manager member viewer"`
}

// WorkflowListFilter represents filter options for the workflow list
type WorkflowListFilter struct {
	listing.Query
	EntityType string `form:"entity_type"`
}

// TransitionResponse represents a transition in API responses
type TransitionResponse struct {
	ID           uuid.UUID `json:"id"`
	FromStatusID uuid.UUID `json:"from_status_id"`
	ToStatusID   uuid.UUID `json:"to_status_id"`
	Roles        []string  `json:"roles"`
}

// WorkflowResponse represents a workflow in API responses
type WorkflowResponse struct {
	ID              uuid.UUID            `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	EntityType      string               `json:"entity_type"`
	IsDefault       bool                 `json:"is_default"`
	InitialStatusID uuid.UUID            `json:"initial_status_id"`
	Transitions     []TransitionResponse `json:"transitions"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Version         int                  `json:"version"`
}

// ToWorkflowResponse converts a domain Workflow to WorkflowResponse
func ToWorkflowResponse(w *workflow.Workflow) WorkflowResponse {
	transitions := make([]TransitionResponse, len(w.Transitions))
	for i, t := range w.Transitions {
		roles := make([]string, len(t.Roles))
		for j, r := range t.Roles {
			roles[j] = string(r)
		}
		transitions[i] = TransitionResponse{ID: t.ID, FromStatusID: t.From, ToStatusID: t.To, Roles: roles}
	}
	return WorkflowResponse{
		ID:              w.ID,
		Name:            w.Name,
		Description:     w.Description,
		EntityType:      string(w.EntityType),
		IsDefault:       w.IsDefault,
		InitialStatusID: w.InitialStatusID,
		Transitions:     transitions,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
		Version:         w.Version,
	}
}

// StatusOption is a status an item may move to
type StatusOption struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Color   string    `json:"color"`
	IsFinal bool      `json:"is_final"`
	Current bool      `json:"current"`
}

// ChangeStatusRequest moves an item to another status
type ChangeStatusRequest struct {
	StatusID uuid.UUID `json:"status_id" binding:"required"`
}

// ToStatusOptions marks the current status among the allowed ones
func ToStatusOptions(statuses []workflow.ItemStatus, current *uuid.UUID) []StatusOption {
	out := make([]StatusOption, len(statuses))
	for i, s := range statuses {
		out[i] = StatusOption{
			ID:      s.ID,
			Name:    s.Name,
			Color:   s.Color,
			IsFinal: s.IsFinal,
			Current: current != nil && *current == s.ID,
		}
	}
	return out
}
