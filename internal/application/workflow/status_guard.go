// Package workflow manages statuses and workflows, and guards the status
// changes of project items.
package workflow

import (
	"context"
	"errors"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

var (
	ErrWorkflowNotFound  = shared.NewDomainError("WORKFLOW_NOT_FOUND", "No workflow is configured for this entity type")
	ErrInvalidTransition = shared.NewDomainError("INVALID_TRANSITION", "Status change is not allowed by the workflow")

	errUnknownStatus = shared.NewDomainError("INVALID_STATUS", "Status does not exist")
)

// StatusBinder is a project item that can be attached to a workflow
type StatusBinder interface {
	BindWorkflow(workflowID, initialStatusID uuid.UUID)
}

// StatusGuard resolves workflows for status-aware items and validates
// their status changes
type StatusGuard struct {
	workflows workflow.WorkflowRepository
	statuses  workflow.StatusRepository
}

// NewStatusGuard creates a status guard
func NewStatusGuard(workflows workflow.WorkflowRepository, statuses workflow.StatusRepository) *StatusGuard {
	return &StatusGuard{workflows: workflows, statuses: statuses}
}

// AssignInitial binds a new item to the default workflow of its type and
// gives it the initial status. Items of a type without a default workflow
// are left without status.
func (g *StatusGuard) AssignInitial(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item StatusBinder) error {
	wf, err := g.workflows.FindDefault(ctx, tenantID, entityType)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	item.BindWorkflow(wf.ID, wf.InitialStatusID)
	return nil
}

// Resolve returns the workflow bound to the item, or the default of the
// entity type when none is bound
func (g *StatusGuard) Resolve(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware) (*workflow.Workflow, error) {
	var (
		wf  *workflow.Workflow
		err error
	)
	if id := item.CurrentWorkflow(); id != nil {
		wf, err = g.workflows.FindByIDForTenant(ctx, tenantID, *id)
	} else {
		wf, err = g.workflows.FindDefault(ctx, tenantID, entityType)
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrWorkflowNotFound
	}
	return wf, err
}

// ValidateChange checks that role may move the item to the target status
// and returns that status
func (g *StatusGuard) ValidateChange(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware, to uuid.UUID, role identity.Role) (*workflow.ItemStatus, *workflow.Workflow, error) {
	wf, err := g.Resolve(ctx, tenantID, entityType, item)
	if err != nil {
		return nil, nil, err
	}
	if !wf.CanTransition(item.CurrentStatus(), to, role) {
		return nil, nil, ErrInvalidTransition
	}
	status, err := g.statuses.FindByIDForTenant(ctx, tenantID, to)
	if err != nil {
		return nil, nil, err
	}
	return status, wf, nil
}

// ValidNextStatuses lists the statuses the item may move to, current first
func (g *StatusGuard) ValidNextStatuses(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware, role identity.Role) ([]workflow.ItemStatus, error) {
	wf, err := g.Resolve(ctx, tenantID, entityType, item)
	if err != nil {
		return nil, err
	}
	ids := wf.ValidNextStatuses(item.CurrentStatus(), role)
	found, err := g.statuses.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]workflow.ItemStatus, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	out := make([]workflow.ItemStatus, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// FinalStatuses returns the set of final status IDs of the company
func (g *StatusGuard) FinalStatuses(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]bool, error) {
	all, err := g.statuses.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	final := make(map[uuid.UUID]bool)
	for _, s := range all {
		if s.IsFinal {
			final[s.ID] = true
		}
	}
	return final, nil
}

// StatusNames maps status IDs to names for display
func (g *StatusGuard) StatusNames(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]string, error) {
	all, err := g.statuses.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(all))
	for _, s := range all {
		names[s.ID] = s.Name
	}
	return names, nil
}
