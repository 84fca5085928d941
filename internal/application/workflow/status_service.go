package workflow

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// StatusService manages the company's item statuses
type StatusService struct {
	statusRepo   workflow.StatusRepository
	workflowRepo workflow.WorkflowRepository
}

// NewStatusService creates a new status service
func NewStatusService(statusRepo workflow.StatusRepository, workflowRepo workflow.WorkflowRepository) *StatusService {
	return &StatusService{statusRepo: statusRepo, workflowRepo: workflowRepo}
}

// List returns all statuses by sort order
func (s *StatusService) List(ctx context.Context, tenantID uuid.UUID) ([]StatusResponse, error) {
	statuses, err := s.statusRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToStatusResponses(statuses), nil
}

// GetByID retrieves a status
func (s *StatusService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StatusResponse, error) {
	status, err := s.statusRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToStatusResponse(status)
	return &resp, nil
}

// Create creates a status with a unique name
func (s *StatusService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req StatusRequest) (*StatusResponse, error) {
	if err := s.checkName(ctx, tenantID, req.Name, nil); err != nil {
		return nil, err
	}
	status, err := workflow.NewItemStatus(tenantID, req.Name, req.Color, req.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := status.Update(req.Name, req.Description, req.Color, req.SortOrder); err != nil {
		return nil, err
	}
	if err := status.SetFlags(req.IsInitial, req.IsFinal); err != nil {
		return nil, err
	}
	status.SetCreatedBy(createdBy)

	if err := s.statusRepo.Save(ctx, status); err != nil {
		return nil, err
	}
	resp := ToStatusResponse(status)
	return &resp, nil
}

// Update changes a status
func (s *StatusService) Update(ctx context.Context, tenantID, id uuid.UUID, req StatusRequest) (*StatusResponse, error) {
	status, err := s.statusRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, tenantID, req.Name, &id); err != nil {
		return nil, err
	}
	if err := status.Update(req.Name, req.Description, req.Color, req.SortOrder); err != nil {
		return nil, err
	}
	if err := status.SetFlags(req.IsInitial, req.IsFinal); err != nil {
		return nil, err
	}
	if err := s.statusRepo.Save(ctx, status); err != nil {
		return nil, err
	}
	resp := ToStatusResponse(status)
	return &resp, nil
}

// Delete removes a status no workflow references
func (s *StatusService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	inUse, err := s.workflowRepo.IsStatusInUse(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewDomainError("STATUS_IN_USE", "Status is referenced by a workflow")
	}
	return s.statusRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *StatusService) checkName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.statusRepo.ExistsByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Status with this name already exists")
	}
	return nil
}
