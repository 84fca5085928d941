package workflow

import (
	"context"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkflowService manages workflows and their transitions
type WorkflowService struct {
	workflowRepo workflow.WorkflowRepository
	statusRepo   workflow.StatusRepository
	logger       *zap.Logger
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(workflowRepo workflow.WorkflowRepository, statusRepo workflow.StatusRepository, logger *zap.Logger) *WorkflowService {
	return &WorkflowService{workflowRepo: workflowRepo, statusRepo: statusRepo, logger: logger}
}

// Create creates a workflow. Making it the default clears the flag on the
// previous default of the same entity type.
func (s *WorkflowService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateWorkflowRequest) (*WorkflowResponse, error) {
	if _, err := s.statusRepo.FindByIDForTenant(ctx, tenantID, req.InitialStatusID); err != nil {
		return nil, err
	}
	wf, err := workflow.NewWorkflow(tenantID, req.Name, registry.EntityType(req.EntityType), req.InitialStatusID)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := wf.Rename(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	wf.SetCreatedBy(createdBy)
	wf.SetDefault(req.IsDefault)
	return s.save(ctx, wf)
}

// GetByID retrieves a workflow
func (s *WorkflowService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*WorkflowResponse, error) {
	wf, err := s.workflowRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToWorkflowResponse(wf)
	return &resp, nil
}

// List retrieves workflows with filtering and pagination
func (s *WorkflowService) List(ctx context.Context, tenantID uuid.UUID, filter WorkflowListFilter) ([]WorkflowResponse, int64, error) {
	domainFilter := filter.Query.Filter("name", "asc")
	if filter.EntityType != "" {
		domainFilter.Filters["entity_type"] = filter.EntityType
	}
	workflows, total, err := s.workflowRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]WorkflowResponse, len(workflows))
	for i := range workflows {
		out[i] = ToWorkflowResponse(&workflows[i])
	}
	return out, total, nil
}

// Update renames a workflow and changes its initial status or default flag
func (s *WorkflowService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateWorkflowRequest) (*WorkflowResponse, error) {
	wf, err := s.workflowRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := wf.Rename(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.InitialStatusID != nil {
		if _, err := s.statusRepo.FindByIDForTenant(ctx, tenantID, *req.InitialStatusID); err != nil {
			return nil, err
		}
		if err := wf.SetInitialStatus(*req.InitialStatusID); err != nil {
			return nil, err
		}
	}
	if req.IsDefault != nil {
		wf.SetDefault(*req.IsDefault)
	}
	return s.save(ctx, wf)
}

// Delete removes a workflow
func (s *WorkflowService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.workflowRepo.DeleteForTenant(ctx, tenantID, id)
}

// AddTransition adds an edge between two existing statuses
func (s *WorkflowService) AddTransition(ctx context.Context, tenantID, id uuid.UUID, req TransitionRequest) (*WorkflowResponse, error) {
	wf, err := s.workflowRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	found, err := s.statusRepo.FindByIDs(ctx, tenantID, []uuid.UUID{req.FromStatusID, req.ToStatusID})
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, st := range found {
		known[st.ID] = true
	}
	if !known[req.FromStatusID] || !known[req.ToStatusID] {
		return nil, errUnknownStatus
	}

	roles := make([]identity.Role, len(req.Roles))
	for i, r := range req.Roles {
		roles[i] = identity.Role(r)
	}
	if _, err := wf.AddTransition(req.FromStatusID, req.ToStatusID, roles); err != nil {
		return nil, err
	}
	return s.save(ctx, wf)
}

// RemoveTransition removes an edge
func (s *WorkflowService) RemoveTransition(ctx context.Context, tenantID, id, transitionID uuid.UUID) (*WorkflowResponse, error) {
	wf, err := s.workflowRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := wf.RemoveTransition(transitionID); err != nil {
		return nil, err
	}
	return s.save(ctx, wf)
}

func (s *WorkflowService) save(ctx context.Context, wf *workflow.Workflow) (*WorkflowResponse, error) {
	if err := s.workflowRepo.Save(ctx, wf); err != nil {
		return nil, err
	}
	if wf.IsDefault {
		if err := s.workflowRepo.ClearDefault(ctx, wf.TenantID, wf.EntityType, wf.ID); err != nil {
			return nil, err
		}
		s.logger.Debug("Default workflow changed",
			zap.String("entity_type", string(wf.EntityType)),
			zap.String("workflow_id", wf.ID.String()),
		)
	}
	resp := ToWorkflowResponse(wf)
	return &resp, nil
}
