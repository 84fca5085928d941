package governance

import (
	"context"

	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/governance"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DecisionService handles decisions and their approvals
type DecisionService struct {
	decisionRepo governance.DecisionRepository
	projects     ActiveProjects
	guard        StatusGuard
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewDecisionService creates a new decision service
func NewDecisionService(
	decisionRepo governance.DecisionRepository,
	projects ActiveProjects,
	guard StatusGuard,
	events shared.EventPublisher,
	logger *zap.Logger,
) *DecisionService {
	return &DecisionService{
		decisionRepo: decisionRepo,
		projects:     projects,
		guard:        guard,
		events:       events,
		logger:       logger,
	}
}

// Create records a decision in an active project
func (s *DecisionService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateDecisionRequest) (*DecisionResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	decision, err := governance.NewDecision(tenantID, req.ProjectID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := applyDecision(decision, req.DecisionFields); err != nil {
		return nil, err
	}
	if err := s.guard.AssignInitial(ctx, tenantID, registry.TypeDecision, decision); err != nil {
		return nil, err
	}
	decision.SetCreatedBy(createdBy)
	return s.save(ctx, decision)
}

// GetByID retrieves a decision with its approvals
func (s *DecisionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DecisionResponse, error) {
	decision, err := s.decisionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDecisionResponse(decision)
	return &resp, nil
}

// List retrieves decisions with filtering and pagination
func (s *DecisionService) List(ctx context.Context, tenantID uuid.UUID, filter DecisionListFilter) ([]DecisionResponse, int64, error) {
	domainFilter := filter.Query.Filter("created_at", "desc")
	setFilter(domainFilter, "project_id", filter.ProjectID)
	setFilter(domainFilter, "status_id", filter.StatusID)

	decisions, total, err := s.decisionRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]DecisionResponse, len(decisions))
	for i := range decisions {
		out[i] = ToDecisionResponse(&decisions[i])
	}
	return out, total, nil
}

// Update changes the details of a decision
func (s *DecisionService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateDecisionRequest) (*DecisionResponse, error) {
	decision, err := s.decisionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.RequireActive(ctx, tenantID, decision.ProjectID); err != nil {
		return nil, err
	}
	if err := applyDecision(decision, req.DecisionFields); err != nil {
		return nil, err
	}
	return s.save(ctx, decision)
}

// ChangeStatus moves a decision along its workflow
func (s *DecisionService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, role identity.Role, req workflowapp.ChangeStatusRequest) (*DecisionResponse, error) {
	decision, err := s.decisionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	status, _, err := s.guard.ValidateChange(ctx, tenantID, registry.TypeDecision, decision, req.StatusID, role)
	if err != nil {
		return nil, err
	}
	decision.ChangeStatus(status.ID)
	return s.save(ctx, decision)
}

// NextStatuses lists the statuses the caller may move the decision to
func (s *DecisionService) NextStatuses(ctx context.Context, tenantID, id uuid.UUID, role identity.Role) ([]workflowapp.StatusOption, error) {
	decision, err := s.decisionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	statuses, err := s.guard.ValidNextStatuses(ctx, tenantID, registry.TypeDecision, decision, role)
	if err != nil {
		return nil, err
	}
	return workflowapp.ToStatusOptions(statuses, decision.StatusID), nil
}

// RequestApproval asks a user to approve the decision
func (s *DecisionService) RequestApproval(ctx context.Context, tenantID, id uuid.UUID, req RequestApprovalRequest) (*DecisionResponse, error) {
	return s.mutate(ctx, tenantID, id, func(d *governance.Decision) error {
		_, err := d.RequestApproval(req.ApproverID)
		return err
	})
}

// Approve records the caller's approval
func (s *DecisionService) Approve(ctx context.Context, tenantID, id, approverID uuid.UUID, req VerdictRequest) (*DecisionResponse, error) {
	return s.mutate(ctx, tenantID, id, func(d *governance.Decision) error {
		return d.Approve(approverID, req.Comment)
	})
}

// Reject records the caller's rejection
func (s *DecisionService) Reject(ctx context.Context, tenantID, id, approverID uuid.UUID, req VerdictRequest) (*DecisionResponse, error) {
	return s.mutate(ctx, tenantID, id, func(d *governance.Decision) error {
		return d.Reject(approverID, req.Comment)
	})
}

// Delete removes a decision
func (s *DecisionService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.decisionRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *DecisionService) mutate(ctx context.Context, tenantID, id uuid.UUID, change func(*governance.Decision) error) (*DecisionResponse, error) {
	decision, err := s.decisionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := change(decision); err != nil {
		return nil, err
	}
	return s.save(ctx, decision)
}

func (s *DecisionService) save(ctx context.Context, decision *governance.Decision) (*DecisionResponse, error) {
	if err := s.decisionRepo.Save(ctx, decision); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, decision); err != nil {
		s.logger.Warn("Failed to publish decision events", zap.String("decision_id", decision.ID.String()), zap.Error(err))
	}
	resp := ToDecisionResponse(decision)
	return &resp, nil
}

func applyDecision(d *governance.Decision, f DecisionFields) error {
	if err := d.Rename(f.Name); err != nil {
		return err
	}
	d.SetDescription(f.Description)
	d.AssignTo(f.AssignedToID)
	cost := d.EstimatedCost
	if f.EstimatedCost != nil {
		cost = *f.EstimatedCost
	}
	return d.SetDetails(cost, f.DecisionDate, f.AccountableID, f.Rationale)
}
