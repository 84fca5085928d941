// Package governance records project risks and decisions.
package governance

import (
	"context"

	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/governance"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActiveProjects loads a project and rejects archived ones
type ActiveProjects interface {
	RequireActive(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error)
}

// StatusGuard assigns and validates workflow statuses
type StatusGuard interface {
	AssignInitial(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item workflowapp.StatusBinder) error
	ValidateChange(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware, to uuid.UUID, role identity.Role) (*workflow.ItemStatus, *workflow.Workflow, error)
	ValidNextStatuses(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware, role identity.Role) ([]workflow.ItemStatus, error)
}

// RiskService handles the risk register
type RiskService struct {
	riskRepo governance.RiskRepository
	projects ActiveProjects
	guard    StatusGuard
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewRiskService creates a new risk service
func NewRiskService(
	riskRepo governance.RiskRepository,
	projects ActiveProjects,
	guard StatusGuard,
	events shared.EventPublisher,
	logger *zap.Logger,
) *RiskService {
	return &RiskService{
		riskRepo: riskRepo,
		projects: projects,
		guard:    guard,
		events:   events,
		logger:   logger,
	}
}

// Create records a risk in an active project
func (s *RiskService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateRiskRequest) (*RiskResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	risk, err := governance.NewRisk(tenantID, req.ProjectID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := applyRisk(risk, req.RiskFields); err != nil {
		return nil, err
	}
	if err := s.guard.AssignInitial(ctx, tenantID, registry.TypeRisk, risk); err != nil {
		return nil, err
	}
	risk.SetCreatedBy(createdBy)
	return s.save(ctx, risk)
}

// GetByID retrieves a risk
func (s *RiskService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RiskResponse, error) {
	risk, err := s.riskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRiskResponse(risk)
	return &resp, nil
}

// List retrieves risks with filtering and pagination
func (s *RiskService) List(ctx context.Context, tenantID uuid.UUID, filter RiskListFilter) ([]RiskResponse, int64, error) {
	domainFilter := filter.Query.Filter("created_at", "desc")
	setFilter(domainFilter, "project_id", filter.ProjectID)
	setFilter(domainFilter, "status_id", filter.StatusID)
	setFilter(domainFilter, "severity", filter.Severity)

	risks, total, err := s.riskRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]RiskResponse, len(risks))
	for i := range risks {
		out[i] = ToRiskResponse(&risks[i])
	}
	return out, total, nil
}

// Update changes the assessment and response of a risk
func (s *RiskService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRiskRequest) (*RiskResponse, error) {
	risk, err := s.riskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.RequireActive(ctx, tenantID, risk.ProjectID); err != nil {
		return nil, err
	}
	if err := applyRisk(risk, req.RiskFields); err != nil {
		return nil, err
	}
	return s.save(ctx, risk)
}

// ChangeStatus moves a risk along its workflow
func (s *RiskService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, role identity.Role, req workflowapp.ChangeStatusRequest) (*RiskResponse, error) {
	risk, err := s.riskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	status, _, err := s.guard.ValidateChange(ctx, tenantID, registry.TypeRisk, risk, req.StatusID, role)
	if err != nil {
		return nil, err
	}
	risk.ChangeStatus(status.ID)
	return s.save(ctx, risk)
}

// NextStatuses lists the statuses the caller may move the risk to
func (s *RiskService) NextStatuses(ctx context.Context, tenantID, id uuid.UUID, role identity.Role) ([]workflowapp.StatusOption, error) {
	risk, err := s.riskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	statuses, err := s.guard.ValidNextStatuses(ctx, tenantID, registry.TypeRisk, risk, role)
	if err != nil {
		return nil, err
	}
	return workflowapp.ToStatusOptions(statuses, risk.StatusID), nil
}

// Delete removes a risk
func (s *RiskService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.riskRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *RiskService) save(ctx context.Context, risk *governance.Risk) (*RiskResponse, error) {
	if err := s.riskRepo.Save(ctx, risk); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, risk); err != nil {
		s.logger.Warn("Failed to publish risk events", zap.String("risk_id", risk.ID.String()), zap.Error(err))
	}
	resp := ToRiskResponse(risk)
	return &resp, nil
}

func applyRisk(r *governance.Risk, f RiskFields) error {
	if err := r.Rename(f.Name); err != nil {
		return err
	}
	r.SetDescription(f.Description)
	r.AssignTo(f.AssignedToID)

	severity, probability, impact := r.Severity, r.Probability, r.Impact
	if f.Severity != "" {
		severity = governance.Severity(f.Severity)
	}
	if f.Probability != 0 {
		probability = f.Probability
	}
	if f.Impact != 0 {
		impact = f.Impact
	}
	if err := r.Assess(severity, probability, impact); err != nil {
		return err
	}
	if err := r.SetResponse(f.Mitigation, f.Contingency); err != nil {
		return err
	}
	if f.IdentifiedDate != nil {
		r.SetIdentifiedDate(f.IdentifiedDate)
	}
	return nil
}

func setFilter(f shared.Filter, key, value string) {
	if value != "" {
		f.Filters[key] = value
	}
}
