package governance

import (
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeRisk     = "Risk"
	AggregateTypeDecision = "Decision"
)

// Event type constants
const (
	EventTypeRiskCreated             = "RiskCreated"
	EventTypeDecisionCreated         = "DecisionCreated"
	EventTypeDecisionApprovalDecided = "DecisionApprovalDecided"
)

// RiskCreatedEvent is published when a risk is identified
type RiskCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
}

// NewRiskCreatedEvent creates a new RiskCreatedEvent
func NewRiskCreatedEvent(r *Risk) *RiskCreatedEvent {
	return &RiskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRiskCreated, AggregateTypeRisk, r.ID, r.TenantID),
		ProjectID:       r.ProjectID,
		Name:            r.Name,
	}
}

// DecisionCreatedEvent is published when a decision is recorded
type DecisionCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
}

// NewDecisionCreatedEvent creates a new DecisionCreatedEvent
func NewDecisionCreatedEvent(d *Decision) *DecisionCreatedEvent {
	return &DecisionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDecisionCreated, AggregateTypeDecision, d.ID, d.TenantID),
		ProjectID:       d.ProjectID,
		Name:            d.Name,
	}
}

// DecisionApprovalDecidedEvent is published when an approver decides
type DecisionApprovalDecidedEvent struct {
	shared.BaseDomainEvent
	ApproverID uuid.UUID     `json:"approver_id"`
	State      ApprovalState `json:"state"`
	Approved   bool          `json:"approved"`
}

// NewDecisionApprovalDecidedEvent creates a new DecisionApprovalDecidedEvent
func NewDecisionApprovalDecidedEvent(d *Decision, a Approval) *DecisionApprovalDecidedEvent {
	return &DecisionApprovalDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDecisionApprovalDecided, AggregateTypeDecision, d.ID, d.TenantID),
		ApproverID:      a.ApproverID,
		State:           a.State,
		Approved:        d.IsApproved(),
	}
}
