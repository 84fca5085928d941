package governance

import (
	"time"

	"github.com/derbent/backend/internal/application/listing"
	"github.com/derbent/backend/internal/domain/governance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RiskFields are the editable fields of a risk
type RiskFields struct {
	Name           string     `json:"name" binding:"required,min=1,max=200"`
	Description    string     `json:"description" binding:"max=4000"`
	AssignedToID   *uuid.UUID `json:"assigned_to_id"`
	Severity       string     `json:"severity" binding:"omitempty,oneof=low medium high critical"`
	Probability    int        `json:"probability" binding:"omitempty,min=1,max=5"`
	Impact         int        `json:"impact" binding:"omitempty,min=1,max=5"`
	Mitigation     string     `json:"mitigation" binding:"max=4000"`
	Contingency    string     `json:"contingency" binding:"max=4000"`
	IdentifiedDate *time.Time `json:"identified_date"`
}

// CreateRiskRequest represents a request to record a risk
type CreateRiskRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	RiskFields
}

// UpdateRiskRequest represents a request to update a risk
type UpdateRiskRequest struct {
	RiskFields
}

// RiskListFilter represents filter options for the risk list
type RiskListFilter struct {
	listing.Query
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	StatusID  string `form:"status_id" binding:"omitempty,uuid"`
	Severity  string `form:"severity" binding:"omitempty,oneof=low medium high critical"`
}

// RiskResponse represents a risk in API responses
type RiskResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProjectID      uuid.UUID  `json:"project_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	AssignedToID   *uuid.UUID `json:"assigned_to_id,omitempty"`
	StatusID       *uuid.UUID `json:"status_id,omitempty"`
	WorkflowID     *uuid.UUID `json:"workflow_id,omitempty"`
	Severity       string     `json:"severity"`
	Probability    int        `json:"probability"`
	Impact         int        `json:"impact"`
	Score          int        `json:"score"`
	Mitigation     string     `json:"mitigation"`
	Contingency    string     `json:"contingency"`
	IdentifiedDate *time.Time `json:"identified_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// ToRiskResponse converts a domain Risk to RiskResponse
func ToRiskResponse(r *governance.Risk) RiskResponse {
	return RiskResponse{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		Name:           r.Name,
		Description:    r.Description,
		AssignedToID:   r.AssignedToID,
		StatusID:       r.StatusID,
		WorkflowID:     r.WorkflowID,
		Severity:       string(r.Severity),
		Probability:    r.Probability,
		Impact:         r.Impact,
		Score:          r.Score(),
		Mitigation:     r.Mitigation,
		Contingency:    r.Contingency,
		IdentifiedDate: r.IdentifiedDate,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Version:        r.Version,
	}
}

// DecisionFields are the editable fields of a decision
type DecisionFields struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=4000"`
	AssignedToID  *uuid.UUID       `json:"assigned_to_id"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	DecisionDate  *time.Time       `json:"decision_date"`
	AccountableID *uuid.UUID       `json:"accountable_id"`
	Rationale     string           `json:"rationale" binding:"max=4000"`
}

// CreateDecisionRequest represents a request to record a decision
type CreateDecisionRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	DecisionFields
}

// UpdateDecisionRequest represents a request to update a decision
type UpdateDecisionRequest struct {
	DecisionFields
}

// DecisionListFilter represents filter options for the decision list
type DecisionListFilter struct {
	listing.Query
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	StatusID  string `form:"status_id" binding:"omitempty,uuid"`
}

// RequestApprovalRequest asks a user to approve a decision
type RequestApprovalRequest struct {
	ApproverID uuid.UUID `json:"approver_id" binding:"required"`
}

// VerdictRequest carries an approver's comment
type VerdictRequest struct {
	Comment string `json:"comment" binding:"max=2000"`
}

// ApprovalResponse represents an approval in API responses
type ApprovalResponse struct {
	ID         uuid.UUID  `json:"id"`
	ApproverID uuid.UUID  `json:"approver_id"`
	State      string     `json:"state"`
	Comment    string     `json:"comment"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

// DecisionResponse represents a decision in API responses
type DecisionResponse struct {
	ID            uuid.UUID          `json:"id"`
	ProjectID     uuid.UUID          `json:"project_id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	AssignedToID  *uuid.UUID         `json:"assigned_to_id,omitempty"`
	StatusID      *uuid.UUID         `json:"status_id,omitempty"`
	WorkflowID    *uuid.UUID         `json:"workflow_id,omitempty"`
	EstimatedCost decimal.Decimal    `json:"estimated_cost"`
	DecisionDate  *time.Time         `json:"decision_date,omitempty"`
	AccountableID *uuid.UUID         `json:"accountable_id,omitempty"`
	Rationale     string             `json:"rationale"`
	Approvals     []ApprovalResponse `json:"approvals"`
	IsApproved    bool               `json:"is_approved"`
	IsRejected    bool               `json:"is_rejected"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Version       int                `json:"version"`
}

// ToDecisionResponse converts a domain Decision to DecisionResponse
func ToDecisionResponse(d *governance.Decision) DecisionResponse {
	approvals := make([]ApprovalResponse, len(d.Approvals))
	for i, a := range d.Approvals {
		approvals[i] = ApprovalResponse{
			ID:         a.ID,
			ApproverID: a.ApproverID,
			State:      string(a.State),
			Comment:    a.Comment,
			DecidedAt:  a.DecidedAt,
		}
	}
	return DecisionResponse{
		ID:            d.ID,
		ProjectID:     d.ProjectID,
		Name:          d.Name,
		Description:   d.Description,
		AssignedToID:  d.AssignedToID,
		StatusID:      d.StatusID,
		WorkflowID:    d.WorkflowID,
		EstimatedCost: d.EstimatedCost,
		DecisionDate:  d.DecisionDate,
		AccountableID: d.AccountableID,
		Rationale:     d.Rationale,
		Approvals:     approvals,
		IsApproved:    d.IsApproved(),
		IsRejected:    d.IsRejected(),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Version:       d.Version,
	}
}
