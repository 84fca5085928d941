package models

import (
	"time"

	"github.com/derbent/backend/internal/domain/governance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RiskModel is the persistence model for the Risk aggregate.
type RiskModel struct {
	ProjectItemModel
	Severity       governance.Severity `gorm:"type:varchar(20);not null;default:'medium'"`
	Probability    int                 `gorm:"not null;default:1"`
	Impact         int                 `gorm:"not null;default:1"`
	Mitigation     string              `gorm:"type:text"`
	Contingency    string              `gorm:"type:text"`
	IdentifiedDate *time.Time          `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (RiskModel) TableName() string {
	return "risks"
}

// ToDomain converts the persistence model to a domain Risk.
func (m *RiskModel) ToDomain() *governance.Risk {
	return &governance.Risk{
		ProjectItem:    m.ToDomainProjectItem(),
		Severity:       m.Severity,
		Probability:    m.Probability,
		Impact:         m.Impact,
		Mitigation:     m.Mitigation,
		Contingency:    m.Contingency,
		IdentifiedDate: m.IdentifiedDate,
	}
}

// RiskModelFromDomain creates a new persistence model from a domain Risk.
func RiskModelFromDomain(r *governance.Risk) *RiskModel {
	m := &RiskModel{
		Severity:       r.Severity,
		Probability:    r.Probability,
		Impact:         r.Impact,
		Mitigation:     r.Mitigation,
		Contingency:    r.Contingency,
		IdentifiedDate: r.IdentifiedDate,
	}
	m.FromDomainProjectItem(r.ProjectItem)
	return m
}

// DecisionModel is the persistence model for the Decision aggregate.
type DecisionModel struct {
	ProjectItemModel
	EstimatedCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DecisionDate  *time.Time      `gorm:"type:date"`
	AccountableID *uuid.UUID      `gorm:"type:uuid"`
	Rationale     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DecisionModel) TableName() string {
	return "decisions"
}

// ToDomain converts the persistence model to a domain Decision with approvals.
func (m *DecisionModel) ToDomain(approvals []ApprovalModel) *governance.Decision {
	d := &governance.Decision{
		ProjectItem:   m.ToDomainProjectItem(),
		EstimatedCost: m.EstimatedCost,
		DecisionDate:  m.DecisionDate,
		AccountableID: m.AccountableID,
		Rationale:     m.Rationale,
		Approvals:     make([]governance.Approval, len(approvals)),
	}
	for i, a := range approvals {
		d.Approvals[i] = governance.Approval{
			ID:         a.ID,
			ApproverID: a.ApproverID,
			State:      a.State,
			Comment:    a.Comment,
			DecidedAt:  a.DecidedAt,
		}
	}
	return d
}

// DecisionModelFromDomain creates a new persistence model from a domain Decision.
func DecisionModelFromDomain(d *governance.Decision) *DecisionModel {
	m := &DecisionModel{
		EstimatedCost: d.EstimatedCost,
		DecisionDate:  d.DecisionDate,
		AccountableID: d.AccountableID,
		Rationale:     d.Rationale,
	}
	m.FromDomainProjectItem(d.ProjectItem)
	return m
}

// ApprovalModel is one approver's verdict on a decision.
type ApprovalModel struct {
	ID         uuid.UUID                `gorm:"type:uuid;primary_key"`
	DecisionID uuid.UUID                `gorm:"type:uuid;not null;index"`
	ApproverID uuid.UUID                `gorm:"type:uuid;not null"`
	State      governance.ApprovalState `gorm:"type:varchar(20);not null"`
	Comment    string                   `gorm:"type:text"`
	DecidedAt  *time.Time
	Position   int `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ApprovalModel) TableName() string {
	return "decision_approvals"
}

// ApprovalModelsFromDomain maps the decision's approvals in order.
func ApprovalModelsFromDomain(d *governance.Decision) []ApprovalModel {
	out := make([]ApprovalModel, len(d.Approvals))
	for i, a := range d.Approvals {
		out[i] = ApprovalModel{
			ID:         a.ID,
			DecisionID: d.ID,
			ApproverID: a.ApproverID,
			State:      a.State,
			Comment:    a.Comment,
			DecidedAt:  a.DecidedAt,
			Position:   i,
		}
	}
	return out
}
