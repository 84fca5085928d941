package governance

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApprovalState is the state of one approval request
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// Approval is one approver's verdict on a decision
type Approval struct {
	ID         uuid.UUID
	ApproverID uuid.UUID
	State      ApprovalState
	Comment    string
	DecidedAt  *time.Time
}

// Decision is a recorded project decision subject to approval
type Decision struct {
	shared.ProjectItem
	EstimatedCost decimal.Decimal
	DecisionDate  *time.Time
	AccountableID *uuid.UUID
	Rationale     string
	Approvals     []Approval
}

// NewDecision creates a decision without approvals
func NewDecision(tenantID, projectID uuid.UUID, name string) (*Decision, error) {
	item, err := shared.NewProjectItem(tenantID, projectID, name)
	if err != nil {
		return nil, err
	}
	d := &Decision{
		ProjectItem:   item,
		EstimatedCost: decimal.Zero,
		Approvals:     make([]Approval, 0),
	}
	d.AddDomainEvent(NewDecisionCreatedEvent(d))
	return d, nil
}

// SetDetails sets cost, date, accountable user and rationale
func (d *Decision) SetDetails(cost decimal.Decimal, date *time.Time, accountableID *uuid.UUID, rationale string) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Estimated cost cannot be negative")
	}
	if utf8.RuneCountInString(rationale) > 4000 {
		return shared.NewDomainError("INVALID_TEXT", "Rationale cannot exceed 4000 characters")
	}
	d.EstimatedCost = cost.Round(2)
	d.DecisionDate = date
	d.AccountableID = accountableID
	d.Rationale = strings.TrimSpace(rationale)
	d.MarkModified()
	return nil
}

// RequestApproval adds a pending approval for the user
func (d *Decision) RequestApproval(approverID uuid.UUID) (*Approval, error) {
	if approverID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}
	for _, a := range d.Approvals {
		if a.ApproverID == approverID {
			return nil, shared.NewDomainError("DUPLICATE_APPROVAL", "Approval already requested from this user")
		}
	}
	a := Approval{ID: uuid.New(), ApproverID: approverID, State: ApprovalPending}
	d.Approvals = append(d.Approvals, a)
	d.MarkModified()
	return &a, nil
}

// Approve records a positive verdict
func (d *Decision) Approve(approverID uuid.UUID, comment string) error {
	return d.decide(approverID, ApprovalApproved, comment)
}

// Reject records a negative verdict
func (d *Decision) Reject(approverID uuid.UUID, comment string) error {
	return d.decide(approverID, ApprovalRejected, comment)
}

func (d *Decision) decide(approverID uuid.UUID, state ApprovalState, comment string) error {
	for i := range d.Approvals {
		a := &d.Approvals[i]
		if a.ApproverID != approverID {
			continue
		}
		if a.State != ApprovalPending {
			return shared.NewDomainError("APPROVAL_ALREADY_DECIDED", "Approval has already been decided")
		}
		now := time.Now()
		a.State = state
		a.Comment = strings.TrimSpace(comment)
		a.DecidedAt = &now
		d.MarkModified()
		d.AddDomainEvent(NewDecisionApprovalDecidedEvent(d, *a))
		return nil
	}
	return shared.NotFound("Approval")
}

// IsApproved is true when at least one approval exists and all are approved
func (d *Decision) IsApproved() bool {
	if len(d.Approvals) == 0 {
		return false
	}
	for _, a := range d.Approvals {
		if a.State != ApprovalApproved {
			return false
		}
	}
	return true
}

// IsRejected is true when any approver rejected
func (d *Decision) IsRejected() bool {
	for _, a := range d.Approvals {
		if a.State == ApprovalRejected {
			return true
		}
	}
	return false
}

// ChangeStatus applies an already validated status
func (d *Decision) ChangeStatus(statusID uuid.UUID) {
	d.ApplyStatus(statusID)
}
