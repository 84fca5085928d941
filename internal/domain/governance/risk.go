package governance

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Severity classifies a risk
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsValid reports whether s is a known severity
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Risk is an identified project risk
type Risk struct {
	shared.ProjectItem
	Severity       Severity
	Probability    int // 1..5
	Impact         int // 1..5
	Mitigation     string
	Contingency    string
	IdentifiedDate *time.Time
}

// NewRisk creates a risk with medium severity and a 1x1 rating
func NewRisk(tenantID, projectID uuid.UUID, name string) (*Risk, error) {
	item, err := shared.NewProjectItem(tenantID, projectID, name)
	if err != nil {
		return nil, err
	}
	today := time.Now()
	r := &Risk{
		ProjectItem:    item,
		Severity:       SeverityMedium,
		Probability:    1,
		Impact:         1,
		IdentifiedDate: &today,
	}
	r.AddDomainEvent(NewRiskCreatedEvent(r))
	return r, nil
}

// Assess sets severity, probability and impact
func (r *Risk) Assess(severity Severity, probability, impact int) error {
	if !severity.IsValid() {
		return shared.NewDomainError("INVALID_SEVERITY", "Severity must be low, medium, high or critical")
	}
	if probability < 1 || probability > 5 {
		return shared.NewDomainError("INVALID_PROBABILITY", "Probability must be between 1 and 5")
	}
	if impact < 1 || impact > 5 {
		return shared.NewDomainError("INVALID_IMPACT", "Impact must be between 1 and 5")
	}
	r.Severity = severity
	r.Probability = probability
	r.Impact = impact
	r.MarkModified()
	return nil
}

// SetResponse sets the mitigation and contingency plans
func (r *Risk) SetResponse(mitigation, contingency string) error {
	if utf8.RuneCountInString(mitigation) > 4000 || utf8.RuneCountInString(contingency) > 4000 {
		return shared.NewDomainError("INVALID_TEXT", "Mitigation and contingency cannot exceed 4000 characters")
	}
	r.Mitigation = strings.TrimSpace(mitigation)
	r.Contingency = strings.TrimSpace(contingency)
	r.MarkModified()
	return nil
}

// SetIdentifiedDate sets when the risk was identified
func (r *Risk) SetIdentifiedDate(d *time.Time) {
	r.IdentifiedDate = d
	r.MarkModified()
}

// Score is probability times impact
func (r *Risk) Score() int {
	return r.Probability * r.Impact
}

// ChangeStatus applies an already validated status
func (r *Risk) ChangeStatus(statusID uuid.UUID) {
	r.ApplyStatus(statusID)
}
