package validation

import (
	"github.com/derbent/backend/internal/domain/shared"
)

// AggregateTypeSession is the aggregate type of validation sessions
const AggregateTypeSession = "ValidationSession"

// EventTypeSessionCompleted is published when a session completes
const EventTypeSessionCompleted = "ValidationSessionCompleted"

// SessionCompletedEvent carries the outcome of a completed session
type SessionCompletedEvent struct {
	shared.BaseDomainEvent
	ProjectID   string `json:"project_id"`
	SuiteID     string `json:"suite_id"`
	Result      Result `json:"result"`
	TotalCases  int    `json:"total_cases"`
	PassedCases int    `json:"passed_cases"`
	FailedCases int    `json:"failed_cases"`
	DurationMs  int64  `json:"duration_ms"`
}

// NewSessionCompletedEvent creates a new SessionCompletedEvent
func NewSessionCompletedEvent(s *Session) *SessionCompletedEvent {
	return &SessionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionCompleted, AggregateTypeSession, s.ID, s.TenantID),
		ProjectID:       s.ProjectID.String(),
		SuiteID:         s.SuiteID.String(),
		Result:          s.Result,
		TotalCases:      s.TotalCases,
		PassedCases:     s.PassedCases,
		FailedCases:     s.FailedCases,
		DurationMs:      s.DurationMs,
	}
}
