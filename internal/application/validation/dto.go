package validation

import (
	"time"

	"github.com/derbent/backend/internal/application/listing"
	"github.com/derbent/backend/internal/domain/validation"
	"github.com/google/uuid"
)

// StepRequest is one step of a case
type StepRequest struct {
	Action         string `json:"action" binding:"required,min=1,max=2000"`
	ExpectedResult string `json:"expected_result" binding:"max=2000"`
	TestData       string `json:"test_data" binding:"max=2000"`
}

// CaseFields are the editable fields of a case
type CaseFields struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	Description   string `json:"description" binding:"max=4000"`
	Preconditions string `json:"preconditions" binding:"max=4000"`
	Priority      string `json:"priority" binding:"omitempty,oneof=low medium high critical"`
}

// CreateCaseRequest creates a case with its initial steps
type CreateCaseRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	CaseFields
	Steps []StepRequest `json:"steps" binding:"omitempty,dive"`
}

// UpdateCaseRequest updates the descriptive fields of a case
type UpdateCaseRequest struct {
	CaseFields
}

// CaseListFilter represents filter options for the case list
type CaseListFilter struct {
	listing.Query
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	Priority  string `form:"priority" binding:"omitempty,oneof=low medium high critical"`
}

// StepResponse represents a case step in API responses
type StepResponse struct {
	ID             uuid.UUID `json:"id"`
	StepOrder      int       `json:"step_order"`
	Action         string    `json:"action"`
	ExpectedResult string    `json:"expected_result"`
	TestData       string    `json:"test_data"`
}

// CaseResponse represents a case in API responses
type CaseResponse struct {
	ID            uuid.UUID      `json:"id"`
	ProjectID     uuid.UUID      `json:"project_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Preconditions string         `json:"preconditions"`
	Priority      string         `json:"priority"`
	Steps         []StepResponse `json:"steps"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Version       int            `json:"version"`
}

// ToCaseResponse converts a domain Case to CaseResponse
func ToCaseResponse(c *validation.Case) CaseResponse {
	steps := c.SortedSteps()
	out := make([]StepResponse, len(steps))
	for i, s := range steps {
		out[i] = StepResponse{
			ID:             s.ID,
			StepOrder:      s.StepOrder,
			Action:         s.Action,
			ExpectedResult: s.ExpectedResult,
			TestData:       s.TestData,
		}
	}
	return CaseResponse{
		ID:            c.ID,
		ProjectID:     c.ProjectID,
		Name:          c.Name,
		Description:   c.Description,
		Preconditions: c.Preconditions,
		Priority:      string(c.Priority),
		Steps:         out,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		Version:       c.Version,
	}
}

// CreateSuiteRequest creates a suite
type CreateSuiteRequest struct {
	ProjectID   uuid.UUID   `json:"project_id" binding:"required"`
	Name        string      `json:"name" binding:"required,min=1,max=200"`
	Description string      `json:"description" binding:"max=4000"`
	CaseIDs     []uuid.UUID `json:"case_ids"`
}

// UpdateSuiteRequest replaces name, description and, when given, the cases
type UpdateSuiteRequest struct {
	Name        string      `json:"name" binding:"required,min=1,max=200"`
	Description string      `json:"description" binding:"max=4000"`
	CaseIDs     []uuid.UUID `json:"case_ids"`
}

// SuiteListFilter represents filter options for the suite list
type SuiteListFilter struct {
	listing.Query
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
}

// SuiteResponse represents a suite in API responses
type SuiteResponse struct {
	ID          uuid.UUID   `json:"id"`
	ProjectID   uuid.UUID   `json:"project_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CaseIDs     []uuid.UUID `json:"case_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Version     int         `json:"version"`
}

// ToSuiteResponse converts a domain Suite to SuiteResponse
func ToSuiteResponse(s *validation.Suite) SuiteResponse {
	return SuiteResponse{
		ID:          s.ID,
		ProjectID:   s.ProjectID,
		Name:        s.Name,
		Description: s.Description,
		CaseIDs:     s.CaseIDs,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}

// CreateSessionRequest plans a run of a suite
type CreateSessionRequest struct {
	SuiteID        uuid.UUID `json:"suite_id" binding:"required"`
	Name           string    `json:"name" binding:"required,min=1,max=200"`
	BuildNumber    string    `json:"build_number" binding:"max=100"`
	Environment    string    `json:"environment" binding:"max=100"`
	ExecutionNotes string    `json:"execution_notes" binding:"max=5000"`
}

// UpdateSessionRequest changes the run information of a session
type UpdateSessionRequest struct {
	BuildNumber    string `json:"build_number" binding:"max=100"`
	Environment    string `json:"environment" binding:"max=100"`
	ExecutionNotes string `json:"execution_notes" binding:"max=5000"`
}

// RecordCaseResultRequest stores the outcome of a case
type RecordCaseResultRequest struct {
	Result string `json:"result" binding:"required,oneof=not_executed passed failed blocked skipped"`
	Notes  string `json:"notes" binding:"max=4000"`
}

// RecordStepResultRequest stores the outcome of a step
type RecordStepResultRequest struct {
	Result       string `json:"result" binding:"required,oneof=not_executed passed failed blocked skipped"`
	ActualResult string `json:"actual_result" binding:"max=4000"`
	Notes        string `json:"notes" binding:"max=4000"`
}

// SessionListFilter represents filter options for the session list
type SessionListFilter struct {
	listing.Query
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	SuiteID   string `form:"suite_id" binding:"omitempty,uuid"`
	Result    string `form:"result" binding:"omitempty,oneof=not_executed passed failed partial"`
}

// StepResultResponse represents a step result in API responses
type StepResultResponse struct {
	StepID       uuid.UUID `json:"step_id"`
	StepOrder    int       `json:"step_order"`
	Result       string    `json:"result"`
	ActualResult string    `json:"actual_result"`
	Notes        string    `json:"notes"`
}

// CaseResultResponse represents a case result in API responses
type CaseResultResponse struct {
	CaseID         uuid.UUID            `json:"case_id"`
	CaseName       string               `json:"case_name"`
	ExecutionOrder int                  `json:"execution_order"`
	Result         string               `json:"result"`
	Notes          string               `json:"notes"`
	StepResults    []StepResultResponse `json:"step_results"`
}

// SessionResponse represents a session in API responses
type SessionResponse struct {
	ID             uuid.UUID            `json:"id"`
	ProjectID      uuid.UUID            `json:"project_id"`
	SuiteID        uuid.UUID            `json:"suite_id"`
	Name           string               `json:"name"`
	BuildNumber    string               `json:"build_number"`
	Environment    string               `json:"environment"`
	ExecutionNotes string               `json:"execution_notes"`
	StartedAt      *time.Time           `json:"started_at,omitempty"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
	DurationMs     int64                `json:"duration_ms"`
	ExecutedByID   *uuid.UUID           `json:"executed_by_id,omitempty"`
	Result         string               `json:"result"`
	TotalCases     int                  `json:"total_cases"`
	PassedCases    int                  `json:"passed_cases"`
	FailedCases    int                  `json:"failed_cases"`
	PassRate       int                  `json:"pass_rate"`
	CaseResults    []CaseResultResponse `json:"case_results"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	Version        int                  `json:"version"`
}

// ToSessionResponse converts a domain Session to SessionResponse
func ToSessionResponse(s *validation.Session) SessionResponse {
	results := s.SortedCaseResults()
	cases := make([]CaseResultResponse, len(results))
	for i, cr := range results {
		steps := make([]StepResultResponse, len(cr.StepResults))
		for j, sr := range cr.StepResults {
			steps[j] = StepResultResponse{
				StepID:       sr.StepID,
				StepOrder:    sr.StepOrder,
				Result:       string(sr.Result),
				ActualResult: sr.ActualResult,
				Notes:        sr.Notes,
			}
		}
		cases[i] = CaseResultResponse{
			CaseID:         cr.CaseID,
			CaseName:       cr.CaseName,
			ExecutionOrder: cr.ExecutionOrder,
			Result:         string(cr.Result),
			Notes:          cr.Notes,
			StepResults:    steps,
		}
	}
	return SessionResponse{
		ID:             s.ID,
		ProjectID:      s.ProjectID,
		SuiteID:        s.SuiteID,
		Name:           s.Name,
		BuildNumber:    s.BuildNumber,
		Environment:    s.Environment,
		ExecutionNotes: s.ExecutionNotes,
		StartedAt:      s.StartedAt,
		CompletedAt:    s.CompletedAt,
		DurationMs:     s.DurationMs,
		ExecutedByID:   s.ExecutedByID,
		Result:         string(s.Result),
		TotalCases:     s.TotalCases,
		PassedCases:    s.PassedCases,
		FailedCases:    s.FailedCases,
		PassRate:       s.PassRate(),
		CaseResults:    cases,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		Version:        s.Version,
	}
}
