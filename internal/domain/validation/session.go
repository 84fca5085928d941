package validation

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Result of a case, a step or a whole session
type Result string

const (
	ResultNotExecuted Result = "not_executed"
	ResultPassed      Result = "passed"
	ResultFailed      Result = "failed"
	ResultBlocked     Result = "blocked"
	ResultSkipped     Result = "skipped"
	ResultPartial     Result = "partial" // session level only
)

// IsValid reports whether r can be recorded against a case or step
func (r Result) IsValid() bool {
	switch r {
	case ResultNotExecuted, ResultPassed, ResultFailed, ResultBlocked, ResultSkipped:
		return true
	}
	return false
}

const (
	maxBuildNumberLen    = 100
	maxEnvironmentLen    = 100
	maxExecutionNotesLen = 5000
)

// StepResult is the outcome of one step of a case run
type StepResult struct {
	StepID       uuid.UUID
	StepOrder    int
	Result       Result
	ActualResult string
	Notes        string
}

// CaseResult is the outcome of one case within a session
type CaseResult struct {
	CaseID         uuid.UUID
	CaseName       string
	ExecutionOrder int
	Result         Result
	Notes          string
	StepResults    []StepResult
}

// Session is one execution of a suite
type Session struct {
	shared.TenantAggregateRoot
	ProjectID      uuid.UUID
	SuiteID        uuid.UUID
	Name           string
	BuildNumber    string
	Environment    string
	ExecutionNotes string
	StartedAt      *time.Time
	CompletedAt    *time.Time
	DurationMs     int64
	ExecutedByID   *uuid.UUID
	Result         Result
	TotalCases     int
	PassedCases    int
	FailedCases    int
	CaseResults    []CaseResult
}

// NewSession creates a session for a suite
func NewSession(tenantID, projectID, suiteID uuid.UUID, name string) (*Session, error) {
	if projectID == uuid.Nil || suiteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Project and suite are required")
	}
	if err := shared.ValidateItemName(name); err != nil {
		return nil, err
	}
	s := &Session{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		SuiteID:             suiteID,
		Name:                strings.TrimSpace(name),
		Result:              ResultNotExecuted,
		CaseResults:         make([]CaseResult, 0),
	}
	return s, nil
}

// SetRunInfo sets build number, environment and execution notes
func (s *Session) SetRunInfo(buildNumber, environment, notes string) error {
	buildNumber = strings.TrimSpace(buildNumber)
	environment = strings.TrimSpace(environment)
	if utf8.RuneCountInString(buildNumber) > maxBuildNumberLen {
		return shared.NewDomainError("INVALID_BUILD_NUMBER", "Build number cannot exceed 100 characters")
	}
	if utf8.RuneCountInString(environment) > maxEnvironmentLen {
		return shared.NewDomainError("INVALID_ENVIRONMENT", "Environment cannot exceed 100 characters")
	}
	if utf8.RuneCountInString(notes) > maxExecutionNotesLen {
		return shared.NewDomainError("INVALID_NOTES", "Execution notes cannot exceed 5000 characters")
	}
	s.BuildNumber = buildNumber
	s.Environment = environment
	s.ExecutionNotes = notes
	s.MarkModified()
	return nil
}

// Execute starts the session. cases must be given in suite order; each
// becomes a not-executed case result with step results in step order.
func (s *Session) Execute(cases []Case, executedBy *uuid.UUID, now time.Time) error {
	if s.StartedAt != nil {
		return shared.NewDomainError("SESSION_ALREADY_STARTED", "Session has already been executed")
	}
	s.CaseResults = make([]CaseResult, 0, len(cases))
	for i, c := range cases {
		cr := CaseResult{
			CaseID:         c.ID,
			CaseName:       c.Name,
			ExecutionOrder: i + 1,
			Result:         ResultNotExecuted,
		}
		for _, step := range c.SortedSteps() {
			cr.StepResults = append(cr.StepResults, StepResult{
				StepID:    step.ID,
				StepOrder: step.StepOrder,
				Result:    ResultNotExecuted,
			})
		}
		s.CaseResults = append(s.CaseResults, cr)
	}
	start := now
	s.StartedAt = &start
	s.ExecutedByID = executedBy
	s.TotalCases = len(cases)
	s.MarkModified()
	return nil
}

// RecordCaseResult stores the outcome of a case
func (s *Session) RecordCaseResult(caseID uuid.UUID, result Result, notes string) error {
	if err := s.ensureRunning(); err != nil {
		return err
	}
	if !result.IsValid() {
		return shared.NewDomainError("INVALID_RESULT", "Unknown result")
	}
	cr := s.caseResult(caseID)
	if cr == nil {
		return shared.NotFound("Case result")
	}
	cr.Result = result
	cr.Notes = strings.TrimSpace(notes)
	s.MarkModified()
	return nil
}

// RecordStepResult stores the outcome of a step within a case
func (s *Session) RecordStepResult(caseID, stepID uuid.UUID, result Result, actual, notes string) error {
	if err := s.ensureRunning(); err != nil {
		return err
	}
	if !result.IsValid() {
		return shared.NewDomainError("INVALID_RESULT", "Unknown result")
	}
	cr := s.caseResult(caseID)
	if cr == nil {
		return shared.NotFound("Case result")
	}
	for i := range cr.StepResults {
		if cr.StepResults[i].StepID == stepID {
			cr.StepResults[i].Result = result
			cr.StepResults[i].ActualResult = strings.TrimSpace(actual)
			cr.StepResults[i].Notes = strings.TrimSpace(notes)
			s.MarkModified()
			return nil
		}
	}
	return shared.NotFound("Step result")
}

// Complete finishes the session and computes its counts and overall result
func (s *Session) Complete(now time.Time) error {
	if err := s.ensureRunning(); err != nil {
		return err
	}
	end := now
	s.CompletedAt = &end
	s.DurationMs = end.Sub(*s.StartedAt).Milliseconds()
	if s.DurationMs < 0 {
		s.DurationMs = 0
	}

	s.TotalCases = len(s.CaseResults)
	s.PassedCases, s.FailedCases = 0, 0
	for _, cr := range s.CaseResults {
		switch cr.Result {
		case ResultPassed:
			s.PassedCases++
		case ResultFailed:
			s.FailedCases++
		}
	}
	s.Result = overallResult(s.TotalCases, s.PassedCases, s.FailedCases)
	s.MarkModified()
	s.AddDomainEvent(NewSessionCompletedEvent(s))
	return nil
}

// IsCompleted reports whether Complete has run
func (s *Session) IsCompleted() bool {
	return s.CompletedAt != nil
}

// PassRate is the passed share in percent, 0 when there are no cases
func (s *Session) PassRate() int {
	if s.TotalCases == 0 {
		return 0
	}
	return s.PassedCases * 100 / s.TotalCases
}

// SortedCaseResults returns the case results in execution order
func (s *Session) SortedCaseResults() []CaseResult {
	out := make([]CaseResult, len(s.CaseResults))
	copy(out, s.CaseResults)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExecutionOrder < out[j].ExecutionOrder })
	return out
}

func overallResult(total, passed, failed int) Result {
	switch {
	case failed > 0 && passed > 0:
		return ResultPartial
	case failed > 0:
		return ResultFailed
	case total > 0 && passed == total:
		return ResultPassed
	default:
		return ResultNotExecuted
	}
}

func (s *Session) ensureRunning() error {
	if s.StartedAt == nil {
		return shared.NewDomainError("SESSION_NOT_STARTED", "Session has not been executed yet")
	}
	if s.CompletedAt != nil {
		return shared.NewDomainError("SESSION_COMPLETED", "Session is already completed")
	}
	return nil
}

func (s *Session) caseResult(caseID uuid.UUID) *CaseResult {
	for i := range s.CaseResults {
		if s.CaseResults[i].CaseID == caseID {
			return &s.CaseResults[i]
		}
	}
	return nil
}
