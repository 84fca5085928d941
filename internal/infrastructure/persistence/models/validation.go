package models

import (
	"time"

	"github.com/derbent/backend/internal/domain/validation"
	"github.com/google/uuid"
)

// ValidationCaseModel is the persistence model for validation cases.
type ValidationCaseModel struct {
	TenantAggregateModel
	ProjectID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	Name          string              `gorm:"type:varchar(200);not null"`
	Description   string              `gorm:"type:text"`
	Preconditions string              `gorm:"type:text"`
	Priority      validation.Priority `gorm:"type:varchar(20);not null;default:'medium'"`
}

// TableName returns the table name for GORM
func (ValidationCaseModel) TableName() string {
	return "validation_cases"
}

// ToDomain converts the persistence model to a domain Case with its steps.
func (m *ValidationCaseModel) ToDomain(steps []ValidationStepModel) *validation.Case {
	c := &validation.Case{
		ProjectID:     m.ProjectID,
		Name:          m.Name,
		Description:   m.Description,
		Preconditions: m.Preconditions,
		Priority:      m.Priority,
		Steps:         make([]validation.Step, len(steps)),
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	for i, s := range steps {
		c.Steps[i] = validation.Step{
			ID:             s.ID,
			StepOrder:      s.StepOrder,
			Action:         s.Action,
			ExpectedResult: s.ExpectedResult,
			TestData:       s.TestData,
		}
	}
	return c
}

// ValidationCaseModelFromDomain creates a new persistence model from a domain Case.
func ValidationCaseModelFromDomain(c *validation.Case) *ValidationCaseModel {
	m := &ValidationCaseModel{
		ProjectID:     c.ProjectID,
		Name:          c.Name,
		Description:   c.Description,
		Preconditions: c.Preconditions,
		Priority:      c.Priority,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// ValidationStepModel is one step of a validation case.
type ValidationStepModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	CaseID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_validation_step_order,priority:1"`
	StepOrder      int       `gorm:"not null;uniqueIndex:idx_validation_step_order,priority:2"`
	Action         string    `gorm:"type:text;not null"`
	ExpectedResult string    `gorm:"type:text"`
	TestData       string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ValidationStepModel) TableName() string {
	return "validation_steps"
}

// ValidationStepModelsFromDomain maps the case's steps.
func ValidationStepModelsFromDomain(c *validation.Case) []ValidationStepModel {
	out := make([]ValidationStepModel, len(c.Steps))
	for i, s := range c.Steps {
		out[i] = ValidationStepModel{
			ID:             s.ID,
			CaseID:         c.ID,
			StepOrder:      s.StepOrder,
			Action:         s.Action,
			ExpectedResult: s.ExpectedResult,
			TestData:       s.TestData,
		}
	}
	return out
}

// ValidationSuiteModel is the persistence model for validation suites.
type ValidationSuiteModel struct {
	TenantAggregateModel
	ProjectID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Name        string      `gorm:"type:varchar(200);not null"`
	Description string      `gorm:"type:text"`
	CaseIDs     []uuid.UUID `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (ValidationSuiteModel) TableName() string {
	return "validation_suites"
}

// ToDomain converts the persistence model to a domain Suite.
func (m *ValidationSuiteModel) ToDomain() *validation.Suite {
	caseIDs := m.CaseIDs
	if caseIDs == nil {
		caseIDs = make([]uuid.UUID, 0)
	}
	s := &validation.Suite{
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		Description: m.Description,
		CaseIDs:     caseIDs,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// ValidationSuiteModelFromDomain creates a new persistence model from a domain Suite.
func ValidationSuiteModelFromDomain(s *validation.Suite) *ValidationSuiteModel {
	m := &ValidationSuiteModel{
		ProjectID:   s.ProjectID,
		Name:        s.Name,
		Description: s.Description,
		CaseIDs:     s.CaseIDs,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}

// ValidationSessionModel is the persistence model for validation sessions.
type ValidationSessionModel struct {
	TenantAggregateModel
	ProjectID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	SuiteID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name           string            `gorm:"type:varchar(200);not null"`
	BuildNumber    string            `gorm:"type:varchar(100)"`
	Environment    string            `gorm:"type:varchar(100)"`
	ExecutionNotes string            `gorm:"type:text"`
	StartedAt      *time.Time        `gorm:"type:timestamptz;index"`
	CompletedAt    *time.Time        `gorm:"type:timestamptz"`
	DurationMs     int64             `gorm:"not null;default:0"`
	ExecutedByID   *uuid.UUID        `gorm:"type:uuid"`
	Result         validation.Result `gorm:"type:varchar(20);not null;default:'not_executed'"`
	TotalCases     int               `gorm:"not null;default:0"`
	PassedCases    int               `gorm:"not null;default:0"`
	FailedCases    int               `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ValidationSessionModel) TableName() string {
	return "validation_sessions"
}

// ToDomain converts the persistence model to a domain Session with its results.
func (m *ValidationSessionModel) ToDomain(results []ValidationCaseResultModel) *validation.Session {
	s := &validation.Session{
		ProjectID:      m.ProjectID,
		SuiteID:        m.SuiteID,
		Name:           m.Name,
		BuildNumber:    m.BuildNumber,
		Environment:    m.Environment,
		ExecutionNotes: m.ExecutionNotes,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
		DurationMs:     m.DurationMs,
		ExecutedByID:   m.ExecutedByID,
		Result:         m.Result,
		TotalCases:     m.TotalCases,
		PassedCases:    m.PassedCases,
		FailedCases:    m.FailedCases,
		CaseResults:    make([]validation.CaseResult, len(results)),
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	for i, r := range results {
		s.CaseResults[i] = validation.CaseResult{
			CaseID:         r.CaseID,
			CaseName:       r.CaseName,
			ExecutionOrder: r.ExecutionOrder,
			Result:         r.Result,
			Notes:          r.Notes,
			StepResults:    r.StepResults,
		}
	}
	return s
}

// ValidationSessionModelFromDomain creates a new persistence model from a domain Session.
func ValidationSessionModelFromDomain(s *validation.Session) *ValidationSessionModel {
	m := &ValidationSessionModel{
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
		Result:         s.Result,
		TotalCases:     s.TotalCases,
		PassedCases:    s.PassedCases,
		FailedCases:    s.FailedCases,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}

// ValidationCaseResultModel is the outcome of one case in a session. Step
// results are small and always read together, so they are kept as jsonb.
type ValidationCaseResultModel struct {
	SessionID      uuid.UUID               `gorm:"type:uuid;primaryKey"`
	CaseID         uuid.UUID               `gorm:"type:uuid;primaryKey"`
	CaseName       string                  `gorm:"type:varchar(200);not null"`
	ExecutionOrder int                     `gorm:"not null"`
	Result         validation.Result       `gorm:"type:varchar(20);not null"`
	Notes          string                  `gorm:"type:text"`
	StepResults    []validation.StepResult `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (ValidationCaseResultModel) TableName() string {
	return "validation_case_results"
}

// ValidationCaseResultModelsFromDomain maps the session's case results.
func ValidationCaseResultModelsFromDomain(s *validation.Session) []ValidationCaseResultModel {
	out := make([]ValidationCaseResultModel, len(s.CaseResults))
	for i, r := range s.CaseResults {
		out[i] = ValidationCaseResultModel{
			SessionID:      s.ID,
			CaseID:         r.CaseID,
			CaseName:       r.CaseName,
			ExecutionOrder: r.ExecutionOrder,
			Result:         r.Result,
			Notes:          r.Notes,
			StepResults:    r.StepResults,
		}
	}
	return out
}
