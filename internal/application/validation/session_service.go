package validation

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService plans and records suite executions
type SessionService struct {
	sessionRepo validation.SessionRepository
	suiteRepo   validation.SuiteRepository
	caseRepo    validation.CaseRepository
	projects    ActiveProjects
	events      shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo validation.SessionRepository,
	suiteRepo validation.SuiteRepository,
	caseRepo validation.CaseRepository,
	projects ActiveProjects,
	events shared.EventPublisher,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		suiteRepo:   suiteRepo,
		caseRepo:    caseRepo,
		projects:    projects,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// Create plans a session for a suite. The project is taken from the suite.
func (s *SessionService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateSessionRequest) (*SessionResponse, error) {
	suite, err := s.suiteRepo.FindByIDForTenant(ctx, tenantID, req.SuiteID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.RequireActive(ctx, tenantID, suite.ProjectID); err != nil {
		return nil, err
	}
	session, err := validation.NewSession(tenantID, suite.ProjectID, suite.ID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := session.SetRunInfo(req.BuildNumber, req.Environment, req.ExecutionNotes); err != nil {
		return nil, err
	}
	session.SetCreatedBy(createdBy)
	return s.save(ctx, session)
}

// GetByID retrieves a session with its results
func (s *SessionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}

// List lists sessions, newest first
func (s *SessionService) List(ctx context.Context, tenantID uuid.UUID, filter SessionListFilter) ([]SessionResponse, int64, error) {
	f := filter.Filter("created_at", "desc")
	setFilter(f.Filters, "project_id", filter.ProjectID)
	setFilter(f.Filters, "suite_id", filter.SuiteID)
	setFilter(f.Filters, "result", filter.Result)

	sessions, total, err := s.sessionRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SessionResponse, len(sessions))
	for i := range sessions {
		out[i] = ToSessionResponse(&sessions[i])
	}
	return out, total, nil
}

// Update changes the run information
func (s *SessionService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSessionRequest) (*SessionResponse, error) {
	return s.mutate(ctx, tenantID, id, func(session *validation.Session) error {
		return session.SetRunInfo(req.BuildNumber, req.Environment, req.ExecutionNotes)
	})
}

// Execute starts the session with the suite's current cases, in suite
// order. Cases deleted since they were added to the suite are skipped.
func (s *SessionService) Execute(ctx context.Context, tenantID, id, executedBy uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	suite, err := s.suiteRepo.FindByIDForTenant(ctx, tenantID, session.SuiteID)
	if err != nil {
		return nil, err
	}
	cases, err := s.suiteCases(ctx, tenantID, suite)
	if err != nil {
		return nil, err
	}
	if err := session.Execute(cases, &executedBy, s.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, session)
}

// RecordCaseResult stores the outcome of a case
func (s *SessionService) RecordCaseResult(ctx context.Context, tenantID, id, caseID uuid.UUID, req RecordCaseResultRequest) (*SessionResponse, error) {
	return s.mutate(ctx, tenantID, id, func(session *validation.Session) error {
		return session.RecordCaseResult(caseID, validation.Result(req.Result), req.Notes)
	})
}

// RecordStepResult stores the outcome of one step of a case
func (s *SessionService) RecordStepResult(ctx context.Context, tenantID, id, caseID, stepID uuid.UUID, req RecordStepResultRequest) (*SessionResponse, error) {
	return s.mutate(ctx, tenantID, id, func(session *validation.Session) error {
		return session.RecordStepResult(caseID, stepID, validation.Result(req.Result), req.ActualResult, req.Notes)
	})
}

// Complete finishes the session and computes its overall result
func (s *SessionService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*SessionResponse, error) {
	return s.mutate(ctx, tenantID, id, func(session *validation.Session) error {
		return session.Complete(s.now())
	})
}

// Delete removes a session with its results
func (s *SessionService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.sessionRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *SessionService) suiteCases(ctx context.Context, tenantID uuid.UUID, suite *validation.Suite) ([]validation.Case, error) {
	if len(suite.CaseIDs) == 0 {
		return nil, nil
	}
	found, err := s.caseRepo.FindByIDs(ctx, tenantID, suite.CaseIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]validation.Case, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	cases := make([]validation.Case, 0, len(suite.CaseIDs))
	for _, id := range suite.CaseIDs {
		if c, ok := byID[id]; ok {
			cases = append(cases, c)
		}
	}
	return cases, nil
}

func (s *SessionService) mutate(ctx context.Context, tenantID, id uuid.UUID, change func(*validation.Session) error) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := change(session); err != nil {
		return nil, err
	}
	return s.save(ctx, session)
}

func (s *SessionService) save(ctx context.Context, session *validation.Session) (*SessionResponse, error) {
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, session); err != nil {
		s.logger.Warn("Failed to publish session events", zap.String("session_id", session.ID.String()), zap.Error(err))
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}
