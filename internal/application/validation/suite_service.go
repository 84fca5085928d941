package validation

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/validation"
	"github.com/google/uuid"
)

var errForeignCase = shared.NewDomainError("INVALID_CASE", "Cases must belong to the suite's project")

// SuiteService handles validation suites
type SuiteService struct {
	suiteRepo validation.SuiteRepository
	caseRepo  validation.CaseRepository
	projects  ActiveProjects
}

// NewSuiteService creates a new suite service
func NewSuiteService(suiteRepo validation.SuiteRepository, caseRepo validation.CaseRepository, projects ActiveProjects) *SuiteService {
	return &SuiteService{suiteRepo: suiteRepo, caseRepo: caseRepo, projects: projects}
}

// Create creates a suite
func (s *SuiteService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateSuiteRequest) (*SuiteResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	suite, err := validation.NewSuite(tenantID, req.ProjectID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := suite.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.checkCases(ctx, tenantID, req.ProjectID, req.CaseIDs); err != nil {
		return nil, err
	}
	suite.SetCases(req.CaseIDs)
	suite.SetCreatedBy(createdBy)
	return s.save(ctx, suite)
}

// GetByID retrieves a suite
func (s *SuiteService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SuiteResponse, error) {
	suite, err := s.suiteRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSuiteResponse(suite)
	return &resp, nil
}

// List lists suites
func (s *SuiteService) List(ctx context.Context, tenantID uuid.UUID, filter SuiteListFilter) ([]SuiteResponse, int64, error) {
	f := filter.Filter("name", "asc")
	setFilter(f.Filters, "project_id", filter.ProjectID)

	suites, total, err := s.suiteRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SuiteResponse, len(suites))
	for i := range suites {
		out[i] = ToSuiteResponse(&suites[i])
	}
	return out, total, nil
}

// Update changes the suite. A nil case list leaves the cases untouched.
func (s *SuiteService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSuiteRequest) (*SuiteResponse, error) {
	suite, err := s.suiteRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := suite.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.CaseIDs != nil {
		if err := s.checkCases(ctx, tenantID, suite.ProjectID, req.CaseIDs); err != nil {
			return nil, err
		}
		suite.SetCases(req.CaseIDs)
	}
	return s.save(ctx, suite)
}

// AddCase appends a case to the suite
func (s *SuiteService) AddCase(ctx context.Context, tenantID, id, caseID uuid.UUID) (*SuiteResponse, error) {
	suite, err := s.suiteRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCases(ctx, tenantID, suite.ProjectID, []uuid.UUID{caseID}); err != nil {
		return nil, err
	}
	if err := suite.AddCase(caseID); err != nil {
		return nil, err
	}
	return s.save(ctx, suite)
}

// RemoveCase drops a case from the suite
func (s *SuiteService) RemoveCase(ctx context.Context, tenantID, id, caseID uuid.UUID) (*SuiteResponse, error) {
	suite, err := s.suiteRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	suite.RemoveCase(caseID)
	return s.save(ctx, suite)
}

// Delete removes a suite
func (s *SuiteService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.suiteRepo.DeleteForTenant(ctx, tenantID, id)
}

// checkCases requires every referenced case to exist in projectID
func (s *SuiteService) checkCases(ctx context.Context, tenantID, projectID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	cases, err := s.caseRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]bool, len(cases))
	for _, c := range cases {
		if c.ProjectID != projectID {
			return errForeignCase
		}
		found[c.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return shared.NotFound("Validation case")
		}
	}
	return nil
}

func (s *SuiteService) save(ctx context.Context, suite *validation.Suite) (*SuiteResponse, error) {
	if err := s.suiteRepo.Save(ctx, suite); err != nil {
		return nil, err
	}
	resp := ToSuiteResponse(suite)
	return &resp, nil
}
