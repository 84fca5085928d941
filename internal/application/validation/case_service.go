// Package validation manages test cases, the suites grouping them and the
// sessions in which suites are executed.
package validation

import (
	"context"

	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/validation"
	"github.com/google/uuid"
)

// ActiveProjects loads a project and rejects archived ones
type ActiveProjects interface {
	RequireActive(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error)
}

// CaseService handles validation cases and their steps
type CaseService struct {
	caseRepo validation.CaseRepository
	projects ActiveProjects
}

// NewCaseService creates a new case service
func NewCaseService(caseRepo validation.CaseRepository, projects ActiveProjects) *CaseService {
	return &CaseService{caseRepo: caseRepo, projects: projects}
}

// Create creates a case with its initial steps in the given order
func (s *CaseService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateCaseRequest) (*CaseResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	c, err := validation.NewCase(tenantID, req.ProjectID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := applyCase(c, req.CaseFields); err != nil {
		return nil, err
	}
	for _, step := range req.Steps {
		if _, err := c.AddStep(step.Action, step.ExpectedResult, step.TestData); err != nil {
			return nil, err
		}
	}
	c.SetCreatedBy(createdBy)
	return s.save(ctx, c)
}

// GetByID retrieves a case
func (s *CaseService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CaseResponse, error) {
	c, err := s.caseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCaseResponse(c)
	return &resp, nil
}

// List lists cases
func (s *CaseService) List(ctx context.Context, tenantID uuid.UUID, filter CaseListFilter) ([]CaseResponse, int64, error) {
	f := filter.Filter("name", "asc")
	setFilter(f.Filters, "project_id", filter.ProjectID)
	setFilter(f.Filters, "priority", filter.Priority)

	cases, total, err := s.caseRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CaseResponse, len(cases))
	for i := range cases {
		out[i] = ToCaseResponse(&cases[i])
	}
	return out, total, nil
}

// Update changes the descriptive fields
func (s *CaseService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCaseRequest) (*CaseResponse, error) {
	return s.mutate(ctx, tenantID, id, func(c *validation.Case) error {
		return applyCase(c, req.CaseFields)
	})
}

// AddStep appends a step
func (s *CaseService) AddStep(ctx context.Context, tenantID, id uuid.UUID, req StepRequest) (*CaseResponse, error) {
	return s.mutate(ctx, tenantID, id, func(c *validation.Case) error {
		_, err := c.AddStep(req.Action, req.ExpectedResult, req.TestData)
		return err
	})
}

// UpdateStep rewrites a step in place
func (s *CaseService) UpdateStep(ctx context.Context, tenantID, id, stepID uuid.UUID, req StepRequest) (*CaseResponse, error) {
	return s.mutate(ctx, tenantID, id, func(c *validation.Case) error {
		return c.UpdateStep(stepID, req.Action, req.ExpectedResult, req.TestData)
	})
}

// RemoveStep deletes a step
func (s *CaseService) RemoveStep(ctx context.Context, tenantID, id, stepID uuid.UUID) (*CaseResponse, error) {
	return s.mutate(ctx, tenantID, id, func(c *validation.Case) error {
		return c.RemoveStep(stepID)
	})
}

// Delete removes a case
func (s *CaseService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.caseRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *CaseService) mutate(ctx context.Context, tenantID, id uuid.UUID, change func(*validation.Case) error) (*CaseResponse, error) {
	c, err := s.caseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := change(c); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

func (s *CaseService) save(ctx context.Context, c *validation.Case) (*CaseResponse, error) {
	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCaseResponse(c)
	return &resp, nil
}

func applyCase(c *validation.Case, f CaseFields) error {
	if err := c.Update(f.Name, f.Description, f.Preconditions); err != nil {
		return err
	}
	if f.Priority == "" {
		return nil
	}
	return c.SetPriority(validation.Priority(f.Priority))
}

func setFilter(filters map[string]any, key, value string) {
	if value != "" {
		filters[key] = value
	}
}
