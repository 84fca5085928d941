package validation

import (
	"strings"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Suite is an ordered collection of cases executed together
type Suite struct {
	shared.TenantAggregateRoot
	ProjectID   uuid.UUID
	Name        string
	Description string
	CaseIDs     []uuid.UUID
}

// NewSuite creates an empty suite
func NewSuite(tenantID, projectID uuid.UUID, name string) (*Suite, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	s := &Suite{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		CaseIDs:             make([]uuid.UUID, 0),
	}
	if err := s.Update(name, ""); err != nil {
		return nil, err
	}
	return s, nil
}

// Update changes name and description
func (s *Suite) Update(name, description string) error {
	if err := shared.ValidateItemName(name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.Description = strings.TrimSpace(description)
	s.MarkModified()
	return nil
}

// SetCases replaces the case list, dropping duplicates
func (s *Suite) SetCases(caseIDs []uuid.UUID) {
	seen := make(map[uuid.UUID]bool, len(caseIDs))
	s.CaseIDs = make([]uuid.UUID, 0, len(caseIDs))
	for _, id := range caseIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		s.CaseIDs = append(s.CaseIDs, id)
	}
	s.MarkModified()
}

// AddCase appends a case unless already present
func (s *Suite) AddCase(caseID uuid.UUID) error {
	for _, id := range s.CaseIDs {
		if id == caseID {
			return shared.NewDomainError("DUPLICATE_CASE", "Case is already part of the suite")
		}
	}
	s.CaseIDs = append(s.CaseIDs, caseID)
	s.MarkModified()
	return nil
}

// RemoveCase removes a case from the suite
func (s *Suite) RemoveCase(caseID uuid.UUID) {
	for i, id := range s.CaseIDs {
		if id == caseID {
			s.CaseIDs = append(s.CaseIDs[:i], s.CaseIDs[i+1:]...)
			s.MarkModified()
			return
		}
	}
}
