package finance

import (
	"context"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/google/uuid"
)

// LedgerService records project expenses and income
type LedgerService struct {
	ledgerRepo finance.LedgerRepository
	projects   ActiveProjects
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerRepo finance.LedgerRepository, projects ActiveProjects) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo, projects: projects}
}

// Create records an expense or income
func (s *LedgerService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req LedgerEntryRequest) (*LedgerEntryResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	newEntry := finance.NewExpense
	if finance.EntryKind(req.Kind) == finance.EntryIncome {
		newEntry = finance.NewIncome
	}
	entry, err := newEntry(tenantID, req.ProjectID, req.Amount, req.EntryDate, req.Category)
	if err != nil {
		return nil, err
	}
	if err := entry.Update(req.Amount, req.EntryDate, req.Category, req.Description); err != nil {
		return nil, err
	}
	entry.SetCreatedBy(createdBy)
	if err := s.ledgerRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// GetByID retrieves an entry
func (s *LedgerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// List retrieves entries with filtering and pagination
func (s *LedgerService) List(ctx context.Context, tenantID uuid.UUID, filter LedgerListFilter) ([]LedgerEntryResponse, int64, error) {
	domainFilter := filter.Query.Filter("entry_date", "desc")
	setFilter(domainFilter, "project_id", filter.ProjectID)
	setFilter(domainFilter, "kind", filter.Kind)
	setFilter(domainFilter, "category", filter.Category)

	entries, total, err := s.ledgerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToLedgerEntryResponse(&entries[i])
	}
	return out, total, nil
}

// Update changes amount, date, category and description. The kind and
// project of an entry are fixed.
func (s *LedgerService) Update(ctx context.Context, tenantID, id uuid.UUID, req LedgerEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Update(req.Amount, req.EntryDate, req.Category, req.Description); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// Delete removes an entry
func (s *LedgerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.ledgerRepo.DeleteForTenant(ctx, tenantID, id)
}
