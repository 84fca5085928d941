package identity

import (
	"context"
	"errors"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyService manages companies, the tenants of the system
type CompanyService struct {
	companyRepo identity.CompanyRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo identity.CompanyRepository, events shared.EventPublisher, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		events:      events,
		logger:      logger,
	}
}

// GetCurrent returns the caller's company
func (s *CompanyService) GetCurrent(ctx context.Context, tenantID uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// UpdateCurrent changes the caller's company profile
func (s *CompanyService) UpdateCurrent(ctx context.Context, tenantID uuid.UUID, req UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := company.Update(req.Name, req.ContactEmail, req.Address); err != nil {
		return nil, err
	}
	return s.save(ctx, company)
}

// Create registers a new company
func (s *CompanyService) Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := identity.NewCompany(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	exists, err := s.companyRepo.ExistsByCode(ctx, company.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Company with this code already exists")
	}

	if req.ContactEmail != "" || req.Address != "" {
		if err := company.Update(company.Name, req.ContactEmail, req.Address); err != nil {
			return nil, err
		}
	}

	resp, err := s.save(ctx, company)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Company created", zap.String("company_id", company.ID.String()), zap.String("code", company.Code))
	return resp, nil
}

// List returns all companies
func (s *CompanyService) List(ctx context.Context, filter CompanyListFilter) ([]CompanyResponse, int64, error) {
	domainFilter := filter.Query.Filter("code", "asc")
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	companies, total, err := s.companyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CompanyResponse, len(companies))
	for i := range companies {
		out[i] = ToCompanyResponse(&companies[i])
	}
	return out, total, nil
}

// SetActive activates or suspends a company
func (s *CompanyService) SetActive(ctx context.Context, companyID uuid.UUID, active bool) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if active {
		err = company.Activate()
	} else {
		err = company.Suspend()
	}
	if err != nil {
		return nil, err
	}
	return s.save(ctx, company)
}

// ActiveCompanyIDs lists the companies housekeeping jobs run for
func (s *CompanyService) ActiveCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.companyRepo.FindAllActiveIDs(ctx)
}

// IsActive reports whether the company exists and is not suspended
func (s *CompanyService) IsActive(ctx context.Context, companyID uuid.UUID) (bool, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return company.IsActive(), nil
}

func (s *CompanyService) save(ctx context.Context, company *identity.Company) (*CompanyResponse, error) {
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, company); err != nil {
		s.logger.Warn("Failed to publish company events", zap.Error(err))
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}
