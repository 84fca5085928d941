package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
)

// CompanyStatus represents the status of a company
type CompanyStatus string

const (
	CompanyStatusActive    CompanyStatus = "active"
	CompanyStatusSuspended CompanyStatus = "suspended"
)

var companyCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_\-]*$`)

// Company is the tenant every other record belongs to.
// A company is its own tenant, so it embeds BaseAggregateRoot rather than
// TenantAggregateRoot.
type Company struct {
	shared.BaseAggregateRoot
	Code         string
	Name         string
	Status       CompanyStatus
	ContactEmail string
	Address      string
}

// NewCompany creates a new active company
func NewCompany(code, name string) (*Company, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateCompanyCode(code); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateCompanyName(name); err != nil {
		return nil, err
	}

	company := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            CompanyStatusActive,
	}
	company.AddDomainEvent(NewCompanyCreatedEvent(company))
	return company, nil
}

// Update changes the company profile
func (c *Company) Update(name, contactEmail, address string) error {
	name = strings.TrimSpace(name)
	if err := validateCompanyName(name); err != nil {
		return err
	}
	contactEmail = strings.ToLower(strings.TrimSpace(contactEmail))
	if contactEmail != "" {
		if err := validateEmail(contactEmail); err != nil {
			return err
		}
	}
	if utf8.RuneCountInString(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	c.Name = name
	c.ContactEmail = contactEmail
	c.Address = strings.TrimSpace(address)
	c.MarkModified()

	c.AddDomainEvent(NewCompanyUpdatedEvent(c))
	return nil
}

// Activate re-enables a suspended company
func (c *Company) Activate() error {
	if c.Status == CompanyStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Company is already active")
	}
	old := c.Status
	c.Status = CompanyStatusActive
	c.MarkModified()
	c.AddDomainEvent(NewCompanyStatusChangedEvent(c, old, CompanyStatusActive))
	return nil
}

// Suspend blocks logins and scheduled jobs for the company
func (c *Company) Suspend() error {
	if c.Status == CompanyStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Company is already suspended")
	}
	old := c.Status
	c.Status = CompanyStatusSuspended
	c.MarkModified()
	c.AddDomainEvent(NewCompanyStatusChangedEvent(c, old, CompanyStatusSuspended))
	return nil
}

// IsActive returns true if the company is active
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}

func validateCompanyCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Company code cannot be empty")
	}
	if utf8.RuneCountInString(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Company code cannot exceed 50 characters")
	}
	if !companyCodeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Company code can only contain letters, numbers, underscores and hyphens")
	}
	return nil
}

func validateCompanyName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	return nil
}
