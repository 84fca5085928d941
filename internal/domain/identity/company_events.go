package identity

import (
	"github.com/derbent/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCompany = "Company"

// Event type constants
const (
	EventTypeCompanyCreated       = "CompanyCreated"
	EventTypeCompanyUpdated       = "CompanyUpdated"
	EventTypeCompanyStatusChanged = "CompanyStatusChanged"
)

// CompanyCreatedEvent is published when a new company is created
type CompanyCreatedEvent struct {
	shared.BaseDomainEvent
	Code   string        `json:"code"`
	Name   string        `json:"name"`
	Status CompanyStatus `json:"status"`
}

// NewCompanyCreatedEvent creates a new CompanyCreatedEvent
func NewCompanyCreatedEvent(company *Company) *CompanyCreatedEvent {
	return &CompanyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyCreated, AggregateTypeCompany, company.ID, company.ID),
		Code:            company.Code,
		Name:            company.Name,
		Status:          company.Status,
	}
}

// CompanyUpdatedEvent is published when a company profile changes
type CompanyUpdatedEvent struct {
	shared.BaseDomainEvent
	Code         string `json:"code"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// NewCompanyUpdatedEvent creates a new CompanyUpdatedEvent
func NewCompanyUpdatedEvent(company *Company) *CompanyUpdatedEvent {
	return &CompanyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyUpdated, AggregateTypeCompany, company.ID, company.ID),
		Code:            company.Code,
		Name:            company.Name,
		ContactEmail:    company.ContactEmail,
	}
}

// CompanyStatusChangedEvent is published when a company is activated or suspended
type CompanyStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string        `json:"code"`
	OldStatus CompanyStatus `json:"old_status"`
	NewStatus CompanyStatus `json:"new_status"`
}

// NewCompanyStatusChangedEvent creates a new CompanyStatusChangedEvent
func NewCompanyStatusChangedEvent(company *Company, oldStatus, newStatus CompanyStatus) *CompanyStatusChangedEvent {
	return &CompanyStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyStatusChanged, AggregateTypeCompany, company.ID, company.ID),
		Code:            company.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
