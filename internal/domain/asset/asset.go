package asset

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status of an asset
type Status string

const (
	StatusAvailable   Status = "available"
	StatusInUse       Status = "in_use"
	StatusMaintenance Status = "maintenance"
	StatusRetired     Status = "retired"
)

// Asset is a tracked piece of project equipment
type Asset struct {
	shared.TenantAggregateRoot
	ProjectID     uuid.UUID
	Name          string
	SerialNumber  string
	Category      string
	PurchaseDate  *time.Time
	PurchaseValue decimal.Decimal
	WarrantyEnd   *time.Time
	Location      string
	AssignedToID  *uuid.UUID
	Status        Status
	Notes         string
}

// NewAsset creates an available asset
func NewAsset(tenantID, projectID uuid.UUID, name, serialNumber string) (*Asset, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	name = strings.TrimSpace(name)
	if err := shared.ValidateItemName(name); err != nil {
		return nil, err
	}
	serialNumber = strings.TrimSpace(serialNumber)
	if utf8.RuneCountInString(serialNumber) > 100 {
		return nil, shared.NewDomainError("INVALID_SERIAL_NUMBER", "Serial number cannot exceed 100 characters")
	}
	a := &Asset{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Name:                name,
		SerialNumber:        serialNumber,
		PurchaseValue:       decimal.Zero,
		Status:              StatusAvailable,
	}
	a.AddDomainEvent(NewAssetStatusChangedEvent(a, ""))
	return a, nil
}

// Update changes the descriptive fields
func (a *Asset) Update(name, category, location, notes string) error {
	name = strings.TrimSpace(name)
	if err := shared.ValidateItemName(name); err != nil {
		return err
	}
	if utf8.RuneCountInString(category) > 100 || utf8.RuneCountInString(location) > 200 {
		return shared.NewDomainError("INVALID_ASSET", "Category or location too long")
	}
	a.Name = name
	a.Category = strings.TrimSpace(category)
	a.Location = strings.TrimSpace(location)
	a.Notes = strings.TrimSpace(notes)
	a.MarkModified()
	return nil
}

// SetPurchase records purchase date, value and warranty end
func (a *Asset) SetPurchase(date *time.Time, value decimal.Decimal, warrantyEnd *time.Time) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Purchase value cannot be negative")
	}
	if date != nil && warrantyEnd != nil && warrantyEnd.Before(*date) {
		return shared.NewDomainError("INVALID_WARRANTY", "Warranty cannot end before purchase")
	}
	a.PurchaseDate = date
	a.PurchaseValue = value.Round(2)
	a.WarrantyEnd = warrantyEnd
	a.MarkModified()
	return nil
}

// Assign hands the asset to a user
func (a *Asset) Assign(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User is required")
	}
	if a.Status != StatusAvailable && a.Status != StatusInUse {
		return shared.NewDomainError("ASSET_UNAVAILABLE", "Asset is not available for assignment")
	}
	a.AssignedToID = &userID
	return a.setStatus(StatusInUse)
}

// Release returns an assigned asset to the pool
func (a *Asset) Release() error {
	if a.Status != StatusInUse {
		return shared.NewDomainError("ASSET_NOT_IN_USE", "Asset is not in use")
	}
	a.AssignedToID = nil
	return a.setStatus(StatusAvailable)
}

// SendToMaintenance takes the asset out of service temporarily
func (a *Asset) SendToMaintenance() error {
	if a.Status == StatusRetired || a.Status == StatusMaintenance {
		return shared.NewDomainError("INVALID_ASSET_STATUS", "Asset cannot be sent to maintenance")
	}
	a.AssignedToID = nil
	return a.setStatus(StatusMaintenance)
}

// ReturnFromMaintenance makes a repaired asset available again
func (a *Asset) ReturnFromMaintenance() error {
	if a.Status != StatusMaintenance {
		return shared.NewDomainError("INVALID_ASSET_STATUS", "Asset is not in maintenance")
	}
	return a.setStatus(StatusAvailable)
}

// Retire takes the asset out of service for good
func (a *Asset) Retire() error {
	if a.Status == StatusRetired {
		return shared.NewDomainError("ALREADY_RETIRED", "Asset is already retired")
	}
	a.AssignedToID = nil
	return a.setStatus(StatusRetired)
}

// IsUnderWarranty is true while today is on or before the warranty end
func (a *Asset) IsUnderWarranty(now time.Time) bool {
	if a.WarrantyEnd == nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return !a.WarrantyEnd.Before(today)
}

func (a *Asset) setStatus(status Status) error {
	old := a.Status
	a.Status = status
	a.MarkModified()
	a.AddDomainEvent(NewAssetStatusChangedEvent(a, old))
	return nil
}
