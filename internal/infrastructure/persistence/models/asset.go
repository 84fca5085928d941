package models

import (
	"time"

	"github.com/derbent/backend/internal/domain/asset"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetModel is the persistence model for the Asset aggregate.
type AssetModel struct {
	TenantAggregateModel
	ProjectID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	SerialNumber  string          `gorm:"type:varchar(100)"`
	Category      string          `gorm:"type:varchar(100)"`
	PurchaseDate  *time.Time      `gorm:"type:date"`
	PurchaseValue decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	WarrantyEnd   *time.Time      `gorm:"type:date"`
	Location      string          `gorm:"type:varchar(200)"`
	AssignedToID  *uuid.UUID      `gorm:"type:uuid;index"`
	Status        asset.Status    `gorm:"type:varchar(20);not null;default:'available'"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the persistence model to a domain Asset.
func (m *AssetModel) ToDomain() *asset.Asset {
	a := &asset.Asset{
		ProjectID:     m.ProjectID,
		Name:          m.Name,
		SerialNumber:  m.SerialNumber,
		Category:      m.Category,
		PurchaseDate:  m.PurchaseDate,
		PurchaseValue: m.PurchaseValue,
		WarrantyEnd:   m.WarrantyEnd,
		Location:      m.Location,
		AssignedToID:  m.AssignedToID,
		Status:        m.Status,
		Notes:         m.Notes,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// AssetModelFromDomain creates a new persistence model from a domain Asset.
func AssetModelFromDomain(a *asset.Asset) *AssetModel {
	m := &AssetModel{
		ProjectID:     a.ProjectID,
		Name:          a.Name,
		SerialNumber:  a.SerialNumber,
		Category:      a.Category,
		PurchaseDate:  a.PurchaseDate,
		PurchaseValue: a.PurchaseValue,
		WarrantyEnd:   a.WarrantyEnd,
		Location:      a.Location,
		AssignedToID:  a.AssignedToID,
		Status:        a.Status,
		Notes:         a.Notes,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}
