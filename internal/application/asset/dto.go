package asset

import (
	"time"

	"github.com/derbent/backend/internal/application/listing"
	"github.com/derbent/backend/internal/domain/asset"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetFields are the editable fields of an asset
type AssetFields struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Category      string           `json:"category" binding:"max=100"`
	Location      string           `json:"location" binding:"max=200"`
	Notes         string           `json:"notes" binding:"max=4000"`
	PurchaseDate  *time.Time       `json:"purchase_date"`
	PurchaseValue *decimal.Decimal `json:"purchase_value"`
	WarrantyEnd   *time.Time       `json:"warranty_end"`
}

// CreateAssetRequest represents a request to register an asset
type CreateAssetRequest struct {
	ProjectID    uuid.UUID `json:"project_id" binding:"required"`
	SerialNumber string    `json:"serial_number" binding:"max=100"`
	AssetFields
}

// UpdateAssetRequest represents a request to update an asset
type UpdateAssetRequest struct {
	AssetFields
}

// AssignAssetRequest hands an asset to a user
type AssignAssetRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// AssetListFilter represents filter options for the asset list
type AssetListFilter struct {
	listing.Query
	ProjectID    string `form:"project_id" binding:"omitempty,uuid"`
	Status       string `form:"status" binding:"omitempty,oneof=available in_use maintenance retired"`
	Category     string `form:"category"`
	AssignedToID string `form:"assigned_to_id" binding:"omitempty,uuid"`
}

// AssetResponse represents an asset in API responses
type AssetResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProjectID       uuid.UUID       `json:"project_id"`
	Name            string          `json:"name"`
	SerialNumber    string          `json:"serial_number"`
	Category        string          `json:"category"`
	PurchaseDate    *time.Time      `json:"purchase_date,omitempty"`
	PurchaseValue   decimal.Decimal `json:"purchase_value"`
	WarrantyEnd     *time.Time      `json:"warranty_end,omitempty"`
	IsUnderWarranty bool            `json:"is_under_warranty"`
	Location        string          `json:"location"`
	AssignedToID    *uuid.UUID      `json:"assigned_to_id,omitempty"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ToAssetResponse converts a domain Asset to AssetResponse
func ToAssetResponse(a *asset.Asset, now time.Time) AssetResponse {
	return AssetResponse{
		ID:              a.ID,
		ProjectID:       a.ProjectID,
		Name:            a.Name,
		SerialNumber:    a.SerialNumber,
		Category:        a.Category,
		PurchaseDate:    a.PurchaseDate,
		PurchaseValue:   a.PurchaseValue,
		WarrantyEnd:     a.WarrantyEnd,
		IsUnderWarranty: a.IsUnderWarranty(now),
		Location:        a.Location,
		AssignedToID:    a.AssignedToID,
		Status:          string(a.Status),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Version:         a.Version,
	}
}
