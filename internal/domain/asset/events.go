package asset

import (
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeAsset is the aggregate type for asset events
const AggregateTypeAsset = "Asset"

// EventTypeAssetStatusChanged is published on creation and every status change
const EventTypeAssetStatusChanged = "AssetStatusChanged"

// AssetStatusChangedEvent carries the old and new status
type AssetStatusChangedEvent struct {
	shared.BaseDomainEvent
	SerialNumber string     `json:"serial_number,omitempty"`
	OldStatus    Status     `json:"old_status,omitempty"`
	NewStatus    Status     `json:"new_status"`
	AssignedToID *uuid.UUID `json:"assigned_to_id,omitempty"`
}

// NewAssetStatusChangedEvent creates a new AssetStatusChangedEvent
func NewAssetStatusChangedEvent(a *Asset, oldStatus Status) *AssetStatusChangedEvent {
	return &AssetStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetStatusChanged, AggregateTypeAsset, a.ID, a.TenantID),
		SerialNumber:    a.SerialNumber,
		OldStatus:       oldStatus,
		NewStatus:       a.Status,
		AssignedToID:    a.AssignedToID,
	}
}
