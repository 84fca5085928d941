// Package asset tracks project equipment.
package asset

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/asset"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActiveProjects loads a project and rejects archived ones
type ActiveProjects interface {
	RequireActive(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error)
}

// AssetService handles the asset register and asset lifecycle
type AssetService struct {
	assetRepo asset.AssetRepository
	projects  ActiveProjects
	events    shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssetService creates a new asset service
func NewAssetService(assetRepo asset.AssetRepository, projects ActiveProjects, events shared.EventPublisher, logger *zap.Logger) *AssetService {
	return &AssetService{
		assetRepo: assetRepo,
		projects:  projects,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// Create registers an asset. Serial numbers are unique per company.
func (s *AssetService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateAssetRequest) (*AssetResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	if req.SerialNumber != "" {
		exists, err := s.assetRepo.ExistsBySerialNumber(ctx, tenantID, req.SerialNumber, nil)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Asset with this serial number already exists")
		}
	}
	a, err := asset.NewAsset(tenantID, req.ProjectID, req.Name, req.SerialNumber)
	if err != nil {
		return nil, err
	}
	if err := apply(a, req.AssetFields); err != nil {
		return nil, err
	}
	a.SetCreatedBy(createdBy)
	return s.save(ctx, a)
}

// GetByID retrieves an asset
func (s *AssetService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAssetResponse(a, s.now())
	return &resp, nil
}

// List retrieves assets with filtering and pagination
func (s *AssetService) List(ctx context.Context, tenantID uuid.UUID, filter AssetListFilter) ([]AssetResponse, int64, error) {
	domainFilter := filter.Query.Filter("name", "asc")
	for key, value := range map[string]string{
		"project_id":     filter.ProjectID,
		"status":         filter.Status,
		"category":       filter.Category,
		"assigned_to_id": filter.AssignedToID,
	} {
		if value != "" {
			domainFilter.Filters[key] = value
		}
	}

	assets, total, err := s.assetRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]AssetResponse, len(assets))
	for i := range assets {
		out[i] = ToAssetResponse(&assets[i], now)
	}
	return out, total, nil
}

// Update changes the descriptive and purchase fields
func (s *AssetService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateAssetRequest) (*AssetResponse, error) {
	return s.mutate(ctx, tenantID, id, func(a *asset.Asset) error {
		return apply(a, req.AssetFields)
	})
}

// Assign hands an available asset to a user
func (s *AssetService) Assign(ctx context.Context, tenantID, id uuid.UUID, req AssignAssetRequest) (*AssetResponse, error) {
	return s.mutate(ctx, tenantID, id, func(a *asset.Asset) error {
		return a.Assign(req.UserID)
	})
}

// Release returns an asset in use
func (s *AssetService) Release(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	return s.mutate(ctx, tenantID, id, (*asset.Asset).Release)
}

// SendToMaintenance takes an asset out of service for repair
func (s *AssetService) SendToMaintenance(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	return s.mutate(ctx, tenantID, id, (*asset.Asset).SendToMaintenance)
}

// ReturnFromMaintenance makes a repaired asset available again
func (s *AssetService) ReturnFromMaintenance(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	return s.mutate(ctx, tenantID, id, (*asset.Asset).ReturnFromMaintenance)
}

// Retire takes an asset out of service for good
func (s *AssetService) Retire(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	return s.mutate(ctx, tenantID, id, (*asset.Asset).Retire)
}

// Delete removes an asset
func (s *AssetService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.assetRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *AssetService) mutate(ctx context.Context, tenantID, id uuid.UUID, change func(*asset.Asset) error) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := change(a); err != nil {
		return nil, err
	}
	return s.save(ctx, a)
}

func (s *AssetService) save(ctx context.Context, a *asset.Asset) (*AssetResponse, error) {
	if err := s.assetRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, a); err != nil {
		s.logger.Warn("Failed to publish asset events", zap.String("asset_id", a.ID.String()), zap.Error(err))
	}
	resp := ToAssetResponse(a, s.now())
	return &resp, nil
}

func apply(a *asset.Asset, f AssetFields) error {
	if err := a.Update(f.Name, f.Category, f.Location, f.Notes); err != nil {
		return err
	}
	value := a.PurchaseValue
	if f.PurchaseValue != nil {
		value = *f.PurchaseValue
	}
	return a.SetPurchase(f.PurchaseDate, value, f.WarrantyEnd)
}
