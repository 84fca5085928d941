// Package settings reads and writes installation and company settings.
// Missing rows read as defaults.
package settings

import (
	"context"
	"errors"
	"time"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/kanban"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SettingsService handles both settings aggregates
type SettingsService struct {
	repo  settings.Repository
	lines kanban.LineRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo settings.Repository, lines kanban.LineRepository) *SettingsService {
	return &SettingsService{repo: repo, lines: lines}
}

// GetSystem returns the installation settings
func (s *SettingsService) GetSystem(ctx context.Context) (*SystemSettingsResponse, error) {
	current, err := s.system(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToSystemSettingsResponse(current)
	return &resp, nil
}

// UpdateSystem replaces the installation settings
func (s *SettingsService) UpdateSystem(ctx context.Context, req UpdateSystemSettingsRequest) (*SystemSettingsResponse, error) {
	current, err := s.system(ctx)
	if err != nil {
		return nil, err
	}
	err = current.Update(
		req.ApplicationName,
		identity.LayoutMode(req.DefaultLayoutMode),
		req.SessionTimeoutMinutes,
		req.MaxUploadSizeMB,
		req.MaintenanceMode,
	)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveSystem(ctx, current); err != nil {
		return nil, err
	}
	resp := ToSystemSettingsResponse(current)
	return &resp, nil
}

// GetCompany returns the settings of a company
func (s *SettingsService) GetCompany(ctx context.Context, tenantID uuid.UUID) (*CompanySettingsResponse, error) {
	current, err := s.company(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToCompanySettingsResponse(current)
	return &resp, nil
}

// UpdateCompany replaces the settings of a company. The default Kanban line
// must belong to the company.
func (s *SettingsService) UpdateCompany(ctx context.Context, tenantID uuid.UUID, req UpdateCompanySettingsRequest) (*CompanySettingsResponse, error) {
	current, err := s.company(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if req.DefaultKanbanLineID != nil {
		if _, err := s.lines.FindByIDForTenant(ctx, tenantID, *req.DefaultKanbanLineID); err != nil {
			return nil, err
		}
	}
	hours := req.WorkingHoursPerDay
	if hours.IsZero() {
		hours = current.WorkingHoursPerDay
	}
	if err := current.Update(req.Currency, hours, time.Weekday(req.WeekStartDay), req.DefaultKanbanLineID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCompany(ctx, current); err != nil {
		return nil, err
	}
	resp := ToCompanySettingsResponse(current)
	return &resp, nil
}

func (s *SettingsService) system(ctx context.Context) (*settings.SystemSettings, error) {
	current, err := s.repo.GetSystem(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.DefaultSystemSettings(), nil
	}
	return current, err
}

func (s *SettingsService) company(ctx context.Context, tenantID uuid.UUID) (*settings.CompanySettings, error) {
	current, err := s.repo.GetCompany(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.DefaultCompanySettings(tenantID), nil
	}
	return current, err
}
