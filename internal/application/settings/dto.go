package settings

import (
	"time"

	"github.com/derbent/backend/internal/domain/settings"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpdateSystemSettingsRequest replaces the installation settings
type UpdateSystemSettingsRequest struct {
	ApplicationName       string `json:"application_name" binding:"required,min=1,max=100"`
	DefaultLayoutMode     string `json:"default_layout_mode" binding:"required,oneof=horizontal vertical"`
	SessionTimeoutMinutes int    `json:"session_timeout_minutes" binding:"required,min=5,max=1440"`
	MaxUploadSizeMB       int    `json:"max_upload_size_mb" binding:"required,min=1,max=1024"`
	MaintenanceMode       bool   `json:"maintenance_mode"`
}

// SystemSettingsResponse represents the installation settings
type SystemSettingsResponse struct {
	ApplicationName       string    `json:"application_name"`
	DefaultLayoutMode     string    `json:"default_layout_mode"`
	SessionTimeoutMinutes int       `json:"session_timeout_minutes"`
	MaxUploadSizeMB       int       `json:"max_upload_size_mb"`
	MaintenanceMode       bool      `json:"maintenance_mode"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ToSystemSettingsResponse converts the domain settings to a response
func ToSystemSettingsResponse(s *settings.SystemSettings) SystemSettingsResponse {
	return SystemSettingsResponse{
		ApplicationName:       s.ApplicationName,
		DefaultLayoutMode:     string(s.DefaultLayoutMode),
		SessionTimeoutMinutes: s.SessionTimeoutMinutes,
		MaxUploadSizeMB:       s.MaxUploadSizeMB,
		MaintenanceMode:       s.MaintenanceMode,
		UpdatedAt:             s.UpdatedAt,
	}
}

// UpdateCompanySettingsRequest replaces the company preferences
type UpdateCompanySettingsRequest struct {
	Currency            string          `json:"currency" binding:"required,len=3"`
	WorkingHoursPerDay  decimal.Decimal `json:"working_hours_per_day"`
	WeekStartDay        int             `json:"week_start_day" binding:"min=0,max=6"`
	DefaultKanbanLineID *uuid.UUID      `json:"default_kanban_line_id"`
}

// CompanySettingsResponse represents the company preferences
type CompanySettingsResponse struct {
	Currency            string          `json:"currency"`
	WorkingHoursPerDay  decimal.Decimal `json:"working_hours_per_day"`
	WeekStartDay        int             `json:"week_start_day"`
	DefaultKanbanLineID *uuid.UUID      `json:"default_kanban_line_id,omitempty"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ToCompanySettingsResponse converts the domain settings to a response
func ToCompanySettingsResponse(s *settings.CompanySettings) CompanySettingsResponse {
	return CompanySettingsResponse{
		Currency:            s.Currency,
		WorkingHoursPerDay:  s.WorkingHoursPerDay,
		WeekStartDay:        int(s.WeekStartDay),
		DefaultKanbanLineID: s.DefaultKanbanLineID,
		UpdatedAt:           s.UpdatedAt,
	}
}
