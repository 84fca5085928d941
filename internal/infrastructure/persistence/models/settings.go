package models

import (
	"time"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SystemSettingsID is the fixed primary key of the single system settings row
var SystemSettingsID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// SystemSettingsModel is the persistence model for SystemSettings.
type SystemSettingsModel struct {
	AggregateModel
	ApplicationName       string              `gorm:"type:varchar(100);not null"`
	DefaultLayoutMode     identity.LayoutMode `gorm:"type:varchar(20);not null;default:'horizontal'"`
	SessionTimeoutMinutes int                 `gorm:"not null;default:60"`
	MaxUploadSizeMB       int                 `gorm:"column:max_upload_size_mb;not null;default:50"`
	MaintenanceMode       bool                `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (SystemSettingsModel) TableName() string {
	return "system_settings"
}

// ToDomain converts the persistence model to domain SystemSettings.
func (m *SystemSettingsModel) ToDomain() *settings.SystemSettings {
	s := &settings.SystemSettings{
		ApplicationName:       m.ApplicationName,
		DefaultLayoutMode:     m.DefaultLayoutMode,
		SessionTimeoutMinutes: m.SessionTimeoutMinutes,
		MaxUploadSizeMB:       m.MaxUploadSizeMB,
		MaintenanceMode:       m.MaintenanceMode,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// SystemSettingsModelFromDomain creates the persistence model, pinning the row ID.
func SystemSettingsModelFromDomain(s *settings.SystemSettings) *SystemSettingsModel {
	m := &SystemSettingsModel{
		ApplicationName:       s.ApplicationName,
		DefaultLayoutMode:     s.DefaultLayoutMode,
		SessionTimeoutMinutes: s.SessionTimeoutMinutes,
		MaxUploadSizeMB:       s.MaxUploadSizeMB,
		MaintenanceMode:       s.MaintenanceMode,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.ID = SystemSettingsID
	return m
}

// CompanySettingsModel is the persistence model for CompanySettings.
type CompanySettingsModel struct {
	AggregateModel
	TenantID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedBy           *uuid.UUID      `gorm:"type:uuid"`
	Currency            string          `gorm:"type:varchar(3);not null;default:'EUR'"`
	WorkingHoursPerDay  decimal.Decimal `gorm:"type:decimal(4,2);not null;default:8"`
	WeekStartDay        int             `gorm:"not null;default:1"`
	DefaultKanbanLineID *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CompanySettingsModel) TableName() string {
	return "company_settings"
}

// ToDomain converts the persistence model to domain CompanySettings.
func (m *CompanySettingsModel) ToDomain() *settings.CompanySettings {
	s := &settings.CompanySettings{
		Currency:            m.Currency,
		WorkingHoursPerDay:  m.WorkingHoursPerDay,
		WeekStartDay:        time.Weekday(m.WeekStartDay),
		DefaultKanbanLineID: m.DefaultKanbanLineID,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	s.TenantID = m.TenantID
	s.CreatedBy = m.CreatedBy
	return s
}

// CompanySettingsModelFromDomain creates a new persistence model from domain CompanySettings.
func CompanySettingsModelFromDomain(s *settings.CompanySettings) *CompanySettingsModel {
	m := &CompanySettingsModel{
		TenantID:            s.TenantID,
		CreatedBy:           s.CreatedBy,
		Currency:            s.Currency,
		WorkingHoursPerDay:  s.WorkingHoursPerDay,
		WeekStartDay:        int(s.WeekStartDay),
		DefaultKanbanLineID: s.DefaultKanbanLineID,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
