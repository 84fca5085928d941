package settings

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// SystemSettings holds installation-wide settings. There is exactly one row.
type SystemSettings struct {
	shared.BaseAggregateRoot
	ApplicationName       string
	DefaultLayoutMode     identity.LayoutMode
	SessionTimeoutMinutes int
	MaxUploadSizeMB       int
	MaintenanceMode       bool
}

// DefaultSystemSettings returns the settings used before anything is stored
func DefaultSystemSettings() *SystemSettings {
	return &SystemSettings{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		ApplicationName:       "Derbent",
		DefaultLayoutMode:     identity.LayoutHorizontal,
		SessionTimeoutMinutes: 60,
		MaxUploadSizeMB:       50,
	}
}

// Update replaces all editable fields
func (s *SystemSettings) Update(appName string, layout identity.LayoutMode, sessionTimeout, maxUploadMB int, maintenance bool) error {
	appName = strings.TrimSpace(appName)
	if appName == "" || utf8.RuneCountInString(appName) > 100 {
		return shared.NewDomainError("INVALID_APPLICATION_NAME", "Application name must be 1 to 100 characters")
	}
	if !layout.IsValid() {
		return shared.NewDomainError("INVALID_LAYOUT_MODE", "Layout mode must be horizontal or vertical")
	}
	if sessionTimeout < 5 || sessionTimeout > 24*60 {
		return shared.NewDomainError("INVALID_SESSION_TIMEOUT", "Session timeout must be between 5 and 1440 minutes")
	}
	if maxUploadMB < 1 || maxUploadMB > 1024 {
		return shared.NewDomainError("INVALID_UPLOAD_SIZE", "Maximum upload size must be between 1 and 1024 MB")
	}
	s.ApplicationName = appName
	s.DefaultLayoutMode = layout
	s.SessionTimeoutMinutes = sessionTimeout
	s.MaxUploadSizeMB = maxUploadMB
	s.MaintenanceMode = maintenance
	s.MarkModified()
	return nil
}

// MaxUploadBytes converts the upload limit to bytes
func (s *SystemSettings) MaxUploadBytes() int64 {
	return int64(s.MaxUploadSizeMB) * 1024 * 1024
}

// SessionTimeout returns the session timeout as a duration
func (s *SystemSettings) SessionTimeout() time.Duration {
	return time.Duration(s.SessionTimeoutMinutes) * time.Minute
}

// CompanySettings holds per-company preferences
type CompanySettings struct {
	shared.TenantAggregateRoot
	Currency            string
	WorkingHoursPerDay  decimal.Decimal
	WeekStartDay        time.Weekday
	DefaultKanbanLineID *uuid.UUID
}

// DefaultCompanySettings returns the settings of a company that never saved any
func DefaultCompanySettings(tenantID uuid.UUID) *CompanySettings {
	return &CompanySettings{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Currency:            "EUR",
		WorkingHoursPerDay:  decimal.NewFromInt(8),
		WeekStartDay:        time.Monday,
	}
}

// Update replaces all editable fields
func (c *CompanySettings) Update(currency string, hoursPerDay decimal.Decimal, weekStart time.Weekday, kanbanLineID *uuid.UUID) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !currencyPattern.MatchString(currency) {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO 4217 code")
	}
	if hoursPerDay.LessThanOrEqual(decimal.Zero) || hoursPerDay.GreaterThan(decimal.NewFromInt(24)) {
		return shared.NewDomainError("INVALID_WORKING_HOURS", "Working hours per day must be between 0 and 24")
	}
	if weekStart < time.Sunday || weekStart > time.Saturday {
		return shared.NewDomainError("INVALID_WEEK_START", "Week start day must be 0 (Sunday) to 6 (Saturday)")
	}
	c.Currency = currency
	c.WorkingHoursPerDay = hoursPerDay.Round(2)
	c.WeekStartDay = weekStart
	c.DefaultKanbanLineID = kanbanLineID
	c.MarkModified()
	return nil
}

// WeekStart returns the first day of the week containing day
func (c *CompanySettings) WeekStart(day time.Time) time.Time {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	offset := (int(day.Weekday()) - int(c.WeekStartDay) + 7) % 7
	return day.AddDate(0, 0, -offset)
}
