package settings

import (
	"testing"
	"time"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemSettings_Update(t *testing.T) {
	s := DefaultSystemSettings()
	assert.Equal(t, identity.LayoutHorizontal, s.DefaultLayoutMode)

	require.NoError(t, s.Update("Derbent PM", identity.LayoutVertical, 30, 10, true))
	assert.Equal(t, int64(10*1024*1024), s.MaxUploadBytes())
	assert.Equal(t, 30*time.Minute, s.SessionTimeout())
	assert.True(t, s.MaintenanceMode)

	assert.Error(t, s.Update("", identity.LayoutVertical, 30, 10, false))
	assert.Error(t, s.Update("X", identity.LayoutMode("grid"), 30, 10, false))
	assert.Error(t, s.Update("X", identity.LayoutVertical, 1, 10, false))
	assert.Error(t, s.Update("X", identity.LayoutVertical, 30, 0, false))
}

func TestCompanySettings_Update(t *testing.T) {
	c := DefaultCompanySettings(uuid.New())

	require.NoError(t, c.Update(" usd ", decimal.RequireFromString("7.5"), time.Sunday, nil))
	assert.Equal(t, "USD", c.Currency)
	assert.True(t, decimal.RequireFromString("7.5").Equal(c.WorkingHoursPerDay))

	assert.Error(t, c.Update("US", decimal.NewFromInt(8), time.Monday, nil))
	assert.Error(t, c.Update("EUR", decimal.Zero, time.Monday, nil))
	assert.Error(t, c.Update("EUR", decimal.NewFromInt(25), time.Monday, nil))
	assert.Error(t, c.Update("EUR", decimal.NewFromInt(8), time.Weekday(7), nil))
}

func TestCompanySettings_WeekStart(t *testing.T) {
	c := DefaultCompanySettings(uuid.New())
	wed := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), c.WeekStart(wed))

	c.WeekStartDay = time.Sunday
	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), c.WeekStart(wed))
}
