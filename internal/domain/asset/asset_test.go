package asset

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAsset(t *testing.T) *Asset {
	t.Helper()
	a, err := NewAsset(uuid.New(), uuid.New(), "Laptop", "SN-001")
	require.NoError(t, err)
	return a
}

func TestNewAsset(t *testing.T) {
	a := newTestAsset(t)
	assert.Equal(t, StatusAvailable, a.Status)

	_, err := NewAsset(uuid.New(), uuid.Nil, "Laptop", "")
	assert.Error(t, err)
	_, err = NewAsset(uuid.New(), uuid.New(), "", "")
	assert.Error(t, err)
}

func TestAsset_Lifecycle(t *testing.T) {
	a := newTestAsset(t)
	user := uuid.New()

	assert.Error(t, a.Release())
	require.NoError(t, a.Assign(user))
	assert.Equal(t, StatusInUse, a.Status)
	assert.Equal(t, user, *a.AssignedToID)

	require.NoError(t, a.Release())
	assert.Nil(t, a.AssignedToID)

	require.NoError(t, a.SendToMaintenance())
	assert.Error(t, a.Assign(user))
	assert.Error(t, a.SendToMaintenance())
	require.NoError(t, a.ReturnFromMaintenance())

	require.NoError(t, a.Retire())
	assert.Error(t, a.Retire())
	assert.Error(t, a.Assign(user))
	assert.Error(t, a.SendToMaintenance())
}

func TestAsset_Warranty(t *testing.T) {
	a := newTestAsset(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	assert.False(t, a.IsUnderWarranty(now))

	bought := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, a.SetPurchase(&bought, decimal.NewFromInt(1500), &end))
	assert.True(t, a.IsUnderWarranty(now))
	assert.False(t, a.IsUnderWarranty(now.AddDate(0, 0, 1)))

	assert.Error(t, a.SetPurchase(&end, decimal.Zero, &bought))
	assert.Error(t, a.SetPurchase(nil, decimal.NewFromInt(-1), nil))
}
