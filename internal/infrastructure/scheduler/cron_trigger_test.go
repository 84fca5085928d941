package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTenantProvider struct{ mock.Mock }

func (m *mockTenantProvider) ActiveCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if ids := args.Get(0); ids != nil {
		return ids.([]uuid.UUID), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestParseSchedule(t *testing.T) {
	from := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{"default", "", time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)},
		{"half past three", "30 3 * * *", time.Date(2026, 3, 10, 3, 30, 0, 0, time.UTC)},
		{"already passed today", "0 0 * * *", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"descriptor", "@daily", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := ParseSchedule(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, schedule.Next(from))
		})
	}
}

func TestParseSchedule_Invalid(t *testing.T) {
	_, err := ParseSchedule("every night")
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestNewCronTrigger_InvalidSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.DailyCronSchedule = "61 * * * *"
	_, err := NewCronTrigger(cfg, newRecordingExecutor(), &mockTenantProvider{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestCronTrigger_RunDaily(t *testing.T) {
	companies := []uuid.UUID{uuid.New(), uuid.New()}
	provider := &mockTenantProvider{}
	provider.On("ActiveCompanyIDs", mock.Anything).Return(companies, nil)

	executor := newRecordingExecutor()
	trigger, err := NewCronTrigger(testConfig(), executor, provider, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop(context.Background())

	trigger.runDaily(context.Background())

	assert.Eventually(t, func() bool { return executor.count() == 6 }, time.Second, 5*time.Millisecond)
	status := trigger.Status()
	assert.True(t, status.Running)
	assert.NotNil(t, status.LastRunAt)
	assert.NotNil(t, status.NextRunAt)
	provider.AssertExpectations(t)
}

func TestCronTrigger_ProviderError(t *testing.T) {
	provider := &mockTenantProvider{}
	provider.On("ActiveCompanyIDs", mock.Anything).Return(nil, errors.New("db down"))

	executor := newRecordingExecutor()
	trigger, err := NewCronTrigger(testConfig(), executor, provider, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop(context.Background())

	trigger.runDaily(context.Background())
	assert.Zero(t, executor.count())
}

func TestCronTrigger_FiresOnSchedule(t *testing.T) {
	provider := &mockTenantProvider{}
	provider.On("ActiveCompanyIDs", mock.Anything).Return([]uuid.UUID{uuid.New()}, nil)

	executor := newRecordingExecutor()
	trigger, err := NewCronTrigger(testConfig(), executor, provider, zap.NewNop())
	require.NoError(t, err)

	// Pretend it is one millisecond before the 02:00 run
	base := time.Date(2026, 3, 10, 1, 59, 59, 999_000_000, time.UTC)
	started := time.Now()
	trigger.now = func() time.Time { return base.Add(time.Since(started)) }

	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop(context.Background())

	assert.Eventually(t, func() bool { return executor.count() == 3 }, time.Second, 5*time.Millisecond)
}

func TestCronTrigger_ManualTriggersRequireRunning(t *testing.T) {
	trigger, err := NewCronTrigger(testConfig(), newRecordingExecutor(), &mockTenantProvider{}, zap.NewNop())
	require.NoError(t, err)

	assert.ErrorIs(t, trigger.TriggerNow(context.Background()), ErrSchedulerNotRunning)
	assert.ErrorIs(t, trigger.TriggerCompany(uuid.New(), ""), ErrSchedulerNotRunning)
	assert.False(t, trigger.Status().Running)
}

func TestCronTrigger_TriggerCompany(t *testing.T) {
	executor := newRecordingExecutor()
	trigger, err := NewCronTrigger(testConfig(), executor, &mockTenantProvider{}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop(context.Background())

	require.NoError(t, trigger.TriggerCompany(uuid.New(), JobTypeOverdueScan))
	assert.Eventually(t, func() bool { return executor.count() == 1 }, time.Second, 5*time.Millisecond)
}
