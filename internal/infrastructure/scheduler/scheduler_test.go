package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingExecutor struct {
	mu       sync.Mutex
	executed []JobType
	failures map[JobType]int
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{failures: map[JobType]int{}}
}

func (e *recordingExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, job.Type)
	if e.failures[job.Type] > 0 {
		e.failures[job.Type]--
		return errors.New("transient failure")
	}
	return nil
}

func (e *recordingExecutor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.executed)
}

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:           true,
		DailyCronSchedule: DefaultSchedule,
		MaxConcurrentJobs: 2,
		JobTimeout:        time.Second,
		RetryAttempts:     2,
		RetryDelay:        time.Millisecond,
	}
}

func startScheduler(t *testing.T, executor JobExecutor) *Scheduler {
	t.Helper()
	s := NewScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

func TestScheduler_SubmitRequiresRunning(t *testing.T) {
	s := NewScheduler(testConfig(), newRecordingExecutor(), zap.NewNop())
	err := s.SubmitJob(NewJob(uuid.New(), JobTypeOverdueScan, time.Now(), 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_ScheduleDaily(t *testing.T) {
	executor := newRecordingExecutor()
	s := startScheduler(t, executor)

	require.NoError(t, s.ScheduleDaily(uuid.New(), time.Now()))

	assert.Eventually(t, func() bool { return executor.count() == 3 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return s.Stats().Succeeded == 3 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, AllJobTypes(), executor.executed)
}

func TestScheduler_RejectsUnknownJobType(t *testing.T) {
	s := startScheduler(t, newRecordingExecutor())
	assert.ErrorIs(t, s.Schedule(uuid.New(), "VACUUM", time.Now()), ErrInvalidJobType)
}

func TestScheduler_RetriesWithBackoff(t *testing.T) {
	executor := newRecordingExecutor()
	executor.failures[JobTypeSprintVelocity] = 2
	s := startScheduler(t, executor)

	require.NoError(t, s.Schedule(uuid.New(), JobTypeSprintVelocity, time.Now()))

	assert.Eventually(t, func() bool { return s.Stats().Succeeded == 1 }, 2*time.Second, 5*time.Millisecond)
	stats := s.Stats()
	assert.Equal(t, int64(2), stats.Retried)
	assert.Equal(t, int64(0), stats.Failed)
	assert.Equal(t, 3, executor.count())
}

func TestScheduler_GivesUpAfterMaxRetries(t *testing.T) {
	executor := newRecordingExecutor()
	executor.failures[JobTypeFinancialSnapshot] = 10
	s := startScheduler(t, executor)

	require.NoError(t, s.Schedule(uuid.New(), JobTypeFinancialSnapshot, time.Now()))

	assert.Eventually(t, func() bool { return s.Stats().Failed == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, executor.count(), "one run plus two retries")
}

func TestScheduler_RetryDelayDoubles(t *testing.T) {
	cfg := testConfig()
	cfg.RetryDelay = time.Minute
	s := NewScheduler(cfg, nil, zap.NewNop())

	assert.Equal(t, time.Minute, s.retryDelay(0))
	assert.Equal(t, 2*time.Minute, s.retryDelay(1))
	assert.Equal(t, 4*time.Minute, s.retryDelay(2))
	assert.Equal(t, time.Hour, s.retryDelay(10))
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(uuid.New(), JobTypeOverdueScan, time.Now(), 1)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.True(t, job.ShouldRetry())

	job.RetryCount = 1
	assert.False(t, job.ShouldRetry())

	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.False(t, job.ShouldRetry())
}

func TestJobType_IsValid(t *testing.T) {
	for _, jt := range AllJobTypes() {
		assert.True(t, jt.IsValid())
	}
	assert.False(t, JobType("").IsValid())
}
