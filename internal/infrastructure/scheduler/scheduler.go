// Package scheduler runs the nightly housekeeping jobs on a small worker
// pool. Failed jobs are re-queued with exponential backoff.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSchedulerNotRunning = errors.New("scheduler: not running")
	ErrJobQueueFull        = errors.New("scheduler: job queue full")
	ErrInvalidJobType      = errors.New("scheduler: unknown job type")
	ErrInvalidSchedule     = errors.New("scheduler: invalid cron schedule")
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobType names a housekeeping job
type JobType string

const (
	JobTypeOverdueScan       JobType = "OVERDUE_SCAN"
	JobTypeSprintVelocity    JobType = "SPRINT_VELOCITY"
	JobTypeFinancialSnapshot JobType = "FINANCIAL_SNAPSHOT"
)

// AllJobTypes returns the jobs run for every company each night
func AllJobTypes() []JobType {
	return []JobType{
		JobTypeOverdueScan,
		JobTypeSprintVelocity,
		JobTypeFinancialSnapshot,
	}
}

// Job is one housekeeping run for one company
type Job struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Type        JobType
	RunDate     time.Time
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a pending job
func NewJob(tenantID uuid.UUID, jobType JobType, runDate time.Time, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Type:       jobType,
		RunDate:    runDate,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job failed and has retries left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// JobExecutor runs a single housekeeping job
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// Stats counts finished jobs since start
type Stats struct {
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Retried   int64 `json:"retried"`
}

const queueSize = 100

// Scheduler executes submitted jobs on a fixed pool of workers
type Scheduler struct {
	config   config.SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	retries   sync.WaitGroup

	succeeded atomic.Int64
	failed    atomic.Int64
	retried   atomic.Int64
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg config.SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   cfg,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, queueSize),
	}
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	workers := max(s.config.MaxConcurrentJobs, 1)
	for i := range workers {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Housekeeping scheduler started",
		zap.Int("workers", workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers to exit
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.retries.Wait()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Housekeeping scheduler stopped",
			zap.Int64("succeeded", s.succeeded.Load()),
			zap.Int64("failed", s.failed.Load()),
		)
		return nil
	case <-ctx.Done():
		s.logger.Warn("Housekeeping scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the worker pool accepts jobs
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// SubmitJob queues a job without blocking
func (s *Scheduler) SubmitJob(job *Job) error {
	if !s.IsRunning() {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// Stats returns a snapshot of the job counters
func (s *Scheduler) Stats() Stats {
	return Stats{
		Succeeded: s.succeeded.Load(),
		Failed:    s.failed.Load(),
		Retried:   s.retried.Load(),
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.Start()
	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.String("tenant_id", job.TenantID.String()),
	)
	log.Info("Processing job")

	jobCtx := ctx
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	if err := s.executor.Execute(jobCtx, job); err != nil {
		job.Fail(err.Error())
		log.Error("Job failed", zap.Int("retry_count", job.RetryCount), zap.Error(err))

		if !job.ShouldRetry() {
			s.failed.Add(1)
			return
		}
		s.scheduleRetry(ctx, job, log)
		return
	}

	job.Complete()
	s.succeeded.Add(1)
	log.Info("Job completed")
}

// scheduleRetry re-submits the job after the backoff delay for its attempt
func (s *Scheduler) scheduleRetry(ctx context.Context, job *Job, log *zap.Logger) {
	delay := s.retryDelay(job.RetryCount)
	job.RetryCount++
	job.Status = JobStatusPending
	s.retried.Add(1)

	log.Info("Job scheduled for retry",
		zap.Int("retry_count", job.RetryCount),
		zap.Int("max_retries", job.MaxRetries),
		zap.Duration("delay", delay),
	)

	s.retries.Add(1)
	go func() {
		defer s.retries.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if err := s.SubmitJob(job); err != nil {
			s.failed.Add(1)
			log.Warn("Failed to re-queue job for retry", zap.Error(err))
		}
	}()
}

// retryDelay returns the backoff before retry number attempt+1. The first
// retry waits RetryDelay and each later one doubles it, capped at an hour.
func (s *Scheduler) retryDelay(attempt int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.config.RetryDelay
	b.MaxInterval = time.Hour
	b.Multiplier = 2
	b.RandomizationFactor = 0

	delay := b.NextBackOff()
	for range attempt {
		delay = b.NextBackOff()
	}
	return delay
}

// ScheduleDaily submits every housekeeping job for a company
func (s *Scheduler) ScheduleDaily(tenantID uuid.UUID, runDate time.Time) error {
	for _, jobType := range AllJobTypes() {
		if err := s.Schedule(tenantID, jobType, runDate); err != nil {
			return err
		}
	}
	return nil
}

// Schedule submits a single job
func (s *Scheduler) Schedule(tenantID uuid.UUID, jobType JobType, runDate time.Time) error {
	if !jobType.IsValid() {
		return ErrInvalidJobType
	}
	return s.SubmitJob(NewJob(tenantID, jobType, runDate, s.config.RetryAttempts))
}

// IsValid reports whether t is a known job type
func (t JobType) IsValid() bool {
	for _, known := range AllJobTypes() {
		if t == known {
			return true
		}
	}
	return false
}
