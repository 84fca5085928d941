package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TenantProvider lists the companies housekeeping runs for
type TenantProvider interface {
	ActiveCompanyIDs(ctx context.Context) ([]uuid.UUID, error)
}

// DefaultSchedule runs housekeeping at 02:00 every day
const DefaultSchedule = "0 2 * * *"

// ParseSchedule parses a standard five-field cron expression. An empty
// expression means DefaultSchedule.
func ParseSchedule(expr string) (cron.Schedule, error) {
	if expr == "" {
		expr = DefaultSchedule
	}
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, expr, err)
	}
	return schedule, nil
}

// TriggerStatus describes the trigger for the admin status endpoint
type TriggerStatus struct {
	Running   bool       `json:"running"`
	Schedule  string     `json:"schedule"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
	JobTypes  []JobType  `json:"job_types"`
	Stats     Stats      `json:"stats"`
}

// CronTrigger submits the daily housekeeping jobs for every active company
// whenever the cron schedule fires.
type CronTrigger struct {
	expr           string
	schedule       cron.Schedule
	scheduler      *Scheduler
	tenantProvider TenantProvider
	logger         *zap.Logger
	now            func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewCronTrigger creates a trigger and the worker pool it feeds
func NewCronTrigger(
	cfg config.SchedulerConfig,
	executor JobExecutor,
	tenantProvider TenantProvider,
	logger *zap.Logger,
) (*CronTrigger, error) {
	expr := cfg.DailyCronSchedule
	if expr == "" {
		expr = DefaultSchedule
	}
	schedule, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}
	return &CronTrigger{
		expr:           expr,
		schedule:       schedule,
		scheduler:      NewScheduler(cfg, executor, logger),
		tenantProvider: tenantProvider,
		logger:         logger,
		now:            time.Now,
	}, nil
}

// Start starts the worker pool and the cron loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	if err := c.scheduler.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	next := c.advance()
	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Housekeeping trigger started",
		zap.String("schedule", c.expr),
		zap.Time("next_run_at", next),
	)
	return nil
}

// Stop stops the cron loop, then the worker pool
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return c.scheduler.Stop(ctx)
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		c.mu.Lock()
		wait := c.nextRunAt.Sub(c.now())
		c.mu.Unlock()

		timer := time.NewTimer(max(wait, 0))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			c.runDaily(ctx)
			c.advance()
		}
	}
}

// advance computes the next fire time from now
func (c *CronTrigger) advance() time.Time {
	next := c.schedule.Next(c.now())
	c.mu.Lock()
	c.nextRunAt = &next
	c.mu.Unlock()
	return next
}

// runDaily submits every job type for every active company
func (c *CronTrigger) runDaily(ctx context.Context) {
	now := c.now()
	c.mu.Lock()
	c.lastRunAt = &now
	c.mu.Unlock()

	companyIDs, err := c.tenantProvider.ActiveCompanyIDs(ctx)
	if err != nil {
		c.logger.Error("Failed to list companies for housekeeping", zap.Error(err))
		return
	}

	submitted := 0
	for _, companyID := range companyIDs {
		if err := c.scheduler.ScheduleDaily(companyID, now); err != nil {
			c.logger.Error("Failed to schedule housekeeping",
				zap.String("tenant_id", companyID.String()),
				zap.Error(err),
			)
			continue
		}
		submitted++
	}

	c.logger.Info("Housekeeping jobs scheduled",
		zap.Int("companies", submitted),
		zap.Int("job_types", len(AllJobTypes())),
	)
}

// TriggerNow runs the daily pass immediately. It detaches from ctx so an
// HTTP request finishing does not cancel the scan.
func (c *CronTrigger) TriggerNow(ctx context.Context) error {
	if !c.running() {
		return ErrSchedulerNotRunning
	}
	go c.runDaily(context.WithoutCancel(ctx))
	return nil
}

// TriggerCompany submits one job, or all of them when jobType is empty,
// for a single company.
func (c *CronTrigger) TriggerCompany(companyID uuid.UUID, jobType JobType) error {
	if !c.running() {
		return ErrSchedulerNotRunning
	}
	if jobType == "" {
		return c.scheduler.ScheduleDaily(companyID, c.now())
	}
	return c.scheduler.Schedule(companyID, jobType, c.now())
}

// Status returns the trigger state
func (c *CronTrigger) Status() TriggerStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TriggerStatus{
		Running:   c.isRunning,
		Schedule:  c.expr,
		LastRunAt: c.lastRunAt,
		NextRunAt: c.nextRunAt,
		JobTypes:  AllJobTypes(),
		Stats:     c.scheduler.Stats(),
	}
}

func (c *CronTrigger) running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}
