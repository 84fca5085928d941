// Package housekeeping runs the nightly per-company jobs queued by the
// scheduler: overdue scans, sprint velocity and the monthly cost snapshot.
package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OverdueActivities lists activities past their due date
type OverdueActivities interface {
	Overdue(ctx context.Context, tenantID uuid.UUID) ([]planning.Activity, error)
}

// OverdueInvoices lists unpaid invoices past their due date
type OverdueInvoices interface {
	Overdue(ctx context.Context, tenantID uuid.UUID) ([]finance.Invoice, error)
}

// VelocityRecalculator refreshes the velocity of every sprint of a company
type VelocityRecalculator interface {
	RecalculateAll(ctx context.Context, tenantID uuid.UUID) (int, error)
}

// ActiveProjectLister lists the projects that are not archived
type ActiveProjectLister interface {
	FindAllActive(ctx context.Context, tenantID uuid.UUID) ([]project.Project, error)
}

// SnapshotRenderer renders the cost summary of a project for a month
type SnapshotRenderer interface {
	MonthlySnapshot(ctx context.Context, tenantID, projectID uuid.UUID, day time.Time) (string, error)
}

// Metrics receives the figures each job computes
type Metrics interface {
	RecordOverdue(ctx context.Context, tenantID, kind string, count int64)
	RecordSprintsRecalculated(ctx context.Context, tenantID string, count int64)
	RecordJob(ctx context.Context, jobType string, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordOverdue(context.Context, string, string, int64)    {}
func (noopMetrics) RecordSprintsRecalculated(context.Context, string, int64) {}
func (noopMetrics) RecordJob(context.Context, string, error)                 {}

// Executor implements scheduler.JobExecutor
type Executor struct {
	activities OverdueActivities
	invoices   OverdueInvoices
	sprints    VelocityRecalculator
	projects   ActiveProjectLister
	snapshots  SnapshotRenderer
	events     shared.EventPublisher
	metrics    Metrics
	logger     *zap.Logger
}

// NewExecutor creates the housekeeping job executor
func NewExecutor(
	activities OverdueActivities,
	invoices OverdueInvoices,
	sprints VelocityRecalculator,
	projects ActiveProjectLister,
	snapshots SnapshotRenderer,
	events shared.EventPublisher,
	logger *zap.Logger,
) *Executor {
	return &Executor{
		activities: activities,
		invoices:   invoices,
		sprints:    sprints,
		projects:   projects,
		snapshots:  snapshots,
		events:     events,
		metrics:    noopMetrics{},
		logger:     logger,
	}
}

// SetMetrics sets the collector for job figures
func (e *Executor) SetMetrics(m Metrics) {
	if m != nil {
		e.metrics = m
	}
}

var _ scheduler.JobExecutor = (*Executor)(nil)

// Execute implements scheduler.JobExecutor
func (e *Executor) Execute(ctx context.Context, job *scheduler.Job) error {
	if job.TenantID == uuid.Nil {
		return fmt.Errorf("job %s has no company", job.ID)
	}

	var err error
	switch job.Type {
	case scheduler.JobTypeOverdueScan:
		err = e.scanOverdue(ctx, job.TenantID)
	case scheduler.JobTypeSprintVelocity:
		err = e.recalculateVelocity(ctx, job.TenantID)
	case scheduler.JobTypeFinancialSnapshot:
		err = e.snapshotFinancials(ctx, job.TenantID, job.RunDate)
	default:
		return scheduler.ErrInvalidJobType
	}
	e.metrics.RecordJob(ctx, string(job.Type), err)
	return err
}

func (e *Executor) scanOverdue(ctx context.Context, tenantID uuid.UUID) error {
	activities, err := e.activities.Overdue(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("overdue activities: %w", err)
	}
	invoices, err := e.invoices.Overdue(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("overdue invoices: %w", err)
	}

	events := make([]shared.DomainEvent, 0, len(activities)+len(invoices))
	for i := range activities {
		events = append(events, planning.NewActivityOverdueEvent(&activities[i]))
	}
	for i := range invoices {
		events = append(events, finance.NewInvoiceOverdueEvent(&invoices[i]))
	}
	if len(events) > 0 && e.events != nil {
		if err := e.events.Publish(ctx, events...); err != nil {
			return fmt.Errorf("publish overdue events: %w", err)
		}
	}

	e.metrics.RecordOverdue(ctx, tenantID.String(), "activity", int64(len(activities)))
	e.metrics.RecordOverdue(ctx, tenantID.String(), "invoice", int64(len(invoices)))
	e.logger.Info("Overdue scan finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("activities", len(activities)),
		zap.Int("invoices", len(invoices)),
	)
	return nil
}

func (e *Executor) recalculateVelocity(ctx context.Context, tenantID uuid.UUID) error {
	n, err := e.sprints.RecalculateAll(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("sprint velocity: %w", err)
	}
	e.metrics.RecordSprintsRecalculated(ctx, tenantID.String(), int64(n))
	e.logger.Info("Sprint velocity recalculated",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("sprints", n),
	)
	return nil
}

// snapshotFinancials logs the month-to-date cost summary of every active
// project. A failing project does not stop the others.
func (e *Executor) snapshotFinancials(ctx context.Context, tenantID uuid.UUID, day time.Time) error {
	projects, err := e.projects.FindAllActive(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("active projects: %w", err)
	}

	var failed int
	for _, p := range projects {
		report, err := e.snapshots.MonthlySnapshot(ctx, tenantID, p.ID, day)
		if err != nil {
			failed++
			e.logger.Warn("Financial snapshot failed",
				zap.String("project_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		e.logger.Info("Financial snapshot",
			zap.String("tenant_id", tenantID.String()),
			zap.String("project", p.Code),
			zap.String("month", day.Format("2006-01")),
			zap.String("summary", report),
		)
	}
	if failed > 0 && failed == len(projects) {
		return fmt.Errorf("financial snapshot failed for all %d projects", failed)
	}
	return nil
}
