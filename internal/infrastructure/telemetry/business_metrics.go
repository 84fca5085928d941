package telemetry

import (
	"context"

	"github.com/derbent/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	attrEventType     = attribute.Key("event_type")
	attrAggregateType = attribute.Key("aggregate_type")
	attrTenantID      = attribute.Key("tenant_id")
	attrKind          = attribute.Key("kind")
	attrJobType       = attribute.Key("job_type")
	attrOutcome       = attribute.Key("outcome")
)

// BusinessMetrics counts domain events as they pass the event bus and
// records the figures housekeeping computes. Subscribe it to the bus with
// no event types to receive everything.
type BusinessMetrics struct {
	domainEvents metric.Int64Counter
	overdue      metric.Int64Gauge
	sprints      metric.Int64Gauge
	jobs         metric.Int64Counter
}

// NewBusinessMetrics registers the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		bm  BusinessMetrics
		err error
	)

	bm.domainEvents, err = meter.Int64Counter("derbent_domain_events_total",
		metric.WithDescription("Domain events published"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return nil, err
	}

	bm.overdue, err = meter.Int64Gauge("derbent_overdue_items",
		metric.WithDescription("Open items past their due date at the last scan"),
		metric.WithUnit("{items}"),
	)
	if err != nil {
		return nil, err
	}

	bm.sprints, err = meter.Int64Gauge("derbent_sprints_recalculated",
		metric.WithDescription("Sprints whose velocity was refreshed at the last run"),
		metric.WithUnit("{sprints}"),
	)
	if err != nil {
		return nil, err
	}

	bm.jobs, err = meter.Int64Counter("derbent_housekeeping_jobs_total",
		metric.WithDescription("Housekeeping jobs run"),
		metric.WithUnit("{jobs}"),
	)
	if err != nil {
		return nil, err
	}

	return &bm, nil
}

// Name identifies the handler in bus logs
func (bm *BusinessMetrics) Name() string { return "business-metrics" }

// EventTypes is empty: the handler counts every event
func (bm *BusinessMetrics) EventTypes() []string { return nil }

// Handle counts one published event
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	bm.domainEvents.Add(ctx, 1, metric.WithAttributes(
		attrEventType.String(event.EventType()),
		attrAggregateType.String(event.AggregateType()),
	))
	return nil
}

// RecordOverdue records how many items of kind (activity, invoice) were
// overdue for a company.
func (bm *BusinessMetrics) RecordOverdue(ctx context.Context, tenantID, kind string, count int64) {
	bm.overdue.Record(ctx, count, metric.WithAttributes(
		attrTenantID.String(tenantID),
		attrKind.String(kind),
	))
}

// RecordSprintsRecalculated records how many sprints of a company had
// their velocity refreshed
func (bm *BusinessMetrics) RecordSprintsRecalculated(ctx context.Context, tenantID string, count int64) {
	bm.sprints.Record(ctx, count, metric.WithAttributes(attrTenantID.String(tenantID)))
}

// RecordJob counts a finished housekeeping job
func (bm *BusinessMetrics) RecordJob(ctx context.Context, jobType string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	bm.jobs.Add(ctx, 1, metric.WithAttributes(
		attrJobType.String(jobType),
		attrOutcome.String(outcome),
	))
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
