package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type sampleEvent struct {
	shared.BaseDomainEvent
}

func newMetricsUnderTest(t *testing.T) (*BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return bm, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestBusinessMetrics_CountsEvents(t *testing.T) {
	bm, reader := newMetricsUnderTest(t)
	ctx := context.Background()

	assert.Nil(t, bm.EventTypes())
	for range 3 {
		ev := &sampleEvent{shared.NewBaseDomainEvent("ActivityStatusChanged", "Activity", uuid.New(), uuid.New())}
		require.NoError(t, bm.Handle(ctx, ev))
	}

	metrics := collect(t, reader)
	sum, ok := metrics["derbent_domain_events_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)

	eventType, _ := sum.DataPoints[0].Attributes.Value(attrEventType)
	assert.Equal(t, "ActivityStatusChanged", eventType.AsString())
}

func TestBusinessMetrics_HousekeepingFigures(t *testing.T) {
	bm, reader := newMetricsUnderTest(t)
	ctx := context.Background()
	tenant := uuid.NewString()

	bm.RecordOverdue(ctx, tenant, "activity", 4)
	bm.RecordOverdue(ctx, tenant, "activity", 2)
	bm.RecordSprintsRecalculated(ctx, tenant, 5)
	bm.RecordJob(ctx, "OVERDUE_SCAN", nil)
	bm.RecordJob(ctx, "OVERDUE_SCAN", errors.New("boom"))

	metrics := collect(t, reader)

	overdue, ok := metrics["derbent_overdue_items"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, overdue.DataPoints, 1)
	assert.Equal(t, int64(2), overdue.DataPoints[0].Value, "gauge keeps the latest scan")

	sprints, ok := metrics["derbent_sprints_recalculated"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Equal(t, int64(5), sprints.DataPoints[0].Value)

	jobs, ok := metrics["derbent_housekeeping_jobs_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, jobs.DataPoints, 2, "success and failure are separate series")
}
