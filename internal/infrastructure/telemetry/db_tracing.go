package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQuery = 200 * time.Millisecond

type queryStartKey struct{}

// InstrumentDB adds otelgorm spans to db plus a callback that flags slow
// queries on the span and in the log. Query variables stay out of spans
// unless DBLogFullSQL is set.
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, log *zap.Logger) error {
	if !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = defaultSlowQuery
	}
	if err := registerSlowQueryCallbacks(db, threshold); err != nil {
		return err
	}

	log.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markQuery(tx, threshold) }

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("derbent:query_start_create", before),
		cb.Query().Before("gorm:query").Register("derbent:query_start_query", before),
		cb.Update().Before("gorm:update").Register("derbent:query_start_update", before),
		cb.Delete().Before("gorm:delete").Register("derbent:query_start_delete", before),
		cb.Row().Before("gorm:row").Register("derbent:query_start_row", before),
		cb.Raw().Before("gorm:raw").Register("derbent:query_start_raw", before),
		cb.Create().After("gorm:create").Register("derbent:slow_query_create", after),
		cb.Query().After("gorm:query").Register("derbent:slow_query_query", after),
		cb.Update().After("gorm:update").Register("derbent:slow_query_update", after),
		cb.Delete().After("gorm:delete").Register("derbent:slow_query_delete", after),
		cb.Row().After("gorm:row").Register("derbent:slow_query_row", after),
		cb.Raw().After("gorm:raw").Register("derbent:slow_query_raw", after),
	)
}

// markQuery annotates the current span and logs queries over threshold
func markQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
		if tx.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
		}
		if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, tx.Error.Error())
		}
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed <= threshold {
		return
	}

	if span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
	logger.L(ctx).Warn("Slow query",
		zap.String("table", tx.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Duration("threshold", threshold),
	)
}
