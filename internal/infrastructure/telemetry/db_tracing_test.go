package telemetry

import (
	"context"
	"testing"

	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	return db
}

func TestInstrumentDB_DisabledIsNoop(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, InstrumentDB(db, config.TelemetryConfig{DBTraceEnabled: false}, zap.NewNop()))
	assert.Nil(t, db.Callback().Query().Get("derbent:slow_query_query"))
}

func TestInstrumentDB_RegistersCallbacks(t *testing.T) {
	db := openSQLite(t)
	cfg := config.TelemetryConfig{DBTraceEnabled: true}
	require.NoError(t, InstrumentDB(db, cfg, zap.NewNop()))

	assert.NotNil(t, db.Callback().Query().Get("derbent:slow_query_query"))
	assert.NotNil(t, db.Callback().Create().Get("derbent:query_start_create"))
}

func TestSlowQueryIsLogged(t *testing.T) {
	db := openSQLite(t)
	// A nanosecond threshold makes every query slow
	require.NoError(t, registerSlowQueryCallbacks(db, 1))

	core, logs := observer.New(zap.WarnLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))

	var n int
	require.NoError(t, db.WithContext(ctx).Raw("SELECT 1").Scan(&n).Error)

	entries := logs.FilterMessage("Slow query").All()
	require.NotEmpty(t, entries)
}
