// Package integration runs the HTTP API and the repositories against a real
// PostgreSQL started with testcontainers. The tests are skipped with -short.
package integration

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/derbent/backend/internal/infrastructure/migration"
	"github.com/derbent/backend/internal/infrastructure/persistence"
	"github.com/derbent/backend/migrations"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// TestDB is a migrated database shared by the tests of this package
type TestDB struct {
	*persistence.Database
	DSN string
}

// NewTestDB returns the shared database with every table emptied. The
// PostgreSQL container starts on first use and lives until the process
// exits, where the testcontainers reaper removes it.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}

	containerOnce.Do(func() {
		containerDSN, containerErr = startPostgres(context.Background())
	})
	require.NoError(t, containerErr, "failed to start PostgreSQL")

	db, err := persistence.NewDatabaseFromDialector(gormpostgres.Open(containerDSN))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tdb := &TestDB{Database: db, DSN: containerDSN}
	tdb.CleanTables(t)
	return tdb
}

func startPostgres(ctx context.Context) (string, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("derbent_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("derbent"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return "", err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", err
	}

	// The migrator closes the connection it is given
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return "", err
	}
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	if err != nil {
		return "", err
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		return "", err
	}
	return dsn, nil
}

// CleanTables truncates every application table
func (tdb *TestDB) CleanTables(t *testing.T) {
	t.Helper()

	var tables []string
	err := tdb.DB.Raw(`SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename <> 'schema_migrations'`).Scan(&tables).Error
	require.NoError(t, err)
	if len(tables) == 0 {
		return
	}
	require.NoError(t, tdb.DB.Exec("TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE").Error)
}
