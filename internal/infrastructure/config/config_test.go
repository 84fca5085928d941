package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "derbent", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "derbent", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, uint(5), cfg.Database.ConnectAttempts)
		assert.Equal(t, "derbent-attachments", cfg.Storage.Bucket)
		assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiration)
		assert.Equal(t, "0 2 * * *", cfg.Scheduler.DailyCronSchedule)
		assert.Equal(t, 30*time.Second, cfg.Report.RenderTimeout)
		assert.False(t, cfg.Seed.Enabled)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("loads values from environment variables with DERBENT prefix", func(t *testing.T) {
		t.Setenv("DERBENT_APP_PORT", "9000")
		t.Setenv("DERBENT_DATABASE_HOST", "testdb.local")
		t.Setenv("DERBENT_DATABASE_PORT", "5433")
		t.Setenv("DERBENT_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("DERBENT_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("DERBENT_STORAGE_BUCKET", "files")
		t.Setenv("DERBENT_SEED_ENABLED", "true")
		t.Setenv("DERBENT_REPORT_LOCALE", "de")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "files", cfg.Storage.Bucket)
		assert.True(t, cfg.Seed.Enabled)
		assert.Equal(t, "de", cfg.Report.Locale)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("DERBENT_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("DERBENT_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		t.Setenv("DERBENT_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("enabled storage needs credentials", func(t *testing.T) {
		t.Setenv("DERBENT_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	secure := func(t *testing.T) {
		t.Setenv("DERBENT_APP_ENV", "production")
		t.Setenv("DERBENT_JWT_SECRET", "a-very-long-production-secret-value-123")
		t.Setenv("DERBENT_DATABASE_PASSWORD", "secret")
		t.Setenv("DERBENT_DATABASE_SSLMODE", "require")
	}

	t.Run("accepts a secure production config", func(t *testing.T) {
		secure(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	tests := []struct {
		name    string
		key     string
		value   string
		message string
	}{
		{"short jwt secret", "DERBENT_JWT_SECRET", "short", "at least 32 characters"},
		{"ssl disabled", "DERBENT_DATABASE_SSLMODE", "disable", "sslmode"},
		{"wildcard cors", "DERBENT_HTTP_CORS_ALLOW_ORIGINS", "*", "cors_allow_origins"},
		{"unprotected swagger", "DERBENT_SWAGGER_ENABLED", "true", "swagger"},
		{"full sql in traces", "DERBENT_TELEMETRY_DB_LOG_FULL_SQL", "true", "db_log_full_sql"},
		{"seed without admin password", "DERBENT_SEED_ENABLED", "true", "seed.admin_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secure(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoad_SamplingRatio(t *testing.T) {
	t.Setenv("DERBENT_TELEMETRY_SAMPLING_RATIO", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampling_ratio")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "derbent",
		Password: "p@ss word",
		DBName:   "derbent",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://derbent:p%40ss%20word@db:5432/derbent?sslmode=disable", cfg.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.Addr())
}

func TestLoad_DurationsAndSlices(t *testing.T) {
	t.Setenv("DERBENT_DATABASE_CONN_MAX_LIFETIME", "90m")
	t.Setenv("DERBENT_SCHEDULER_JOB_TIMEOUT", "45s")
	t.Setenv("DERBENT_HTTP_TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxIdleTime)
	assert.Equal(t, 45*time.Second, cfg.Scheduler.JobTimeout)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.HTTP.TrustedProxies)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Setenv("DERBENT_APP_ENV", "production")
	t.Setenv("DERBENT_DATABASE_SSLMODE", "disable")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
	assert.Contains(t, err.Error(), "database.password")
	assert.Contains(t, err.Error(), "sslmode")
}
