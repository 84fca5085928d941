package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	p, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	return config.RedisConfig{Enabled: true, Host: host, Port: p}
}

func TestRedisIdempotencyStore(t *testing.T) {
	cfg := startRedis(t)
	ctx := context.Background()

	client, err := NewRedisClient(ctx, cfg)
	require.NoError(t, err)
	defer client.Close()

	store := NewIdempotencyStore(client, zap.NewNop())
	_, ok := store.(*RedisIdempotencyStore)
	require.True(t, ok)

	isNew, err := store.MarkProcessed(ctx, "sprint-velocity-42", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "sprint-velocity-42", time.Minute)
	require.NoError(t, err)
	assert.False(t, isNew)

	processed, err := store.IsProcessed(ctx, "sprint-velocity-42")
	require.NoError(t, err)
	assert.True(t, processed)

	ttl, err := client.TTL(ctx, KeyPrefix+"event:processed:sprint-velocity-42").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestNewRedisClient_Disabled(t *testing.T) {
	client, err := NewRedisClient(context.Background(), config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, client)
}
