package event

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mapStore is a minimal in-process idempotency store
type mapStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMapStore() *mapStore { return &mapStore{keys: map[string]bool{}} }

func (s *mapStore) MarkProcessed(_ context.Context, id string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[id] {
		return false, nil
	}
	s.keys[id] = true
	return true, nil
}

func (s *mapStore) IsProcessed(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[id], nil
}

func (s *mapStore) Close() error { return nil }

type mockStore struct{ mock.Mock }

func (m *mockStore) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, id, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) IsProcessed(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Close() error { return nil }

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	inner := newTestHandler("E")
	h := NewIdempotentHandler(inner, newMapStore(), zap.NewNop())
	event := newTestEvent("E")

	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), newTestEvent("E")))

	assert.Equal(t, 2, inner.count())
	assert.Equal(t, IdempotencyStats{Processed: 2, Duplicate: 1}, h.Stats())
}

func TestIdempotentHandler_KeysPerHandler(t *testing.T) {
	store := newMapStore()
	first := newTestHandler("E")
	second := &namedHandler{}

	h1 := NewIdempotentHandler(first, store, zap.NewNop())
	h2 := NewIdempotentHandler(second, store, zap.NewNop())
	event := newTestEvent("E")

	require.NoError(t, h1.Handle(context.Background(), event))
	require.NoError(t, h2.Handle(context.Background(), event))

	assert.Equal(t, 1, first.count())
	assert.Equal(t, 1, second.count(), "a shared store must not hide the event from other handlers")
	for key := range store.keys {
		assert.True(t, strings.HasSuffix(key, event.EventID().String()))
	}
}

func TestIdempotentHandler_HandlerError(t *testing.T) {
	inner := newTestHandler("E")
	inner.err = errors.New("db down")
	h := NewIdempotentHandler(inner, newMapStore(), zap.NewNop())

	err := h.Handle(context.Background(), newTestEvent("E"))
	assert.EqualError(t, err, "db down")
	assert.Equal(t, int64(1), h.Stats().Failed)
}

func TestIdempotentHandler_StoreErrorStillProcesses(t *testing.T) {
	store := &mockStore{}
	store.On("MarkProcessed", mock.Anything, mock.AnythingOfType("string"), 24*time.Hour).
		Return(false, errors.New("redis unavailable"))

	inner := newTestHandler("E")
	h := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), newTestEvent("E")))
	assert.Equal(t, 1, inner.count())
	store.AssertExpectations(t)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := &mockStore{}
	inner := newTestHandler("E")
	h := NewIdempotentHandlerWithConfig(inner, store, shared.IdempotencyConfig{Enabled: false}, zap.NewNop())
	event := newTestEvent("E")

	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), event))

	assert.Equal(t, 2, inner.count())
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotentHandler_DelegatesIdentity(t *testing.T) {
	h := NewIdempotentHandler(&namedHandler{testHandler: testHandler{eventTypes: []string{"A"}}}, newMapStore(), zap.NewNop())
	assert.Equal(t, []string{"A"}, h.EventTypes())
	assert.Equal(t, "sprint-velocity", h.Name())
	assert.Equal(t, "sprint-velocity", HandlerName(h))
}
