package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Activity", uuid.New(), uuid.New()),
	}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	return bus
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := startedBus(t)

	statusHandler := newTestHandler("ActivityStatusChanged")
	otherHandler := newTestHandler("InvoicePaid")
	bus.Subscribe(statusHandler)
	bus.Subscribe(otherHandler)

	event := newTestEvent("ActivityStatusChanged")
	require.NoError(t, bus.Publish(context.Background(), event))

	assert.Equal(t, 1, statusHandler.count())
	assert.Equal(t, 0, otherHandler.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := startedBus(t)
	handler := newTestHandler("ActivityStatusChanged")
	bus.Subscribe(handler, "SprintCompleted")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ActivityStatusChanged")))
	assert.Equal(t, 0, handler.count())

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("SprintCompleted")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	bus := startedBus(t)

	failing := newTestHandler("E")
	failing.err = errors.New("boom")
	panicking := newTestHandler("E")
	panicking.panicWith = "kaboom"
	healthy := newTestHandler("E")

	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("E"))
	require.NoError(t, err, "publisher never sees handler errors")
	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, int64(2), bus.Failures())
}

func TestInMemoryEventBus_DropsWhenStopped(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("E")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("E")))
	assert.Equal(t, 0, handler.count())

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("E")))
	require.NoError(t, bus.Stop(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("E")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := startedBus(t)
	handler := newTestHandler("E")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("E")))
	assert.Equal(t, 0, handler.count())
}

func TestInMemoryEventBus_ConcurrentPublish(t *testing.T) {
	bus := startedBus(t)
	handler := newTestHandler("E")
	bus.Subscribe(handler)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), newTestEvent("E"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, handler.count())
}

type namedHandler struct{ testHandler }

func (*namedHandler) Name() string { return "sprint-velocity" }

func TestHandlerName(t *testing.T) {
	assert.Equal(t, "*event.testHandler", HandlerName(newTestHandler()))
	assert.Equal(t, "sprint-velocity", HandlerName(&namedHandler{}))
}
