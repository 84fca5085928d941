package planning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActivity(t *testing.T, name string) *Activity {
	t.Helper()
	a, err := NewActivity(uuid.New(), uuid.New(), name)
	require.NoError(t, err)
	return a
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewActivity(t *testing.T) {
	a := newTestActivity(t, "  Design schema ")
	assert.Equal(t, "Design schema", a.Name)
	assert.Equal(t, PriorityMedium, a.Priority)
	assert.True(t, a.EstimatedCost.IsZero())
	require.Len(t, a.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeActivityCreated, a.GetDomainEvents()[0].EventType())

	_, err := NewActivity(uuid.New(), uuid.Nil, "x")
	assert.Error(t, err)
	_, err = NewActivity(uuid.New(), uuid.New(), " ")
	assert.Error(t, err)
}

func TestActivity_Setters(t *testing.T) {
	a := newTestActivity(t, "Task")

	assert.Error(t, a.SetPriority("urgent"))
	require.NoError(t, a.SetPriority(PriorityCritical))

	start, due := date(2026, 3, 10), date(2026, 3, 1)
	assert.Error(t, a.SetSchedule(&start, &due))

	assert.Error(t, a.SetProgress(101))
	assert.Error(t, a.SetProgress(-1))
	require.NoError(t, a.SetProgress(40))

	assert.Error(t, a.SetEffort(decimal.NewFromInt(-1), decimal.Zero, decimal.Zero))
	assert.Error(t, a.SetStoryPoints(-3))
}

func TestActivity_Completion(t *testing.T) {
	final := uuid.New()
	finals := FinalStatuses{final: true}

	t.Run("progress 100", func(t *testing.T) {
		a := newTestActivity(t, "Task")
		require.NoError(t, a.SetProgress(100))
		assert.True(t, a.IsCompleted(nil))
	})

	t.Run("completion date", func(t *testing.T) {
		a := newTestActivity(t, "Task")
		now := time.Now()
		a.CompletionDate = &now
		assert.True(t, a.IsCompleted(nil))
	})

	t.Run("final status", func(t *testing.T) {
		a := newTestActivity(t, "Task")
		a.ApplyStatus(final)
		assert.True(t, a.IsCompleted(finals))
		assert.False(t, a.IsCompleted(FinalStatuses{}))
	})

	t.Run("change into final status completes", func(t *testing.T) {
		a := newTestActivity(t, "Task")
		a.ClearDomainEvents()
		a.ChangeStatus(final, true)

		assert.Equal(t, 100, a.Progress)
		assert.NotNil(t, a.CompletionDate)
		require.Len(t, a.GetDomainEvents(), 1)
		evt := a.GetDomainEvents()[0].(*ActivityStatusChangedEvent)
		assert.Nil(t, evt.OldStatusID)
		assert.Equal(t, final, evt.NewStatusID)
		assert.True(t, evt.IsFinal)
	})
}

func TestActivity_IsOverdue(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

	a := newTestActivity(t, "Task")
	assert.False(t, a.IsOverdue(now, nil), "no due date")

	due := date(2026, 5, 10)
	require.NoError(t, a.SetSchedule(nil, &due))
	assert.False(t, a.IsOverdue(now, nil), "due today is not overdue")

	due = date(2026, 5, 9)
	require.NoError(t, a.SetSchedule(nil, &due))
	assert.True(t, a.IsOverdue(now, nil))

	require.NoError(t, a.SetProgress(100))
	assert.False(t, a.IsOverdue(now, nil), "completed activities are never overdue")
}

func TestActivity_Variance(t *testing.T) {
	a := newTestActivity(t, "Task")
	require.NoError(t, a.SetCosts(decimal.NewFromInt(1000), decimal.RequireFromString("1250.50"), decimal.NewFromInt(50)))
	require.NoError(t, a.SetEffort(decimal.NewFromInt(20), decimal.NewFromInt(18), decimal.NewFromInt(2)))

	assert.True(t, a.CostVariance().Equal(decimal.RequireFromString("250.50")))
	assert.True(t, a.TimeVariance().Equal(decimal.NewFromInt(-2)))
}

func TestActivity_SetParent(t *testing.T) {
	ctx := context.Background()
	root := newTestActivity(t, "Root")
	mid := newTestActivity(t, "Mid")
	leaf := newTestActivity(t, "Leaf")

	parents := map[uuid.UUID]*uuid.UUID{
		root.ID: nil,
		mid.ID:  &root.ID,
		leaf.ID: &mid.ID,
	}
	lookup := func(_ context.Context, id uuid.UUID) (*uuid.UUID, error) {
		return parents[id], nil
	}

	t.Run("rejects self", func(t *testing.T) {
		err := root.SetParent(ctx, &root.ID, lookup)
		assert.Contains(t, err.Error(), "own parent")
	})

	t.Run("rejects cycle through ancestors", func(t *testing.T) {
		err := root.SetParent(ctx, &leaf.ID, lookup)
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("accepts valid parent", func(t *testing.T) {
		other := newTestActivity(t, "Other")
		require.NoError(t, other.SetParent(ctx, &leaf.ID, lookup))
		assert.Equal(t, leaf.ID, *other.ParentID)
	})

	t.Run("clears parent", func(t *testing.T) {
		require.NoError(t, leaf.SetParent(ctx, nil, lookup))
		assert.Nil(t, leaf.ParentID)
	})

	t.Run("propagates lookup errors", func(t *testing.T) {
		failing := func(context.Context, uuid.UUID) (*uuid.UUID, error) {
			return nil, errors.New("db down")
		}
		err := mid.SetParent(ctx, &root.ID, failing)
		assert.EqualError(t, err, "db down")
	})
}

func TestMeeting(t *testing.T) {
	m, err := NewMeeting(uuid.New(), uuid.New(), "Kickoff")
	require.NoError(t, err)

	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	assert.Error(t, m.Schedule(&start, &end))

	end = start.Add(time.Hour)
	require.NoError(t, m.Schedule(&start, &end))

	a, b := uuid.New(), uuid.New()
	m.SetAttendees([]uuid.UUID{a, b, a, uuid.Nil})
	assert.Equal(t, []uuid.UUID{a, b}, m.AttendeeIDs)

	status := uuid.New()
	m.ChangeStatus(status)
	assert.Equal(t, status, *m.CurrentStatus())
}
