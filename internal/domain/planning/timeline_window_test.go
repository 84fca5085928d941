package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYearWindow() *TimelineWindow {
	return NewTimelineWindow(date(2026, 1, 1), date(2026, 12, 31))
}

func TestNewTimelineWindow(t *testing.T) {
	w := newYearWindow()
	assert.Equal(t, 365, w.DurationDays())
	assert.Equal(t, ScaleQuarter, w.ResolvedScale())

	short := NewTimelineWindow(date(2026, 1, 3), date(2026, 1, 1))
	assert.Equal(t, date(2026, 1, 1), short.FullStart)
	assert.Equal(t, date(2026, 1, 7), short.FullEnd)
	assert.Equal(t, MinWindowDays, short.DurationDays())
}

func TestTimelineWindow_Apply(t *testing.T) {
	w := newYearWindow()

	t.Run("swaps inverted bounds", func(t *testing.T) {
		w.Apply(date(2026, 3, 10), date(2026, 3, 1))
		assert.Equal(t, date(2026, 3, 1), w.Start)
		assert.Equal(t, date(2026, 3, 10), w.End)
	})

	t.Run("enforces minimum duration", func(t *testing.T) {
		w.Apply(date(2026, 3, 1), date(2026, 3, 3))
		assert.Equal(t, date(2026, 3, 7), w.End)
		assert.Equal(t, MinWindowDays, w.DurationDays())

		w.Apply(date(2026, 3, 1), date(2026, 3, 1))
		assert.Equal(t, date(2026, 3, 7), w.End)
	})

	t.Run("keeps a week ending on its last day", func(t *testing.T) {
		w.Apply(date(2026, 3, 1), date(2026, 3, 7))
		assert.Equal(t, date(2026, 3, 1), w.Start)
		assert.Equal(t, date(2026, 3, 7), w.End)
		assert.Equal(t, 7, w.DurationDays())
	})

	t.Run("clamps to the full range", func(t *testing.T) {
		w.Apply(date(2026, 12, 28), date(2026, 12, 30))
		assert.Equal(t, date(2026, 12, 25), w.Start)
		assert.Equal(t, date(2026, 12, 31), w.End)

		w.Apply(date(2025, 12, 1), date(2026, 1, 10))
		assert.Equal(t, date(2026, 1, 1), w.Start)
		assert.Equal(t, date(2026, 2, 10), w.End)
		assert.Equal(t, 41, w.DurationDays())
	})
}

func TestTimelineWindow_Zoom(t *testing.T) {
	w := newYearWindow()

	w.Apply(date(2026, 3, 1), date(2026, 3, 31))
	w.ZoomIn()
	assert.Equal(t, date(2026, 3, 5), w.Start)
	assert.Equal(t, date(2026, 3, 26), w.End)
	assert.Equal(t, 22, w.DurationDays())

	w.Apply(date(2026, 3, 1), date(2026, 3, 31))
	w.ZoomOut()
	assert.Equal(t, date(2026, 2, 21), w.Start)
	assert.Equal(t, date(2026, 4, 8), w.End)
	assert.Equal(t, 47, w.DurationDays())

	w.Apply(date(2026, 3, 1), date(2026, 3, 9))
	w.ZoomIn()
	assert.Equal(t, MinWindowDays, w.DurationDays())

	w.Reset()
	w.ZoomOut()
	assert.Equal(t, date(2026, 1, 1), w.Start)
	assert.Equal(t, date(2026, 12, 31), w.End)
}

func TestTimelineWindow_Scroll(t *testing.T) {
	w := newYearWindow()

	w.Apply(date(2026, 3, 1), date(2026, 3, 31))
	w.Scroll(1)
	assert.Equal(t, date(2026, 3, 10), w.Start)
	assert.Equal(t, date(2026, 4, 9), w.End)

	w.Apply(date(2026, 1, 1), date(2026, 1, 31))
	w.Scroll(-1)
	assert.Equal(t, date(2026, 1, 1), w.Start)
	assert.Equal(t, 31, w.DurationDays())

	w.Apply(date(2026, 12, 1), date(2026, 12, 31))
	w.Scroll(1)
	assert.Equal(t, date(2026, 12, 31), w.End)
	assert.Equal(t, 31, w.DurationDays())
}

func TestTimelineWindow_Scale(t *testing.T) {
	w := NewTimelineWindow(date(2024, 1, 1), date(2026, 12, 31))
	assert.Equal(t, ScaleYear, w.ResolvedScale())

	w.Apply(date(2026, 1, 1), date(2026, 1, 31))
	assert.Equal(t, ScaleWeek, w.ResolvedScale())

	w.Apply(date(2026, 1, 1), date(2026, 2, 1))
	assert.Equal(t, ScaleMonth, w.ResolvedScale())

	w.Apply(date(2026, 1, 1), date(2026, 4, 1))
	assert.Equal(t, ScaleMonth, w.ResolvedScale())

	w.Scale = ScaleYear
	assert.Equal(t, ScaleYear, w.ResolvedScale())

	s, err := ParseScale("")
	require.NoError(t, err)
	assert.Equal(t, ScaleAuto, s)
	_, err = ParseScale("decade")
	assert.Error(t, err)
}
