package planning

import (
	"math"
	"time"

	"github.com/derbent/backend/internal/domain/shared"
)

// MinWindowDays is the smallest visible window of the Gantt chart
const MinWindowDays = 7

const (
	zoomInFactor  = 0.7
	zoomOutFactor = 1.5
	scrollRatio   = 0.3
)

// Scale is the header granularity of the Gantt chart
type Scale string

const (
	ScaleAuto    Scale = "auto"
	ScaleWeek    Scale = "week"
	ScaleMonth   Scale = "month"
	ScaleQuarter Scale = "quarter"
	ScaleYear    Scale = "year"
)

// ParseScale accepts an empty string as auto
func ParseScale(s string) (Scale, error) {
	switch Scale(s) {
	case "", ScaleAuto:
		return ScaleAuto, nil
	case ScaleWeek, ScaleMonth, ScaleQuarter, ScaleYear:
		return Scale(s), nil
	}
	return "", shared.NewDomainError("INVALID_SCALE", "Scale must be auto, week, month, quarter or year")
}

// TimelineWindow is the visible part of the full timeline range.
// All bounds are whole days and inclusive.
type TimelineWindow struct {
	FullStart time.Time `json:"full_start"`
	FullEnd   time.Time `json:"full_end"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Scale     Scale     `json:"scale"`
}

// NewTimelineWindow shows the whole range. A range shorter than the
// minimum window is widened forward.
func NewTimelineWindow(fullStart, fullEnd time.Time) *TimelineWindow {
	fullStart, fullEnd = truncateDay(fullStart), truncateDay(fullEnd)
	if fullEnd.Before(fullStart) {
		fullStart, fullEnd = fullEnd, fullStart
	}
	if inclusiveDays(fullStart, fullEnd) < MinWindowDays {
		fullEnd = fullStart.AddDate(0, 0, MinWindowDays-1)
	}
	return &TimelineWindow{
		FullStart: fullStart,
		FullEnd:   fullEnd,
		Start:     fullStart,
		End:       fullEnd,
		Scale:     ScaleAuto,
	}
}

// DurationDays is the number of days shown, counting both bounds
func (w *TimelineWindow) DurationDays() int {
	return inclusiveDays(w.Start, w.End)
}

func (w *TimelineWindow) fullDays() int {
	return inclusiveDays(w.FullStart, w.FullEnd)
}

// Apply sets the window bounds. Inverted bounds are swapped, the minimum
// duration is enforced and the result is clamped to the full range.
func (w *TimelineWindow) Apply(start, end time.Time) {
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		start, end = end, start
	}
	duration := inclusiveDays(start, end)
	if duration < MinWindowDays {
		duration = MinWindowDays
	}
	w.place(start, duration)
}

// Zoom scales the window around its center. Factors below 1 zoom in.
func (w *TimelineWindow) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	current := w.DurationDays()
	duration := int(math.Round(float64(current) * factor))
	if duration < MinWindowDays {
		duration = MinWindowDays
	}
	if full := w.fullDays(); duration > full {
		duration = full
	}
	center := w.Start.AddDate(0, 0, current/2)
	w.place(center.AddDate(0, 0, -duration/2), duration)
}

// ZoomIn narrows the window
func (w *TimelineWindow) ZoomIn() {
	w.Zoom(zoomInFactor)
}

// ZoomOut widens the window
func (w *TimelineWindow) ZoomOut() {
	w.Zoom(zoomOutFactor)
}

// Scroll moves the window by 30% of its duration (at least one day).
// A negative direction moves back in time.
func (w *TimelineWindow) Scroll(direction int) {
	if direction == 0 {
		return
	}
	duration := w.DurationDays()
	shift := int(math.Round(float64(duration) * scrollRatio))
	if shift < 1 {
		shift = 1
	}
	if direction < 0 {
		shift = -shift
	}
	w.place(w.Start.AddDate(0, 0, shift), duration)
}

// Reset shows the full range again
func (w *TimelineWindow) Reset() {
	w.Start, w.End = w.FullStart, w.FullEnd
}

// ResolvedScale turns auto into a concrete scale based on the duration
func (w *TimelineWindow) ResolvedScale() Scale {
	if w.Scale != "" && w.Scale != ScaleAuto {
		return w.Scale
	}
	switch d := w.DurationDays(); {
	case d <= 31:
		return ScaleWeek
	case d <= 180:
		return ScaleMonth
	case d <= 730:
		return ScaleQuarter
	default:
		return ScaleYear
	}
}

// place positions a window of the given duration at start, keeping it
// inside the full range.
func (w *TimelineWindow) place(start time.Time, duration int) {
	if full := w.fullDays(); duration > full {
		duration = full
	}
	if start.Before(w.FullStart) {
		start = w.FullStart
	}
	end := start.AddDate(0, 0, duration-1)
	if end.After(w.FullEnd) {
		end = w.FullEnd
		start = end.AddDate(0, 0, 1-duration)
		if start.Before(w.FullStart) {
			start = w.FullStart
		}
	}
	w.Start, w.End = start, end
}

// inclusiveDays counts the days from start to end, both included
func inclusiveDays(start, end time.Time) int {
	return daysBetween(start, end) + 1
}

func daysBetween(start, end time.Time) int {
	// Rounding absorbs DST shifts in local time zones
	return int(math.Round(end.Sub(start).Hours() / 24))
}
