package input

import (
	"math"
	"time"
)

// Defaults for click sequence detection.
const (
	DefaultClickTime     = 400 * time.Millisecond
	DefaultClickDistance = 1
)

// ClickTracker counts consecutive clicks for double and triple click
// detection.
type ClickTracker struct {
	maxTime     time.Duration
	maxDistance float64

	lastPos   Position
	lastTime  time.Time
	lastCount int
}

// NewClickTracker creates a tracker. Clicks further apart than maxTime or
// maxDistance (Manhattan) start a new sequence.
func NewClickTracker(maxTime time.Duration, maxDistance float64) *ClickTracker {
	return &ClickTracker{maxTime: maxTime, maxDistance: maxDistance}
}

// Record records a click and returns the click count (1, 2, or 3).
// The count wraps back to 1 after 3.
func (t *ClickTracker) Record(pos Position, at time.Time) int {
	if at.IsZero() {
		at = time.Now()
	}
	if t.inSequence(pos, at) {
		t.lastCount++
		if t.lastCount > 3 {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}
	t.lastPos = pos
	t.lastTime = at
	return t.lastCount
}

func (t *ClickTracker) inSequence(pos Position, at time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}
	// Negative elapsed time means clock skew: start over.
	elapsed := at.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}
	dist := math.Abs(pos.X-t.lastPos.X) + math.Abs(pos.Y-t.lastPos.Y)
	return dist <= t.maxDistance
}

// Reset clears the click history.
func (t *ClickTracker) Reset() {
	t.lastCount = 0
	t.lastTime = time.Time{}
	t.lastPos = Position{}
}
