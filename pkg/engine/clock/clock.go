// Package clock provides the time sources the frame driver reads from.
package clock

import (
	"sync"
	"time"
)

// TimeProvider returns the current time. All time-stamped state in the
// canvas (blur ramps, throttles, settle delays) is evaluated against it.
type TimeProvider interface {
	Now() time.Time
}

// System provides the real system time with monotonic clock readings.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}

// Manual provides a controllable time source for tests.
type Manual struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewManual creates a manual clock with the given start time.
func NewManual(start time.Time) *Manual {
	return &Manual{currentTime: start}
}

// Now returns the current mocked time.
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Set sets the current time.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// Throttle gates a periodic step to at most once per Interval of wall-clock
// time, independent of the display refresh rate.
type Throttle struct {
	Interval time.Duration
	last     time.Time
}

// NewThrottle creates a throttle that fires on its first check.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{Interval: interval}
}

// Ready reports whether the interval has elapsed since the last firing and,
// if so, records now as the new firing time.
func (t *Throttle) Ready(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) < t.Interval {
		return false
	}
	t.last = now
	return true
}

// Reset makes the next Ready call fire.
func (t *Throttle) Reset() {
	t.last = time.Time{}
}
