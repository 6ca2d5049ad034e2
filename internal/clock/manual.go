package clock

import "sync"

// Manual is a hand-driven clock for tests and pinless development
// hosts. The zero value starts at instant zero with the wall clock
// unavailable.
type Manual struct {
	mu        sync.Mutex
	millis    uint64
	hour      int
	minute    int
	available bool
}

var _ Clock = (*Manual)(nil)

// MonotonicMillis implements Clock.
func (m *Manual) MonotonicMillis() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.millis
}

// WallClock implements Clock.
func (m *Manual) WallClock() (int, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hour, m.minute, m.available
}

// Advance moves the monotonic counter forward.
func (m *Manual) Advance(millis uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.millis += millis
}

// SetWallClock sets the time of day and marks the wall clock available.
func (m *Manual) SetWallClock(hour, minute int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hour, m.minute = hour, minute
	m.available = true
}

// SetUnavailable marks the wall clock as not yet synchronized.
func (m *Manual) SetUnavailable() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.available = false
}
