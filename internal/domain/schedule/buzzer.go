package schedule

// BuzzerState tracks the single-slot buzzer activation window.
// The physical output is engaged iff Active is true; activating while
// already active overwrites the end of the window, there are never two
// windows tracked at once.
type BuzzerState struct {
	// Active reports whether the buzzer is currently engaged.
	Active bool
	// EndMillis is the monotonic instant the window closes.
	EndMillis uint64
}

// Activate opens (or extends) the activation window ending durationMillis
// from now.
func (b *BuzzerState) Activate(nowMillis, durationMillis uint64) {
	b.Active = true
	b.EndMillis = nowMillis + durationMillis
}

// Deactivate closes the window unconditionally.
func (b *BuzzerState) Deactivate() {
	b.Active = false
	b.EndMillis = 0
}

// Due reports whether the window has expired at now. The caller checks
// this every control-loop iteration so the buzzer self-silences without
// ever blocking the loop for the ring duration.
func (b *BuzzerState) Due(nowMillis uint64) bool {
	return b.Active && reached(nowMillis, b.EndMillis)
}
