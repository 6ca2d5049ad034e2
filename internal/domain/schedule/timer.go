package schedule

// TimerState tracks the one-shot countdown.
type TimerState struct {
	// Running reports whether a countdown is armed.
	Running bool
	// TargetMillis is the monotonic deadline while Running is true.
	TargetMillis uint64
}

const millisPerSecond = 1000

// DurationSeconds folds independent hour/minute/second fields into a
// total, clamping each to non-negative. The arithmetic is 64-bit so
// oversized inputs cannot overflow.
func DurationSeconds(hours, minutes, seconds int) uint64 {
	return uint64(clampNonNegative(hours))*3600 +
		uint64(clampNonNegative(minutes))*60 +
		uint64(clampNonNegative(seconds))
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}

	return v
}

// Arm starts the countdown ending seconds from now. A zero duration
// forces idle instead of arming (explicit cancel-on-zero policy).
func (t *TimerState) Arm(nowMillis, seconds uint64) {
	if seconds == 0 {
		t.Stop()

		return
	}

	t.Running = true
	t.TargetMillis = nowMillis + seconds*millisPerSecond
}

// Stop cancels the countdown without firing. Harmless while idle.
func (t *TimerState) Stop() {
	t.Running = false
	t.TargetMillis = 0
}

// Advance reports whether the timer fired at now. A fired timer
// collapses back to idle in the same step, so the transition is
// observed exactly once.
func (t *TimerState) Advance(nowMillis uint64) bool {
	if !t.Running || !reached(nowMillis, t.TargetMillis) {
		return false
	}

	t.Stop()

	return true
}

// RemainingSeconds reports the whole seconds left on the countdown,
// zero when idle or already due.
func (t *TimerState) RemainingSeconds(nowMillis uint64) uint64 {
	if !t.Running || reached(nowMillis, t.TargetMillis) {
		return 0
	}

	return (t.TargetMillis - nowMillis) / millisPerSecond
}

// reached compares monotonic instants via two's-complement difference
// so a wrapped counter still orders correctly.
func reached(nowMillis, targetMillis uint64) bool {
	return int64(nowMillis-targetMillis) >= 0
}
