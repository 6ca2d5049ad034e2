package clock

// Clock supplies time to the scheduling engine.
type Clock interface {
	// MonotonicMillis returns an elapsed-time counter in milliseconds.
	// It is monotonically non-decreasing and wraps only on overflow;
	// consumers compare instants via unsigned-difference arithmetic.
	MonotonicMillis() uint64

	// WallClock returns the synchronized time of day. ok is false until
	// time synchronization completes; callers skip alarm matching while
	// the wall clock is unavailable.
	WallClock() (hour, minute int, ok bool)
}
