// Package clock supplies the two time contracts the scheduling engine
// consumes: a monotonic millisecond counter for timer and buzzer
// deadlines, and a wall-clock hour/minute for alarm matching that is
// unavailable until time synchronization completes.
package clock
