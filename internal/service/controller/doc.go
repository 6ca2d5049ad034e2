// Package controller implements the scheduling engine at the heart of
// the daemon. The engine owns the alarm set, the countdown timer, the
// buzzer activation window and the output states behind a single lock,
// consumes a clock and a key-value store, and drives the hardware
// actuators. A control-loop goroutine ticks it at a fixed interval;
// the HTTP boundary mutates it through its exported operations.
package controller
