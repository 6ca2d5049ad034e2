// Package daemon wires the controller together: configuration, the
// key-value store backend, the clock, the hardware actuators, the
// scheduling engine with its control loop and the HTTP boundary. It
// owns startup order and graceful shutdown.
package daemon
