// Package hardware defines the actuator contracts the scheduling
// engine drives (named digital outputs and the buzzer) together with
// two implementations: real GPIO pins via go-rpio for boards, and
// in-memory fakes for tests and pinless development hosts.
package hardware
