// Package schedule contains the core domain types for the controller:
// the daily alarm set (HH:MM entries with validation, ordering and the
// persisted CSV form), the one-shot countdown timer and the buzzer
// activation window.
//
// All types are pure values with no I/O; the service layer owns when
// they advance and what their transitions actuate.
package schedule
