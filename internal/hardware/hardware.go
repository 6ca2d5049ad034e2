package hardware

// Output is a named digital output (an LED in the reference wiring).
// Set must not block; the control loop calls it inline.
type Output interface {
	// Name identifies the output in status snapshots and routes.
	Name() string
	// Set drives the pin high (true) or low (false).
	Set(on bool)
	// Get reports the last driven level.
	Get() bool
}

// Buzzer drives the audible actuator. Engage turns the output on (a
// plain level for active buzzers, a tone for passive ones); Disengage
// silences it unconditionally, including any tone generator. Both must
// return immediately — the activation window is timed by the engine,
// never by the actuator.
type Buzzer interface {
	Engage()
	Disengage()
}
