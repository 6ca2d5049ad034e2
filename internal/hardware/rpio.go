package hardware

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// pwmCycleLength is the PWM cycle used to synthesize the passive
// buzzer tone; a half duty cycle gives a square wave at the configured
// frequency.
const pwmCycleLength = 32

// Board owns the memory-mapped GPIO range. Open it once at startup and
// close it on shutdown; outputs and buzzers are created from it.
type Board struct{}

// OpenBoard maps the GPIO registers.
func OpenBoard() (*Board, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}

	return &Board{}, nil
}

// Close unmaps the GPIO registers.
func (b *Board) Close() error {
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("close gpio: %w", err)
	}

	return nil
}

// Output configures the pin for output, drives it low and returns it
// as a named Output.
func (b *Board) Output(name string, pin uint8) *PinOutput {
	p := rpio.Pin(pin)
	p.Output()
	p.Low()

	return &PinOutput{name: name, pin: p}
}

// ActiveBuzzer returns a buzzer driven by a plain high/low level.
func (b *Board) ActiveBuzzer(pin uint8) *ActiveBuzzer {
	p := rpio.Pin(pin)
	p.Output()
	p.Low()

	return &ActiveBuzzer{pin: p}
}

// PassiveBuzzer returns a buzzer driven by a PWM tone at the given
// frequency.
func (b *Board) PassiveBuzzer(pin uint8, toneHz int) *PassiveBuzzer {
	p := rpio.Pin(pin)
	p.Pwm()
	p.Freq(toneHz * pwmCycleLength)
	p.DutyCycle(0, pwmCycleLength)

	return &PassiveBuzzer{pin: p}
}

// PinOutput drives one GPIO pin as a digital output.
type PinOutput struct {
	name string
	pin  rpio.Pin
	on   bool
}

var _ Output = (*PinOutput)(nil)

// Name implements Output.
func (o *PinOutput) Name() string { return o.name }

// Set implements Output.
func (o *PinOutput) Set(on bool) {
	o.on = on
	if on {
		o.pin.High()
	} else {
		o.pin.Low()
	}
}

// Get implements Output.
func (o *PinOutput) Get() bool { return o.on }

// ActiveBuzzer rings an active buzzer by holding its pin high.
type ActiveBuzzer struct {
	pin rpio.Pin
}

var _ Buzzer = (*ActiveBuzzer)(nil)

// Engage implements Buzzer.
func (a *ActiveBuzzer) Engage() { a.pin.High() }

// Disengage implements Buzzer.
func (a *ActiveBuzzer) Disengage() { a.pin.Low() }

// PassiveBuzzer rings a passive buzzer with a PWM square wave.
type PassiveBuzzer struct {
	pin rpio.Pin
}

var _ Buzzer = (*PassiveBuzzer)(nil)

// Engage implements Buzzer.
func (p *PassiveBuzzer) Engage() { p.pin.DutyCycle(pwmCycleLength/2, pwmCycleLength) }

// Disengage implements Buzzer.
func (p *PassiveBuzzer) Disengage() { p.pin.DutyCycle(0, pwmCycleLength) }
